package application

import "scanlog/internal/domain"

// Re-export domain types for use by adapters
type (
	ScanRecord = domain.ScanRecord
	HistoryLog = domain.HistoryLog
	MergeStats = domain.MergeStats
)

const (
	// HistoryKey is the storage key holding the JSON history array
	HistoryKey = "qrScannerHistory"

	// CredentialKey is the storage key holding the plaintext access token
	CredentialKey = "scanlogCredential"
)
