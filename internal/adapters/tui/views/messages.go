package views

import "scanlog/internal/domain"

// SwitchToHelpMsg opens the help view
type SwitchToHelpMsg struct{}

// SwitchToScannerMsg returns to the scanner view
type SwitchToScannerMsg struct{}

// SwitchToConfirmClearMsg asks the user to confirm clearing the history
type SwitchToConfirmClearMsg struct {
	Count int
}

// ClearConfirmedMsg is sent when the user confirms the clear
type ClearConfirmedMsg struct{}

// ClearCancelledMsg is sent when the user backs out of the clear
type ClearCancelledMsg struct{}

// HistoryChangedMsg carries the log after a store mutation
type HistoryChangedMsg struct {
	History domain.HistoryLog
}

// OpenFileMsg asks the app to open an exported file
type OpenFileMsg struct {
	Path string
}

// StatusMsg reports the outcome of a background operation
type StatusMsg struct {
	Op  string
	Err error
	// Detail replaces the generic success wording when set
	Detail string
}

// BackupFinishedMsg marks the end of an upload or download
type BackupFinishedMsg struct {
	StatusMsg
}
