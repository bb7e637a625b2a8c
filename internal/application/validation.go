package application

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "scanText" -> "scan text")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"scanText":   "scan text",
		"credential": "access token",
		"remoteURL":  "remote URL",
		"outputPath": "output path",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateCredential checks that a token is present and is a single opaque word.
func ValidateCredential(token string) error {
	if err := ValidateRequired("credential", token); err != nil {
		return err
	}
	if strings.IndexFunc(token, unicode.IsSpace) >= 0 {
		return &ValidationError{
			Field:   "credential",
			Message: "access token must not contain whitespace",
		}
	}
	return nil
}

// NormalizeScanText strips the line terminators a keyboard-wedge scanner appends
// and rejects decodes that carry no content.
func NormalizeScanText(text string) (string, error) {
	text = strings.TrimRight(text, "\r\n")
	if err := ValidateRequired("scanText", text); err != nil {
		return "", err
	}
	return text, nil
}
