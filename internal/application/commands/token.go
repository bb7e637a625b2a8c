package commands

import (
	"context"
	"strings"

	"scanlog/internal/application"
)

// SetTokenCommand stores the access token for the remote host
type SetTokenCommand struct {
	session *application.Session
	Token   string
}

// NewSetTokenCommand creates a new SetTokenCommand
func NewSetTokenCommand(session *application.Session, token string) *SetTokenCommand {
	return &SetTokenCommand{
		session: session,
		Token:   strings.TrimSpace(token),
	}
}

// Validate checks the token format
func (c *SetTokenCommand) Validate() error {
	return application.ValidateCredential(c.Token)
}

// Execute runs the set token command
func (c *SetTokenCommand) Execute(ctx context.Context) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if err := c.session.SetCredential(ctx, c.Token); err != nil {
		return "", err
	}
	return "Access token saved", nil
}

// MaskToken hides all but the first four characters of a token
func MaskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-4)
}
