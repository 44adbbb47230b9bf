package auth

import (
	"errors"
	"fmt"
	"os/user"

	"github.com/msteinert/pam"

	"github.com/nordlock/nordlock/internal/logging"
)

// Result represents the result of an authentication attempt
type Result struct {
	Success bool
	Message string
}

// PamAuthenticator handles PAM-based user authentication
type PamAuthenticator struct {
	serviceName string
	username    string
}

// NewPamAuthenticator creates a new PAM authenticator for the current user
func NewPamAuthenticator(serviceName string) *PamAuthenticator {
	currentUser, err := user.Current()
	username := "nobody"
	if err == nil {
		username = currentUser.Username
	}

	return &PamAuthenticator{
		serviceName: serviceName,
		username:    username,
	}
}

// Authenticate attempts to authenticate with the given password
func (a *PamAuthenticator) Authenticate(password string) Result {
	// Conversation function that answers the password prompt
	conv := func(style pam.Style, msg string) (string, error) {
		switch style {
		case pam.PromptEchoOff:
			return password, nil
		case pam.PromptEchoOn:
			// Username was already provided to the transaction
			return "", nil
		case pam.ErrorMsg:
			logging.Info("PAM error: %s", msg)
			return "", nil
		case pam.TextInfo:
			logging.Info("PAM info: %s", msg)
			return "", nil
		default:
			return "", errors.New("unexpected conversation style")
		}
	}

	t, err := pam.StartFunc(a.serviceName, a.username, conv)
	if err != nil {
		return Result{
			Success: false,
			Message: fmt.Sprintf("Failed to start PAM transaction: %v", err),
		}
	}

	err = t.Authenticate(0)
	if err != nil {
		return Result{
			Success: false,
			Message: fmt.Sprintf("Authentication failed: %v", err),
		}
	}

	err = t.AcctMgmt(0)
	if err != nil {
		return Result{
			Success: false,
			Message: fmt.Sprintf("Account validation failed: %v", err),
		}
	}

	return Result{
		Success: true,
		Message: "Authentication successful",
	}
}
