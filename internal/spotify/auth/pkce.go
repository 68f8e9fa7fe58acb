package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

// StateLength is the length of the state parameter for CSRF protection.
const StateLength = 32

// ErrStateMismatch is returned when the callback state does not match the
// one sent with the authorization request.
var ErrStateMismatch = errors.New("state mismatch in OAuth callback")

// PKCE holds the code verifier, its S256 challenge and the request state.
type PKCE struct {
	Verifier  string
	Challenge string
	State     string
}

// NewPKCE generates a new PKCE code verifier, challenge, and state.
func NewPKCE() (*PKCE, error) {
	state, err := generateRandomString(StateLength)
	if err != nil {
		return nil, err
	}

	verifier := oauth2.GenerateVerifier()
	return &PKCE{
		Verifier:  verifier,
		Challenge: oauth2.S256ChallengeFromVerifier(verifier),
		State:     state,
	}, nil
}

// CheckCallback validates a callback result against this flow and returns
// the authorization code.
func (p *PKCE) CheckCallback(result CallbackResult) (string, error) {
	if result.Error != "" {
		return "", fmt.Errorf("authorization denied: %s", result.Error)
	}
	if result.State != p.State {
		return "", ErrStateMismatch
	}
	if result.Code == "" {
		return "", errors.New("no authorization code in callback")
	}
	return result.Code, nil
}

// generateRandomString returns length URL-safe base64 characters.
func generateRandomString(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:length], nil
}
