package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"
)

// Exchange trades an authorization code for tokens, proving possession of
// the PKCE verifier.
func (c *Config) Exchange(ctx context.Context, code string, pkce *PKCE) (*oauth2.Token, error) {
	tok, err := c.OAuth2().Exchange(ctx, code, oauth2.VerifierOption(pkce.Verifier))
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return tok, nil
}

// TokenSource returns a source that refreshes tok when it expires and writes
// every refreshed token back to storage. storage may be nil.
func (c *Config) TokenSource(ctx context.Context, tok *oauth2.Token, storage *TokenStorage) oauth2.TokenSource {
	return &persistingTokenSource{
		src:     c.OAuth2().TokenSource(ctx, tok),
		storage: storage,
		last:    tok.AccessToken,
	}
}

type persistingTokenSource struct {
	src     oauth2.TokenSource
	storage *TokenStorage

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken == s.last {
		return tok, nil
	}
	s.last = tok.AccessToken
	if s.storage != nil {
		// A token that could not be saved is still good for this process.
		if err := s.storage.Save(tok); err != nil {
			slog.Warn("failed to persist refreshed token", "path", s.storage.Path(), "err", err)
		}
	}
	return tok, nil
}
