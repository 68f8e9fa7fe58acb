package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// DefaultTokenFileName is the token file name used under the user config dir.
const DefaultTokenFileName = "spotify_token.json"

// TokenStorage keeps the OAuth token in a JSON file readable only by its owner.
type TokenStorage struct {
	path string
}

// NewTokenStorage returns storage backed by path, or by
// <config dir>/spotconnect/spotify_token.json when path is empty.
func NewTokenStorage(path string) (*TokenStorage, error) {
	if path != "" {
		return &TokenStorage{path: path}, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("locate config directory: %w", err)
	}
	return &TokenStorage{path: filepath.Join(dir, "spotconnect", DefaultTokenFileName)}, nil
}

// Save writes token through a temp file and rename so a refresh racing a
// crash never leaves a truncated token behind.
func (s *TokenStorage) Save(token *oauth2.Token) error {
	if token == nil {
		return errors.New("save token: nil token")
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write token: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Load returns the stored token, or nil with no error if nothing is stored.
func (s *TokenStorage) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}

	tok := new(oauth2.Token)
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", s.path, err)
	}
	return tok, nil
}

// Delete removes the token file. A missing file is not an error.
func (s *TokenStorage) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

func (s *TokenStorage) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *TokenStorage) Path() string { return s.path }
