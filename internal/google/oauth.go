package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrCredentialsMissing is returned when the OAuth client file does not exist.
var ErrCredentialsMissing = errors.New("google credentials file not found")

// ErrTokenMissing is returned when no user token has been stored yet.
var ErrTokenMissing = errors.New("google token file not found")

// CredentialsHelp explains how to obtain the credentials file.
func CredentialsHelp(path string) string {
	return fmt.Sprintf("Google OAuth credentials not found at %s.\n"+
		"Create an OAuth client of type \"Desktop app\" in the Google Cloud Console "+
		"(APIs & Services > Credentials), enable the Google Calendar API, and save "+
		"the downloaded JSON to that path.", path)
}

// TokenHelp explains how to create the token file.
func TokenHelp(path string) string {
	return fmt.Sprintf("Google token not found at %s. Run `schedule-mcp auth` to authorize access to Google Calendar.", path)
}

// LoadOAuthConfig reads an installed-app client file.
func LoadOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCredentialsMissing, credentialsFile)
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	conf, err := google.ConfigFromJSON(data, DefaultOAuthScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return conf, nil
}

// HasToken reports whether a token file exists at path.
func HasToken(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadToken loads a token stored by SaveToken.
func ReadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTokenMissing, path)
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	if tok.RefreshToken == "" && tok.AccessToken == "" {
		return nil, fmt.Errorf("token file %s contains no token", path)
	}
	return &tok, nil
}

// SaveToken writes tok to path with mode 0600.
func SaveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set token file permissions: %w", err)
	}
	return nil
}

// GetHTTPClient returns an HTTP client authorized with the stored token.
// Refreshed tokens are persisted back to tokenFile.
// The client uses HTTP/1.1 to avoid HTTP/2 protocol errors.
func GetHTTPClient(ctx context.Context, credentialsFile, tokenFile string, opts ...TokenSourceOption) (*http.Client, error) {
	conf, err := LoadOAuthConfig(credentialsFile)
	if err != nil {
		return nil, err
	}

	tok, err := ReadToken(tokenFile)
	if err != nil {
		return nil, err
	}

	ts := NewPersistingTokenSource(conf.TokenSource(ctx, tok), tokenFile, tok, opts...)

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: ts,
			Base: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				ForceAttemptHTTP2: false,
			},
		},
	}, nil
}
