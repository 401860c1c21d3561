package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendarapi "google.golang.org/api/calendar/v3"
)

const (
	credentialsFileName = "calendar-credentials.json"
	tokenFileName       = "calendar-token.json"

	authPort    = "6789"
	authTimeout = 5 * time.Minute
)

func oauthConfig(dir string) (*oauth2.Config, error) {
	path := filepath.Join(dir, credentialsFileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read client credentials %s: %w", path, err)
	}
	config, err := google.ConfigFromJSON(raw, calendarapi.CalendarEventsScope, calendarapi.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse client credentials: %w", err)
	}
	config.RedirectURL = fmt.Sprintf("http://localhost:%s/oauth2callback", authPort)
	return config, nil
}

// httpClient returns an authenticated client, running the browser
// authorization flow when no cached token exists. Refreshed tokens are
// written back to the cache.
func httpClient(ctx context.Context, dir string) (*http.Client, error) {
	config, err := oauthConfig(dir)
	if err != nil {
		return nil, err
	}

	tokenPath := filepath.Join(dir, tokenFileName)
	token, err := tokenFromFile(tokenPath)
	if err != nil {
		token, err = authorize(ctx, config)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenPath, token); err != nil {
			return nil, err
		}
	}

	source := config.TokenSource(ctx, token)
	return oauth2.NewClient(ctx, &savingTokenSource{source: source, path: tokenPath, last: token}), nil
}

// savingTokenSource persists refreshed tokens so the browser flow only ever
// runs once.
type savingTokenSource struct {
	source oauth2.TokenSource
	path   string
	last   *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		return nil, err
	}
	if s.last == nil || token.AccessToken != s.last.AccessToken {
		s.last = token
		if err := saveToken(s.path, token); err != nil {
			return nil, err
		}
	}
	return token, nil
}

// authorize runs the OAuth authorization-code flow: a local listener captures
// the redirect while the user approves access in a browser.
func authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", "localhost:"+authPort)
	if err != nil {
		return nil, fmt.Errorf("start auth listener: %w", err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "authorization code not found", http.StatusBadRequest)
				errCh <- fmt.Errorf("authorization code not found in redirect")
				return
			}
			fmt.Fprint(w, "Authentication successful. You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Open the following URL in your browser to authorize calendar access:\n%s\n", authURL)

	select {
	case code := <-codeCh:
		token, err := config.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("exchange authorization code: %w", err)
		}
		return token, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(authTimeout):
		return nil, fmt.Errorf("authorization timed out")
	}
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", path, err)
	}
	return token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("cache token %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
