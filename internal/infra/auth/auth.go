// Package auth obtains an authorized HTTP client for the Google APIs using the
// OAuth2 installed-app flow with a local redirect and a token file cache.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/runoshun/chat-tasks/internal/domain"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	chat "google.golang.org/api/chat/v1"
	people "google.golang.org/api/people/v1"
)

// Scopes requested during consent.
var Scopes = []string{
	chat.ChatSpacesScope,
	chat.ChatMessagesScope,
	chat.ChatMessagesReadonlyScope,
	people.DirectoryReadonlyScope,
}

// Authenticator builds authorized clients from a client secret and a token cache.
// Fields are ordered to minimize memory padding.
type Authenticator struct {
	out             io.Writer
	prompt          func(authURL string) error
	credentialsFile string
	tokenFile       string
	port            int
}

// New creates an Authenticator. Relative paths are resolved against dir.
// The consent URL is printed to out.
func New(cfg domain.AuthConfig, dir string, out io.Writer) *Authenticator {
	a := &Authenticator{
		out:             out,
		credentialsFile: resolve(dir, cfg.CredentialsFile),
		tokenFile:       resolve(dir, cfg.TokenFile),
		port:            cfg.CallbackPort,
	}
	a.prompt = a.printURL
	return a
}

func resolve(dir, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// WithPrompt replaces how the consent URL is presented to the user.
func (a *Authenticator) WithPrompt(prompt func(authURL string) error) *Authenticator {
	a.prompt = prompt
	return a
}

func (a *Authenticator) printURL(authURL string) error {
	_, err := fmt.Fprintf(a.out, "Open the following URL in your browser to authorize access:\n\n%s\n\n", authURL)
	return err
}

// OAuthConfig reads the client secret file.
func (a *Authenticator) OAuthConfig() (*oauth2.Config, error) {
	data, err := os.ReadFile(a.credentialsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCredentialsMissing, a.credentialsFile)
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	conf, err := google.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return conf, nil
}

// HTTPClient returns a client that authorizes requests, running the consent
// flow when no usable token is cached. Refreshed tokens are written back.
func (a *Authenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	conf, err := a.OAuthConfig()
	if err != nil {
		return nil, err
	}

	tok, err := LoadToken(a.tokenFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if tok == nil || (!tok.Valid() && tok.RefreshToken == "") {
		tok, err = a.Consent(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err := SaveToken(a.tokenFile, tok); err != nil {
			return nil, err
		}
	}

	ts := &persistingSource{
		src:  conf.TokenSource(ctx, tok),
		path: a.tokenFile,
		last: tok.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, ts)), nil
}

// Consent runs the authorization code flow with PKCE, receiving the code on
// a local HTTP listener.
func (a *Authenticator) Consent(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(a.port)))
	if err != nil {
		return nil, fmt.Errorf("listen for oauth callback: %w", err)
	}

	port := ln.Addr().(*net.TCPAddr).Port
	flowConf := *conf
	flowConf.RedirectURL = fmt.Sprintf("http://localhost:%d/", port)

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var cbErr error
		switch {
		case q.Get("state") != state:
			cbErr = errors.New("oauth callback state mismatch")
		case q.Get("error") != "":
			cbErr = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("code") == "":
			cbErr = errors.New("oauth callback without code")
		}
		if cbErr != nil {
			http.Error(w, cbErr.Error(), http.StatusBadRequest)
			select {
			case errCh <- cbErr:
			default:
			}
			return
		}
		_, _ = io.WriteString(w, "Authorization complete. You may close this window.\n")
		select {
		case codeCh <- q.Get("code"):
		default:
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	defer func() { _ = srv.Close() }()

	authURL := flowConf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier),
	)
	if err := a.prompt(authURL); err != nil {
		return nil, err
	}

	select {
	case code := <-codeCh:
		tok, err := flowConf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
		if err != nil {
			return nil, fmt.Errorf("exchange authorization code: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LoadToken reads a cached token. A missing file yields os.ErrNotExist.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("read token: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse token %s: %w", path, err)
	}
	return &tok, nil
}

// SaveToken writes tok with owner-only permissions.
func SaveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// persistingSource saves every newly issued access token.
type persistingSource struct {
	src  oauth2.TokenSource
	path string
	last string
	mu   sync.Mutex
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := SaveToken(s.path, tok); err != nil {
			return nil, err
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}
