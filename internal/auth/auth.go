// Package auth signs the account in to the video host.
//
// A login either succeeds from a cached token or returns a *ChallengeError
// carrying a consent URL. The caller shows the URL, collects the user's
// response and calls Answer once.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"
)

// Sentinel errors for authentication.
var (
	ErrMissingCredentials = errors.New("auth: account email and password are required")
	ErrBadPassword        = errors.New("auth: password does not unlock the stored session")
	ErrStateMismatch      = errors.New("auth: challenge response belongs to another login")
)

// Credentials are the account details supplied on the command line.
type Credentials struct {
	Email    string
	Password string
}

// ChallengeError means the login needs the user to answer a challenge.
type ChallengeError struct {
	Token string
	URL   string
}

func (e *ChallengeError) Error() string {
	return "auth: challenge required, visit " + e.URL
}

// Session is an authenticated connection to the video host.
type Session struct {
	ts oauth2.TokenSource
}

// Client returns an HTTP client that authorizes every request.
func (s *Session) Client(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, s.ts)
}

// TokenSource exposes the session's token source.
func (s *Session) TokenSource() oauth2.TokenSource { return s.ts }

// Authenticator runs the login exchange and keeps sealed tokens in TokenDir.
type Authenticator struct {
	OAuth    *oauth2.Config
	TokenDir string
}

// NewAuthenticator reads the OAuth client key file (client secrets JSON).
func NewAuthenticator(keyFile, tokenDir string) (*Authenticator, error) {
	data, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(data, youtube.YoutubeScope)
	if err != nil {
		return nil, fmt.Errorf("parse key file %s: %w", keyFile, err)
	}
	return &Authenticator{OAuth: cfg, TokenDir: tokenDir}, nil
}

// Login returns a session from the stored token, or a *ChallengeError when
// the account has not been authorized yet.
func (a *Authenticator) Login(ctx context.Context, creds Credentials) (*Session, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrMissingCredentials
	}

	sealed, err := os.ReadFile(a.tokenPath(creds.Email))
	if errors.Is(err, os.ErrNotExist) {
		return nil, a.challenge(creds)
	}
	if err != nil {
		return nil, fmt.Errorf("read stored session: %w", err)
	}

	plain, err := open(sealed, creds.Password)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(plain, &tok); err != nil {
		return nil, fmt.Errorf("decode stored session: %w", err)
	}
	if tok.RefreshToken == "" && !tok.Valid() {
		return nil, a.challenge(creds)
	}
	return a.session(ctx, &tok), nil
}

// Answer completes a challenge with the user's response: the authorization
// code, or the full redirect URL holding it.
func (a *Authenticator) Answer(ctx context.Context, creds Credentials, ch *ChallengeError, response string) (*Session, error) {
	code, err := codeFromResponse(response, ch.Token)
	if err != nil {
		return nil, err
	}
	tok, err := a.OAuth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: login rejected: %w", err)
	}
	if err := a.store(creds, tok); err != nil {
		return nil, err
	}
	return a.session(ctx, tok), nil
}

func (a *Authenticator) challenge(creds Credentials) *ChallengeError {
	state := uuid.NewString()
	u := a.OAuth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("login_hint", creds.Email),
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	return &ChallengeError{Token: state, URL: u}
}

func (a *Authenticator) session(ctx context.Context, tok *oauth2.Token) *Session {
	return &Session{ts: oauth2.ReuseTokenSource(tok, a.OAuth.TokenSource(ctx, tok))}
}

func (a *Authenticator) store(creds Credentials, tok *oauth2.Token) error {
	plain, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	sealed, err := seal(plain, creds.Password)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.TokenDir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(a.tokenPath(creds.Email), sealed, 0o600); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (a *Authenticator) tokenPath(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return filepath.Join(a.TokenDir, hex.EncodeToString(sum[:8])+".token")
}

func codeFromResponse(response, state string) (string, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return "", errors.New("auth: empty challenge response")
	}
	u, err := url.Parse(response)
	if err != nil || u.Scheme == "" {
		return response, nil
	}
	q := u.Query()
	if got := q.Get("state"); got != "" && got != state {
		return "", ErrStateMismatch
	}
	code := q.Get("code")
	if code == "" {
		return "", errors.New("auth: challenge response holds no code")
	}
	return code, nil
}
