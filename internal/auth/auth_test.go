package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"
)

func init() {
	// keep key derivation fast in tests
	scryptN = 1 << 10
}

const clientSecrets = `{"installed":{
  "client_id":"client-123.apps.googleusercontent.com",
  "client_secret":"shh",
  "auth_uri":"https://accounts.google.com/o/oauth2/auth",
  "token_uri":"https://oauth2.googleapis.com/token",
  "redirect_uris":["http://localhost"]
}}`

func newTestAuthenticator(t *testing.T, tokenURL string) *Authenticator {
	t.Helper()
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "devkey.json")
	if err := os.WriteFile(keyFile, []byte(clientSecrets), 0o600); err != nil {
		t.Fatal(err)
	}
	a, err := NewAuthenticator(keyFile, filepath.Join(dir, "tokens"))
	if err != nil {
		t.Fatalf("NewAuthenticator() error = %v", err)
	}
	if tokenURL != "" {
		a.OAuth.Endpoint.TokenURL = tokenURL
		a.OAuth.Endpoint.AuthStyle = oauth2.AuthStyleInParams
	}
	return a
}

func tokenServer(t *testing.T, wantCode string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		if got := r.PostForm.Get("code"); got != wantCode {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","refresh_token":"rt-1","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewAuthenticatorMissingKeyFile(t *testing.T) {
	_, err := NewAuthenticator(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error = %v, want os.ErrNotExist", err)
	}
}

func TestLoginWithoutSessionRaisesChallenge(t *testing.T) {
	a := newTestAuthenticator(t, "")
	_, err := a.Login(context.Background(), Credentials{Email: "me@example.com", Password: "pw"})

	var ch *ChallengeError
	if !errors.As(err, &ch) {
		t.Fatalf("Login() error = %v, want *ChallengeError", err)
	}
	u, perr := url.Parse(ch.URL)
	if perr != nil {
		t.Fatalf("challenge URL %q: %v", ch.URL, perr)
	}
	q := u.Query()
	if q.Get("state") != ch.Token || ch.Token == "" {
		t.Errorf("state = %q, token = %q", q.Get("state"), ch.Token)
	}
	if q.Get("login_hint") != "me@example.com" {
		t.Errorf("login_hint = %q", q.Get("login_hint"))
	}
	if q.Get("access_type") != "offline" {
		t.Errorf("access_type = %q, want offline", q.Get("access_type"))
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	a := newTestAuthenticator(t, "")
	if _, err := a.Login(context.Background(), Credentials{Email: "me@example.com"}); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("Login() error = %v, want ErrMissingCredentials", err)
	}
}

func TestAnswerThenLogin(t *testing.T) {
	srv := tokenServer(t, "good-code")
	a := newTestAuthenticator(t, srv.URL)
	creds := Credentials{Email: "me@example.com", Password: "hunter2"}
	ctx := context.Background()

	_, err := a.Login(ctx, creds)
	var ch *ChallengeError
	if !errors.As(err, &ch) {
		t.Fatalf("Login() error = %v, want challenge", err)
	}

	sess, err := a.Answer(ctx, creds, ch, "http://localhost/?state="+ch.Token+"&code=good-code")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	tok, err := sess.TokenSource().Token()
	if err != nil || tok.AccessToken != "at-1" {
		t.Fatalf("Token() = %v, %v", tok, err)
	}

	again, err := a.Login(ctx, creds)
	if err != nil {
		t.Fatalf("second Login() error = %v", err)
	}
	tok, _ = again.TokenSource().Token()
	if tok.RefreshToken != "rt-1" {
		t.Errorf("restored refresh token = %q", tok.RefreshToken)
	}

	if _, err := a.Login(ctx, Credentials{Email: creds.Email, Password: "wrong"}); !errors.Is(err, ErrBadPassword) {
		t.Errorf("Login(wrong password) error = %v, want ErrBadPassword", err)
	}
}

func TestAnswerRejected(t *testing.T) {
	srv := tokenServer(t, "good-code")
	a := newTestAuthenticator(t, srv.URL)
	creds := Credentials{Email: "me@example.com", Password: "pw"}
	ch := &ChallengeError{Token: "state-1"}

	if _, err := a.Answer(context.Background(), creds, ch, "bad-code"); err == nil {
		t.Fatal("Answer(bad code) returned nil error")
	}
	if _, err := a.Answer(context.Background(), creds, ch, "http://localhost/?state=other&code=good-code"); !errors.Is(err, ErrStateMismatch) {
		t.Errorf("Answer(wrong state) error = %v, want ErrStateMismatch", err)
	}
}

func TestSealOpen(t *testing.T) {
	sealed, err := seal([]byte("secret token"), "pw")
	if err != nil {
		t.Fatalf("seal() error = %v", err)
	}
	plain, err := open(sealed, "pw")
	if err != nil || string(plain) != "secret token" {
		t.Fatalf("open() = %q, %v", plain, err)
	}
	if _, err := open(sealed, "other"); !errors.Is(err, ErrBadPassword) {
		t.Errorf("open(wrong password) error = %v, want ErrBadPassword", err)
	}
	if _, err := open(sealed[:10], "pw"); err == nil {
		t.Error("open(truncated) returned nil error")
	}
}
