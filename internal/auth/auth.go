package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/justestif/go-spotify-listening-stats/internal/config"
	"github.com/justestif/go-spotify-listening-stats/internal/logging"
)

const callbackTimeout = 2 * time.Minute

var (
	// ErrAuthTimeout is returned when the OAuth callback is not received in time.
	ErrAuthTimeout = errors.New("authentication timed out waiting for callback")

	// ErrStateMismatch is returned when the OAuth state parameter doesn't match.
	ErrStateMismatch = errors.New("OAuth state mismatch")

	// ErrInvalidRedirectURI is returned when the redirect URI has no host to listen on.
	ErrInvalidRedirectURI = errors.New("invalid redirect URI")
)

// Scopes requested for reading listening history and top tracks.
var Scopes = []string{
	spotifyauth.ScopeUserTopRead,
	spotifyauth.ScopeUserReadRecentlyPlayed,
	spotifyauth.ScopeUserLibraryRead,
}

// Authenticator handles Spotify OAuth2 authentication.
type Authenticator struct {
	auth         *spotifyauth.Authenticator
	cache        *TokenCache
	callbackAddr string
	callbackPath string
	out          io.Writer
	log          *logrus.Entry
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithOutput sets where the authorization URL is printed (default: stdout).
func WithOutput(w io.Writer) Option {
	return func(a *Authenticator) {
		a.out = w
	}
}

// WithLogger sets the logger for authentication warnings.
func WithLogger(l *logrus.Entry) Option {
	return func(a *Authenticator) {
		if l != nil {
			a.log = l
		}
	}
}

// New creates an Authenticator for the given application credentials.
// The local callback server listens on the redirect URI's host and path.
func New(creds config.Credentials, cache *TokenCache, opts ...Option) (*Authenticator, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	addr, path, err := callbackTarget(creds.RedirectURI)
	if err != nil {
		return nil, err
	}

	a := &Authenticator{
		auth: spotifyauth.New(
			spotifyauth.WithClientID(creds.ClientID),
			spotifyauth.WithClientSecret(creds.ClientSecret),
			spotifyauth.WithRedirectURL(creds.RedirectURI),
			spotifyauth.WithScopes(Scopes...),
		),
		cache:        cache,
		callbackAddr: addr,
		callbackPath: path,
		out:          os.Stdout,
		log:          logging.Zone("auth"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// callbackTarget derives the listen address and handler path from a redirect URI.
func callbackTarget(redirectURI string) (addr, path string, err error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidRedirectURI, err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("%w: %q has no host", ErrInvalidRedirectURI, redirectURI)
	}

	addr = u.Host
	if u.Port() == "" {
		port := "80"
		if u.Scheme == "https" {
			port = "443"
		}
		addr = u.Hostname() + ":" + port
	}

	path = u.Path
	if path == "" {
		path = "/"
	}
	return addr, path, nil
}

// AuthURL returns the Spotify consent URL for the given state.
func (a *Authenticator) AuthURL(state string) string {
	return a.auth.AuthURL(state)
}

// Authenticate returns an authenticated Spotify client.
// It first checks for a cached token and uses it if valid/refreshable.
// Otherwise, it runs the full OAuth flow.
func (a *Authenticator) Authenticate(ctx context.Context) (*spotify.Client, error) {
	token, err := a.cache.Load()
	if err != nil {
		return nil, fmt.Errorf("loading cached token: %w", err)
	}

	if token != nil {
		// oauth2 refreshes the token transparently if it expired
		client := newClient(a.auth.Client(ctx, token))

		_, err := client.CurrentUser(ctx)
		if err == nil {
			newToken, tokenErr := client.Token()
			if tokenErr == nil && newToken.AccessToken != token.AccessToken {
				if err := a.cache.Save(newToken); err != nil {
					a.log.WithError(err).Warn("Failed to cache refreshed token")
				}
			}
			return client, nil
		}

		a.log.WithError(err).Info("Cached token invalid, starting new authentication")
	}

	return a.runOAuthFlow(ctx)
}

// newClient builds a client that surfaces 429 responses instead of sleeping through them.
func newClient(httpClient *http.Client) *spotify.Client {
	return spotify.New(httpClient)
}

// runOAuthFlow performs the full OAuth authorization code flow.
func (a *Authenticator) runOAuthFlow(ctx context.Context) (*spotify.Client, error) {
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	tokenCh := make(chan *oauth2.Token, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(a.callbackPath, func(w http.ResponseWriter, r *http.Request) {
		a.handleCallback(w, r, state, tokenCh, errCh)
	})

	server := &http.Server{
		Addr:              a.callbackAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("callback server error: %w", err)
		}
	}()

	fmt.Fprintln(a.out, "\nTo authenticate, open this URL in your browser:")
	fmt.Fprintln(a.out, a.auth.AuthURL(state))
	fmt.Fprintln(a.out, "\nWaiting for authentication...")

	var token *oauth2.Token
	select {
	case token = <-tokenCh:
	case err := <-errCh:
		_ = server.Shutdown(context.Background())
		return nil, err
	case <-time.After(callbackTimeout):
		_ = server.Shutdown(context.Background())
		return nil, ErrAuthTimeout
	case <-ctx.Done():
		_ = server.Shutdown(context.Background())
		return nil, ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)

	// auth succeeded even if the token cannot be cached
	if err := a.cache.Save(token); err != nil {
		a.log.WithError(err).WithField("path", a.cache.Path()).Warn("Failed to cache token")
	}

	return newClient(a.auth.Client(ctx, token)), nil
}

// handleCallback processes the OAuth callback from Spotify.
func (a *Authenticator) handleCallback(w http.ResponseWriter, r *http.Request, expectedState string, tokenCh chan<- *oauth2.Token, errCh chan<- error) {
	if r.URL.Query().Get("state") != expectedState {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		sendErr(errCh, ErrStateMismatch)
		return
	}

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		http.Error(w, "Authentication failed: "+errMsg, http.StatusBadRequest)
		sendErr(errCh, fmt.Errorf("spotify auth error: %s", errMsg))
		return
	}

	token, err := a.auth.Token(r.Context(), expectedState, r)
	if err != nil {
		http.Error(w, "Failed to get token", http.StatusInternalServerError)
		sendErr(errCh, fmt.Errorf("exchanging code for token: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Authentication Successful</title></head>
<body>
<h1>Authentication Successful!</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`)

	sendToken(tokenCh, token)
}

// sendToken delivers token unless one is already pending. A repeated callback
// after the flow finished has no reader and must not block its handler.
func sendToken(tokenCh chan<- *oauth2.Token, token *oauth2.Token) {
	select {
	case tokenCh <- token:
	default:
	}
}

// sendErr delivers err unless an earlier error is still pending.
func sendErr(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
	}
}

// generateState creates a random state string for OAuth.
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Logout removes the cached token.
func (a *Authenticator) Logout() error {
	return a.cache.Delete()
}
