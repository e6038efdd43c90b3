package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultRedirectURI is used when the config omits one. The Google OAuth
// client must list it as an authorized redirect URI.
const DefaultRedirectURI = "http://localhost:3000/callback"

// signInTimeout bounds how long the flow waits for the student to approve.
const signInTimeout = 2 * time.Minute

// SignInResult carries the issued token and the student's profile.
type SignInResult struct {
	Token *oauth2.Token
	User  models.UserData
}

// NewGoogleConfig builds the OAuth2 config for student sign-in. The scopes
// cover just enough to identify the student to the classroom backend.
func NewGoogleConfig(cfg shared.GoogleConfig) *oauth2.Config {
	redirect := cfg.RedirectURI
	if redirect == "" {
		redirect = DefaultRedirectURI
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirect,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// SignIn executes the full authorization flow with a local HTTP server.
//
// Starts the callback server, opens the browser to Google's consent page,
// waits for the exchanged token, and resolves the student's profile.
func SignIn(ctx context.Context, cfg shared.GoogleConfig, logger *log.Logger) (*SignInResult, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: google client_id and client_secret must be set in config.toml", shared.ErrInvalidConfig)
	}

	config := NewGoogleConfig(cfg)
	state := shared.GenerateID()

	handler := NewOAuthHandler(config, state)
	router := NewBasicRouter()
	router.Use(LoggingMiddleware(logger))
	router.Handler(handler)

	addr, err := callbackAddr(config.RedirectURL)
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{Addr: addr, Handler: router}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting sign-in callback server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	if err := shared.OpenBrowser(authURL); err != nil {
		logger.Warn("failed to open browser automatically", "error", err)
		logger.Info("open this URL in your browser", "url", authURL)
	}

	timeout := time.NewTimer(signInTimeout)
	defer timeout.Stop()

	var result OAuthResult

	select {
	case result = <-handler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrAuthFailed, signInTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	user, err := FetchUserInfo(ctx, config, result.Token)
	if err != nil {
		return nil, err
	}

	return &SignInResult{Token: result.Token, User: user}, nil
}

// callbackAddr derives the listen address from the redirect URI.
func callbackAddr(redirectURI string) (string, error) {
	parsed, err := url.Parse(redirectURI)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("%w: invalid redirect_uri %q", shared.ErrInvalidConfig, redirectURI)
	}

	host := parsed.Host
	if parsed.Port() == "" {
		host += ":80"
	}
	return host, nil
}
