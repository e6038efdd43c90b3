package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/nisu/internal/models"
	"github.com/desertthunder/nisu/internal/server"
	"github.com/desertthunder/nisu/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs the student in with Google.
//
// Starts a local callback server, opens the browser for consent, and persists
// the issued token with the student's profile.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	r.writePlain("→ Opening browser for Google sign-in...\n")
	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	result, err := server.SignIn(ctx, r.config.Google, r.logger)
	if err != nil {
		return err
	}

	if err := r.session.SignIn(result.Token.AccessToken, result.User); err != nil {
		return err
	}
	r.classroom.SetToken(result.Token.AccessToken)

	r.writePlainln("✓ Signed in as %s <%s>", result.User.Name, result.User.Email)
	return nil
}

// AuthImport extracts a bearer token from a browser "Copy as cURL" command
// and persists it as the session token.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}
	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	r.logger.Info("parsing cURL command for a bearer token")

	var auth *shared.CurlAuth
	var err error

	if curlFile != "" {
		auth, err = shared.ParseCurlFile(curlFile)
	} else {
		auth, err = shared.ParseCurlCommand([]byte(curlCmd))
	}
	if err != nil {
		return fmt.Errorf("failed to parse cURL command: %w", err)
	}

	// Verify the token against the backend before persisting it.
	r.classroom.SetToken(auth.Token)
	notebooks, err := r.classroom.Notebooks(ctx)
	if err != nil {
		return fmt.Errorf("%w: imported token was rejected: %v", shared.ErrAuthFailed, err)
	}

	if err := r.session.SignIn(auth.Token, models.UserData{}); err != nil {
		return err
	}

	if err := r.notebooks.UpsertAll(notebooks); err != nil {
		r.logger.Warn("failed to cache notebook listing", "error", err)
	}

	r.writePlainln("✓ Token imported, %d notebooks visible", len(notebooks))
	return nil
}

// AuthStatus shows the signed-in student.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	if !r.session.Authenticated() {
		return r.writePlain("✗ Not signed in. Run 'nisu auth login'.\n")
	}

	user := r.session.User()
	if user.Email != "" {
		r.writePlain("✓ Signed in as %s <%s>\n", user.Name, user.Email)
	} else {
		r.writePlain("✓ Signed in (imported token)\n")
	}
	return nil
}

// AuthLogout clears the persisted session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	if err := r.session.SignOut(); err != nil {
		return err
	}
	r.classroom.SetToken("")

	return r.writePlain("✓ Signed out\n")
}
