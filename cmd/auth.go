package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mvx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges credentials for a token and stores the session locally.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	if r.auth == nil {
		return fmt.Errorf("%w: auth service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("logging in", "email", email)

	resp, err := r.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := r.saveSession(ctx, resp); err != nil {
		return err
	}

	r.logger.Info("login successful", "user", resp.User.Email)
	return r.writePlain("✓ Logged in as %s\n", resp.User.Email)
}

// AuthRegister creates a new catalog account.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	email := cmd.String("email")
	password := cmd.String("password")

	if r.auth == nil {
		return fmt.Errorf("%w: auth service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("registering account", "email", email)

	user, err := r.auth.Register(ctx, name, email, password)
	if err != nil {
		return err
	}

	r.writePlain("✓ Account created for %s\n", user.Email)
	return r.writePlain("Run 'mvx auth login' to start a session.\n")
}

// AuthStatus shows the stored session and checks the API's /health endpoint.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	if repo, err := r.sessions(); err == nil {
		session, err := repo.Current()
		switch {
		case err != nil:
			r.logger.Warn("failed to read stored session", "error", err)
		case session == nil:
			r.writePlain("Session: none\n")
		case session.Expired():
			r.writePlain("Session: expired for %s\n", session.UserEmail())
		default:
			r.writePlain("Session: %s", session.UserEmail())
			if exp := session.ExpiresAt(); exp != nil {
				r.writePlain(" (expires %s)", exp.Format("2006-01-02 15:04"))
			}
			r.writePlain("\n")
		}
	}

	resp, err := r.api.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("%w: service unavailable: %v", shared.ErrServiceUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	if !resp.IsJSON {
		return r.writePlain("✓ Service is healthy\nStatus: %s\n", string(resp.Body))
	}

	healthData, ok := resp.JSONData.(map[string]any)
	if !ok {
		return r.writePlain("✓ Service is healthy\n")
	}

	status, ok := healthData["status"].(string)
	if !ok {
		status = "unknown"
	}

	r.writePlain("✓ Service is healthy\n")
	return r.writePlain("Status: %s\n", status)
}

// AuthLogout drops the stored session and both clients' tokens.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.clearSession()
	r.logger.Info("logged out")
	return r.writePlain("✓ Logged out\n")
}
