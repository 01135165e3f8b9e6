package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/hymn/internal/auth"
	"github.com/desertthunder/hymn/internal/server"
	"github.com/desertthunder/hymn/internal/shared"
	"github.com/urfave/cli/v3"
)

// Login signs in with the identity provider.
//
// A live provider session (from the cookie store) signs in directly. Otherwise the provider's sign in page is
// opened in the browser and a local callback server waits for it to send the user back with a token.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	if user := r.provider.State().User; user != nil {
		return r.writePlain("Already signed in as %s\n", user.FullName())
	}

	state := server.NewState()
	r.gateway.SetServiceURL(r.config.CallbackURL(state))

	result := r.provider.SignIn(ctx)
	switch result.Kind {
	case auth.Authorized:
		return r.writePlain("✓ Signed in as %s\n", result.User.FullName())
	case auth.Redirect:
		return r.awaitCallback(ctx, state, result.URL, cmd.Duration("timeout"), !cmd.Bool("no-browser"))
	default:
		return fmt.Errorf("%w: the identity provider could not be reached", shared.ErrAuthFailed)
	}
}

func (r *Runner) awaitCallback(ctx context.Context, state, authURL string, timeout time.Duration, browser bool) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		res server.CallbackResult
		err error
	}

	handler := server.NewCallbackHandler(state)
	ready := make(chan struct{})
	done := make(chan outcome, 1)

	go func() {
		res, err := server.Serve(waitCtx, r.config.ServerAddr(), handler, shared.WithLogger(r.logger, "component", "callback"), ready)
		done <- outcome{res: res, err: err}
	}()
	<-ready

	select {
	case out := <-done:
		return fmt.Errorf("%w: %w", shared.ErrAuthFailed, out.err)
	default:
	}

	r.writePlain("Sign in at:\n%s\n", authURL)
	if browser {
		if err := r.openBrowser(authURL); err != nil {
			r.logger.Warn("failed to open browser, open the URL manually", "error", err)
		}
	}
	r.writePlain("Waiting for the identity provider (timeout %s)...\n", timeout)

	out := <-done
	if out.err != nil {
		if waitCtx.Err() != nil && ctx.Err() == nil {
			return fmt.Errorf("%w: %w", shared.ErrTimeout, out.err)
		}
		return fmt.Errorf("%w: %w", shared.ErrAuthFailed, out.err)
	}

	if err := r.gateway.AcceptToken(out.res.Token); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	user := r.provider.ReauthorizeUser(ctx)
	if user == nil {
		return fmt.Errorf("%w: the identity provider did not return a user", shared.ErrAuthFailed)
	}

	return r.writePlain("✓ Signed in as %s\n", user.FullName())
}

// Logout signs out remotely when a session is held, and always forgets the local one.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	signedIn := r.gateway.IsUserAuthorized()
	result := r.provider.SignOutUser(ctx)
	r.forgetCookies = true

	if !signedIn {
		return r.writePlain("Not signed in\n")
	}
	if !result.Succeeded {
		r.logger.Warn("the identity provider did not confirm the sign out")
	}

	if result.RedirectURL != "" {
		if cmd.Bool("browser") {
			if err := r.openBrowser(result.RedirectURL); err != nil {
				r.logger.Warn("failed to open browser", "error", err)
			}
		} else {
			r.writePlain("Finish signing out of the identity provider at:\n%s\n", result.RedirectURL)
		}
	}

	return r.writePlain("✓ Signed out\n")
}

type whoamiOutput struct {
	Name      string `json:"name"`
	IsAdmin   bool   `json:"isAdmin"`
	Favorites int    `json:"favorites"`
}

// Whoami prints the restored user.
func (r *Runner) Whoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	state := r.provider.State()
	if state.User == nil {
		if cmd.Bool("json") {
			return r.writeJSON(nil, false)
		}
		return r.writePlain("Not signed in\n")
	}

	out := whoamiOutput{Name: state.User.FullName(), IsAdmin: state.User.IsAdmin, Favorites: state.Favorites.Len()}
	if cmd.Bool("json") {
		return r.writeJSON(out, true)
	}

	r.writePlainHeader(out.Name)
	r.writePlain("Admin:     %t\n", out.IsAdmin)
	return r.writePlain("Favorites: %d\n", out.Favorites)
}
