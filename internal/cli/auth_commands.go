package cli

import (
	"context"
	"fmt"
	"strings"

	"todomaster/internal/errors"
)

// CredentialOptions are the signup and login flags. Empty values are prompted for.
type CredentialOptions struct {
	Email    string
	Password string
	Name     string
	Provider string
}

// SignupCommand handles the signup command
type SignupCommand struct {
	app  *App
	opts CredentialOptions
}

// NewSignupCommand creates a new signup command handler
func NewSignupCommand(app *App, opts CredentialOptions) *SignupCommand {
	return &SignupCommand{app: app, opts: opts}
}

// Execute registers an account and signs it in
func (c *SignupCommand) Execute(ctx context.Context, args []string) error {
	prompter := NewPrompter(c.app.in, c.app.out)
	name, err := ask(ctx, prompter, c.opts.Name, "Name")
	if err != nil {
		return err
	}
	email, err := ask(ctx, prompter, c.opts.Email, "Email")
	if err != nil {
		return err
	}
	password, err := ask(ctx, prompter, c.opts.Password, "Password")
	if err != nil {
		return err
	}

	result := c.app.businessAPI.SignUp(ctx, email, password, name)
	if !result.Success {
		return fmt.Errorf("%s", result.Message)
	}
	c.app.println(result.Message)
	return nil
}

// LoginCommand handles the login command
type LoginCommand struct {
	app  *App
	opts CredentialOptions
}

// NewLoginCommand creates a new login command handler
func NewLoginCommand(app *App, opts CredentialOptions) *LoginCommand {
	return &LoginCommand{app: app, opts: opts}
}

// Execute signs in with a password, or prints the social sign-in URL when a
// provider is given.
func (c *LoginCommand) Execute(ctx context.Context, args []string) error {
	if c.opts.Provider != "" {
		link, err := c.app.businessAPI.SocialSignInURL(ctx, c.opts.Provider)
		if err != nil {
			return c.app.errorHandler.HandleSimple(err)
		}
		c.app.printf("Continue with %s in your browser:\n%s\n", strings.ToLower(c.opts.Provider), link)
		return nil
	}

	prompter := NewPrompter(c.app.in, c.app.out)
	email, err := ask(ctx, prompter, c.opts.Email, "Email")
	if err != nil {
		return err
	}
	password, err := ask(ctx, prompter, c.opts.Password, "Password")
	if err != nil {
		return err
	}

	result := c.app.businessAPI.SignIn(ctx, email, password)
	if !result.Success {
		return fmt.Errorf("%s", result.Message)
	}
	c.app.println(result.Message)
	return nil
}

// LogoutOptions are the logout flags
type LogoutOptions struct {
	// All revokes every session of the user, not only this one
	All bool
}

// LogoutCommand handles the logout command
type LogoutCommand struct {
	app  *App
	opts LogoutOptions
}

// NewLogoutCommand creates a new logout command handler
func NewLogoutCommand(app *App, opts LogoutOptions) *LogoutCommand {
	return &LogoutCommand{app: app, opts: opts}
}

// Execute ends the stored session, or all of them with All set
func (c *LogoutCommand) Execute(ctx context.Context, args []string) error {
	if c.opts.All {
		revoked, err := c.app.businessAPI.SignOutEverywhere(ctx)
		if c.app.errorHandler.IsUnauthenticatedError(err) {
			return errors.NewUnauthenticatedError(SignUpRequiredMessage)
		}
		if err != nil {
			return c.app.errorHandler.Handle("sign out everywhere", err)
		}
		noun := "sessions"
		if revoked == 1 {
			noun = "session"
		}
		c.app.println(fmt.Sprintf("Signed out of %d %s.", revoked, noun))
		return nil
	}

	if err := c.app.businessAPI.SignOut(ctx); err != nil {
		return c.app.errorHandler.Handle("sign out", err)
	}
	c.app.println("Signed out.")
	return nil
}

// WhoamiCommand handles the whoami command
type WhoamiCommand struct {
	app *App
}

// NewWhoamiCommand creates a new whoami command handler
func NewWhoamiCommand(app *App) *WhoamiCommand {
	return &WhoamiCommand{app: app}
}

// Execute prints the signed-in user
func (c *WhoamiCommand) Execute(ctx context.Context, args []string) error {
	state, err := c.app.businessAPI.CurrentSession(ctx)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}
	if !state.SignedIn() {
		return errors.NewUnauthenticatedError(SignUpRequiredMessage)
	}
	c.app.printf("Signed in as %s <%s>\n", state.User.DisplayName(), state.User.Email)
	return nil
}

// ask returns preset when it is set and prompts otherwise
func ask(ctx context.Context, prompter *Prompter, preset, label string) (string, error) {
	if preset != "" {
		return preset, nil
	}
	return prompter.Ask(ctx, label)
}
