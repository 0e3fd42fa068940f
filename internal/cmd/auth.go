package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kickabout/kickabout-cli/internal/errors"
	"github.com/kickabout/kickabout-cli/internal/session"
	"github.com/kickabout/kickabout-cli/internal/tui"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication credentials",
	Long: `Manage authentication credentials for the kickabout service.

Credentials are stored encrypted in the per-environment state directory
under ~/.kickabout. Token, user id, and username are saved together and
cleared together on logout.

Examples:
  kickabout auth login
  kickabout auth register --username alice --email alice@example.com --password mypass
  kickabout auth status
  kickabout auth logout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// authLoginCmd handles user login
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with a username or email",
	Long: `Log in to the kickabout service.

Without flags an interactive form collects the credentials. The
identifier accepts either a username or an email address.

Examples:
  kickabout auth login
  kickabout auth login --identifier alice --password mypass`,
	RunE: func(cmd *cobra.Command, args []string) error {
		identifier, _ := cmd.Flags().GetString("identifier")
		password, _ := cmd.Flags().GetString("password")

		if (identifier == "" || password == "") && tui.IsInteractive() {
			in := tui.LoginInput{Identifier: identifier, Password: password}
			if err := tui.RunLoginForm(&in); err != nil {
				return err
			}
			identifier, password = in.Identifier, in.Password
		}
		if identifier == "" {
			return errors.NewValidationFailedError("identifier")
		}
		if password == "" {
			return errors.NewValidationFailedError("password")
		}

		app, err := newApp()
		if err != nil {
			return err
		}

		resp, err := app.client.Login(cmd.Context(), identifier, password)
		if err != nil {
			return err
		}

		if err := app.store.Save(session.Session{
			Token:    resp.Token,
			UserID:   resp.UserID,
			Username: resp.Username,
		}); err != nil {
			return err
		}

		fmt.Printf("Logged in as %s.\n", resp.Username)

		return nil
	},
}

// authRegisterCmd registers a new user
var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	Long: `Register a new kickabout account.

Registration returns a token, so you are logged in immediately.

Examples:
  kickabout auth register
  kickabout auth register --username alice --email alice@example.com --password mypass`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if (username == "" || email == "" || password == "") && tui.IsInteractive() {
			in := tui.RegisterInput{Username: username, Email: email, Password: password}
			if err := tui.RunRegisterForm(&in); err != nil {
				return err
			}
			username, email, password = in.Username, in.Email, in.Password
		}
		if username == "" {
			return errors.NewValidationFailedError("username")
		}
		if email == "" {
			return errors.NewValidationFailedError("email")
		}
		if password == "" {
			return errors.NewValidationFailedError("password")
		}

		app, err := newApp()
		if err != nil {
			return err
		}

		resp, err := app.client.Register(cmd.Context(), username, email, password)
		if err != nil {
			return err
		}

		if resp.Token != "" {
			if err := app.store.Save(session.Session{
				Token:    resp.Token,
				UserID:   resp.UserID,
				Username: resp.Username,
			}); err != nil {
				return err
			}
		}

		fmt.Printf("Registered %s. You are now logged in.\n", username)

		return nil
	},
}

// authLogoutCmd clears the local session; there is no server call
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and remove stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		sess, err := app.store.Load()
		if err != nil {
			return err
		}
		if !sess.LoggedIn() {
			fmt.Println("Not logged in.")
			return nil
		}

		if err := app.store.Clear(); err != nil {
			return err
		}

		fmt.Println("Logged out.")

		return nil
	},
}

// authStatusCmd shows the current session
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		sess, err := app.store.Load()
		if err != nil {
			return err
		}
		if !sess.LoggedIn() {
			fmt.Println("Not logged in.")
			fmt.Println("Use 'kickabout auth login' to authenticate.")
			return nil
		}

		fmt.Println("Logged in")
		fmt.Printf("Username: %s\n", sess.Username)
		fmt.Printf("User ID:  %s\n", sess.UserID)

		if !sess.CanUseEvents() {
			fmt.Println()
			fmt.Println("The stored session is missing a user id; event features are unavailable.")
			fmt.Println("Log out and log in again to repair it.")
			return nil
		}

		// Verify the token against the backend.
		app.client.SetToken(sess.Token)
		if _, err := app.client.GetUser(cmd.Context(), sess.UserID); err != nil {
			fmt.Println()
			fmt.Println("Token may be expired or invalid.")
			fmt.Println("Use 'kickabout auth login' to re-authenticate.")
		}

		return nil
	},
}

// authForgotPassCmd requests a password reset code
var authForgotPassCmd = &cobra.Command{
	Use:   "forgot-pass",
	Short: "Request a password reset code by email",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			return errors.NewValidationFailedError("email")
		}

		app, err := newApp()
		if err != nil {
			return err
		}

		if err := app.client.ForgotPassword(cmd.Context(), email); err != nil {
			return err
		}

		fmt.Printf("Reset code sent to %s.\n", email)

		return nil
	},
}

// authResetPassCmd redeems a reset code for a new password
var authResetPassCmd = &cobra.Command{
	Use:   "reset-pass",
	Short: "Reset your password with a reset code",
	RunE: func(cmd *cobra.Command, args []string) error {
		code, _ := cmd.Flags().GetString("code")
		password, _ := cmd.Flags().GetString("password")

		if code == "" {
			return errors.NewValidationFailedError("code")
		}
		if password == "" {
			return errors.NewValidationFailedError("password")
		}

		app, err := newApp()
		if err != nil {
			return err
		}

		if err := app.client.ResetPassword(cmd.Context(), code, password); err != nil {
			return err
		}

		fmt.Println("Password reset. Use 'kickabout auth login' to log in.")

		return nil
	},
}

func init() {
	authLoginCmd.Flags().String("identifier", "", "Username or email")
	authLoginCmd.Flags().String("password", "", "Password")

	authRegisterCmd.Flags().String("username", "", "Username")
	authRegisterCmd.Flags().String("email", "", "Email address")
	authRegisterCmd.Flags().String("password", "", "Password")

	authForgotPassCmd.Flags().String("email", "", "Account email address")

	authResetPassCmd.Flags().String("code", "", "Reset code from the email")
	authResetPassCmd.Flags().String("password", "", "New password")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authForgotPassCmd)
	authCmd.AddCommand(authResetPassCmd)

	rootCmd.AddCommand(authCmd)
}
