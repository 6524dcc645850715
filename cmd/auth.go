// ABOUTME: Account commands: login, logout, whoami and passwd
// ABOUTME: They share the stored session with the interactive interface

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/KayembaIsaacFrank/gcdl/internal/format"
	"github.com/KayembaIsaacFrank/gcdl/internal/session"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/settings"
)

var (
	loginEmail      string
	loginPassword   string
	currentPassword string
	newPassword     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Run: func(cmd *cobra.Command, args []string) {
		if err := promptMissing(&loginEmail, &loginPassword); err != nil {
			fmt.Fprintf(os.Stdout, "Error: %v\n", err)
			os.Exit(exitError)
		}
		exit(runLogin(cmd.Context(), os.Stdout, loginEmail, loginPassword))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		exit(runLogout(cmd.Context(), os.Stdout))
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Run: func(cmd *cobra.Command, args []string) {
		exit(runWhoami(cmd.Context(), os.Stdout))
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your password",
	Long:  `Change the password of the signed-in user. The session ends afterwards and you must log in again.`,
	Run: func(cmd *cobra.Command, args []string) {
		exit(runPasswd(cmd.Context(), os.Stdout, currentPassword, newPassword))
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
	passwdCmd.Flags().StringVar(&currentPassword, "current", "", "Current password")
	passwdCmd.Flags().StringVar(&newPassword, "new", "", "New password (at least 6 characters)")
	_ = passwdCmd.MarkFlagRequired("current")
	_ = passwdCmd.MarkFlagRequired("new")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, passwdCmd)
}

func exit(code int) {
	if code != exitOK {
		os.Exit(code)
	}
}

// promptMissing asks for an empty email or password on the terminal.
func promptMissing(email, password *string) error {
	var fields []huh.Field
	if *email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(email).Validate(huh.ValidateNotEmpty()))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).
			Value(password).Validate(huh.ValidateNotEmpty()))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func runLogin(ctx context.Context, w io.Writer, email, password string) int {
	return withEnv(ctx, w, func(ctx context.Context, e *env) int {
		id, err := e.session.Login(ctx, email, password)
		if err != nil {
			return printError(w, err, session.DefaultLoginError)
		}
		if IsJSONOutput() {
			fmt.Fprintln(w, formatIdentityJSON(e.session.Snapshot()))
			return exitOK
		}
		fmt.Fprintf(w, "Logged in as %s\n", id.Display())
		fmt.Fprintf(w, "Dashboard: %s\n", e.router.Dispatcher().Dispatch(id.Role))
		return exitOK
	})
}

func runLogout(ctx context.Context, w io.Writer) int {
	return withEnv(ctx, w, func(ctx context.Context, e *env) int {
		session.FromContext(ctx).Logout(ctx)
		fmt.Fprintln(w, "Logged out")
		return exitOK
	})
}

func runWhoami(ctx context.Context, w io.Writer) int {
	return withEnv(ctx, w, func(ctx context.Context, e *env) int {
		snap := e.session.Snapshot()
		if IsJSONOutput() {
			fmt.Fprintln(w, formatIdentityJSON(snap))
			if !snap.LoggedIn() {
				return exitAuth
			}
			return exitOK
		}
		if !snap.LoggedIn() {
			fmt.Fprintln(w, "Not logged in")
			if snap.Hint != "" {
				fmt.Fprintf(w, "Last signed in as %s\n", snap.Hint)
			}
			return exitAuth
		}
		fmt.Fprintln(w, formatIdentityHuman(snap, time.Now()))
		return exitOK
	})
}

func runPasswd(ctx context.Context, w io.Writer, current, next string) int {
	if len(next) < 6 {
		fmt.Fprintln(w, "Error: new password must be at least 6 characters")
		return exitError
	}
	return withEnv(ctx, w, func(ctx context.Context, e *env) int {
		if _, code := requireLogin(w, e.session); code != exitOK {
			return code
		}
		if err := e.api.ChangePassword(ctx, current, next); err != nil {
			return printError(w, err, "Failed to change password")
		}
		e.session.Logout(ctx)
		fmt.Fprintln(w, settings.ChangedMessage)
		return exitOK
	})
}

// formatIdentityHuman formats the signed-in user for human readability
func formatIdentityHuman(snap session.Snapshot, now time.Time) string {
	id := snap.Identity
	branch := "-"
	if id.HasBranch() {
		branch = fmt.Sprintf("%d", *id.BranchID)
	}
	expiry := "unknown"
	if !snap.CredentialExpiry.IsZero() {
		expiry = format.DateTime(snap.CredentialExpiry)
		if snap.CredentialExpiry.After(now) {
			expiry += " (" + format.Until(snap.CredentialExpiry) + ")"
		} else {
			expiry += " (expired)"
		}
	}
	return fmt.Sprintf(`Name:     %s
Email:    %s
Role:     %s
Branch:   %s
Session:  %s`, id.FullName, id.Email, id.Role, branch, expiry)
}

// formatIdentityJSON formats the session state as JSON
func formatIdentityJSON(snap session.Snapshot) string {
	output := map[string]interface{}{
		"logged_in": snap.LoggedIn(),
		"user":      snap.Identity,
	}
	if !snap.CredentialExpiry.IsZero() {
		output["expires_at"] = snap.CredentialExpiry.Format(time.RFC3339)
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
