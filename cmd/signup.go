// ABOUTME: Signup command for CEO, manager, sales agent and buyer accounts
// ABOUTME: Checks the form locally before posting it to the role's endpoint

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KayembaIsaacFrank/gcdl/internal/advisory"
)

var signupForm advisory.SignupForm

var signupCmd = &cobra.Command{
	Use:       "signup <ceo|manager|agent|buyer>",
	Short:     "Create an account",
	Long:      `Create a CEO, branch manager, sales agent or buyer account. Managers and agents need --branch.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"ceo", "manager", "agent", "buyer"},
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := parseSignupKind(args[0])
		if err != nil {
			fmt.Fprintf(os.Stdout, "Error: %v\n", err)
			os.Exit(exitError)
		}
		form := signupForm
		form.Kind = kind
		if form.Password == "" || form.Email == "" {
			if err := promptMissing(&form.Email, &form.Password); err != nil {
				fmt.Fprintf(os.Stdout, "Error: %v\n", err)
				os.Exit(exitError)
			}
		}
		exit(runSignup(cmd.Context(), os.Stdout, form))
	},
}

func init() {
	signupCmd.Flags().StringVar(&signupForm.FullName, "name", "", "Full name")
	signupCmd.Flags().StringVar(&signupForm.Email, "email", "", "Email address")
	signupCmd.Flags().StringVar(&signupForm.Phone, "phone", "", "Phone number, e.g. 0772123456")
	signupCmd.Flags().StringVar(&signupForm.Location, "location", "", "Location (buyers)")
	signupCmd.Flags().Int64Var(&signupForm.BranchID, "branch", 0, "Branch ID (managers and agents)")
	signupCmd.Flags().StringVar(&signupForm.Password, "password", "", "Password (at least 6 characters)")
	signupCmd.Flags().StringVar(&signupForm.ConfirmPassword, "confirm-password", "", "Password confirmation (defaults to --password)")

	rootCmd.AddCommand(signupCmd)
}

func parseSignupKind(s string) (advisory.SignupKind, error) {
	for _, k := range advisory.SignupKinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown account kind %q (want ceo, manager, agent or buyer)", s)
}

func runSignup(ctx context.Context, w io.Writer, form advisory.SignupForm) int {
	if form.ConfirmPassword == "" {
		form.ConfirmPassword = form.Password
	}
	if err := form.Validate(); err != nil {
		var fieldErrs advisory.Errors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				fmt.Fprintf(w, "Error: %s\n", fe.Message)
			}
			return exitError
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	return withEnv(ctx, w, func(ctx context.Context, e *env) int {
		if _, err := e.session.Signup(ctx, form.Kind.Endpoint(), form.Payload()); err != nil {
			fmt.Fprintf(w, "Error: %s\n", err.Error())
			return exitError
		}
		fmt.Fprintf(w, "%s created successfully! Please login.\n", form.Kind)
		return exitOK
	})
}
