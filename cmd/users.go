// ABOUTME: Users command group; create-manager lets the CEO add a branch manager
// ABOUTME: The form is checked locally and access follows the /users route guard

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KayembaIsaacFrank/gcdl/internal/advisory"
	"github.com/KayembaIsaacFrank/gcdl/internal/routing"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/users"
)

var managerForm advisory.SignupForm

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage staff accounts (CEO only)",
}

var createManagerCmd = &cobra.Command{
	Use:   "create-manager",
	Short: "Create a branch manager",
	Long:  `Create a manager for a branch that has none. Requires a CEO session.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		form := managerForm
		if form.Password == "" || form.Email == "" {
			if err := promptMissing(&form.Email, &form.Password); err != nil {
				fmt.Fprintf(os.Stdout, "Error: %v\n", err)
				os.Exit(exitError)
			}
		}
		exit(runCreateManager(cmd.Context(), os.Stdout, form))
	},
}

func init() {
	createManagerCmd.Flags().StringVar(&managerForm.FullName, "name", "", "Full name")
	createManagerCmd.Flags().StringVar(&managerForm.Email, "email", "", "Email address")
	createManagerCmd.Flags().StringVar(&managerForm.Phone, "phone", "", "Phone number, e.g. 0772123456")
	createManagerCmd.Flags().Int64Var(&managerForm.BranchID, "branch", 0, "Branch ID")
	createManagerCmd.Flags().StringVar(&managerForm.Password, "password", "", "Password (at least 6 characters)")

	usersCmd.AddCommand(createManagerCmd)
	rootCmd.AddCommand(usersCmd)
}

func runCreateManager(ctx context.Context, w io.Writer, form advisory.SignupForm) int {
	form.Kind = advisory.SignupManager
	form.FullName = strings.TrimSpace(form.FullName)
	form.ConfirmPassword = form.Password
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
		identity, code := requireLogin(w, e.session)
		if code != exitOK {
			return code
		}
		if e.router.Resolve("/users", identity).Decision != routing.Allow {
			fmt.Fprintln(w, "Error: only the CEO can create managers")
			return exitAuth
		}

		in := form.ManagerInput()
		if err := e.api.CreateManager(ctx, in); err != nil {
			return printError(w, err, users.FailedMessage)
		}

		if IsJSONOutput() {
			data, _ := json.MarshalIndent(map[string]interface{}{
				"created":   true,
				"email":     in.Email,
				"full_name": in.FullName,
				"branch_id": in.BranchID,
			}, "", "  ")
			fmt.Fprintln(w, string(data))
			return exitOK
		}
		fmt.Fprintf(w, "Manager %s created for branch %d\n", in.FullName, in.BranchID)
		return exitOK
	})
}
