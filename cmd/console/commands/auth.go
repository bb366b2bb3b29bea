package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/worklens/console-go/internal/domain/session"
	resolverService "github.com/worklens/console-go/internal/service/resolver"
	"golang.org/x/term"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and resolve your session",
	RunE: func(cmd *cobra.Command, args []string) error {
		email := loginEmail
		if email == "" {
			var err error
			email, err = promptLine("Email: ")
			if err != nil {
				return err
			}
		}
		password := loginPassword
		if password == "" {
			var err error
			password, err = promptPassword("Password: ")
			if err != nil {
				return err
			}
		}

		outcome, err := resolver.SignIn(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		return showOutcome(cmd, outcome)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear local state",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver.SignOut(cmd.Context())
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password for the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		newPassword, err := promptPassword("New password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		_, err = resolver.ResetPassword(cmd.Context(), newPassword, confirm)
		return err
	},
}

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Request a password reset email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolver.ForgotPassword(cmd.Context(), args[0])
	},
}

var chooseCompanyCmd = &cobra.Command{
	Use:   "choose-company [company-id]",
	Short: "Pick which company to manage in this session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := store.Get()
		if len(args) == 0 {
			if len(sess.AvailableCompanies) == 0 {
				fmt.Println("No company choice is pending.")
				return nil
			}
			fmt.Println("Available companies:")
			for _, c := range sess.AvailableCompanies {
				marker := ""
				if c.IsParent {
					marker = " (parent)"
				}
				fmt.Printf("  %-16s %s, %s%s\n", c.CompanyID, c.CompanyName, c.Location, marker)
			}
			return nil
		}

		outcome, err := resolver.ResolveCompany(args[0])
		if err != nil {
			return err
		}
		return showOutcome(cmd, outcome)
	},
}

var chooseUnitCmd = &cobra.Command{
	Use:   "choose-unit [unit]",
	Short: "Pick which business unit to use in this session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := store.Get()
		if len(args) == 0 {
			if len(sess.PendingUnits) == 0 {
				fmt.Println("No business unit choice is pending.")
				return nil
			}
			fmt.Println("Available business units:")
			for _, u := range sess.PendingUnits {
				fmt.Println("  " + u)
			}
			return nil
		}

		outcome, err := resolver.ResolveBusinessUnit(args[0])
		if err != nil {
			return err
		}
		return showOutcome(cmd, outcome)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := store.Get()
		fmt.Println("State:  ", sess.State)
		if !sess.Authenticated() {
			return nil
		}
		fmt.Println("Email:  ", sess.Email)
		fmt.Println("Access: ", sess.Access)
		if sess.SelectedCompanyName != "" {
			fmt.Printf("Company: %s (%s)\n", sess.SelectedCompanyName, sess.SelectedCompanyID)
		}
		if sess.BusinessUnit != "" {
			fmt.Println("Unit:   ", sess.BusinessUnit)
		}
		if sess.State == session.Resolved {
			fmt.Println("Route:  ", session.RouteForAccess(sess.Access))
		}
		return nil
	},
}

// showOutcome prints where a resolution step left the session and what
// the user should do next.
func showOutcome(cmd *cobra.Command, outcome resolverService.Outcome) error {
	switch outcome.State {
	case session.ResetRequired:
		fmt.Println("Next: run `worklens reset-password`.")
	case session.ChoosingCompany:
		fmt.Println("Next: run `worklens choose-company` to list candidates.")
	case session.ChoosingUnit:
		fmt.Println("Next: run `worklens choose-unit` to list business units.")
	case session.Resolved:
		fmt.Println("Dashboard:", outcome.Route)
	}
	return nil
}

func promptLine(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when omitted)")

	rootCmd.AddCommand(loginCmd, logoutCmd, resetPasswordCmd, forgotPasswordCmd,
		chooseCompanyCmd, chooseUnitCmd, whoamiCmd)
}
