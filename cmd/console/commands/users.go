package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/worklens/console-go/internal/domain/company"
)

var userReq company.UserRequest

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage the employee directory",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List directory accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := directory.Users(cmd.Context())
		if err != nil {
			return err
		}
		if len(users) == 0 {
			fmt.Println("No users in the directory yet.")
			return nil
		}
		for _, u := range users {
			status := "active"
			if !u.Active {
				status = "inactive"
			}
			fmt.Printf("  %-10s %-30s %-14s %-12s [%s]\n",
				u.ID, u.Email, u.AccessLevel, u.BusinessUnit, status)
		}
		return nil
	},
}

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a directory account",
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := directory.CreateUser(cmd.Context(), &userReq)
		if err != nil {
			return err
		}
		fmt.Printf("Created user %s (%s)\n", created.ID, created.Email)
		return nil
	},
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a directory account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userReq.ID = args[0]
		updated, err := directory.UpdateUser(cmd.Context(), &userReq)
		if err != nil {
			return err
		}
		fmt.Printf("Updated user %s (%s)\n", updated.ID, updated.Email)
		return nil
	},
}

var usersActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Reactivate a directory account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return directory.SetActive(cmd.Context(), args[0], true)
	},
}

var usersDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate a directory account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return directory.SetActive(cmd.Context(), args[0], false)
	},
}

var usersImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk-import accounts from a spreadsheet",
	Long: `Imports directory accounts from a workbook whose sheet carries at
least the email, first name and access level columns.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var lastPct int = -1
		progress := func(sent, total int64) {
			if total <= 0 {
				return
			}
			pct := int(sent * 100 / total)
			if pct != lastPct {
				lastPct = pct
				fmt.Printf("\rUploading users... %3d%%", pct)
			}
		}

		err := directory.ImportUsers(cmd.Context(), args[0], progress)
		if lastPct >= 0 {
			fmt.Println()
		}
		return err
	},
}

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Manage business units",
}

var unitsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List business units",
	RunE: func(cmd *cobra.Command, args []string) error {
		units, err := directory.Units(cmd.Context())
		if err != nil {
			return err
		}
		for _, unit := range units {
			fmt.Printf("  %-10s %s\n", unit.ID, unit.Name)
		}
		return nil
	},
}

var unitsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a business unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := directory.AddUnit(cmd.Context(), args[0])
		return err
	},
}

var accessLevelsCmd = &cobra.Command{
	Use:   "access-levels",
	Short: "Manage access levels",
}

var accessLevelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List access levels",
	RunE: func(cmd *cobra.Command, args []string) error {
		levels, err := directory.AccessLevels(cmd.Context())
		if err != nil {
			return err
		}
		for _, level := range levels {
			fmt.Printf("  %-10s %s\n", level.ID, level.Name)
		}
		return nil
	},
}

var accessLevelsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register an access level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := directory.AddAccessLevel(cmd.Context(), args[0])
		return err
	},
}

func addUserFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&userReq.Email, "email", "", "account email")
	f.StringVar(&userReq.FirstName, "first-name", "", "first name")
	f.StringVar(&userReq.LastName, "last-name", "", "last name")
	f.StringVar(&userReq.ContactNumber, "contact", "", "contact number")
	f.StringVar(&userReq.AccessLevel, "access", "", "access level")
	f.StringVar(&userReq.BusinessUnit, "unit", "", "business unit")
}

func init() {
	addUserFlags(usersAddCmd)
	addUserFlags(usersUpdateCmd)

	usersCmd.AddCommand(usersListCmd, usersAddCmd, usersUpdateCmd,
		usersActivateCmd, usersDeactivateCmd, usersImportCmd)
	unitsCmd.AddCommand(unitsListCmd, unitsAddCmd)
	accessLevelsCmd.AddCommand(accessLevelsListCmd, accessLevelsAddCmd)
	rootCmd.AddCommand(usersCmd, unitsCmd, accessLevelsCmd)
}
