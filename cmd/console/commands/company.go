package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/worklens/console-go/internal/domain/company"
)

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Manage the company profile and its sub-companies",
}

var companyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective company record",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := org.Details(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", profile.Name, profile.ID)
		if profile.ABN != "" {
			fmt.Println("  ABN:     ", profile.ABN)
		}
		if profile.ContactNumber != "" {
			fmt.Println("  Contact: ", profile.ContactNumber)
		}
		if profile.Location != "" {
			fmt.Println("  Location:", profile.Location)
		}
		return nil
	},
}

var updateProfileReq company.UpdateProfileRequest

var companyUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the effective company record",
	RunE: func(cmd *cobra.Command, args []string) error {
		return org.Update(cmd.Context(), &updateProfileReq)
	},
}

var companySubsCmd = &cobra.Command{
	Use:   "subs",
	Short: "Manage sub-companies",
}

var companySubsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the parent company's sub-companies",
	RunE: func(cmd *cobra.Command, args []string) error {
		subs, err := org.SubCompanies(cmd.Context())
		if err != nil {
			return err
		}
		if len(subs) == 0 {
			fmt.Println("No sub-companies yet.")
			return nil
		}
		for _, sub := range subs {
			fmt.Printf("  %-16s %-24s %s\n", sub.ID, sub.Name, sub.Location)
		}
		return nil
	},
}

var createSubReq company.CreateSubCompanyRequest

var companySubsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a sub-company",
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := org.CreateSubCompany(cmd.Context(), &createSubReq)
		if err != nil {
			return err
		}
		fmt.Printf("Created sub-company %s (%s)\n", created.ID, created.Name)
		return nil
	},
}

var assignUserIDs []string

var companySubsAssignCmd = &cobra.Command{
	Use:   "assign <sub-company-id>",
	Short: "Assign superusers to a sub-company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return org.AssignSuperUsers(cmd.Context(), args[0], assignUserIDs)
	},
}

var companySuperusersCmd = &cobra.Command{
	Use:   "superusers",
	Short: "List the parent company's superusers",
	RunE: func(cmd *cobra.Command, args []string) error {
		supers, err := org.SuperUsers(cmd.Context())
		if err != nil {
			return err
		}
		for _, su := range supers {
			fmt.Printf("  %-10s %-30s %s\n", su.UserID, su.Email, su.Name)
		}
		return nil
	},
}

func init() {
	f := companyUpdateCmd.Flags()
	f.StringVar(&updateProfileReq.Name, "name", "", "company name")
	f.StringVar(&updateProfileReq.ABN, "abn", "", "company ABN")
	f.StringVar(&updateProfileReq.ContactNumber, "contact", "", "contact number")
	f.StringVar(&updateProfileReq.Location, "location", "", "location")

	f = companySubsAddCmd.Flags()
	f.StringVar(&createSubReq.Name, "name", "", "sub-company name")
	f.StringVar(&createSubReq.Location, "location", "", "sub-company location")

	companySubsAssignCmd.Flags().StringArrayVar(&assignUserIDs, "user", nil, "superuser id to assign (repeatable)")

	companySubsCmd.AddCommand(companySubsListCmd, companySubsAddCmd, companySubsAssignCmd)
	companyCmd.AddCommand(companyShowCmd, companyUpdateCmd, companySubsCmd, companySuperusersCmd)
	rootCmd.AddCommand(companyCmd)
}
