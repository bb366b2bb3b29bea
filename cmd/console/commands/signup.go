package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/worklens/console-go/internal/domain/company"
)

var onboardReq company.OnboardRequest

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a company and its superuser account",
	Long: `Creates a company with a superuser account and opens the
subscription checkout page in your browser.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := signup.Onboard(cmd.Context(), &onboardReq)
		if err != nil {
			return err
		}
		if resp.CheckoutURL != "" {
			fmt.Println("Checkout:", resp.CheckoutURL)
		}
		return nil
	},
}

func init() {
	f := signupCmd.Flags()
	f.StringVar(&onboardReq.SuperUserEmail, "email", "", "superuser email")
	f.StringVar(&onboardReq.SuperUserFirstName, "first-name", "", "superuser first name")
	f.StringVar(&onboardReq.SuperUserMiddleName, "middle-name", "", "superuser middle name")
	f.StringVar(&onboardReq.SuperUserLastName, "last-name", "", "superuser last name")
	f.StringVar(&onboardReq.SuperUserContactNumber, "contact", "", "superuser contact number (defaults to company contact)")
	f.StringVar(&onboardReq.SuperUserLocation, "location", "", "superuser location (defaults to company location)")
	f.StringVar(&onboardReq.CompanyName, "company", "", "company name")
	f.StringVar(&onboardReq.CompanyABN, "abn", "", "company ABN")
	f.StringVar(&onboardReq.ContactNumber, "company-contact", "", "company contact number")
	f.StringVar(&onboardReq.CompanyLocation, "company-location", "", "company location")
	f.StringVar(&onboardReq.SubscriptionPlanID, "plan", "", "subscription plan id")
	f.IntVar(&onboardReq.AdditionalSeatsRequested, "seats", 0, "additional seats requested")

	rootCmd.AddCommand(signupCmd)
}
