package stub

import (
	"github.com/rs/zerolog/log"
	"github.com/worklens/console-go/internal/domain/company"
	"github.com/worklens/console-go/internal/domain/session"
)

// Seed installs the development accounts. Each account exercises a
// different resolution path and token claim shape.
func Seed(store *Store) {
	users := []User{
		{
			Email:         "hr@worklens.dev",
			Password:      "password123",
			Access:        "hr",
			CompanyID:     "acme",
			UserID:        "u-hr",
			BusinessUnits: []string{"Retail"},
			UnitShape:     UnitsAsArray,
		},
		{
			Email:         "ceo@worklens.dev",
			Password:      "password123",
			Access:        "ceo",
			CompanyID:     "acme",
			UserID:        "u-ceo",
			BusinessUnits: []string{"Retail", "Logistics", "Corporate"},
			UnitShape:     UnitsAsCommaString,
		},
		{
			Email:     "super@worklens.dev",
			Password:  "password123",
			Access:    "superuser",
			CompanyID: "acme-group",
			UserID:    "u-super",
		},
		{
			Email:         "manager@worklens.dev",
			Password:      "password123",
			Access:        "team manager",
			CompanyID:     "acme",
			UserID:        "u-mgr",
			BusinessUnits: []string{"Retail", "Logistics"},
			UnitShape:     UnitsAsURIKey,
		},
		{
			Email:             "new@worklens.dev",
			Password:          "changeme",
			Access:            "admin",
			CompanyID:         "acme",
			UserID:            "u-new",
			MustResetPassword: true,
		},
	}
	for _, u := range users {
		if err := store.AddUser(u); err != nil {
			log.Error().Err(err).Str("email", u.Email).Msg("Failed to seed user")
		}
	}

	store.SetAssignments("u-super", []session.CompanyAssignment{
		{CompanyID: "acme-retail", CompanyName: "Acme Retail", CompanyType: "subsidiary", Location: "Sydney"},
		{CompanyID: "acme-logistics", CompanyName: "Acme Logistics", CompanyType: "subsidiary", Location: "Melbourne"},
		{CompanyID: "acme-group", CompanyName: "Acme Group", CompanyType: "parent", Location: "Sydney", IsParent: true},
	})

	store.SetProfile(company.Profile{
		ID:            "acme-group",
		Name:          "Acme Group",
		ABN:           "53 004 085 616",
		ContactNumber: "+61 2 9000 0000",
		Location:      "Sydney",
	})
	store.AddSubCompany(company.SubCompany{ID: "acme-retail", Name: "Acme Retail", Location: "Sydney"})
	store.AddSubCompany(company.SubCompany{ID: "acme-logistics", Name: "Acme Logistics", Location: "Melbourne"})

	for _, name := range []string{"Retail", "Logistics", "Corporate"} {
		store.AddUnit(name)
	}
	for _, name := range []string{"admin", "hr", "ceo", "superuser", "team manager"} {
		store.AddAccessLevel(name)
	}

	directory := []company.User{
		{ID: "u-hr", Email: "hr@worklens.dev", FirstName: "Harper", LastName: "Reid", AccessLevel: "hr", BusinessUnit: "Retail", Active: true},
		{ID: "u-ceo", Email: "ceo@worklens.dev", FirstName: "Casey", LastName: "Ostrom", AccessLevel: "ceo", Active: true},
		{ID: "u-super", Email: "super@worklens.dev", FirstName: "Sydney", LastName: "Ung", AccessLevel: "superuser", Active: true},
		{ID: "u-mgr", Email: "manager@worklens.dev", FirstName: "Morgan", LastName: "Tan", AccessLevel: "team manager", BusinessUnit: "Logistics", Active: true},
	}
	for _, u := range directory {
		if _, ok := store.AddDirectoryUser(u); !ok {
			log.Error().Str("email", u.Email).Msg("Failed to seed directory user")
		}
	}
}
