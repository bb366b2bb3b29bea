package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/worklens/console-go/internal/domain/company"
	"github.com/worklens/console-go/internal/pkg/claims"
)

// CompanyDetails fetches the effective company record.
func (c *Client) CompanyDetails(ctx context.Context) (company.Profile, error) {
	var profile company.Profile
	if err := c.do(ctx, http.MethodGet, "/Company/effective", nil, nil, &profile, true); err != nil {
		return company.Profile{}, err
	}
	return profile, nil
}

// UpdateCompany replaces the effective company record and returns the
// backend message.
func (c *Client) UpdateCompany(ctx context.Context, req *company.UpdateProfileRequest) (string, error) {
	var payload map[string]interface{}
	if err := c.do(ctx, http.MethodPut, "/Company/effective", nil, req, &payload, true); err != nil {
		return "", err
	}
	return claims.StringClaim(payload, "message"), nil
}

// SubCompanies lists the children of a parent company.
func (c *Client) SubCompanies(ctx context.Context, parentCompanyID string) ([]company.SubCompany, error) {
	path := fmt.Sprintf("/Company/%s/subcompanies", url.PathEscape(parentCompanyID))
	var subs []company.SubCompany
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &subs, true); err != nil {
		return nil, err
	}
	return subs, nil
}

// CreateSubCompany registers a new child company under the parent.
func (c *Client) CreateSubCompany(ctx context.Context, parentCompanyID string, req *company.CreateSubCompanyRequest) (company.SubCompany, error) {
	path := fmt.Sprintf("/Company/%s/subcompanies", url.PathEscape(parentCompanyID))
	var created company.SubCompany
	if err := c.do(ctx, http.MethodPost, path, nil, req, &created, true); err != nil {
		return company.SubCompany{}, err
	}
	return created, nil
}

// AssignSuperUsers grants parent-company superusers access to one
// sub-company and returns the backend message.
func (c *Client) AssignSuperUsers(ctx context.Context, parentCompanyID, subCompanyID string, userIDs []string) (string, error) {
	path := fmt.Sprintf("/Company/%s/subcompanies/%s/assign-superusers",
		url.PathEscape(parentCompanyID), url.PathEscape(subCompanyID))
	body := map[string][]string{"userIds": userIDs}
	var payload map[string]interface{}
	if err := c.do(ctx, http.MethodPost, path, nil, body, &payload, true); err != nil {
		return "", err
	}
	return claims.StringClaim(payload, "message"), nil
}

// SuperUsers lists the parent company's superusers.
func (c *Client) SuperUsers(ctx context.Context, parentCompanyID string) ([]company.SuperUser, error) {
	path := fmt.Sprintf("/Company/%s/superusers", url.PathEscape(parentCompanyID))
	var supers []company.SuperUser
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &supers, true); err != nil {
		return nil, err
	}
	return supers, nil
}
