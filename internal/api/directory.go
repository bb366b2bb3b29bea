package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/worklens/console-go/internal/domain/company"
	"github.com/worklens/console-go/internal/pkg/claims"
)

// ListUsers returns the directory of the effective company.
func (c *Client) ListUsers(ctx context.Context) ([]company.User, error) {
	var users []company.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &users, true); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser adds one directory account.
func (c *Client) CreateUser(ctx context.Context, req *company.UserRequest) (company.User, error) {
	var created company.User
	if err := c.do(ctx, http.MethodPost, "/users", nil, req, &created, true); err != nil {
		return company.User{}, err
	}
	return created, nil
}

// UpdateUser replaces a directory account's details.
func (c *Client) UpdateUser(ctx context.Context, req *company.UserRequest) (company.User, error) {
	var updated company.User
	path := "/users/" + url.PathEscape(req.ID)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &updated, true); err != nil {
		return company.User{}, err
	}
	return updated, nil
}

// SetUserActive flips an account's active flag and returns the backend
// message.
func (c *Client) SetUserActive(ctx context.Context, id string, active bool) (string, error) {
	verb := "inactivate"
	if active {
		verb = "activate"
	}
	path := "/users/" + url.PathEscape(id) + "/" + verb
	var payload map[string]interface{}
	if err := c.do(ctx, http.MethodPatch, path, nil, nil, &payload, true); err != nil {
		return "", err
	}
	return claims.StringClaim(payload, "message"), nil
}

// BusinessUnits lists the effective company's reporting units.
func (c *Client) BusinessUnits(ctx context.Context) ([]company.BusinessUnit, error) {
	var units []company.BusinessUnit
	if err := c.do(ctx, http.MethodGet, "/metadata/businessunits", nil, nil, &units, true); err != nil {
		return nil, err
	}
	return units, nil
}

// AddBusinessUnit registers a new reporting unit.
func (c *Client) AddBusinessUnit(ctx context.Context, name string) (company.BusinessUnit, error) {
	body := map[string]string{"name": name}
	var unit company.BusinessUnit
	if err := c.do(ctx, http.MethodPost, "/metadata/businessunits", nil, body, &unit, true); err != nil {
		return company.BusinessUnit{}, err
	}
	return unit, nil
}

// AccessLevels lists the assignable role names.
func (c *Client) AccessLevels(ctx context.Context) ([]company.AccessLevel, error) {
	var levels []company.AccessLevel
	if err := c.do(ctx, http.MethodGet, "/metadata/accesslevels", nil, nil, &levels, true); err != nil {
		return nil, err
	}
	return levels, nil
}

// AddAccessLevel registers a new assignable role name.
func (c *Client) AddAccessLevel(ctx context.Context, name string) (company.AccessLevel, error) {
	body := map[string]string{"name": name}
	var level company.AccessLevel
	if err := c.do(ctx, http.MethodPost, "/metadata/accesslevels", nil, body, &level, true); err != nil {
		return company.AccessLevel{}, err
	}
	return level, nil
}
