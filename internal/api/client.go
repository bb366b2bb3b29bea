package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/worklens/console-go/internal/domain/analysis"
	"github.com/worklens/console-go/internal/domain/company"
	"github.com/worklens/console-go/internal/domain/session"
	"github.com/worklens/console-go/internal/pkg/claims"
)

// SessionSource supplies the credentials and scoping the client attaches
// to every authenticated request.
type SessionSource interface {
	Token() string
	SelectedCompanyID() string
}

// Client talks to the Worklens backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	session SessionSource
}

func NewClient(baseURL string, timeout time.Duration, source SessionSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
		session: source,
	}
}

// LoginResult is the normalized outcome of POST /Auth/login.
type LoginResult struct {
	Token             string
	MustResetPassword bool
}

// Login authenticates with email/password credentials. A 2xx response
// without a token is surfaced as session.ErrNoToken.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var payload map[string]interface{}
	if err := c.do(ctx, http.MethodPost, "/Auth/login", nil, body, &payload, false); err != nil {
		return LoginResult{}, err
	}

	result := LoginResult{
		Token:             claims.StringClaim(payload, "token"),
		MustResetPassword: claims.BoolClaim(payload, "mustResetPassword"),
	}
	if result.Token == "" {
		return LoginResult{}, session.ErrNoToken
	}
	return result, nil
}

// ResetPassword sets a new password for the signed-in user.
func (c *Client) ResetPassword(ctx context.Context, newPassword string) error {
	body := map[string]string{"newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/Auth/reset-password", nil, body, nil, true)
}

// ForgotPassword requests a reset email and returns the backend message.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}
	var payload map[string]interface{}
	if err := c.do(ctx, http.MethodPost, "/Auth/forgot-password", nil, body, &payload, false); err != nil {
		return "", err
	}
	return claims.StringClaim(payload, "message"), nil
}

// Logout revokes the current token server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/Auth/logout", nil, nil, nil, true)
}

// UserAssignments lists the companies a user may manage under a parent
// company.
func (c *Client) UserAssignments(ctx context.Context, parentCompanyID, userID string) ([]session.CompanyAssignment, error) {
	path := fmt.Sprintf("/company/%s/user-assignments/%s", url.PathEscape(parentCompanyID), url.PathEscape(userID))
	var assignments []session.CompanyAssignment
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &assignments, true); err != nil {
		return nil, err
	}
	return assignments, nil
}

// SaveHistory persists an analysis snapshot.
func (c *Client) SaveHistory(ctx context.Context, req *analysis.SaveSnapshotRequest) (analysis.SnapshotRef, error) {
	var saved analysis.SnapshotRef
	if err := c.do(ctx, http.MethodPost, "/AnalysisHistory/save", nil, req, &saved, true); err != nil {
		return analysis.SnapshotRef{}, err
	}
	return saved, nil
}

// ListHistory returns all saved snapshots, draft and final, in server
// order.
func (c *Client) ListHistory(ctx context.Context) ([]analysis.SnapshotRef, error) {
	var list []analysis.SnapshotRef
	if err := c.do(ctx, http.MethodGet, "/AnalysisHistory/all", nil, nil, &list, true); err != nil {
		return nil, err
	}
	return list, nil
}

// HistoryDetail fetches the full body of one snapshot.
func (c *Client) HistoryDetail(ctx context.Context, id string) (analysis.Snapshot, error) {
	var snap analysis.Snapshot
	path := "/AnalysisHistory/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &snap, true); err != nil {
		return analysis.Snapshot{}, err
	}
	return snap, nil
}

// YTDAnalysis fetches the backend-computed year-to-date aggregate.
func (c *Client) YTDAnalysis(ctx context.Context, year int) (analysis.Snapshot, error) {
	query := url.Values{"year": []string{strconv.Itoa(year)}}
	var snap analysis.Snapshot
	if err := c.do(ctx, http.MethodGet, "/AnalysisHistory/ceo/ytd", query, nil, &snap, true); err != nil {
		return analysis.Snapshot{}, err
	}
	return snap, nil
}

// FetchAnalysis fetches the live aggregated rows for one category.
func (c *Client) FetchAnalysis(ctx context.Context, category analysis.Category) ([]analysis.Row, error) {
	var rows []analysis.Row
	if err := c.do(ctx, http.MethodGet, "/"+string(category)+"/analysis", nil, nil, &rows, true); err != nil {
		return nil, err
	}
	return rows, nil
}

// OnboardCompany creates a company plus its superuser account.
func (c *Client) OnboardCompany(ctx context.Context, req *company.OnboardRequest) (company.OnboardResponse, error) {
	var payload map[string]interface{}
	if err := c.do(ctx, http.MethodPost, "/Company/onboard", nil, req, &payload, false); err != nil {
		return company.OnboardResponse{}, err
	}
	return company.OnboardResponse{
		Message:     claims.StringClaim(payload, "message"),
		CheckoutURL: claims.StringClaim(payload, "checkoutUrl"),
	}, nil
}

// do performs one request/response cycle. When authed, the bearer token
// is attached and, if the session has a resolved company selection, the
// subCompanyId query parameter is always included so the backend can
// resolve the intended target company.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, authed bool) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.requestURL(path, query, authed), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := c.session.Token()
		if token == "" {
			return session.ErrNotSignedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseServerError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

func (c *Client) requestURL(path string, query url.Values, authed bool) string {
	if query == nil {
		query = url.Values{}
	}
	if authed {
		if companyID := c.session.SelectedCompanyID(); companyID != "" {
			query.Set("subCompanyId", companyID)
		}
	}
	u := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}
