package stub

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

// uriUnitKey is the fully-qualified claim key some backend builds emit
// for business units.
const uriUnitKey = "http://schemas.worklens.dev/claims/businessunit"

// Tokens issues and verifies HS256 bearer tokens.
type Tokens struct {
	auth *jwtauth.JWTAuth
}

func NewTokens(secret string) *Tokens {
	return &Tokens{auth: jwtauth.New("HS256", []byte(secret), nil)}
}

// Auth exposes the underlying verifier for router middleware.
func (t *Tokens) Auth() *jwtauth.JWTAuth {
	return t.auth
}

// Issue builds a token for a user. The business-unit claim is encoded
// in the user's configured shape so clients get exercised against every
// variant the real backend has produced.
func (t *Tokens) Issue(u *User) (string, error) {
	claims := map[string]interface{}{
		"sub":       u.Email,
		"access":    u.Access,
		"companyId": u.CompanyID,
		"userId":    u.UserID,
		"exp":       time.Now().Add(12 * time.Hour).Unix(),
		"iat":       time.Now().Unix(),
	}

	if len(u.BusinessUnits) > 0 {
		switch u.UnitShape {
		case UnitsAsCommaString:
			claims["businessUnits"] = strings.Join(u.BusinessUnits, ",")
		case UnitsAsURIKey:
			claims[uriUnitKey] = strings.Join(u.BusinessUnits, ",")
		default:
			claims["businessUnits"] = u.BusinessUnits
		}
	}

	_, token, err := t.auth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to encode token: %w", err)
	}
	return token, nil
}
