package claims

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Set holds the claims the console cares about, extracted from a bearer
// token. A zero Set is a valid "no claims" value; downstream logic never
// has to branch on nil.
type Set struct {
	Access        string
	CompanyID     string
	UserID        string
	BusinessUnits []string
}

func (s Set) IsZero() bool {
	return s.Access == "" && s.CompanyID == "" && s.UserID == "" && len(s.BusinessUnits) == 0
}

// Decode structurally decodes the token payload. The signature is not
// verified here; trust in the token content is delegated to the backend
// and the TLS channel. Decode is total: malformed input yields an empty
// Set, never an error.
func Decode(token string) Set {
	payload, ok := decodePayload(token)
	if !ok {
		return Set{}
	}
	return Set{
		Access:        StringClaim(payload, "access"),
		CompanyID:     StringClaim(payload, "companyId"),
		UserID:        StringClaim(payload, "userId"),
		BusinessUnits: BusinessUnits(payload),
	}
}

func decodePayload(token string) (map[string]interface{}, bool) {
	if strings.TrimSpace(token) == "" {
		return nil, false
	}

	if tok, err := jwt.ParseInsecure([]byte(token)); err == nil {
		return tok.PrivateClaims(), true
	}

	// Tokens issued by older backend builds are missing the signature
	// segment, which jwx rejects outright. Fall back to decoding the
	// payload segment directly.
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, false
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// StringClaim returns the named claim as a string, matching the key
// case-insensitively and ignoring separator characters, so "companyId",
// "CompanyId" and "company_id" all resolve the same claim.
func StringClaim(payload map[string]interface{}, name string) string {
	want := canonicalKey(name)
	for k, v := range payload {
		if canonicalKey(k) != want {
			continue
		}
		if s, ok := asString(v); ok {
			return s
		}
	}
	return ""
}

// BoolClaim returns the named claim as a bool, with the same key
// matching rules as StringClaim. String "true"/"false" values count.
func BoolClaim(payload map[string]interface{}, name string) bool {
	want := canonicalKey(name)
	for k, v := range payload {
		if canonicalKey(k) != want {
			continue
		}
		switch val := v.(type) {
		case bool:
			return val
		case string:
			return strings.EqualFold(val, "true")
		}
	}
	return false
}

// BusinessUnits extracts the business-unit claim regardless of shape:
// an array claim, a comma-joined string claim, or any claim whose key
// contains "businessunit" (ASP.NET emits fully-qualified claim URIs).
func BusinessUnits(payload map[string]interface{}) []string {
	for _, key := range []string{"businessUnits", "businessUnit"} {
		want := canonicalKey(key)
		for k, v := range payload {
			if canonicalKey(k) == want {
				if units := splitUnits(v); len(units) > 0 {
					return units
				}
			}
		}
	}

	for k, v := range payload {
		if strings.Contains(canonicalKey(k), "businessunit") {
			if units := splitUnits(v); len(units) > 0 {
				return units
			}
		}
	}

	return nil
}

func splitUnits(v interface{}) []string {
	var raw []string
	switch val := v.(type) {
	case []interface{}:
		for _, item := range val {
			raw = append(raw, fmt.Sprint(item))
		}
	case []string:
		raw = val
	case string:
		raw = strings.Split(val, ",")
	default:
		return nil
	}

	var units []string
	for _, u := range raw {
		if u = strings.TrimSpace(u); u != "" {
			units = append(units, u)
		}
	}
	return units
}

func asString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case fmt.Stringer:
		return val.String(), true
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%v", val), ".0"), true
	}
	return "", false
}

func canonicalKey(k string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(k) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
