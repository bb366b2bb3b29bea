package claims

import (
	"encoding/base64"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeSegment(t *testing.T, v interface{}) string {
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// makeToken builds an unsigned JWS-shaped token around the payload.
func makeToken(t *testing.T, payload map[string]interface{}) string {
	header := encodeSegment(t, map[string]string{"alg": "none", "typ": "JWT"})
	return header + "." + encodeSegment(t, payload) + "."
}

func TestDecode_ArrayUnits(t *testing.T) {
	token := makeToken(t, map[string]interface{}{
		"access":        "ceo",
		"companyId":     "acme",
		"userId":        "u-1",
		"businessUnits": []string{"Retail", "Logistics"},
	})

	set := Decode(token)

	assert.Equal(t, "ceo", set.Access)
	assert.Equal(t, "acme", set.CompanyID)
	assert.Equal(t, "u-1", set.UserID)
	assert.Equal(t, []string{"Retail", "Logistics"}, set.BusinessUnits)
}

func TestDecode_CommaStringUnits(t *testing.T) {
	token := makeToken(t, map[string]interface{}{
		"businessUnits": "Retail, Logistics , ,Corporate",
	})

	set := Decode(token)

	assert.Equal(t, []string{"Retail", "Logistics", "Corporate"}, set.BusinessUnits)
}

func TestDecode_URIKeyedUnits(t *testing.T) {
	token := makeToken(t, map[string]interface{}{
		"http://schemas.worklens.dev/claims/businessunit": "Retail,Logistics",
	})

	set := Decode(token)

	assert.Equal(t, []string{"Retail", "Logistics"}, set.BusinessUnits)
}

func TestDecode_SingularUnitKey(t *testing.T) {
	token := makeToken(t, map[string]interface{}{
		"businessUnit": "Retail",
	})

	set := Decode(token)

	assert.Equal(t, []string{"Retail"}, set.BusinessUnits)
}

func TestDecode_KeyCaseAndSeparators(t *testing.T) {
	token := makeToken(t, map[string]interface{}{
		"Access":     "hr",
		"company_id": "acme",
		"UserID":     "u-2",
	})

	set := Decode(token)

	assert.Equal(t, "hr", set.Access)
	assert.Equal(t, "acme", set.CompanyID)
	assert.Equal(t, "u-2", set.UserID)
}

func TestDecode_TwoSegmentToken(t *testing.T) {
	// Older backend builds emitted header.payload without a signature
	// segment.
	header := encodeSegment(t, map[string]string{"alg": "none"})
	payload := encodeSegment(t, map[string]interface{}{"access": "admin"})
	token := header + "." + payload

	set := Decode(token)

	assert.Equal(t, "admin", set.Access)
}

func TestDecode_IsTotal(t *testing.T) {
	// Malformed input must never panic or error, only yield a zero Set.
	for _, token := range []string{
		"",
		"   ",
		"not-a-token",
		"a.b",
		"a.!!!.c",
		"a." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".c",
	} {
		set := Decode(token)
		assert.True(t, set.IsZero(), "token %q should decode to a zero Set", token)
	}
}

func TestBoolClaim(t *testing.T) {
	payload := map[string]interface{}{
		"mustResetPassword": "True",
		"other":             true,
	}

	assert.True(t, BoolClaim(payload, "mustResetPassword"))
	assert.True(t, BoolClaim(payload, "must_reset_password"))
	assert.True(t, BoolClaim(payload, "other"))
	assert.False(t, BoolClaim(payload, "missing"))
}

func TestStringClaim_NumericValue(t *testing.T) {
	payload := map[string]interface{}{"companyId": float64(42)}

	assert.Equal(t, "42", StringClaim(payload, "companyId"))
}
