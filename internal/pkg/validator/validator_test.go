package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty("x"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("user@example.com"))
	assert.True(t, IsValidEmail("first.last+tag@sub.example.co"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("missing@tld"))
	assert.False(t, IsValidEmail(""))
}

func TestIsInSlice(t *testing.T) {
	units := []string{"Retail", "Logistics"}

	assert.True(t, IsInSlice("Retail", units))
	assert.False(t, IsInSlice("retail", units))
	assert.False(t, IsInSlice("Corporate", units))
}

func TestIsValidMonth(t *testing.T) {
	assert.True(t, IsValidMonth(1))
	assert.True(t, IsValidMonth(12))
	assert.False(t, IsValidMonth(0))
	assert.False(t, IsValidMonth(13))
}

func TestIsValidYear(t *testing.T) {
	assert.True(t, IsValidYear(2026))
	assert.False(t, IsValidYear(1999))
	assert.False(t, IsValidYear(2101))
}

func TestValidationErrors_ErrorAndToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "email is required"},
		{Field: "password", Message: "password is required"},
	}

	assert.Contains(t, errs.Error(), "email is required")
	assert.Contains(t, errs.Error(), "password is required")

	m := errs.ToMap()
	assert.Equal(t, "email is required", m["email"])
	assert.Equal(t, "password is required", m["password"])
}
