// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taaga/internal/platform/apperr"
)

func TestValidatorPassesOnValidInput(t *testing.T) {
	err := (&Validator{}).
		Required("email", "jane@taaga.shop").
		Email("email", "jane@taaga.shop").
		MaxLen("email", "jane@taaga.shop", 254).
		UUID("id", "0192d6a0-0000-7000-8000-0000000000aa").
		Err()

	assert.NoError(t, err)
}

func TestValidatorCollectsAllFailures(t *testing.T) {
	err := (&Validator{}).
		Required("email", "   ").
		Required("password", "").
		Custom("price", true, "Price must not be negative").
		Err()

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	assert.Len(t, appError.Details, 3, "every failed rule contributes a field error")
}

func TestValidatorRules(t *testing.T) {
	testCases := []struct {
		name  string
		build func(v *Validator) *Validator
		valid bool
	}{
		{
			name:  "required rejects whitespace",
			build: func(v *Validator) *Validator { return v.Required("f", " \t ") },
		},
		{
			name:  "email rejects bare word",
			build: func(v *Validator) *Validator { return v.Email("f", "not-an-email") },
		},
		{
			name:  "min length counts runes",
			build: func(v *Validator) *Validator { return v.MinLen("f", "héllo", 6) },
		},
		{
			name:  "max length counts runes",
			build: func(v *Validator) *Validator { return v.MaxLen("f", "héllo", 5) },
			valid: true,
		},
		{
			name:  "uuid accepts uppercase",
			build: func(v *Validator) *Validator { return v.UUID("f", "0192D6A0-0000-7000-8000-0000000000AA") },
			valid: true,
		},
		{
			name:  "uuid rejects short string",
			build: func(v *Validator) *Validator { return v.UUID("f", "1234") },
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.build(&Validator{}).Err()
			if testCase.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestHasErrorsReflectsState(t *testing.T) {
	validator := &Validator{}
	assert.False(t, validator.HasErrors())

	validator.Required("f", "")
	assert.True(t, validator.HasErrors())
}
