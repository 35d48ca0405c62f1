package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/clinicops/clinic-api/pkg/errors"
)

type sample struct {
	Name string `validate:"required"`
	Mail string `validate:"required,email"`
	Kind string `validate:"required,oneof=patient doctor"`
}

func TestValidate(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&sample{Name: "a", Mail: "a@example.com", Kind: "patient"}))

	cases := []struct {
		name string
		in   *sample
		msg  string
	}{
		{"missing name", &sample{Mail: "a@example.com", Kind: "patient"}, "name is required"},
		{"bad email", &sample{Name: "a", Mail: "nope", Kind: "patient"}, "mail must be a valid email"},
		{"bad oneof", &sample{Name: "a", Mail: "a@example.com", Kind: "admin"}, "kind must be one of: patient doctor"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.in)
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
			assert.EqualError(t, err, tc.msg)
		})
	}
}
