package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindAuthentication, http.StatusUnauthorized},
		{KindAuthorization, http.StatusForbidden},
		{KindExternalService, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	base := NotFound("medication not found")
	wrapped := fmt.Errorf("toggle: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := External("failed to send OTP email", cause)

	assert.Equal(t, "failed to send OTP email: dial tcp: refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestWithDetail(t *testing.T) {
	err := Validation("Invalid OTP").WithDetail("remainingAttempts", 2)
	assert.Equal(t, 2, err.Details["remainingAttempts"])
}
