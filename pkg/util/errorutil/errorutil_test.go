package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodesAndStatuses(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewUnauthenticated("no token"), CodeUnauthenticated, http.StatusUnauthorized},
		{NewUnapproved("pending"), CodeUnapproved, http.StatusForbidden},
		{NewInsufficientRole("admin", "customer"), CodeInsufficientRole, http.StatusForbidden},
		{NewForbiddenOwnership("not yours"), CodeForbiddenOwnership, http.StatusForbidden},
		{NewNotFound("project", nil), CodeNotFound, http.StatusNotFound},
		{NewInvalidTransition("project", "lead", "completed"), CodeInvalidTransition, http.StatusUnprocessableEntity},
		{NewConflict("row moved", nil), CodeConflict, http.StatusConflict},
		{NewCatalogWriteFailed(errors.New("boom")), CodeCatalogWriteFailed, http.StatusInternalServerError},
		{NewValidationError("bad input", nil), CodeValidationFailed, http.StatusBadRequest},
		{NewInternalError(errors.New("boom")), CodeInternalError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		domainErr := ToDomainError(tc.err)
		require.NotNil(t, domainErr)
		assert.Equal(t, tc.code, domainErr.Code)
		assert.Equal(t, tc.status, domainErr.HTTPStatus)
	}
}

func TestInsufficientRoleDetails(t *testing.T) {
	domainErr := ToDomainError(NewInsufficientRole("admin", "designer"))
	assert.Equal(t, "admin", domainErr.Details["required"])
	assert.Equal(t, "designer", domainErr.Details["current"])
}

func TestToDomainErrorWrapsForeignErrors(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	domainErr := ToDomainError(cause)
	assert.Equal(t, CodeInternalError, domainErr.Code)
	assert.ErrorIs(t, domainErr, cause)
}

func TestToDomainErrorPreservesWrapped(t *testing.T) {
	inner := NewConflict("row moved", nil)
	domainErr := ToDomainError(inner)
	assert.Equal(t, CodeConflict, domainErr.Code)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(NewNotFound("lead", nil)))
	assert.Equal(t, CodeInternalError, CodeOf(errors.New("anything")))
}

func TestInvalidTransitionMessage(t *testing.T) {
	domainErr := ToDomainError(NewInvalidTransition("lead", "accepted", "declined"))
	assert.Contains(t, domainErr.Message, "lead")
	assert.Contains(t, domainErr.Message, "accepted")
	assert.Contains(t, domainErr.Message, "declined")
	assert.Equal(t, "accepted", domainErr.Details["from"])
	assert.Equal(t, "declined", domainErr.Details["to"])
}
