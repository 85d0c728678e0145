package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelMatching(t *testing.T) {
	assert.ErrorIs(t, NotFound("post not found"), ErrNotFound)
	assert.ErrorIs(t, NotFoundf("post %d not found", 7), ErrNotFound)
	assert.ErrorIs(t, Conflict("already upvoted"), ErrConflict)
	assert.ErrorIs(t, Validation("bad rating"), ErrValidation)
	assert.ErrorIs(t, Validationf("unknown sort %q", "hot"), ErrValidation)
	assert.ErrorIs(t, Forbidden("not the author"), ErrForbidden)
	assert.ErrorIs(t, Internal("boom", nil), ErrInternal)

	assert.NotErrorIs(t, NotFound("post not found"), ErrConflict)
	assert.NotErrorIs(t, errors.New("plain"), ErrNotFound)
}

func TestSentinelMatchingThroughWrapping(t *testing.T) {
	err := fmt.Errorf("composing feed: %w", NotFound("community not found"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithCauseUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("storing upvote", nil).WithCause(cause)

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, cause)

	var appErr *Error
	require.ErrorAs(t, error(err), &appErr)
	assert.Equal(t, CodeInternal, appErr.Code)
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:   http.StatusBadRequest,
		CodeNotFound:     http.StatusNotFound,
		CodeConflict:     http.StatusConflict,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeInternal:     http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, code.HTTPStatus(), string(code))
	}
	assert.Equal(t, http.StatusInternalServerError, Code("UNKNOWN").HTTPStatus())
	assert.Equal(t, http.StatusConflict, Conflict("dup").HTTPStatus())
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "already upvoted", Conflict("already upvoted").Error())

	cause := errors.New("unique constraint")
	withCause := Conflict("already upvoted").WithCause(cause)
	assert.Contains(t, withCause.Error(), "already upvoted")
}
