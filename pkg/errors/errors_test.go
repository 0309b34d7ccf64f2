package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"not found", NewNotFoundError("refinery", "ryazan"), ErrNotFound, true},
		{"validation", NewValidationError("status", "x", "bad"), ErrInvalidInput, true},
		{"auth", NewAuthenticationError("password", "bad credentials", nil), ErrUnauthorized, true},
		{"conflict", NewConflictError("constants.ts", "a", "b"), ErrConflict, true},
		{"api 409", NewAPIError("commit", http.StatusConflict, "stale"), ErrConflict, true},
		{"api 502", NewAPIError("commit", http.StatusBadGateway, "down"), ErrUnavailable, true},
		{"api 400", NewAPIError("commit", http.StatusBadRequest, "bad"), ErrUnavailable, false},
		{"config", NewConfigError("github", "token missing", nil), ErrNotConfigured, true},
		{"wrapped", fmt.Errorf("publish: %w", NewNotFoundError("refinery", "x")), ErrNotFound, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Is(tt.err, tt.target))
		})
	}
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, WrapIO("write", "x", nil))
	assert.NoError(t, WrapParse("json", "x", nil))

	base := New("disk full")
	err := WrapIO("write", "published", base)
	var ioErr *IOError
	assert.True(t, As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Operation)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "IO error during write of published: disk full", err.Error())

	assert.True(t, IsValidationError(WrapValidation("field", base)))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "refinery with ID ryazan not found", NewNotFoundError("refinery", "ryazan").Error())
	assert.Equal(t, "validation failed: bad", NewValidationError("", nil, "bad").Error())
	assert.Equal(t, "API error from github (status 422): nope", NewAPIError("github", 422, "nope").Error())
	assert.Equal(t, `revision conflict on data: expected "a", found "b"`, NewConflictError("data", "a", "b").Error())
}
