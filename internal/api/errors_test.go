package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskboard/taskboard-api/internal/api"
	"github.com/taskboard/taskboard-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"generic not found", store.ErrNotFound, http.StatusNotFound},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"duplicate", store.ErrDuplicate, http.StatusConflict},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"wrapped invalid entity", fmt.Errorf("insert: %w", store.ErrInvalidEntity), http.StatusBadRequest},
		{"unknown error", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, api.MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "Task not found", api.GetSafeErrorMessage(store.ErrTaskNotFound))
	assert.Equal(t, "User not found", api.GetSafeErrorMessage(store.ErrUserNotFound))
	assert.Equal(t, "Email already exists", api.GetSafeErrorMessage(store.ErrEmailExists))
	assert.Equal(t, "Invalid user reference", api.GetSafeErrorMessage(store.ErrInvalidEntity))

	// Internal detail never leaks through the safe message.
	internal := errors.New("pq: SSLv3 alert handshake failure")
	assert.Equal(t, "An internal error occurred", api.GetSafeErrorMessage(internal))
}
