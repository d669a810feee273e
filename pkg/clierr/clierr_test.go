package clierr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cesi-vents/vents/pkg/clierr"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessageAndUnwrap(t *testing.T) {
	underlying := errors.New("connection refused")
	err := clierr.New(clierr.Network, "could not reach the server", underlying)

	assert.Equal(t, "could not reach the server", err.Error())
	assert.Equal(t, underlying, errors.Unwrap(err))
}

func TestTypeOf(t *testing.T) {
	err := clierr.New(clierr.Auth, "session expired", nil)
	assert.Equal(t, clierr.Auth, clierr.TypeOf(err))

	// Wrapped errors keep their classification.
	wrapped := fmt.Errorf("profile fetch failed: %w", err)
	assert.Equal(t, clierr.Auth, clierr.TypeOf(wrapped))
	assert.True(t, clierr.IsAuth(wrapped))

	// Plain errors fall back to Internal.
	assert.Equal(t, clierr.Internal, clierr.TypeOf(errors.New("boom")))
	assert.False(t, clierr.IsAuth(errors.New("boom")))
}
