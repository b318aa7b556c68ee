package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	// Verify all expected error codes exist
	codes := []string{
		ErrConfig,
		ErrDB,
		ErrCache,
		ErrLayout,
		ErrPanel,
		ErrServer,
	}

	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
	}

	// Verify codes are unique
	seen := make(map[string]bool)
	for _, code := range codes {
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in campus.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "db error",
			code:       ErrDB,
			message:    "Cannot open database",
			suggestion: "Check DB_HOST and DB_PORT",
		},
		{
			name:       "layout error",
			code:       ErrLayout,
			message:    "Cannot determine terminal width",
			suggestion: "Run in a terminal or use 'campus status'",
		},
		{
			name:       "server error",
			code:       ErrServer,
			message:    "Cannot listen on :3000",
			suggestion: "Choose another PORT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
		notExpected   []string
	}{
		{
			name: "basic error formatting",
			err:  New(ErrConfig, "Invalid configuration", "Check campus.yaml syntax"),
			expectedParts: []string{
				"Invalid configuration",
				"Check campus.yaml syntax",
			},
		},
		{
			name: "error with failure symbol",
			err:  New(ErrDB, "Connection failed", "Try again"),
			expectedParts: []string{
				"✗",
				"Connection failed",
			},
		},
		{
			name: "error without suggestion",
			err:  New(ErrServer, "Listen failed", ""),
			expectedParts: []string{
				"Listen failed",
			},
			notExpected: []string{
				"\n\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()

			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part, "output should contain %q", part)
			}

			for _, part := range tt.notExpected {
				assert.NotContains(t, output, part, "output should not contain %q", part)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("address already in use")
	wrapped := Wrap(cause, "HTTP server failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrServer, wrapped.Code, "Wrap should default to ErrServer code")
	assert.Equal(t, "HTTP server failed", wrapped.Message)
	assert.Equal(t, cause, wrapped.Cause)
}

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("file not found")
	wrapped := WrapWithCode(cause, ErrConfig, "Failed to load config", "Create campus.yaml")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrConfig, wrapped.Code)
	assert.Equal(t, "Failed to load config", wrapped.Message)
	assert.Equal(t, "Create campus.yaml", wrapped.Suggestion)
	assert.Equal(t, cause, wrapped.Cause)
	assert.Contains(t, wrapped.Error(), "file not found")
}

func TestErrorsIsAndAs(t *testing.T) {
	cause := errors.New("specific error")
	wrapped := WrapWithCode(cause, ErrCache, "Cache error", "")

	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, cause, wrapped.Unwrap())

	var campusErr *Error
	require.True(t, errors.As(fmt.Errorf("outer: %w", wrapped), &campusErr))
	assert.Equal(t, ErrCache, campusErr.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrDB))
	assert.True(t, IsCode(fmt.Errorf("wrapped: %w", err), ErrConfig))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("inappropriate ioctl for device"),
		ErrLayout,
		"Cannot determine terminal width",
		"Run: campus status",
	)

	lines := strings.Split(err.Error(), "\n")

	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "✗"), "First line should start with failure symbol")
	assert.Contains(t, lines[0], "Cannot determine terminal width")
}

func TestBrief(t *testing.T) {
	assert.Equal(t, "", Brief(nil))
	assert.Equal(t, "plain", Brief(errors.New("plain")))
	assert.Equal(t, "Cannot open database", Brief(New(ErrDB, "Cannot open database", "hint")))
	assert.Equal(t, "Ping failed: dial tcp: refused",
		Brief(WrapWithCode(errors.New("dial tcp: refused"), ErrDB, "Ping failed", "hint")))
}
