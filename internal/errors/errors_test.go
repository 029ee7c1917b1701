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
	codes := []string{
		ErrConfig,
		ErrBounds,
		ErrHardware,
		ErrProbe,
	}

	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
	}

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
			message:    "3 bars don't fit on a 3 column display with a filler",
			suggestion: "Drop a bar or run without a filler",
		},
		{
			name:       "bounds error",
			code:       ErrBounds,
			message:    "Pixel (9,0) is outside the display",
			suggestion: "",
		},
		{
			name:       "hardware error",
			code:       ErrHardware,
			message:    "Display flush failed",
			suggestion: "Check the display connection",
		},
		{
			name:       "probe error",
			code:       ErrProbe,
			message:    "Can't read the load average",
			suggestion: "Check /proc is mounted",
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
			err:  New(ErrConfig, "Unknown filler 'glitter'", "Run 'pixelbar routines' to list them"),
			expectedParts: []string{
				"Unknown filler 'glitter'",
				"pixelbar routines",
			},
		},
		{
			name: "error with failure symbol",
			err:  New(ErrHardware, "Display flush failed", "Try again"),
			expectedParts: []string{
				"✗",
				"Display flush failed",
			},
		},
		{
			name: "error without suggestion",
			err:  New(ErrBounds, "Pixel out of range", ""),
			expectedParts: []string{
				"Pixel out of range",
			},
			notExpected: []string{
				"suggestion",
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
	cause := errors.New("write: broken pipe")
	wrapped := Wrap(cause, "Display flush failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrHardware, wrapped.Code, "Wrap should default to ErrHardware code")
	assert.Equal(t, "Display flush failed", wrapped.Message)
	assert.Equal(t, cause, wrapped.Cause)
}

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("open /proc/loadavg: no such file or directory")
	wrapped := WrapWithCode(cause, ErrProbe, "Can't read the load average", "Check /proc is mounted")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrProbe, wrapped.Code)
	assert.Equal(t, "Can't read the load average", wrapped.Message)
	assert.Equal(t, "Check /proc is mounted", wrapped.Suggestion)
	assert.Equal(t, cause, wrapped.Cause)
	assert.Contains(t, wrapped.Error(), "no such file")
}

func TestErrorsIsAndAs(t *testing.T) {
	cause := errors.New("specific error")
	wrapped := WrapWithCode(cause, ErrHardware, "Show failed", "")

	assert.True(t, errors.Is(wrapped, cause))

	var pbErr *Error
	require.True(t, errors.As(fmt.Errorf("routine sparkle: %w", wrapped), &pbErr))
	assert.Equal(t, ErrHardware, pbErr.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrProbe))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
	assert.True(t, IsCode(fmt.Errorf("wrapped: %w", err), ErrConfig))
}

func TestNewOutOfBounds(t *testing.T) {
	err := NewOutOfBounds(-1, 3, "region [0,7)")

	assert.Equal(t, ErrBounds, err.Code)
	assert.Contains(t, err.Message, "(-1,3)")
	assert.Contains(t, err.Message, "region [0,7)")
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("dial tcp 127.0.0.1:7890: connection refused"),
		ErrHardware,
		"Can't reach the OPC server",
		"Start fcserver or pick another --display",
	)

	lines := strings.Split(err.Error(), "\n")

	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "✗"), "First line should start with failure symbol")
	assert.Contains(t, lines[0], "Can't reach the OPC server")
}

func TestExitError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		wantMsg string
	}{
		{name: "zero exit code", code: 0, wantMsg: "exit code 0"},
		{name: "error exit code", code: 1, wantMsg: "exit code 1"},
		{name: "time limit exit code", code: 3, wantMsg: "exit code 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewExitError(tt.code)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOk   bool
	}{
		{name: "ExitError returns code", err: NewExitError(3), wantCode: 3, wantOk: true},
		{name: "wrapped ExitError", err: fmt.Errorf("run: %w", NewExitError(3)), wantCode: 3, wantOk: true},
		{name: "standard error returns false", err: errors.New("standard error"), wantOk: false},
		{name: "nil error returns false", err: nil, wantOk: false},
		{name: "structured Error returns false", err: New(ErrConfig, "test", ""), wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := GetExitCode(tt.err)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
