package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/pragatiworker/internal/extract"
)

func TestRetry(t *testing.T) {
	calls := 0
	got, err := retry(3, func() (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 2, calls)
}

func TestRetry_GivesUp(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := retry(2, func() (string, error) {
		calls++
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, 2, calls)
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: 6 MB", extract.ErrFileTooLarge), "too large"},
		{fmt.Errorf("%w: image/png", extract.ErrUnsupportedFormat), "Unsupported file type"},
		{fmt.Errorf("%w: pdf", extract.ErrExtractionUnavailable), "fill the form manually"},
		{errors.New("connection reset"), "resume analysis failed"},
	}
	for _, tt := range tests {
		assert.Contains(t, failureMessage(tt.err), tt.want)
	}
}
