package domain

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeGenerator_ConfirmationCode(t *testing.T) {
	gen := NewCodeGenerator()

	code, err := gen.ConfirmationCode(context.Background(), func(ctx context.Context, v string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(CodeAlphabet, r), "unexpected rune %q", r)
	}
}

func TestCodeGenerator_RetriesUntilUnused(t *testing.T) {
	gen := NewCodeGenerator()
	seen := map[string]bool{}
	calls := 0

	code, err := gen.ConfirmationCode(context.Background(), func(ctx context.Context, v string) (bool, error) {
		calls++
		seen[v] = true
		return calls < 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, seen[code])
}

func TestCodeGenerator_GivesUp(t *testing.T) {
	gen := NewCodeGenerator()
	calls := 0

	_, err := gen.ConfirmationCode(context.Background(), func(ctx context.Context, v string) (bool, error) {
		calls++
		return true, nil
	})
	assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
	assert.Equal(t, defaultMaxAttempts, calls)
}

func TestCodeGenerator_LookupErrorStops(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewCodeGenerator().ConfirmationCode(context.Background(), func(ctx context.Context, v string) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestCodeGenerator_TaskNumber(t *testing.T) {
	at := time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC)
	number, err := NewCodeGenerator().TaskNumber(context.Background(), at, func(ctx context.Context, v string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^PA-20261014-[`+CodeAlphabet+`]{6}$`), number)
}
