package domain

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"
)

// CodeAlphabet omits characters operators confuse on a label (0/O, 1/I/L)
const CodeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const (
	defaultCodeLength  = 6
	defaultMaxAttempts = 10
)

// InUseFunc reports whether a generated value is already taken
type InUseFunc func(ctx context.Context, value string) (bool, error)

// CodeGenerator draws random codes and checks them against existing records
type CodeGenerator struct {
	alphabet    string
	length      int
	maxAttempts int
	random      io.Reader
}

// NewCodeGenerator creates a generator for 6-character codes
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{
		alphabet:    CodeAlphabet,
		length:      defaultCodeLength,
		maxAttempts: defaultMaxAttempts,
		random:      rand.Reader,
	}
}

// WithRandom replaces the entropy source, for tests
func (g *CodeGenerator) WithRandom(r io.Reader) *CodeGenerator {
	g.random = r
	return g
}

func (g *CodeGenerator) draw() (string, error) {
	buf := make([]byte, g.length)
	max := big.NewInt(int64(len(g.alphabet)))
	for i := range buf {
		n, err := rand.Int(g.random, max)
		if err != nil {
			return "", fmt.Errorf("read entropy: %w", err)
		}
		buf[i] = g.alphabet[n.Int64()]
	}
	return string(buf), nil
}

func (g *CodeGenerator) unique(ctx context.Context, format func(string) string, inUse InUseFunc) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		raw, err := g.draw()
		if err != nil {
			return "", err
		}
		candidate := format(raw)
		taken, err := inUse(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// ConfirmationCode returns a code not used by any active location
func (g *CodeGenerator) ConfirmationCode(ctx context.Context, inUse InUseFunc) (string, error) {
	return g.unique(ctx, func(raw string) string { return raw }, inUse)
}

// TaskNumber returns a PA-YYYYMMDD-XXXXXX number not used by any task
func (g *CodeGenerator) TaskNumber(ctx context.Context, at time.Time, inUse InUseFunc) (string, error) {
	prefix := "PA-" + at.UTC().Format("20060102") + "-"
	return g.unique(ctx, func(raw string) string { return prefix + raw }, inUse)
}
