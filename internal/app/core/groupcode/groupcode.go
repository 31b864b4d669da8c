// Package groupcode generates the human-shareable join codes that identify
// groups.
//
// A code is a fixed-length string over A-Z and 0-9, drawn from
// crypto/rand. Uniqueness is checked against the persisted code set before
// use; on collision the generator retries. There is no reservation step, so
// two concurrent creations can in rare cases pass the check with the same
// code — the unique index on groups.code converts that race into a
// duplicate-key error the caller retries on.
package groupcode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"
)

const (
	charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// DefaultLength matches the 9-character codes groups have always used.
	DefaultLength = 9

	// DefaultMaxAttempts bounds the collision-retry loop. Hitting it means
	// the code space is effectively saturated (or the existence check is
	// broken), which is worth a hard failure rather than spinning forever.
	DefaultMaxAttempts = 100

	// warnAfter is the attempt count past which each retry logs a warning:
	// repeated collisions at 36^9 codes indicate a degenerate code space.
	warnAfter = 10
)

// ErrCodeSpaceExhausted means MaxAttempts consecutive candidates collided.
var ErrCodeSpaceExhausted = errors.New("group code space exhausted")

// Checker reports whether a candidate code is already taken.
type Checker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// Generator produces unique group codes.
type Generator struct {
	checker     Checker
	log         *zap.Logger
	length      int
	maxAttempts int
}

// New constructs a Generator with the default length and retry bound.
func New(checker Checker, log *zap.Logger) *Generator {
	return &Generator{
		checker:     checker,
		log:         log,
		length:      DefaultLength,
		maxAttempts: DefaultMaxAttempts,
	}
}

// NewWithConfig constructs a Generator with explicit length and retry
// bound; zero or negative values fall back to the defaults.
func NewWithConfig(checker Checker, log *zap.Logger, length, maxAttempts int) *Generator {
	g := New(checker, log)
	if length > 0 {
		g.length = length
	}
	if maxAttempts > 0 {
		g.maxAttempts = maxAttempts
	}
	return g
}

// Generate returns a code no existing group holds at the moment of the
// check. Returns ErrCodeSpaceExhausted after maxAttempts collisions.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		code, err := g.random()
		if err != nil {
			return "", fmt.Errorf("generate group code: %w", err)
		}

		taken, err := g.checker.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check group code: %w", err)
		}
		if !taken {
			return code, nil
		}

		if attempt >= warnAfter && g.log != nil {
			g.log.Warn("group code collision streak",
				zap.Int("attempt", attempt),
				zap.Int("length", g.length))
		}
	}
	return "", ErrCodeSpaceExhausted
}

func (g *Generator) random() (string, error) {
	max := big.NewInt(int64(len(charset)))
	b := make([]byte, g.length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}
	return string(b), nil
}
