// Package gtest contains helpers shared by tests across the module.
package gtest

import (
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
)

// NewLogger returns a *slog.Logger associated with the test t.
func NewLogger(t testing.TB) *slog.Logger {
	// Keep slogt behind this helper so tests do not depend on it directly.
	return slogt.New(t, slogt.Text())
}
