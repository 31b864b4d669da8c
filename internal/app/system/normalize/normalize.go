// Package normalize standardizes caller-supplied input before it reaches
// the stores. Keep these functions tiny and total: they never fail, they
// only clean.
package normalize

import (
	"strings"

	"github.com/dalemusser/crewhub/internal/domain/models"
)

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Param trims surrounding whitespace from a free-form parameter.
func Param(s string) string {
	return strings.TrimSpace(s)
}

// Code uppercases and trims a group share code so lookups are
// case-insensitive for the humans typing them.
func Code(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// TaskStatus lowercases and trims a status value into the canonical form
// used by models.TaskStatus.
func TaskStatus(s string) models.TaskStatus {
	return models.TaskStatus(strings.ToLower(strings.TrimSpace(s)))
}
