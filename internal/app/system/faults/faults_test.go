package faults

import (
	"errors"
	"strings"
	"testing"
)

func TestWrappersMatchSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", NotFound("group"), ErrNotFound},
		{"conflict", Conflict("member already has an invitation"), ErrConflict},
		{"forbidden", Forbidden("invitation belongs to another member"), ErrForbidden},
		{"invariant", Invariant("member not in group"), ErrInvariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.want)
			}
		})
	}
}

func TestWrappersAreDistinct(t *testing.T) {
	if errors.Is(NotFound("x"), ErrConflict) {
		t.Error("NotFound should not match ErrConflict")
	}
	if errors.Is(Invariant("x"), ErrForbidden) {
		t.Error("Invariant should not match ErrForbidden")
	}
}

func TestPersistenceKeepsCause(t *testing.T) {
	cause := errors.New("write concern error")
	err := Persistence("save group", cause)

	if !errors.Is(err, ErrPersistence) {
		t.Error("expected ErrPersistence in chain")
	}
	if !errors.Is(err, cause) {
		t.Error("expected original cause in chain")
	}
	if !strings.Contains(err.Error(), "save group") {
		t.Errorf("expected operation in message, got %q", err.Error())
	}
}
