package uerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	t.Parallel()

	err := Wrap(Transport, fmt.Errorf("dial tcp: timeout"), "downloading asset")
	if !errors.Is(err, New(Transport, "")) {
		t.Fatalf("expected errors.Is to match on Kind alone")
	}
	if errors.Is(err, New(NotFound, "")) {
		t.Fatalf("expected errors.Is to reject a different Kind")
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := Wrap(IoFailed, cause, "writing temp file")
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to see through to the wrapped cause")
	}
}

func TestOfExtractsKind(t *testing.T) {
	t.Parallel()

	kind, ok := Of(New(NoMatch, "no assets survived stage C"))
	if !ok || kind != NoMatch {
		t.Fatalf("Of: got (%v, %v), want (%v, true)", kind, ok, NoMatch)
	}

	if _, ok := Of(errors.New("plain error")); ok {
		t.Fatalf("Of: expected false for a non-*Error")
	}
}
