package artifact

import (
	"errors"
	"strings"
	"testing"
)

func TestConnectionErrorMessage(t *testing.T) {
	err := &ConnectionError{Reason: ReasonTimeout, Err: errors.New("dial tcp: i/o timeout")}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected reason in message, got %q", err.Error())
	}
}

func TestConnectionErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &ConnectionError{Reason: ReasonUnreachable, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to expose the inner error")
	}
}
