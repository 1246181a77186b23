package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewErrorFormatsTemplate(t *testing.T) {
	err := NewError(ErrNameConflict, "alice")

	if err.Code != ErrNameConflict {
		t.Fatalf("code = %d", err.Code)
	}
	if err.Message != "Choose a new logon name. alice is already used." {
		t.Fatalf("message = %q", err.Message)
	}
	if err.Status != http.StatusOK {
		t.Fatalf("status = %d", err.Status)
	}
}

func TestNewErrorUnknownCode(t *testing.T) {
	err := NewError(42)
	if err.Code != ErrUnknown {
		t.Fatalf("code = %d, want %d", err.Code, ErrUnknown)
	}
}

func TestIsMatchesWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("transfer: %w", NewError(ErrInsufficientFunds))

	if !Is(wrapped, ErrInsufficientFunds) {
		t.Fatal("expected wrapped error to match")
	}
	if Is(wrapped, ErrFriendNotFound) {
		t.Fatal("unexpected match")
	}
	if Is(fmt.Errorf("plain"), ErrUnknown) {
		t.Fatal("plain error must not match")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")
	err := Wrap(ErrInvalidEnvelope, cause)

	if !errors.Is(err, cause) {
		t.Fatal("cause must be reachable through Unwrap")
	}
	if err.Message != "Invalid message format." {
		t.Fatalf("message = %q", err.Message)
	}
	if CodeOf(fmt.Errorf("read: %w", err)) != ErrInvalidEnvelope {
		t.Fatal("code must survive further wrapping")
	}
	if CodeOf(cause) != 0 {
		t.Fatal("plain error has no code")
	}
}

func TestNewErrorWithoutVerbsIgnoresDetails(t *testing.T) {
	if got := NewError(ErrNoPendingEncounter, "extra").Message; got != "There is no mob to fight." {
		t.Fatalf("message = %q", got)
	}
}
