package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "file not found")
		if err.Error() != "[NOT_FOUND] file not found" {
			t.Errorf("expected [NOT_FOUND] file not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("permission denied")
		err := Wrap(original, CodeReadFailed, "read failed")
		expected := "[READ_FAILED] read failed: permission denied"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid input")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeThroughFmtWrap", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeParseFailed, "no tree"))
		if !IsCode(err, CodeParseFailed) {
			t.Error("expected IsCode to see through fmt.Errorf wrapping")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := AddContext(New(CodeReadFailed, "read failed"), CtxPath, "/p/a.ts")
		expected := "[READ_FAILED] read failed map[path:/p/a.ts]"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}

		plain := AddContext(errors.New("boom"), CtxKey, "x")
		if !IsCode(plain, CodeInternal) {
			t.Error("expected plain error to be wrapped as CodeInternal")
		}
	})
}

func TestCause(t *testing.T) {
	pathErr := &fs.PathError{Op: "open", Path: "/p/a.ts", Err: fs.ErrNotExist}
	err := AddContext(Wrap(pathErr, CodeReadFailed, "read failed"), CtxPath, "/p/a.ts")
	if got := Cause(err); got != "open /p/a.ts: file does not exist" {
		t.Errorf("unexpected cause %q", got)
	}

	if got := Cause(New(CodeReadFailed, "invalid UTF-8 content")); got != "invalid UTF-8 content" {
		t.Errorf("unexpected cause %q", got)
	}

	if got := Cause(nil); got != "" {
		t.Errorf("expected empty cause for nil, got %q", got)
	}
}
