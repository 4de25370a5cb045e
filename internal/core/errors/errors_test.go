package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "run not found")
		if err.Error() != "[NOT_FOUND] run not found" {
			t.Errorf("expected [NOT_FOUND] run not found, got %s", err.Error())
		}
	})

	t.Run("Newf", func(t *testing.T) {
		err := Newf(CodeValidationError, "k-mer size must be positive, got %d", 0)
		expected := "[VALIDATION_ERROR] k-mer size must be positive, got 0"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("disk full")
		err := Wrap(original, CodeIO, "write failed")
		expected := "[IO_ERROR] write failed: disk full"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to unwrap to original")
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
		err := fmt.Errorf("load reads: %w", New(CodeInvalidInput, "bad record"))
		if !IsCode(err, CodeInvalidInput) {
			t.Error("expected IsCode to see through fmt.Errorf wrapping")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := AddContext(New(CodeInvalidInput, "bad record"), CtxPath, "reads.fq")
		err = AddContext(err, CtxRecord, 3)
		expected := "[INVALID_INPUT] bad record {path=reads.fq record=3}"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}

		plain := AddContext(errors.New("boom"), CtxOperation, "assemble")
		if !IsCode(plain, CodeInternal) {
			t.Error("expected plain errors to be promoted to CodeInternal")
		}
	})
}
