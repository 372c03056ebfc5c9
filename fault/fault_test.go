package fault

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestError(t *testing.T) {
	tests := []struct {
		err      Fault
		expected string
	}{
		{New(BadInputCode, "bad document"), "bad document"},
		{New(BadInputCode, ""), "bad_input"},
		{New(NotFoundCode, "missing file").WithOriginal(io.EOF), "missing file: EOF"},
		{New(BadInputCode, "").WithMetadata(FieldErrorsMetadata{"page": []string{"Must be positive."}}), "bad_input map[page:[Must be positive.]]"},
	}

	for i, tt := range tests {
		if got := tt.err.Error(); got != tt.expected {
			t.Fatalf("#%d - expected `%s`, got `%s`", i, tt.expected, got)
		}
	}
}

func TestHasCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("cannot load: %w", New(NotFoundCode, "missing").WithOriginal(io.EOF))

	if !HasCode(err, NotFoundCode) {
		t.Fatalf("expected wrapped fault to have code `%s`", NotFoundCode)
	}
	if HasCode(err, BadInputCode) {
		t.Fatalf("expected wrapped fault not to have code `%s`", BadInputCode)
	}
	if HasCode(io.EOF, UnknownCode) {
		t.Fatalf("expected plain error not to be a fault")
	}
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected original error to be reachable")
	}
}
