package errors_test

import (
	"context"
	stderrors "errors"
	"testing"

	"healthstudy/domain/core"
	"healthstudy/internal/errors"
)

func TestClassifyMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"load", core.NewLoadError("study.csv", stderrors.New("no such file")), errors.CodeLoadError},
		{"missing column", core.NewColumnNotFoundError("systolic"), errors.CodeLoadError},
		{"parse", core.NewParseError("age", 3, "thirty"), errors.CodeParseError},
		{"insufficient", core.NewInsufficientDataError("t-test", 1, 2), errors.CodeInsufficientData},
		{"singular", core.ErrSingularMatrix, errors.CodeSingularMatrix},
		{"invalid input", core.NewInvalidInputError("p", "must be in [0, 1]"), errors.CodeInvalidInput},
		{"unrecognized", stderrors.New("boom"), errors.CodeInternalError},
	}
	for _, c := range cases {
		if got := errors.GetCode(errors.Classify(c.err)); got != c.code {
			t.Fatalf("%s: expected code %s, got %s", c.name, c.code, got)
		}
	}
}

func TestClassifyKeepsSentinelsInChain(t *testing.T) {
	err := errors.Classify(core.NewParseError("weight", 7, "eighty"))
	if !core.IsParseError(err) {
		t.Fatalf("classified error lost the parse sentinel: %v", err)
	}
}

func TestClassifyPassesThroughContextErrors(t *testing.T) {
	if err := errors.Classify(context.Canceled); err != context.Canceled {
		t.Fatalf("expected context.Canceled unchanged, got %v", err)
	}
}

func TestClassifyKeepsExistingCode(t *testing.T) {
	err := errors.ConfigInvalid("alpha must be in (0, 1)")
	if got := errors.GetCode(errors.Classify(err)); got != errors.CodeConfigInvalid {
		t.Fatalf("expected CONFIG_INVALID preserved, got %s", got)
	}
}

func TestGetCodeUnknownForPlainErrors(t *testing.T) {
	if got := errors.GetCode(stderrors.New("boom")); got != "UNKNOWN" {
		t.Fatalf("expected UNKNOWN, got %s", got)
	}
}
