package errors

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestToToolErrorWrapsUnknown(t *testing.T) {
	err := ToToolError(fmt.Errorf("boom: password=secret"))
	if err.Code != CodeInternalError {
		t.Fatalf("expected internal error code, got %s", err.Code)
	}
	if strings.Contains(fmt.Sprint(err.Details["cause"]), "secret") {
		t.Fatalf("expected scrubbed cause, got %v", err.Details["cause"])
	}
}

func TestToToolErrorUnwraps(t *testing.T) {
	inner := NewNotFound("district", map[string]any{"district_id": 9})
	got := ToToolError(fmt.Errorf("detail: %w", inner))
	if got != inner {
		t.Fatalf("expected wrapped error to be returned, got %v", got)
	}
	if ToToolError(fmt.Errorf("query: %w", context.DeadlineExceeded)).Code != CodeTimeout {
		t.Fatalf("expected timeout code")
	}
	if ToToolError(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestScrub(t *testing.T) {
	cases := map[string]string{
		"dial postgres://clinic:pw@db:5432/clinic failed": "dial postgres://***:***@db:5432/clinic failed",
		"open clinic:pw@tcp(db:3306)/clinic":              "open clinic:***@tcp(db:3306)/clinic",
		"host=db password=pw user=clinic":                 "host=db password=*** user=clinic",
	}
	for in, want := range cases {
		if got := scrub(in); got != want {
			t.Fatalf("scrub(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewInvalidInput(t *testing.T) {
	e := NewInvalidInput("bad", "hint", map[string]any{"field": "x"})
	if e.Code != CodeInvalidInput {
		t.Fatalf("expected %s, got %s", CodeInvalidInput, e.Code)
	}
}
