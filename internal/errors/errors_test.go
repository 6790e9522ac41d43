package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// PlanningError Tests
// -----------------------------------------------------------------------------

func TestNewPlanningError(t *testing.T) {
	err := NewPlanningError("cannot satisfy any action", ErrNoViableExtension)

	if err.Message() != "cannot satisfy any action" {
		t.Errorf("Message() = %q, want %q", err.Message(), "cannot satisfy any action")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}
	if err.IsRetryable() {
		t.Error("IsRetryable() = true, want false")
	}
	if !err.IsUserFacing() {
		t.Error("IsUserFacing() = false, want true")
	}
	if err.Depth != -1 {
		t.Errorf("Depth = %d, want -1", err.Depth)
	}
}

func TestPlanningError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *PlanningError
		want string
	}{
		{
			name: "basic error",
			err:  NewPlanningError("cannot realize all mashup functionalities", nil),
			want: "planning error: cannot realize all mashup functionalities",
		},
		{
			name: "with cause",
			err:  NewPlanningError("cannot satisfy any action", ErrNoViableExtension),
			want: "planning error: cannot satisfy any action: no viable extension",
		},
		{
			name: "with depth and phase",
			err:  NewPlanningError("cannot satisfy any action", nil).WithDepth(3).WithPhase("extend"),
			want: "planning error [depth=3, phase=extend]: cannot satisfy any action",
		},
		{
			name: "zero depth is rendered",
			err:  NewPlanningError("x", nil).WithDepth(0),
			want: "planning error [depth=0]: x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlanningError_Is(t *testing.T) {
	err := NewPlanningError("unrealizable", ErrGoalUnrealizable)

	if !Is(err, &PlanningError{}) {
		t.Error("Is(PlanningError{}) = false, want true")
	}
	if !Is(err, ErrGoalUnrealizable) {
		t.Error("Is(ErrGoalUnrealizable) = false, want true")
	}
	if Is(err, ErrNoViableExtension) {
		t.Error("Is(ErrNoViableExtension) = true, want false")
	}

	wrapped := fmt.Errorf("run failed: %w", err)
	var pe *PlanningError
	if !As(wrapped, &pe) {
		t.Fatal("As(wrapped, *PlanningError) = false, want true")
	}
	if pe.Message() != "unrealizable" {
		t.Errorf("Message() = %q, want %q", pe.Message(), "unrealizable")
	}
}

// -----------------------------------------------------------------------------
// InvariantError Tests
// -----------------------------------------------------------------------------

func TestInvariantError(t *testing.T) {
	err := NewInvariantError("expecting disjoint propositions", ErrOverlappingPropositions).
		WithSubject("title:string")

	want := "invariant error [subject=title:string]: expecting disjoint propositions: property both cleared and filled"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("Is(ErrInvalidInput) = false, want true")
	}
	if !Is(err, ErrOverlappingPropositions) {
		t.Error("Is(ErrOverlappingPropositions) = false, want true")
	}
	if err.IsUserFacing() {
		t.Error("IsUserFacing() = true, want false")
	}
}

// -----------------------------------------------------------------------------
// CatalogError Tests
// -----------------------------------------------------------------------------

func TestCatalogError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *CatalogError
		want string
	}{
		{
			name: "basic",
			err:  NewCatalogError("decode failed", nil),
			want: "catalog error: decode failed",
		},
		{
			name: "with path and widget",
			err:  NewCatalogError("decode failed", ErrCatalogCorrupted).WithPath("a.yaml").WithWidget("w1"),
			want: "catalog error [path=a.yaml, widget=w1]: decode failed: catalog data corrupted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCatalogError_WithRetryable(t *testing.T) {
	err := NewCatalogError("store unavailable", nil).WithRetryable(true)
	if !IsRetryable(err) {
		t.Error("IsRetryable() = false, want true")
	}
}

// -----------------------------------------------------------------------------
// Semantic Error Tests
// -----------------------------------------------------------------------------

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("widget", "w1")
	if got, want := err.Error(), "widget 'w1' not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	withCause := NewNotFoundError("widget", "w1").WithCause(ErrCatalogNotFound)
	if !Is(withCause, ErrCatalogNotFound) {
		t.Error("Is(ErrCatalogNotFound) = false, want true")
	}
	if !Is(withCause, &NotFoundError{}) {
		t.Error("Is(NotFoundError{}) = false, want true")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("minimum depth must be at least 1").WithField("minDepth").WithValue(0)

	want := "validation error [field=minDepth, value=0]: minimum depth must be at least 1"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("Is(ErrInvalidInput) = false, want true")
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("connecting to broker", 10*time.Second)

	want := "timeout error: connecting to broker (timeout: 10s)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrTimeout) {
		t.Error("Is(ErrTimeout) = false, want true")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable() = false, want true")
	}
}

// -----------------------------------------------------------------------------
// Classification Tests
// -----------------------------------------------------------------------------

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"wrapped timeout sentinel", fmt.Errorf("x: %w", ErrTimeout), true},
		{"planning error", NewPlanningError("x", nil), false},
		{"timeout error", NewTimeoutError("x", time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"planning error", NewPlanningError("x", nil), true},
		{"invariant error", NewInvariantError("x", nil), false},
		{"wrapped validation error", Wrap(NewValidationError("x"), "ctx"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetSeverity(t *testing.T) {
	if got := GetSeverity(nil); got != SeverityDebug {
		t.Errorf("GetSeverity(nil) = %v, want %v", got, SeverityDebug)
	}
	if got := GetSeverity(errors.New("x")); got != SeverityError {
		t.Errorf("GetSeverity(plain) = %v, want %v", got, SeverityError)
	}
	if got := GetSeverity(NewPlanningError("x", nil)); got != SeverityWarning {
		t.Errorf("GetSeverity(planning) = %v, want %v", got, SeverityWarning)
	}
}

func TestIsPlanningFailure(t *testing.T) {
	if IsPlanningFailure(nil) {
		t.Error("IsPlanningFailure(nil) = true, want false")
	}
	if IsPlanningFailure(Invalidf("cannot extend satisfied graph")) {
		t.Error("IsPlanningFailure(invalid input) = true, want false")
	}
	if !IsPlanningFailure(Wrap(NewPlanningError("x", nil), "extend")) {
		t.Error("IsPlanningFailure(wrapped planning error) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// Wrapping Tests
// -----------------------------------------------------------------------------

func TestWrap(t *testing.T) {
	if Wrap(nil, "x") != nil {
		t.Error("Wrap(nil) != nil")
	}
	if Wrapf(nil, "x %d", 1) != nil {
		t.Error("Wrapf(nil) != nil")
	}

	err := Wrapf(ErrCatalogNotFound, "loading %s", "a.yaml")
	if got, want := err.Error(), "loading a.yaml: catalog not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrCatalogNotFound) {
		t.Error("Is(ErrCatalogNotFound) = false, want true")
	}
}

func TestInvalidf(t *testing.T) {
	err := Invalidf("expecting minDepth >= %d", 1)
	if !Is(err, ErrInvalidInput) {
		t.Error("Is(ErrInvalidInput) = false, want true")
	}
	if got, want := err.Error(), "expecting minDepth >= 1: invalid input"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
