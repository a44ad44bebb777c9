package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestEngineErrorFormatting(t *testing.T) {
	plain := NewCapabilityError("no FFT configured")
	if got := plain.Error(); got != "capability_unavailable: no FFT configured" {
		t.Errorf("Error() = %q", got)
	}

	cause := stderrors.New("disk full")
	wrapped := NewInternalError("write failed", cause)
	if got := wrapped.Error(); !strings.Contains(got, "disk full") {
		t.Errorf("Error() = %q, want cause included", got)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestIsKind(t *testing.T) {
	cases := []struct {
		err  error
		kind Kind
		want bool
	}{
		{NewDecodeError("bad buffer", nil), KindDecode, true},
		{NewDecodeError("bad buffer", nil), KindTimeout, false},
		{NewTimeoutError("too slow", nil), KindTimeout, true},
		{stderrors.New("plain"), KindInternal, false},
		{nil, KindInternal, false},
	}
	for _, tc := range cases {
		if got := IsKind(tc.err, tc.kind); got != tc.want {
			t.Errorf("IsKind(%v, %s) = %v, want %v", tc.err, tc.kind, got, tc.want)
		}
	}
}
