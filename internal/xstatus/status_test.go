package xstatus_test

import (
	"testing"

	"github.com/keurnel/faucon/internal/xstatus"
)

func TestStatus_Error(t *testing.T) {
	scenarios := []struct {
		name     string
		status   *xstatus.Status
		expected string
	}{
		{"invalid argument", xstatus.InvalidArgumentf("bad opcode %x", 0xFF), "INVALID_ARGUMENT: bad opcode ff"},
		{"failed precondition", xstatus.FailedPreconditionf("encoding not parsed"), "FAILED_PRECONDITION: encoding not parsed"},
		{"not found", xstatus.NotFoundf("no %s", "entry"), "NOT_FOUND: no entry"},
		{"internal", xstatus.Internalf("unreachable"), "INTERNAL: unreachable"},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			if got := scenario.status.Error(); got != scenario.expected {
				t.Errorf("Error() = %q, want %q", got, scenario.expected)
			}
		})
	}
}

func TestStatus_OK(t *testing.T) {
	var nilStatus *xstatus.Status
	if !nilStatus.OK() {
		t.Errorf("nil status should report OK")
	}
	if xstatus.New(xstatus.OK, "").OK() != true {
		t.Errorf("OK-coded status should report OK")
	}
	if xstatus.InvalidArgumentf("x").OK() {
		t.Errorf("InvalidArgument status should not report OK")
	}
}

func TestIs(t *testing.T) {
	err := xstatus.NotFoundf("missing")
	if !xstatus.Is(err, xstatus.NotFound) {
		t.Errorf("Is(err, NotFound) = false, want true")
	}
	if xstatus.Is(err, xstatus.Internal) {
		t.Errorf("Is(err, Internal) = true, want false")
	}
}
