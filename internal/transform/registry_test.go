package transform_test

import (
	"testing"

	"github.com/keurnel/faucon/internal/transform"
	"github.com/keurnel/faucon/internal/x86db"
)

func TestRegistry_RunsInPriorityOrder(t *testing.T) {
	var order []string
	r := transform.NewRegistry()
	r.Register("b", 20, func(*x86db.Database) error { order = append(order, "b"); return nil })
	r.Register("a", 10, func(*x86db.Database) error { order = append(order, "a"); return nil })
	r.Register("c", 20, func(*x86db.Database) error { order = append(order, "c"); return nil })

	if err := r.Run(x86db.NewDatabase(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, name := range want {
		if order[i] != name {
			t.Errorf("order[%d] = %q, want %q (full: %v)", i, order[i], name, order)
		}
	}
}

func TestRegistry_RunsAllDespiteError(t *testing.T) {
	ran := map[string]bool{}
	r := transform.NewRegistry()
	r.Register("fails", 1, func(*x86db.Database) error { ran["fails"] = true; return x86dbErr() })
	r.Register("after", 2, func(*x86db.Database) error { ran["after"] = true; return nil })

	err := r.Run(x86db.NewDatabase(), nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !ran["fails"] || !ran["after"] {
		t.Errorf("expected both transforms to run, got %v", ran)
	}
}

func x86dbErr() error {
	return &x86dbStubError{}
}

type x86dbStubError struct{}

func (*x86dbStubError) Error() string { return "stub failure" }

func TestDefaultRegistry_ParsesAndAssignsSampleInstructions(t *testing.T) {
	db := x86db.NewDatabase()
	for _, instr := range x86db.SampleInstructions() {
		db.Add(instr)
	}

	r := transform.DefaultRegistry()
	var errs []string
	_ = r.Run(db, func(name string, err error) {
		errs = append(errs, name+": "+err.Error())
	})

	found := false
	for _, instr := range db.Instructions {
		if instr.EncodingSpecification != nil {
			found = true
		}
	}
	if !found {
		t.Errorf("expected at least one instruction to have a parsed encoding specification, errors: %v", errs)
	}
}
