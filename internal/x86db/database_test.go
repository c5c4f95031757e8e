package x86db_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/keurnel/faucon/internal/x86db"
)

func TestDatabase_FindByMnemonic(t *testing.T) {
	db := x86db.NewDatabase()
	for _, instr := range x86db.SampleInstructions() {
		db.Add(instr)
	}

	scenarios := []struct {
		name     string
		mnemonic string
		want     int
	}{
		{"mov has two forms", "MOV", 2},
		{"addps has one form", "ADDPS", 1},
		{"unknown mnemonic", "NOPE", 0},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			got := db.FindByMnemonic(scenario.mnemonic)
			if len(got) != scenario.want {
				t.Errorf("FindByMnemonic(%q) returned %d instructions, want %d", scenario.mnemonic, len(got), scenario.want)
			}
		})
	}
}

func TestRequireEncodingSpecification(t *testing.T) {
	instr := x86db.SampleInstructions()[0]
	if err := x86db.RequireEncodingSpecification(instr); err == nil {
		t.Errorf("expected error for unparsed instruction")
	}

	instr.EncodingSpecification = &x86db.EncodingSpecification{}
	if err := x86db.RequireEncodingSpecification(instr); err != nil {
		t.Errorf("unexpected error after parse: %v", err)
	}
}

func TestDumpAndLoadYAML(t *testing.T) {
	db := x86db.NewDatabase()
	for _, instr := range x86db.SampleInstructions() {
		db.Add(instr)
	}

	path := filepath.Join(t.TempDir(), "instructions.yaml")
	if err := x86db.DumpYAML(path, db); err != nil {
		t.Fatalf("DumpYAML: %v", err)
	}

	loaded, err := x86db.LoadYAML(path)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if loaded.Len() != db.Len() {
		t.Errorf("loaded %d instructions, want %d", loaded.Len(), db.Len())
	}
	for i, instr := range loaded.Instructions {
		want := db.Instructions[i]
		if instr.RawEncodingSpecification != want.RawEncodingSpecification {
			t.Errorf("instruction %d: raw spec = %q, want %q", i, instr.RawEncodingSpecification, want.RawEncodingSpecification)
		}
		if len(instr.VendorSyntax) != len(want.VendorSyntax) {
			t.Errorf("instruction %d: %d vendor syntax forms, want %d", i, len(instr.VendorSyntax), len(want.VendorSyntax))
		}
	}
}

func TestLoadYAML_MissingFile(t *testing.T) {
	if _, err := x86db.LoadYAML(filepath.Join(os.TempDir(), "does-not-exist.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
