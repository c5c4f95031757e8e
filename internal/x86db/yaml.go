package x86db

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/keurnel/faucon/internal/xstatus"
)

// yamlInstruction is the on-disk shape of an Instruction. It exists
// separately from Instruction because EncodingSpecification is derived data
// (C1's output): dumping it would let a stale copy on disk silently
// disagree with what a fresh parse produces, so only the raw string and
// database metadata round-trip through YAML.
type yamlInstruction struct {
	VendorSyntax             []yamlVendorSyntax `yaml:"vendor_syntax"`
	RawEncodingSpecification string             `yaml:"encoding_specification"`
	FeatureName              string             `yaml:"feature_name,omitempty"`
	EncodingScheme            string            `yaml:"encoding_scheme,omitempty"`
	Description               string            `yaml:"description,omitempty"`
	AvailableIn64Bit          bool              `yaml:"available_in_64_bit"`
	LegacyInstruction         bool              `yaml:"legacy_instruction,omitempty"`
}

type yamlVendorSyntax struct {
	Mnemonic string              `yaml:"mnemonic"`
	Operands []yamlOperand       `yaml:"operands,omitempty"`
}

type yamlOperand struct {
	Name string   `yaml:"name"`
	Tags []string `yaml:"tags,omitempty"`
}

// DumpYAML writes the database's raw, pre-cleanup form to w-backed path:
// mnemonics, operand names and the unparsed encoding specification string,
// the same subset a hand-curated instruction-set dump would carry.
func DumpYAML(path string, db *Database) error {
	docs := make([]yamlInstruction, 0, len(db.Instructions))
	for _, instr := range db.Instructions {
		docs = append(docs, toYAMLInstruction(instr))
	}
	data, err := yaml.Marshal(docs)
	if err != nil {
		return xstatus.Internalf("marshal instruction database: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return xstatus.Internalf("write %s: %v", path, err)
	}
	return nil
}

// LoadYAML reads a database previously written by DumpYAML. The returned
// instructions have a nil EncodingSpecification; callers run the cleanup
// pipeline (internal/encspec onward) to populate it.
func LoadYAML(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xstatus.NotFoundf("read %s: %v", path, err)
	}
	var docs []yamlInstruction
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, xstatus.InvalidArgumentf("parse %s: %v", path, err)
	}
	db := NewDatabase()
	for _, doc := range docs {
		db.Add(fromYAMLInstruction(doc))
	}
	return db, nil
}

func toYAMLInstruction(instr *Instruction) yamlInstruction {
	forms := make([]yamlVendorSyntax, 0, len(instr.VendorSyntax))
	for _, vs := range instr.VendorSyntax {
		operands := make([]yamlOperand, 0, len(vs.Operands))
		for _, op := range vs.Operands {
			operands = append(operands, yamlOperand{Name: op.Name, Tags: op.Tags})
		}
		forms = append(forms, yamlVendorSyntax{Mnemonic: vs.Mnemonic, Operands: operands})
	}
	return yamlInstruction{
		VendorSyntax:              forms,
		RawEncodingSpecification: instr.RawEncodingSpecification,
		FeatureName:              instr.FeatureName,
		EncodingScheme:           instr.EncodingScheme,
		Description:              instr.Description,
		AvailableIn64Bit:         instr.AvailableIn64Bit,
		LegacyInstruction:        instr.LegacyInstruction,
	}
}

func fromYAMLInstruction(doc yamlInstruction) *Instruction {
	forms := make([]VendorSyntax, 0, len(doc.VendorSyntax))
	for _, vs := range doc.VendorSyntax {
		operands := make([]Operand, 0, len(vs.Operands))
		for _, op := range vs.Operands {
			operands = append(operands, Operand{Name: op.Name, Tags: op.Tags})
		}
		forms = append(forms, VendorSyntax{Mnemonic: vs.Mnemonic, Operands: operands})
	}
	return &Instruction{
		VendorSyntax:              forms,
		RawEncodingSpecification: doc.RawEncodingSpecification,
		FeatureName:              doc.FeatureName,
		EncodingScheme:           doc.EncodingScheme,
		Description:              doc.Description,
		AvailableIn64Bit:         doc.AvailableIn64Bit,
		LegacyInstruction:        doc.LegacyInstruction,
	}
}
