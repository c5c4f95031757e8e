package frontend_test

import (
	"testing"

	"github.com/keurnel/faucon/internal/frontend"
)

func TestTextDisassembler_IntelSyntax_FirstOperandIsDef(t *testing.T) {
	src := `
; steady-state dependency chain
mov eax, 42
mov edx, 43
mov ecx, 44
add eax, eax, edx
`
	d := frontend.NewTextDisassembler(frontend.IntelSyntax, true)
	bb, err := d.Disassemble(src)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if bb.NumInstructions() != 4 {
		t.Fatalf("got %d instructions, want 4", bb.NumInstructions())
	}
	if !bb.IsLoop() {
		t.Errorf("IsLoop() = false, want true")
	}

	// mov eax, 42: eax is a def, 42 is an immediate (no use).
	if got := bb.Defs(0); len(got) != 1 || got[0] != 0 {
		t.Errorf("instruction 0 Defs = %v, want [0] (eax)", got)
	}
	if got := bb.Uses(0); len(got) != 0 {
		t.Errorf("instruction 0 Uses = %v, want []", got)
	}

	// add eax, eax, edx: first operand (eax) is the def; remaining register
	// operands (eax, edx) are uses.
	add := 3
	if got := bb.Defs(add); len(got) != 1 || got[0] != 0 {
		t.Errorf("add Defs = %v, want [0] (eax)", got)
	}
	uses := bb.Uses(add)
	if len(uses) != 2 || uses[0] != 0 || uses[1] != 2 {
		t.Errorf("add Uses = %v, want [0 2] (eax, edx)", uses)
	}
	if bb.Disassembly(add) != "add eax, eax, edx" {
		t.Errorf("Disassembly(3) = %q, want %q", bb.Disassembly(add), "add eax, eax, edx")
	}
}

func TestTextDisassembler_ATTSyntax_LastOperandIsDef(t *testing.T) {
	src := `movl $42, %eax
addl %edx, %eax`
	d := frontend.NewTextDisassembler(frontend.ATTSyntax, false)
	bb, err := d.Disassemble(src)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if bb.IsLoop() {
		t.Errorf("IsLoop() = true, want false")
	}
	if got := bb.Defs(1); len(got) != 1 || got[0] != 0 {
		t.Errorf("addl Defs = %v, want [0] (eax)", got)
	}
	if got := bb.Uses(1); len(got) != 1 || got[0] != 2 {
		t.Errorf("addl Uses = %v, want [2] (edx)", got)
	}
}

func TestTextDisassembler_SkipsDirectivesLabelsAndComments(t *testing.T) {
	src := `
.text
loop_top:
    mov eax, 1  ; load constant
`
	d := frontend.NewTextDisassembler(frontend.IntelSyntax, true)
	bb, err := d.Disassemble(src)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if bb.NumInstructions() != 1 {
		t.Fatalf("got %d instructions, want 1", bb.NumInstructions())
	}
}

func TestTextDisassembler_MemoryOperandUsesLoadSchedClass(t *testing.T) {
	d := frontend.NewTextDisassembler(frontend.IntelSyntax, true)
	bb, err := d.Disassemble("mov eax, [rbx]")
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if got := bb.SchedClass(0); got != "WriteLoad" {
		t.Errorf("SchedClass(0) = %q, want WriteLoad", got)
	}
}

func TestTextDisassembler_UnknownMnemonicFails(t *testing.T) {
	d := frontend.NewTextDisassembler(frontend.IntelSyntax, true)
	if _, err := d.Disassemble("frobnicate eax"); err == nil {
		t.Fatalf("Disassemble: want error for unknown mnemonic")
	}
}

func TestTextDisassembler_EmptyInputFails(t *testing.T) {
	d := frontend.NewTextDisassembler(frontend.IntelSyntax, true)
	if _, err := d.Disassemble("   \n ; just a comment\n"); err == nil {
		t.Fatalf("Disassemble: want error for input with no instructions")
	}
}

func TestTextDisassembler_SameFormSharesDecompositionKey(t *testing.T) {
	d := frontend.NewTextDisassembler(frontend.IntelSyntax, true)
	bb, err := d.Disassemble("mov eax, 1\nmov ecx, 2")
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if bb.InstructionKey(0) != bb.InstructionKey(1) {
		t.Errorf("InstructionKey differs across identically-shaped mov instructions: %+v vs %+v",
			bb.InstructionKey(0), bb.InstructionKey(1))
	}
}
