package frontend

import "strings"

// registerIDs maps every x86-64 general-purpose register name, across all
// operand widths, to its architectural register id (0-15). The renamer and
// reorder buffer track dependencies at this granularity regardless of which
// width an instruction names: eax and rax name the same unit as far as
// RAW/WAR/WAW hazards go. Adapted from architecture/x86_64/registers.go's
// per-register Encoding field, generalized from a typed Register value to a
// plain name-to-id lookup since the frontend only needs the id.
var registerIDs = map[string]int{
	"rax": 0, "eax": 0, "ax": 0, "al": 0, "ah": 0,
	"rcx": 1, "ecx": 1, "cx": 1, "cl": 1, "ch": 1,
	"rdx": 2, "edx": 2, "dx": 2, "dl": 2, "dh": 2,
	"rbx": 3, "ebx": 3, "bx": 3, "bl": 3, "bh": 3,
	"rsp": 4, "esp": 4, "sp": 4, "spl": 4,
	"rbp": 5, "ebp": 5, "bp": 5, "bpl": 5,
	"rsi": 6, "esi": 6, "si": 6, "sil": 6,
	"rdi": 7, "edi": 7, "di": 7, "dil": 7,
	"r8": 8, "r8d": 8, "r8w": 8, "r8b": 8,
	"r9": 9, "r9d": 9, "r9w": 9, "r9b": 9,
	"r10": 10, "r10d": 10, "r10w": 10, "r10b": 10,
	"r11": 11, "r11d": 11, "r11w": 11, "r11b": 11,
	"r12": 12, "r12d": 12, "r12w": 12, "r12b": 12,
	"r13": 13, "r13d": 13, "r13w": 13, "r13b": 13,
	"r14": 14, "r14d": 14, "r14w": 14, "r14b": 14,
	"r15": 15, "r15d": 15, "r15w": 15, "r15b": 15,
}

// registerID resolves a bare register name (no %, no size suffix beyond
// what registerIDs already enumerates) to its architectural id.
func registerID(name string) (int, bool) {
	id, ok := registerIDs[strings.ToLower(name)]
	return id, ok
}
