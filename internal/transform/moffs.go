package transform

import (
	"strings"

	"github.com/keurnel/faucon/internal/x86db"
)

// moffsOpcodes are the MOV-with-moffs opcode bytes (spec.md §4.3/§6):
// AL<-moffs8, eAX<-moffs, moffs8<-AL, moffs<-eAX.
var moffsOpcodes = map[uint32]bool{0xA0: true, 0xA1: true, 0xA2: true, 0xA3: true}

// AddMissingMemoryOffsetEncoding replaces each MOV-moffs entry with two: the
// 64-bit-address form (the original, with an "io" immediate suffix) and a
// 32-bit-address form carrying the 67 address-size-override prefix and an
// "id" suffix.
func AddMissingMemoryOffsetEncoding(db *x86db.Database) error {
	var out []*x86db.Instruction
	for _, instr := range db.Instructions {
		if len(instr.VendorSyntax) == 0 || instr.VendorSyntax[0].Mnemonic != "MOV" || !isMoffsRaw(instr.RawEncodingSpecification) {
			out = append(out, instr)
			continue
		}
		sixtyFour := *instr
		sixtyFour.RawEncodingSpecification = withSuffix(instr.RawEncodingSpecification, "io")

		thirtyTwo := *instr
		thirtyTwo.RawEncodingSpecification = "67 " + withSuffix(instr.RawEncodingSpecification, "id")

		out = append(out, &sixtyFour, &thirtyTwo)
	}
	db.Instructions = out
	return nil
}

func isMoffsRaw(raw string) bool {
	for _, tok := range strings.Fields(raw) {
		for opcode := range moffsOpcodes {
			if tok == hexByte(opcode) {
				return true
			}
		}
	}
	return false
}

func hexByte(b uint32) string {
	const hex = "0123456789ABCDEF"
	return string([]byte{hex[(b>>4)&0xF], hex[b&0xF]})
}

func withSuffix(raw, suffix string) string {
	return raw + " " + suffix
}
