package transform

import (
	"strings"

	"github.com/keurnel/faucon/internal/x86db"
)

// encodingBucketKey groups instructions sharing the same parsed encoding,
// ignoring immediate-value byte sizes, so 16-bit/32-bit variants of the
// same instruction land in the same bucket (spec.md §4.3).
func encodingBucketKey(instr *x86db.Instruction) string {
	if instr.EncodingSpecification == nil {
		return ""
	}
	spec := instr.EncodingSpecification
	var b strings.Builder
	if len(instr.VendorSyntax) > 0 {
		b.WriteString(instr.VendorSyntax[0].Mnemonic)
	}
	b.WriteByte('|')
	writeUint(&b, spec.Opcode)
	b.WriteByte('|')
	b.WriteString(spec.ModRMUsage.String())
	b.WriteByte('|')
	writeUint(&b, uint32(spec.ModRMOpcodeExtension))
	return b.String()
}

func writeUint(b *strings.Builder, v uint32) {
	b.WriteString(strings.TrimLeft(hexBytesOf(v), "0"))
}

func hexBytesOf(v uint32) string {
	const hex = "0123456789ABCDEF"
	out := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		out[i] = hex[v&0xF]
		v >>= 4
	}
	return string(out)
}

// dataOperandWidth returns the bit width of an instruction's first operand
// that is neither an immediate nor tagged "io-port" and has a nonzero value
// size — the "data operand" spec.md means when it says "by the
// value_size_bits of data operands".
func dataOperandWidth(instr *x86db.Instruction) (uint32, bool) {
	if len(instr.VendorSyntax) == 0 {
		return 0, false
	}
	for _, op := range instr.VendorSyntax[0].Operands {
		if op.Encoding == x86db.ImmediateValueEncoding {
			continue
		}
		if op.HasTag("io-port") {
			continue
		}
		if op.ValueSizeBits != 0 {
			return op.ValueSizeBits, true
		}
	}
	return 0, false
}

// AddOperandSizeOverridePrefix buckets instructions by their parsed
// encoding (ignoring immediate sizes) and, where a bucket has both a
// 16-bit and a 32-bit data-operand variant, prepends "66 " to the 16-bit
// member's raw encoding specification. VEX-prefixed and code-offset-
// bearing entries never participate.
func AddOperandSizeOverridePrefix(db *x86db.Database) error {
	buckets := map[string][]*x86db.Instruction{}
	for _, instr := range db.Instructions {
		if instr.EncodingSpecification == nil || instr.EncodingSpecification.IsVex() {
			continue
		}
		if instr.EncodingSpecification.CodeOffsetBytes != 0 {
			continue
		}
		key := encodingBucketKey(instr)
		buckets[key] = append(buckets[key], instr)
	}

	for _, members := range buckets {
		var sixteen, thirtyTwo []*x86db.Instruction
		for _, instr := range members {
			width, ok := dataOperandWidth(instr)
			if !ok {
				continue
			}
			switch width {
			case 16:
				sixteen = append(sixteen, instr)
			case 32:
				thirtyTwo = append(thirtyTwo, instr)
			}
		}
		if len(sixteen) == 0 || len(thirtyTwo) == 0 {
			continue
		}
		for _, instr := range sixteen {
			if !strings.HasPrefix(strings.TrimSpace(instr.RawEncodingSpecification), "66") {
				instr.RawEncodingSpecification = "66 " + instr.RawEncodingSpecification
			}
			if instr.EncodingSpecification.LegacyPrefixes == nil {
				instr.EncodingSpecification.LegacyPrefixes = &x86db.LegacyPrefixes{}
			}
			instr.EncodingSpecification.LegacyPrefixes.OperandSizeOverridePrefix = x86db.OperandSizeOverrideRequired
		}
	}
	return nil
}
