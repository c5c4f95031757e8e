package frontend

import (
	"bytes"

	"github.com/keurnel/faucon/internal/xstatus"
)

// openingMarker and closingMarker are the exact IACA marker byte sequences
// from spec.md §6. ELF section enumeration (finding which bytes to search)
// is out of scope; callers hand MarkerLocator a pre-selected executable
// section's bytes.
var (
	openingMarker = []byte{0x0F, 0x0B, 0xBB, 0x6F, 0x00, 0x00, 0x00, 0x64, 0x67, 0x90}
	closingMarker = []byte{0xBB, 0xDE, 0x00, 0x00, 0x00, 0x64, 0x67, 0x90, 0x0F, 0x0B}
)

// MarkerLocator finds the IACA-marked region within one executable
// section's byte view.
type MarkerLocator interface {
	Locate(section []byte) ([]byte, error)
}

// IACAMarkerLocator implements MarkerLocator over the literal marker byte
// sequences.
type IACAMarkerLocator struct{}

// Locate returns the bytes strictly between the first opening marker and
// the first closing marker that follows it. Only the first marked region
// in the section is used, per spec.md §6.
func (IACAMarkerLocator) Locate(section []byte) ([]byte, error) {
	start := bytes.Index(section, openingMarker)
	if start == -1 {
		return nil, xstatus.NotFoundf("iacamarker: no opening marker in section")
	}
	bodyStart := start + len(openingMarker)
	rel := bytes.Index(section[bodyStart:], closingMarker)
	if rel == -1 {
		return nil, xstatus.NotFoundf("iacamarker: no closing marker after offset %d", bodyStart)
	}
	return section[bodyStart : bodyStart+rel], nil
}
