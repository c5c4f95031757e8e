package frontend_test

import (
	"bytes"
	"testing"

	"github.com/keurnel/faucon/internal/frontend"
)

func TestIACAMarkerLocator_FindsFirstMarkedRegion(t *testing.T) {
	opening := []byte{0x0F, 0x0B, 0xBB, 0x6F, 0x00, 0x00, 0x00, 0x64, 0x67, 0x90}
	closing := []byte{0xBB, 0xDE, 0x00, 0x00, 0x00, 0x64, 0x67, 0x90, 0x0F, 0x0B}
	body := []byte{0x90, 0x90, 0x90, 0x90}

	var section []byte
	section = append(section, 0xCC, 0xCC) // padding before the marked region
	section = append(section, opening...)
	section = append(section, body...)
	section = append(section, closing...)
	section = append(section, 0xCC) // trailing bytes after the region

	got, err := (frontend.IACAMarkerLocator{}).Locate(section)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("Locate = %v, want %v", got, body)
	}
}

func TestIACAMarkerLocator_MissingOpeningMarker(t *testing.T) {
	if _, err := (frontend.IACAMarkerLocator{}).Locate([]byte{0x90, 0x90, 0x90}); err == nil {
		t.Fatalf("Locate: want error when opening marker is absent")
	}
}

func TestIACAMarkerLocator_MissingClosingMarker(t *testing.T) {
	opening := []byte{0x0F, 0x0B, 0xBB, 0x6F, 0x00, 0x00, 0x00, 0x64, 0x67, 0x90}
	section := append(append([]byte{}, opening...), 0x90, 0x90)
	if _, err := (frontend.IACAMarkerLocator{}).Locate(section); err == nil {
		t.Fatalf("Locate: want error when closing marker is absent")
	}
}
