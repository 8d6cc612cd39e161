package typeid

import (
	"strings"
	"testing"
)

func TestNewIDsCarryPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		gen    func() string
	}{
		{PrefixLayer, NewLayerID},
		{PrefixPath, NewPathID},
		{PrefixSession, NewSessionID},
		{PrefixExport, NewExportID},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			id := tt.gen()
			if !strings.HasPrefix(id, tt.prefix+"_") {
				t.Fatalf("id %q lacks prefix %q", id, tt.prefix)
			}
			if err := Validate(id, tt.prefix); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestNewIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewPathID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(NewPathID(), PrefixLayer); err == nil {
		t.Error("Validate accepted a path id as a layer id")
	}
	if err := Validate("not-an-id", PrefixPath); err == nil {
		t.Error("Validate accepted garbage")
	}
}
