package bytecode

import (
	"bytes"
	"testing"
)

func TestBuilder_Metadata(t *testing.T) {
	m := NewBuilder("orders_scan").
		ConstFunc("f1", 10).
		ConstFunc("f2", -3).
		Build()

	if m.Name != "orders_scan" {
		t.Fatalf("Expected module name, got %q", m.Name)
	}
	if m.FunctionCount() != 2 {
		t.Fatalf("Expected 2 functions, got %d", m.FunctionCount())
	}

	// IDs are dense slot indices in declaration order
	if m.Functions[0].Name != "f1" || m.Functions[0].ID != 0 {
		t.Fatalf("Unexpected first function: %+v", m.Functions[0])
	}
	if m.Functions[1].Name != "f2" || m.Functions[1].ID != 1 {
		t.Fatalf("Unexpected second function: %+v", m.Functions[1])
	}

	if err := m.Validate(); err != nil {
		t.Fatalf("Expected valid module, got %v", err)
	}
}

func TestBuilder_BinaryHeader(t *testing.T) {
	m := NewBuilder("m").ConstFunc("f", 1).Build()

	if len(m.Code) < 8 {
		t.Fatalf("Binary too short: %d bytes", len(m.Code))
	}
	if !bytes.Equal(m.Code[:4], []byte{0x00, 0x61, 0x73, 0x6D}) {
		t.Fatalf("Bad magic: % x", m.Code[:4])
	}
	if !bytes.Equal(m.Code[4:8], []byte{0x01, 0x00, 0x00, 0x00}) {
		t.Fatalf("Bad version: % x", m.Code[4:8])
	}

	// Export names appear verbatim in the export section
	if !bytes.Contains(m.Code, []byte("f")) {
		t.Fatal("Export name missing from binary")
	}
}

func TestBuilder_SectionOrder(t *testing.T) {
	m := NewBuilder("m").ConstFunc("f", 42).Build()

	// Section ids must increase: type(1), function(3), export(7), code(10).
	var order []byte
	pos := 8
	for pos < len(m.Code) {
		id := m.Code[pos]
		order = append(order, id)
		pos++
		size, n := readU32(m.Code[pos:])
		pos += n + int(size)
	}

	want := []byte{sectionType, sectionFunction, sectionExport, sectionCode}
	if !bytes.Equal(order, want) {
		t.Fatalf("Expected sections % x, got % x", want, order)
	}
}

func TestModule_Validate(t *testing.T) {
	// Empty code
	m := &Module{Name: "m", Functions: []FunctionInfo{{Name: "f", ID: 0}}}
	if err := m.Validate(); err == nil {
		t.Fatal("Expected error for empty code")
	}

	// No functions
	m = &Module{Name: "m", Code: []byte{1}}
	if err := m.Validate(); err == nil {
		t.Fatal("Expected error for empty function table")
	}

	// Sparse ids
	m = &Module{
		Name: "m", Code: []byte{1},
		Functions: []FunctionInfo{{Name: "f", ID: 1}},
	}
	if err := m.Validate(); err == nil {
		t.Fatal("Expected error for sparse ids")
	}

	// Duplicate names
	m = &Module{
		Name: "m", Code: []byte{1},
		Functions: []FunctionInfo{{Name: "f", ID: 0}, {Name: "f", ID: 1}},
	}
	if err := m.Validate(); err == nil {
		t.Fatal("Expected error for duplicate names")
	}
}

// readU32 decodes an unsigned LEB128 value, returning it and the bytes read.
func readU32(data []byte) (uint32, int) {
	var result uint32
	var shift uint
	for i, b := range data {
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, i + 1
		}
		shift += 7
	}
	return result, len(data)
}
