package bytecode

import (
	"bytes"
)

// WebAssembly binary constants used by the builder. Sections must appear in
// increasing order by ID.
const (
	sectionType     byte = 1
	sectionFunction byte = 3
	sectionExport   byte = 7
	sectionCode     byte = 10

	kindFunc byte = 0x00
	valI64   byte = 0x7E
	formFunc byte = 0x60

	opI64Const byte = 0x42
	opEnd      byte = 0x0B
)

// Builder synthesizes a minimal WebAssembly module whose exports each return
// a 64-bit constant. It exists so tests and tooling can produce well-formed
// compiler input without a bytecode front-end.
type Builder struct {
	name  string
	funcs []constFunc
}

type constFunc struct {
	name  string
	value int64
}

// NewBuilder creates a builder for a module with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// ConstFunc declares an exported function returning value. Functions occupy
// dispatch slots in declaration order.
func (b *Builder) ConstFunc(name string, value int64) *Builder {
	b.funcs = append(b.funcs, constFunc{name: name, value: value})
	return b
}

// Build encodes the module binary and its function metadata table.
func (b *Builder) Build() *Module {
	w := newWriter()

	// Header
	w.raw([]byte{0x00, 0x61, 0x73, 0x6D}) // "\0asm"
	w.raw([]byte{0x01, 0x00, 0x00, 0x00}) // version 1

	// Type section: a single () -> i64 signature shared by every function.
	sec := newWriter()
	sec.u32(1)
	sec.byte(formFunc)
	sec.u32(0) // no params
	sec.u32(1) // one result
	sec.byte(valI64)
	w.section(sectionType, sec)

	// Function section: every body uses type index 0.
	sec = newWriter()
	sec.u32(uint32(len(b.funcs)))
	for range b.funcs {
		sec.u32(0)
	}
	w.section(sectionFunction, sec)

	// Export section
	sec = newWriter()
	sec.u32(uint32(len(b.funcs)))
	for i, f := range b.funcs {
		sec.name(f.name)
		sec.byte(kindFunc)
		sec.u32(uint32(i))
	}
	w.section(sectionExport, sec)

	// Code section: [no locals, i64.const v, end]
	sec = newWriter()
	sec.u32(uint32(len(b.funcs)))
	for _, f := range b.funcs {
		body := newWriter()
		body.u32(0) // local declaration count
		body.byte(opI64Const)
		body.s64(f.value)
		body.byte(opEnd)
		sec.u32(uint32(body.len()))
		sec.raw(body.bytes())
	}
	w.section(sectionCode, sec)

	funcs := make([]FunctionInfo, len(b.funcs))
	for i, f := range b.funcs {
		funcs[i] = FunctionInfo{ID: uint32(i), Name: f.name}
	}

	return &Module{
		Name:      b.name,
		Code:      w.bytes(),
		Functions: funcs,
	}
}

// writer accumulates LEB128-encoded wasm binary fragments.
type writer struct {
	buf bytes.Buffer
}

func newWriter() *writer {
	return &writer{}
}

func (w *writer) bytes() []byte { return w.buf.Bytes() }
func (w *writer) len() int      { return w.buf.Len() }

func (w *writer) byte(b byte) {
	w.buf.WriteByte(b)
}

func (w *writer) raw(data []byte) {
	w.buf.Write(data)
}

// u32 writes an unsigned LEB128 encoded uint32.
func (w *writer) u32(v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if v == 0 {
			break
		}
	}
}

// s64 writes a signed LEB128 encoded int64.
func (w *writer) s64(v int64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			w.buf.WriteByte(b)
			return
		}
		w.buf.WriteByte(b | 0x80)
	}
}

// name writes a length-prefixed UTF-8 name.
func (w *writer) name(s string) {
	w.u32(uint32(len(s)))
	w.buf.WriteString(s)
}

// section writes a length-prefixed section.
func (w *writer) section(id byte, body *writer) {
	w.byte(id)
	w.u32(uint32(body.len()))
	w.raw(body.bytes())
}
