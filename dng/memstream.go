package dng

import "encoding/binary"

// MemoryStream is a ByteStream over an in-memory byte slice.
type MemoryStream struct {
	data  []byte
	pos   uint64
	order binary.ByteOrder
}

// NewMemoryStream reads from data without copying it. Typed reads default to
// little endian.
func NewMemoryStream(data []byte) *MemoryStream {
	return &MemoryStream{data: data, order: binary.LittleEndian}
}

// SetByteOrder changes the order used by typed reads.
func (m *MemoryStream) SetByteOrder(order binary.ByteOrder) {
	m.order = order
}

func (m *MemoryStream) Length() uint64              { return uint64(len(m.data)) }
func (m *MemoryStream) Position() uint64            { return m.pos }
func (m *MemoryStream) ByteOrder() binary.ByteOrder { return m.order }

func (m *MemoryStream) SetReadPosition(pos uint64) {
	if pos > m.Length() {
		pos = m.Length()
	}
	m.pos = pos
}

func (m *MemoryStream) Get(p []byte) error {
	if uint64(len(p)) > m.Length()-m.pos {
		return exhausted(m, len(p))
	}
	m.pos += uint64(copy(p, m.data[m.pos:]))
	return nil
}
