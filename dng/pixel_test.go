package dng

import (
	"errors"
	"image"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func newTestBuffer(t *testing.T, area image.Rectangle, planes int) PixelBuffer {
	t.Helper()
	block, err := DefaultAllocator.Allocate(BufferSize(area, planes, PixelTypeShort))
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	return NewPixelBuffer(area, planes, PixelTypeShort, block.Buffer())
}

func TestPixelBufferLayout(t *testing.T) {
	area := image.Rect(0, 0, 4, 3)
	b := newTestBuffer(t, area, 3)

	if b.RowStep != 12 || b.ColStep != 3 || b.PlaneStep != 1 || b.PixelSize != 2 {
		t.Fatalf("unexpected steps: %+v", b)
	}
	if len(b.Data) != 4*3*3*2 {
		t.Fatalf("Data length mismatch: got %d", len(b.Data))
	}

	b.SetUint16(2, 3, 1, 0xBEEF)
	if got := b.Uint16(2, 3, 1); got != 0xBEEF {
		t.Errorf("Uint16 mismatch: got %#x", got)
	}
	if got := b.Uint16s()[2*12+3*3+1]; got != 0xBEEF {
		t.Errorf("Uint16s view mismatch: got %#x", got)
	}
}

func TestCopyArea(t *testing.T) {
	area := image.Rect(0, 0, 5, 4)
	src := newTestBuffer(t, area, 1)
	for i := range src.Uint16s() {
		src.Uint16s()[i] = uint16(i + 1)
	}

	dst := newTestBuffer(t, area, 1)
	dst.CopyArea(&src, area, 0, 1)

	for i, v := range dst.Uint16s() {
		if v != uint16(i+1) {
			t.Fatalf("sample %d mismatch: got %d, want %d", i, v, i+1)
		}
	}
}

func TestHeapAllocatorLimit(t *testing.T) {
	a := HeapAllocator{Limit: 8}
	if _, err := a.Allocate(16); !errors.Is(err, ErrAllocationTooLarge) {
		t.Fatalf("expected ErrAllocationTooLarge, got %v", err)
	}
	block, err := a.Allocate(7)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if len(block.Buffer()) != 7 {
		t.Errorf("block size mismatch: got %d, want 7", len(block.Buffer()))
	}
}

func TestIdentityLikeMatrix(t *testing.T) {
	m3 := IdentityLikeMatrix(3)
	if r, c := m3.Dims(); r != 3 || c != 3 {
		t.Fatalf("3 channel dims: %dx%d", r, c)
	}
	if !mat.Equal(m3, mat.NewDiagDense(3, []float64{1, 1, 1})) {
		t.Errorf("3 channel fallback is not identity:\n%v", mat.Formatted(m3))
	}

	m4 := IdentityLikeMatrix(4)
	if r, c := m4.Dims(); r != 4 || c != 3 {
		t.Fatalf("4 channel dims: %dx%d", r, c)
	}
	if IsZeroMatrix(m4) {
		t.Error("4 channel fallback must not be zero")
	}
	if m4.At(1, 0) != 1 || m4.At(2, 1) != 1 || m4.At(3, 2) != 1 {
		t.Errorf("4 channel fallback layout:\n%v", mat.Formatted(m4))
	}

	if IdentityLikeMatrix(1) != nil {
		t.Error("1 channel fallback must be nil")
	}
}

func TestURational(t *testing.T) {
	r := NewURational(4000, 2000)
	if !r.Equal(NewURational(2, 1)) {
		t.Error("4000/2000 must equal 2/1")
	}
	if r.String() != "4000/2000" {
		t.Errorf("String mismatch: got %s", r)
	}
	if r.Rat().Cmp(NewURational(2, 1).Rat()) != 0 {
		t.Error("Rat values differ")
	}
	if NewURational(1, 0).Rat() != nil || NewURational(1, 0).Float64() != 0 {
		t.Error("zero denominator must be inert")
	}
}
