package bitfield

import "testing"

func TestNewBytes(t *testing.T) {
	var v BitField
	var buf = []byte{0x0f}

	v = NewBytes(buf, 8)
	if v.Hex() != "0f" {
		t.Errorf("invalid value: %s", v.Hex())
	}

	v = NewBytes(buf, 7)
	if v.Hex() != "0e" {
		t.Errorf("invalid value: %s", v.Hex())
	}

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic but not found")
			}
		}()
		NewBytes(buf, 9)
	}()

	v = New(10)
	if v.Hex() != "0000" {
		t.Errorf("invalid value: %s", v.Hex())
	}

	v.Set(0)
	if v.Hex() != "8000" {
		t.Errorf("invalid value: %s", v.Hex())
	}

	v.Set(9)
	if v.Hex() != "8040" {
		t.Errorf("invalid value: %s", v.Hex())
	}

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic but not found")
			}
		}()
		v.Set(10)
	}()

	v.Clear(0)
	if v.Hex() != "0040" {
		t.Errorf("invalid value: %s", v.Hex())
	}

	if v.Test(2) {
		t.Errorf("test is not correct: %s", v.Hex())
	}

	if !v.Test(9) {
		t.Errorf("test is not correct: %s", v.Hex())
	}
}

func TestFirstSetAndNone(t *testing.T) {
	v := New(16)
	if !v.None() {
		t.Fatal("expected empty bitfield to be none")
	}
	if _, ok := v.FirstSet(0); ok {
		t.Fatal("expected no set bit")
	}
	v.Set(5)
	if v.None() {
		t.Fatal("expected non-empty bitfield")
	}
	i, ok := v.FirstSet(0)
	if !ok || i != 5 {
		t.Fatalf("got (%d, %v), want (5, true)", i, ok)
	}
	if _, ok := v.FirstSet(6); ok {
		t.Fatal("expected no set bit after index 5")
	}
}

func TestSetRange(t *testing.T) {
	v := New(8)
	v.SetRange(2, 4)
	if v.Hex() != "38" {
		t.Errorf("got %s, want 38", v.Hex())
	}
	if v.Count() != 3 {
		t.Errorf("got count %d, want 3", v.Count())
	}
}

func TestAndAndNot(t *testing.T) {
	a := New(8)
	a.SetRange(0, 3) // 11110000
	b := New(8)
	b.SetRange(2, 5) // 00111100

	and := a.Copy()
	and.And(&b)
	if and.Hex() != "30" { // 00110000
		t.Errorf("And: got %s, want 30", and.Hex())
	}

	andnot := a.Copy()
	andnot.AndNot(&b)
	if andnot.Hex() != "c0" { // 11000000
		t.Errorf("AndNot: got %s, want c0", andnot.Hex())
	}
}

func TestNot(t *testing.T) {
	v := New(4)
	v.Set(0)
	v.Not()
	if v.Hex() != "70" { // 0111 then padded with zero bits
		t.Errorf("got %s, want 70", v.Hex())
	}
	if v.Count() != 3 {
		t.Errorf("got count %d, want 3", v.Count())
	}
}
