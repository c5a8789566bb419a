package assembler

import (
	"bytes"
	"testing"
)

func TestAssembleTwoRegisterInstruction(t *testing.T) {
	// add %a, %b: ADD=0x1, op1=%a(0), op2=%b(1) ->
	// word = (0x1<<12) | (0<<6) | (1<<4) = 0x1010, little-endian.
	img, errs := Assemble("add %a, %b\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	want := []byte{0x10, 0x10}
	if !bytes.Equal(img, want) {
		t.Errorf("expected % x, got % x", want, img)
	}
}

func TestAssembleLoadImmediate(t *testing.T) {
	// ld %a, $1234: LD=0x7, dst=%a(0), immediate mode bit set ->
	// word = (0x7<<12) | (0<<6) | 0x0008 = 0x7008, followed by the
	// little-endian immediate 0x1234.
	img, errs := Assemble("ld %a, $1234\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	want := []byte{0x08, 0x70, 0x34, 0x12}
	if !bytes.Equal(img, want) {
		t.Errorf("expected % x, got % x", want, img)
	}
}

func TestAssembleCliThenForwardLabelJnz(t *testing.T) {
	src := "cli\nloop:\njnz loop\n"
	img, errs := Assemble(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	want := []byte{0x00, 0xD0, 0x08, 0x30, 0x02, 0x00}
	if !bytes.Equal(img, want) {
		t.Errorf("expected % x, got % x", want, img)
	}
}

func TestAssembleStrAndZst(t *testing.T) {
	img, errs := Assemble(`str "ab"` + "\n" + `zst "cd"` + "\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	want := []byte{'a', 'b', 'c', 'd', 0}
	if !bytes.Equal(img, want) {
		t.Errorf("expected % x, got % x", want, img)
	}
}

func TestAssembleOrgRewindsCursor(t *testing.T) {
	src := "org $0004\nstr \"z\"\norg $0000\nstr \"ab\"\n"
	img, errs := Assemble(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	if len(img) != 5 {
		t.Fatalf("expected high-water-marked image of 5 bytes, got %d: % x", len(img), img)
	}
	if img[0] != 'a' || img[1] != 'b' {
		t.Errorf("expected org to rewind the cursor, got % x", img)
	}
	if img[4] != 'z' {
		t.Errorf("expected the high-water byte at offset 4 to survive, got % x", img)
	}
}

func TestAssembleMacroExpansion(t *testing.T) {
	src := "def bump\nadd %a, %b\nend\nbump\n"
	img, errs := Assemble(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	want := []byte{0x10, 0x10}
	if !bytes.Equal(img, want) {
		t.Errorf("expected macro body to expand to % x, got % x", want, img)
	}
}

func TestAssembleUnresolvedLabelIsError(t *testing.T) {
	_, errs := Assemble("jnz missing\n")
	if !errs.HasErrors() {
		t.Fatal("expected an unresolved label error")
	}
}

func TestAssembleWrongOperandCountIsError(t *testing.T) {
	_, errs := Assemble("add %a\n")
	if !errs.HasErrors() {
		t.Fatal("expected an error for a missing operand")
	}
}

func TestAssembleDuplicateLabelIsError(t *testing.T) {
	_, errs := Assemble("loop:\nloop:\n")
	if !errs.HasErrors() {
		t.Fatal("expected an error for a duplicate label definition")
	}
}
