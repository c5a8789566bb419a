package parser

import (
	"strings"
	"testing"
)

func TestPreprocessorExpandsMacro(t *testing.T) {
	lines := []string{
		"def bump",
		"add %a, %b",
		"push %a",
		"end",
		"bump",
		"sub %c, %d",
	}

	p := NewPreprocessor()
	out, lineNos, errs := p.Process(lines)

	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	want := []string{"add %a, %b", "push %a", "sub %c, %d"}
	if len(out) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(out), out)
	}
	for i, w := range want {
		if strings.TrimSpace(out[i]) != w {
			t.Errorf("line %d: expected %q, got %q", i, w, out[i])
		}
	}
	if lineNos[0] != 5 || lineNos[1] != 5 {
		t.Errorf("expected expanded lines to carry the invoking line's number, got %v", lineNos)
	}
	if lineNos[2] != 6 {
		t.Errorf("expected trailing line to keep its original number, got %d", lineNos[2])
	}
}

func TestPreprocessorNestedDefIsError(t *testing.T) {
	lines := []string{
		"def outer",
		"def inner",
		"end",
		"end",
	}
	p := NewPreprocessor()
	_, _, errs := p.Process(lines)
	if !errs.HasErrors() {
		t.Fatal("expected an error for nested macro definition")
	}
}

func TestPreprocessorEndWithoutDefIsError(t *testing.T) {
	p := NewPreprocessor()
	_, _, errs := p.Process([]string{"end"})
	if !errs.HasErrors() {
		t.Fatal("expected an error for end without def")
	}
}

func TestPreprocessorUnterminatedMacroIsError(t *testing.T) {
	p := NewPreprocessor()
	_, _, errs := p.Process([]string{"def leak", "add %a, %b"})
	if !errs.HasErrors() {
		t.Fatal("expected an error for an unterminated macro")
	}
}

func TestPreprocessorPassesThroughPlainLines(t *testing.T) {
	p := NewPreprocessor()
	out, _, errs := p.Process([]string{"loop:", "cmp %a, %b"})
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	if len(out) != 2 {
		t.Fatalf("expected passthrough of 2 lines, got %v", out)
	}
}
