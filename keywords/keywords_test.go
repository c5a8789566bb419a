package keywords

import "testing"

func TestLookupKnownMnemonics(t *testing.T) {
	cases := []struct {
		name   string
		opcode byte
		nArgs  byte
	}{
		{"cmp", CMP, 2},
		{"add", ADD, 2},
		{"sub", SUB, 2},
		{"jnz", JNZ, 1},
		{"push", PUSH, 1},
		{"pop", POP, 1},
		{"st", ST, 2},
		{"ld", LD, 2},
		{"or", OR, 2},
		{"and", AND, 2},
		{"xor", XOR, 2},
		{"lsh", LSH, 2},
		{"rsh", RSH, 2},
		{"cli", CLI, 0},
		{"sti", STI, 0},
		{"int", INT, 1},
		{"str", DirStr, 1},
		{"zst", DirZst, 1},
		{"org", DirOrg, 1},
		{"def", DirDef, 1},
		{"end", DirEnd, 0},
	}

	for _, c := range cases {
		kw, ok := Lookup(c.name)
		if !ok {
			t.Errorf("%s: expected to be found", c.name)
			continue
		}
		if kw.Opcode != c.opcode {
			t.Errorf("%s: expected opcode %#x, got %#x", c.name, c.opcode, kw.Opcode)
		}
		if kw.NArgs != c.nArgs {
			t.Errorf("%s: expected %d args, got %d", c.name, c.nArgs, kw.NArgs)
		}
	}
}

func TestLookupUnknownMnemonic(t *testing.T) {
	if _, ok := Lookup("loop"); ok {
		t.Error("expected unknown mnemonic to miss")
	}
}

func TestIsDirective(t *testing.T) {
	if IsDirective(ADD) {
		t.Error("add should not be a directive")
	}
	if !IsDirective(DirOrg) {
		t.Error("org should be a directive")
	}
}
