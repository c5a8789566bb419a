package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/msc16/toolchain/parser"
)

// operandKind tags what an operand lexeme resolves to.
type operandKind int

const (
	operandRegister operandKind = iota
	operandImmediate
	operandLabel
)

// operand is the encoder's view of one instruction argument, classified
// per §4.D: a register index, a resolved immediate, or a label name
// deferred to the label table.
type operand struct {
	Kind  operandKind
	Reg   byte
	Imm   uint16
	Label string
}

// classifyOperand turns a token into an operand descriptor.
func classifyOperand(tok parser.Token) (operand, error) {
	lex := tok.Literal

	switch tok.Type {
	case parser.TokenRegister:
		return classifyRegister(lex)
	case parser.TokenImmDec:
		v, err := strconv.ParseUint(lex, 10, 16)
		if err != nil {
			return operand{}, fmt.Errorf("invalid decimal immediate %q", lex)
		}
		return operand{Kind: operandImmediate, Imm: uint16(v)}, nil
	case parser.TokenImmHex:
		v, err := strconv.ParseUint(strings.TrimPrefix(lex, "$"), 16, 16)
		if err != nil {
			return operand{}, fmt.Errorf("invalid hex immediate %q", lex)
		}
		return operand{Kind: operandImmediate, Imm: uint16(v)}, nil
	case parser.TokenLabelRef:
		return operand{Kind: operandLabel, Label: lex}, nil
	default:
		return operand{}, fmt.Errorf("operand %q cannot be used here", lex)
	}
}

// classifyRegister validates a %x register lexeme and maps it to 0..3.
func classifyRegister(lex string) (operand, error) {
	if len(lex) != 2 || lex[0] != '%' {
		return operand{}, fmt.Errorf("invalid register name %q", lex)
	}
	idx := int(lex[1] - 'a')
	if idx < 0 || idx > 3 {
		return operand{}, fmt.Errorf("invalid register name %q", lex)
	}
	return operand{Kind: operandRegister, Reg: byte(idx)}, nil
}
