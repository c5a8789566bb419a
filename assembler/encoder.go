package assembler

import (
	"fmt"
	"strings"

	"github.com/msc16/toolchain/keywords"
	"github.com/msc16/toolchain/parser"
)

// encoder fills the output stream and tracks labels, grounded on the
// design's single-pass-with-backpatch rule: a forward label reference
// writes a placeholder now and gets patched once the label is seen.
type encoder struct {
	stream     *stream
	labels     *labelTable
	unresolved *unresolvedTable
	errs       *parser.ErrorList
}

func newEncoder() *encoder {
	return &encoder{
		stream:     newStream(),
		labels:     newLabelTable(),
		unresolved: newUnresolvedTable(),
		errs:       &parser.ErrorList{},
	}
}

func (e *encoder) fail(line int, format string, args ...any) {
	e.errs.Add(parser.NewError(line, parser.ErrorSyntax, fmt.Sprintf(format, args...)))
}

// defineLabel handles a standalone LabelDef line: records the label at
// the current cursor and patches every pending forward reference.
func (e *encoder) defineLabel(tok parser.Token) {
	name := strings.TrimSuffix(tok.Literal, ":")
	if err := e.labels.define(name, e.stream.address()); err != nil {
		e.errs.Add(parser.NewError(tok.Line, parser.ErrorSymbolic, err.Error()))
		return
	}
	addr := e.stream.address()
	for _, offset := range e.unresolved.take(name) {
		e.stream.patchWord(offset, addr)
	}
}

// writeImmediateOrLabel emits the 2-byte operand value for an
// immediate-mode slot: the resolved value if known, or a placeholder
// recorded for later backpatching.
func (e *encoder) writeImmediateOrLabel(op operand) {
	if op.Kind == operandImmediate {
		e.stream.writeWord(op.Imm)
		return
	}
	if addr, ok := e.labels.lookup(op.Label); ok {
		e.stream.writeWord(addr)
		return
	}
	offset := e.stream.cur
	e.stream.writeWord(0)
	e.unresolved.add(op.Label, offset)
}

// EncodeLine dispatches one tokenised instruction line (or a standalone
// label definition) to its handler.
func (e *encoder) EncodeLine(tokens []parser.Token) {
	if len(tokens) == 0 {
		return
	}
	line := tokens[0].Line

	if tokens[0].Type == parser.TokenLabelDef {
		if len(tokens) != 1 {
			e.fail(line, "a label definition must stand alone on its line")
			return
		}
		e.defineLabel(tokens[0])
		return
	}

	if tokens[0].Type != parser.TokenOpcode {
		e.fail(line, "expected an instruction or label, found %q", tokens[0].Literal)
		return
	}

	mnemonic := tokens[0].Literal
	kw, _ := keywords.Lookup(mnemonic)
	args := tokens[1:]
	if len(args) != int(kw.NArgs) {
		e.fail(line, "%s expects %d operand(s), got %d", mnemonic, kw.NArgs, len(args))
		return
	}

	ops := make([]operand, len(args))
	for i, a := range args {
		if a.Type == parser.TokenString && (kw.Opcode == keywords.DirStr || kw.Opcode == keywords.DirZst) {
			continue // str/zst consume the raw string token in encodeString
		}
		op, err := classifyOperand(a)
		if err != nil {
			e.fail(line, "%s", err.Error())
			return
		}
		ops[i] = op
	}

	switch kw.Opcode {
	case keywords.CMP, keywords.ADD, keywords.SUB, keywords.OR, keywords.AND, keywords.XOR, keywords.LSH, keywords.RSH:
		e.encodeTwoRegister(line, kw.Opcode, ops)
	case keywords.PUSH, keywords.POP:
		e.encodeOneRegister(line, kw.Opcode, ops[0])
	case keywords.CLI, keywords.STI:
		e.stream.writeWord(uint16(kw.Opcode) << 12)
	case keywords.LD:
		e.encodeLd(line, kw.Opcode, ops[0], ops[1])
	case keywords.ST:
		e.encodeSt(line, kw.Opcode, ops[0], ops[1])
	case keywords.JNZ:
		e.encodeJnz(line, kw.Opcode, ops[0])
	case keywords.INT:
		e.encodeInt(line, kw.Opcode, ops[0])
	case keywords.DirStr:
		e.encodeString(line, args[0], false)
	case keywords.DirZst:
		e.encodeString(line, args[0], true)
	case keywords.DirOrg:
		e.encodeOrg(line, ops[0])
	default:
		e.fail(line, "%s cannot appear outside macro preprocessing", mnemonic)
	}
}

func (e *encoder) encodeTwoRegister(line int, opcode byte, ops []operand) {
	if ops[0].Kind != operandRegister || ops[1].Kind != operandRegister {
		e.fail(line, "both operands must be registers")
		return
	}
	word := uint16(opcode)<<12 | uint16(ops[0].Reg)<<6 | uint16(ops[1].Reg)<<4
	e.stream.writeWord(word)
}

func (e *encoder) encodeOneRegister(line int, opcode byte, op operand) {
	if op.Kind != operandRegister {
		e.fail(line, "operand must be a register")
		return
	}
	e.stream.writeWord(uint16(opcode)<<12 | uint16(op.Reg)<<6)
}

func (e *encoder) encodeLd(line int, opcode byte, dst, src operand) {
	if dst.Kind != operandRegister {
		e.fail(line, "destination of ld must be a register")
		return
	}
	if src.Kind == operandRegister {
		e.stream.writeWord(uint16(opcode)<<12 | uint16(dst.Reg)<<6 | uint16(src.Reg)<<4)
		return
	}
	e.stream.writeWord(uint16(opcode)<<12 | uint16(dst.Reg)<<6 | 0x0008)
	e.writeImmediateOrLabel(src)
}

func (e *encoder) encodeSt(line int, opcode byte, dst, src operand) {
	if src.Kind != operandRegister {
		e.fail(line, "source of st must be a register")
		return
	}
	if dst.Kind == operandRegister {
		e.stream.writeWord(uint16(opcode)<<12 | uint16(dst.Reg)<<6 | uint16(src.Reg)<<4)
		return
	}
	e.stream.writeWord(uint16(opcode)<<12 | uint16(src.Reg)<<4 | 0x0008)
	e.writeImmediateOrLabel(dst)
}

func (e *encoder) encodeJnz(line int, opcode byte, target operand) {
	if target.Kind == operandRegister {
		e.stream.writeWord(uint16(opcode)<<12 | uint16(target.Reg)<<6)
		return
	}
	e.stream.writeWord(uint16(opcode)<<12 | 0x0008)
	e.writeImmediateOrLabel(target)
}

func (e *encoder) encodeInt(line int, opcode byte, imm operand) {
	if imm.Kind == operandRegister {
		e.fail(line, "int takes an immediate, not a register")
		return
	}
	e.stream.writeWord(uint16(opcode)<<12 | 0x0008)
	e.writeImmediateOrLabel(imm)
}

func (e *encoder) encodeString(line int, tok parser.Token, zeroTerminate bool) {
	text, err := unescapeString(tok.Literal)
	if err != nil {
		e.fail(line, "%s", err.Error())
		return
	}
	for i := 0; i < len(text); i++ {
		e.stream.writeByte(text[i])
	}
	if zeroTerminate {
		e.stream.writeByte(0)
	}
}

func (e *encoder) encodeOrg(line int, op operand) {
	if op.Kind != operandImmediate {
		e.fail(line, "org requires an immediate address")
		return
	}
	e.stream.setCursor(op.Imm)
}

// Finish checks for unresolved labels and, if none remain and no
// errors occurred, returns the trimmed image.
func (e *encoder) Finish() ([]byte, *parser.ErrorList) {
	for _, name := range e.unresolved.names() {
		e.errs.Add(parser.NewError(0, parser.ErrorSymbolic, "unresolved label reference: "+name))
	}
	if e.errs.HasErrors() {
		return []byte{}, e.errs
	}
	return e.stream.bytes(), e.errs
}
