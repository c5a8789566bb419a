package vm

import "github.com/msc16/toolchain/keywords"

// Handler is the uniform signature every execution semantic shares;
// handlers that ignore one or both operands still honour it. The
// returned value is what the step driver uses to update Z and N.
type Handler func(cpu *CPU, op1, op2 Pointer) uint16

// handlers is the 16-entry dispatch table, indexed by opcode nibble.
var handlers = [16]Handler{
	keywords.CMP:  execCmp,
	keywords.ADD:  arithmetic(func(a, b uint16) uint16 { return a + b }),
	keywords.SUB:  arithmetic(func(a, b uint16) uint16 { return a - b }),
	keywords.JNZ:  execJnz,
	keywords.PUSH: execPush,
	keywords.POP:  execPop,
	keywords.ST:   execStore,
	keywords.LD:   execStore,
	keywords.OR:   arithmetic(func(a, b uint16) uint16 { return a | b }),
	keywords.AND:  arithmetic(func(a, b uint16) uint16 { return a & b }),
	keywords.XOR:  arithmetic(func(a, b uint16) uint16 { return a ^ b }),
	keywords.LSH:  arithmetic(shiftLeft),
	keywords.RSH:  arithmetic(shiftRight),
	keywords.CLI:  execCli,
	keywords.STI:  execSti,
	keywords.INT:  execInt,
}

// arithmetic wraps a binary operator into a handler that reads both
// operands, writes the result back to op1, and returns it for the
// flag update.
func arithmetic(op func(a, b uint16) uint16) Handler {
	return func(cpu *CPU, op1, op2 Pointer) uint16 {
		r := op(cpu.Read(op1), cpu.Read(op2))
		cpu.Write(op1, r)
		return r
	}
}

// shiftLeft and shiftRight define lsh/rsh for a shift count of 16 or
// more: the result is zero. Go's unsigned shift already gives zero
// there; the explicit check states the rule in the handler itself.
func shiftLeft(a, b uint16) uint16 {
	if b >= 16 {
		return 0
	}
	return a << b
}

func shiftRight(a, b uint16) uint16 {
	if b >= 16 {
		return 0
	}
	return a >> b
}

// execCmp computes sub's result without writing it back.
func execCmp(cpu *CPU, op1, op2 Pointer) uint16 {
	return cpu.Read(op1) - cpu.Read(op2)
}

// execJnz branches to op1 when Z is clear.
func execJnz(cpu *CPU, op1, op2 Pointer) uint16 {
	if cpu.Flags&FlagZ == 0 {
		cpu.IP = cpu.Read(op1)
	}
	return 0
}

// execPush writes op1 to the new top of stack, predecrementing sp.
func execPush(cpu *CPU, op1, op2 Pointer) uint16 {
	cpu.SP -= 2
	cpu.Write(MemoryPointer(cpu.SP), cpu.Read(op1))
	return 0
}

// execPop reads the top of stack into op1, postincrementing sp.
func execPop(cpu *CPU, op1, op2 Pointer) uint16 {
	v := cpu.Read(MemoryPointer(cpu.SP))
	cpu.Write(op1, v)
	cpu.SP += 2
	return 0
}

// execStore backs both st and ld: write(op1, read(op2)). The decoder
// is what makes the two mnemonics differ — it assigns the register
// and the (possibly memory) operand to op1/op2 in opposite roles.
func execStore(cpu *CPU, op1, op2 Pointer) uint16 {
	cpu.Write(op1, cpu.Read(op2))
	return 0
}

func execCli(cpu *CPU, op1, op2 Pointer) uint16 {
	cpu.Flags &^= FlagI
	return 0
}

func execSti(cpu *CPU, op1, op2 Pointer) uint16 {
	cpu.Flags |= FlagI
	return 0
}

// execInt branches to op1 only when interrupts are enabled; otherwise
// it is a no-op.
func execInt(cpu *CPU, op1, op2 Pointer) uint16 {
	if cpu.Flags&FlagI != 0 {
		cpu.IP = cpu.Read(op1)
	}
	return 0
}
