package vm

import "github.com/msc16/toolchain/keywords"

// Decoded is what the decoder hands the step driver: which instruction
// to dispatch, its operand pointers, and the total size in bytes of
// the instruction (opcode word, plus an immediate word in immediate
// addressing mode).
type Decoded struct {
	Inst byte
	Op1  Pointer
	Op2  Pointer
	Size uint16
}

// Decode reads the opcode word at cpu.IP and builds operand
// descriptors per §4.G. It never mutates cpu.IP; the step driver
// decides how far to advance after the handler has run.
func Decode(cpu *CPU) Decoded {
	ip := cpu.IP
	word := cpu.Memory.ReadWord(ip)

	inst := byte(word >> 12)
	mode := byte((word >> 3) & 1)
	r1 := byte((word >> 6) & 3)
	r2 := byte((word >> 4) & 3)

	if inst >= 16 {
		// Unreachable with a 4-bit opcode nibble, kept as the
		// documented soft-skip safety net.
		return Decoded{Inst: inst, Size: 1}
	}

	d := Decoded{Inst: inst, Size: 2}

	switch inst {
	case keywords.CMP, keywords.ADD, keywords.SUB, keywords.OR, keywords.AND, keywords.XOR, keywords.LSH, keywords.RSH:
		d.Op1 = RegisterPointer(r1)
		d.Op2 = RegisterPointer(r2)

	case keywords.PUSH, keywords.POP:
		d.Op1 = RegisterPointer(r1)

	case keywords.JNZ:
		if mode == 1 {
			d.Op1 = MemoryPointer(ip + 2)
			d.Size = 4
		} else {
			d.Op1 = RegisterPointer(r1)
		}

	case keywords.ST:
		d.Op2 = RegisterPointer(r2)
		if mode == 1 {
			d.Op1 = MemoryPointer(ip + 2)
			d.Size = 4
		} else {
			d.Op1 = RegisterPointer(r1)
		}

	case keywords.LD:
		d.Op1 = RegisterPointer(r1)
		if mode == 1 {
			d.Op2 = MemoryPointer(ip + 2)
			d.Size = 4
		} else {
			d.Op2 = RegisterPointer(r2)
		}

	case keywords.INT:
		d.Op1 = MemoryPointer(ip + 2)
		d.Size = 4

	case keywords.CLI, keywords.STI:
		// No operands.
	}

	return d
}
