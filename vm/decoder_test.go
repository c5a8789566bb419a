package vm

import (
	"testing"

	"github.com/msc16/toolchain/keywords"
	"github.com/stretchr/testify/assert"
)

func TestDecodeTwoRegister(t *testing.T) {
	cpu := NewCPU()
	// add %a, %b -> 0x1010
	cpu.Memory.WriteWord(0, 0x1010)

	d := Decode(cpu)
	assert.Equal(t, byte(keywords.ADD), d.Inst)
	assert.Equal(t, RegisterPointer(RA), d.Op1)
	assert.Equal(t, RegisterPointer(RB), d.Op2)
	assert.Equal(t, uint16(2), d.Size)
}

func TestDecodeLoadImmediate(t *testing.T) {
	cpu := NewCPU()
	// ld %a, $1234 -> 0x7008, 0x1234
	cpu.Memory.WriteWord(0, 0x7008)
	cpu.Memory.WriteWord(2, 0x1234)

	d := Decode(cpu)
	assert.Equal(t, byte(keywords.LD), d.Inst)
	assert.Equal(t, RegisterPointer(RA), d.Op1)
	assert.Equal(t, MemoryPointer(2), d.Op2)
	assert.Equal(t, uint16(4), d.Size)
}

func TestDecodeStoreRegisterMode(t *testing.T) {
	cpu := NewCPU()
	// st %b, %c (register mode): ST=0x6, op1=%b(1), op2=%c(2)
	word := uint16(keywords.ST)<<12 | uint16(RB)<<6 | uint16(RC)<<4
	cpu.Memory.WriteWord(0, word)

	d := Decode(cpu)
	assert.Equal(t, RegisterPointer(RB), d.Op1)
	assert.Equal(t, RegisterPointer(RC), d.Op2)
	assert.Equal(t, uint16(2), d.Size)
}

func TestDecodeJnzImmediateMode(t *testing.T) {
	cpu := NewCPU()
	word := uint16(keywords.JNZ)<<12 | 0x0008
	cpu.Memory.WriteWord(0, word)
	cpu.Memory.WriteWord(2, 0x0050)

	d := Decode(cpu)
	assert.Equal(t, MemoryPointer(2), d.Op1)
	assert.Equal(t, uint16(4), d.Size)
}

func TestDecodeCliStiHaveNoOperandsAndSizeTwo(t *testing.T) {
	cpu := NewCPU()
	cpu.Memory.WriteWord(0, uint16(keywords.CLI)<<12)

	d := Decode(cpu)
	assert.Equal(t, byte(keywords.CLI), d.Inst)
	assert.Equal(t, Pointer{}, d.Op1)
	assert.Equal(t, Pointer{}, d.Op2)
	assert.Equal(t, uint16(2), d.Size)

	cpu.Memory.WriteWord(0, uint16(keywords.STI)<<12)

	d = Decode(cpu)
	assert.Equal(t, byte(keywords.STI), d.Inst)
	assert.Equal(t, Pointer{}, d.Op1)
	assert.Equal(t, Pointer{}, d.Op2)
	assert.Equal(t, uint16(2), d.Size)
}
