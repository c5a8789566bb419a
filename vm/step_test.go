package vm

import (
	"testing"

	"github.com/msc16/toolchain/keywords"
	"github.com/stretchr/testify/assert"
)

func TestStepAdvancesIPByInstructionSize(t *testing.T) {
	cpu := NewCPU()
	cpu.Memory.WriteWord(0, 0x1010) // add %a, %b

	Step(cpu)
	assert.Equal(t, uint16(2), cpu.IP)
}

func TestStepSetsZeroFlagWhenResultIsZero(t *testing.T) {
	cpu := NewCPU()
	cpu.R[RA] = 5
	cpu.R[RB] = 5
	// cmp %a, %b
	cpu.Memory.WriteWord(0, uint16(keywords.CMP)<<12|uint16(RA)<<6|uint16(RB)<<4)

	Step(cpu)
	assert.NotZero(t, cpu.Flags&FlagZ)
	assert.Zero(t, cpu.Flags&FlagN)
}

func TestStepSetsNegativeFlagOnHighBit(t *testing.T) {
	cpu := NewCPU()
	cpu.R[RA] = 0
	cpu.R[RB] = 1
	// sub %a, %b -> 0 - 1 wraps to 0xFFFF
	cpu.Memory.WriteWord(0, uint16(keywords.SUB)<<12|uint16(RA)<<6|uint16(RB)<<4)

	Step(cpu)
	assert.NotZero(t, cpu.Flags&FlagN)
	assert.Zero(t, cpu.Flags&FlagZ)
	assert.Equal(t, uint16(0xFFFF), cpu.R[RA])
}

func TestStepDoesNotAdvanceIPPastATakenBranch(t *testing.T) {
	cpu := NewCPU()
	cpu.R[RA] = 0x20
	// jnz %a, with Z clear so the branch is taken
	cpu.Flags = 0
	cpu.Memory.WriteWord(0, uint16(keywords.JNZ)<<12|uint16(RA)<<6)

	Step(cpu)
	assert.Equal(t, uint16(0x20), cpu.IP)
}

func TestStepRunsClearInterruptThenLoopUntilZero(t *testing.T) {
	cpu := NewCPU()
	// cli; loop: jnz loop (matches the assembled bytes 00 D0 08 30 02 00)
	image := []byte{0x00, 0xD0, 0x08, 0x30, 0x02, 0x00}
	cpu.Memory.Load(image)
	cpu.Flags = 0

	Step(cpu) // cli
	assert.Equal(t, uint16(2), cpu.IP)
	assert.Zero(t, cpu.Flags&FlagI)

	Step(cpu) // jnz loop, Z currently set by cli's zero result -> no branch
	assert.Equal(t, uint16(6), cpu.IP)
}
