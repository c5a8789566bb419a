package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCPUInitialState(t *testing.T) {
	cpu := NewCPU()

	assert.Equal(t, uint16(InitialSP), cpu.SP)
	assert.Equal(t, uint16(0), cpu.IP)
	assert.Equal(t, byte(0), cpu.Flags)
	assert.Equal(t, [4]uint16{}, cpu.R)
}

func TestCPUResetClearsRegistersAndMemory(t *testing.T) {
	cpu := NewCPU()
	cpu.R[RA] = 0x42
	cpu.IP = 0x10
	cpu.Flags = FlagZ
	cpu.Memory.WriteByte(0, 0xFF)

	cpu.Reset()

	assert.Equal(t, uint16(0), cpu.R[RA])
	assert.Equal(t, uint16(0), cpu.IP)
	assert.Equal(t, uint16(InitialSP), cpu.SP)
	assert.Equal(t, byte(0), cpu.Flags)
	assert.Equal(t, byte(0), cpu.Memory.ReadByte(0))
}
