package vm

// Flags bits within the CPU's single flags byte.
const (
	FlagZ byte = 1 << 0
	FlagN byte = 1 << 1
	FlagV byte = 1 << 2
	FlagI byte = 1 << 3
)

// Register indices, conventionally written %a, %b, %c, %d in source.
const (
	RA = 0
	RB = 1
	RC = 2
	RD = 3
)

// InitialSP is the stack pointer value a freshly-initialised CPU
// starts execution with.
const InitialSP = 0x1000

// CPU is the complete state of one MSC-16 virtual machine: four
// general registers, a stack pointer, an instruction pointer, a flags
// byte, and the 64 KiB memory it executes against. A CPU is created
// once per emulator run and owned exclusively by its caller.
type CPU struct {
	R      [4]uint16
	SP     uint16
	IP     uint16
	Flags  byte
	Memory *Memory
}

// NewCPU returns an initialised CPU: ip=0, sp=0x1000, flags=0, and a
// fresh zeroed 64 KiB memory.
func NewCPU() *CPU {
	return &CPU{
		SP:     InitialSP,
		Memory: NewMemory(),
	}
}

// Reset restores the CPU to its freshly-initialised state without
// reallocating memory, and clears memory contents too.
func (c *CPU) Reset() {
	c.R = [4]uint16{}
	c.SP = InitialSP
	c.IP = 0
	c.Flags = 0
	c.Memory.Reset()
}
