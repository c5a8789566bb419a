// Package loader loads an assembled MSC-16 image into a CPU's memory
// and brings the CPU to its run-ready initial state.
package loader

import (
	"fmt"

	"github.com/msc16/toolchain/vm"
)

// MaxImageSize is the largest image Load will accept: MSC-16's whole
// address space.
const MaxImageSize = vm.MemorySize

// Load copies an assembled image into cpu's memory starting at address
// 0, clears the general registers, and resets ip/sp/flags to their
// initial values, ready for Step.
func Load(cpu *vm.CPU, image []byte) error {
	if len(image) > MaxImageSize {
		return fmt.Errorf("image of %d bytes exceeds %d-byte address space", len(image), MaxImageSize)
	}

	cpu.Memory.Reset()
	cpu.Memory.Load(image)
	cpu.R = [4]uint16{}
	cpu.IP = 0
	cpu.SP = vm.InitialSP
	cpu.Flags = 0

	return nil
}
