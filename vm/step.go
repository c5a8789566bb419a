package vm

// Step fetches, decodes, and executes the instruction at cpu.IP, then
// updates flags and advances IP. It is the sole driver of CPU
// progress; nothing else in this package mutates IP except a taken
// branch inside a handler.
func Step(cpu *CPU) {
	ipBefore := cpu.IP

	d := Decode(cpu)
	var result uint16
	if int(d.Inst) < len(handlers) {
		if handler := handlers[d.Inst]; handler != nil {
			result = handler(cpu, d.Op1, d.Op2)
		}
	}

	cpu.Flags = 0
	if result == 0 {
		cpu.Flags |= FlagZ
	}
	if result&0x8000 != 0 {
		cpu.Flags |= FlagN
	}

	if cpu.IP == ipBefore {
		cpu.IP = ipBefore + d.Size
	}
}
