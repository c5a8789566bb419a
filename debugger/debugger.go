package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/msc16/toolchain/loader"
	"github.com/msc16/toolchain/vm"
)

// RunState tracks whether the debugger's CPU is runnable, halted, or
// mid-step.
type RunState int

const (
	StateIdle RunState = iota
	StateRunning
	StateHalted
)

// Debugger wires a vm.CPU to breakpoint/watchpoint tracking and a
// line-mode command processor. It holds the last assembled image so
// `run` can reload it and restart at address 0 without the caller
// re-supplying the program.
type Debugger struct {
	CPU         *vm.CPU
	Image       []byte
	Breakpoints *BreakpointManager
	Watchpoints *WatchpointManager
	Symbols     map[string]uint16

	State       RunState
	LastCommand string
	Output      strings.Builder
}

// NewDebugger creates a debugger around an already-loaded CPU.
func NewDebugger(cpu *vm.CPU, image []byte) *Debugger {
	return &Debugger{
		CPU:         cpu,
		Image:       image,
		Breakpoints: NewBreakpointManager(),
		Watchpoints: NewWatchpointManager(),
		Symbols:     make(map[string]uint16),
		State:       StateIdle,
	}
}

// LoadSymbols records label addresses for use by break/print commands.
func (d *Debugger) LoadSymbols(symbols map[string]uint16) {
	d.Symbols = symbols
}

// ResolveAddress resolves a label name or a decimal/hex literal to an
// address.
func (d *Debugger) ResolveAddress(s string) (uint16, error) {
	if addr, ok := d.Symbols[s]; ok {
		return addr, nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") || strings.HasPrefix(s, "$") {
		trimmed := strings.TrimPrefix(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"), "$")
		v, err := strconv.ParseUint(trimmed, 16, 16)
		if err != nil {
			return 0, fmt.Errorf("invalid address: %s", s)
		}
		return uint16(v), nil
	}
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", s)
	}
	return uint16(v), nil
}

// Printf writes formatted output to the debugger's output buffer.
func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

// Println writes a line to the output buffer.
func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}

// TakeOutput returns and clears everything written to the output
// buffer since the last call.
func (d *Debugger) TakeOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}

// ExecuteCommand parses and dispatches one line of debugger input. An
// empty line repeats the last command, matching the convention of
// stepping through a program by tapping Enter.
func (d *Debugger) ExecuteCommand(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		line = d.LastCommand
	}
	if line != "" {
		d.LastCommand = line
	}

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "run", "r":
		return d.cmdRun(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "step", "s":
		return d.cmdStep(args)
	case "break", "b":
		return d.cmdBreak(args)
	case "tbreak", "tb":
		return d.cmdTBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnable(args)
	case "disable":
		return d.cmdDisable(args)
	case "watch", "w":
		return d.cmdWatch(args)
	case "regs", "info":
		return d.cmdRegs(args)
	case "mem", "x":
		return d.cmdMem(args)
	case "reset":
		return d.cmdReset(args)
	case "help", "h", "?":
		return d.cmdHelp(args)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak reports whether execution should pause at the CPU's
// current ip, and why.
func (d *Debugger) ShouldBreak() (bool, string) {
	if bp := d.Breakpoints.ProcessHit(d.CPU.IP); bp != nil {
		return true, fmt.Sprintf("breakpoint %d", bp.ID)
	}
	if wp, changed := d.Watchpoints.Check(d.CPU); changed {
		return true, fmt.Sprintf("watchpoint %d: %s", wp.ID, wp.Expression)
	}
	return false, ""
}

// Run steps the CPU until ShouldBreak fires or maxCycles is reached,
// returning the stop reason.
func (d *Debugger) Run(maxCycles uint64) string {
	d.State = StateRunning
	for i := uint64(0); i < maxCycles; i++ {
		vm.Step(d.CPU)
		if stop, reason := d.ShouldBreak(); stop {
			d.State = StateHalted
			return reason
		}
	}
	d.State = StateHalted
	return "cycle limit reached"
}

func (d *Debugger) cmdRun(args []string) error {
	if err := loader.Load(d.CPU, d.Image); err != nil {
		return err
	}
	d.State = StateRunning
	d.Println("Starting program execution...")
	return nil
}

func (d *Debugger) cmdContinue(args []string) error {
	if d.State == StateIdle {
		return fmt.Errorf("program is not running")
	}
	reason := d.Run(1_000_000)
	d.Printf("Stopped: %s\n", reason)
	return nil
}

func (d *Debugger) cmdStep(args []string) error {
	vm.Step(d.CPU)
	d.Printf("ip=%#04x\n", d.CPU.IP)
	return nil
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <address|label>")
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.Add(addr, false)
	d.Printf("Breakpoint %d at %#04x\n", bp.ID, addr)
	return nil
}

func (d *Debugger) cmdTBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tbreak <address|label>")
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.Add(addr, true)
	d.Printf("Temporary breakpoint %d at %#04x\n", bp.ID, addr)
	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		d.Println("All breakpoints deleted")
		return nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}
	if err := d.Breakpoints.Delete(id); err != nil {
		return err
	}
	d.Printf("Breakpoint %d deleted\n", id)
	return nil
}

func (d *Debugger) cmdEnable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: enable <breakpoint-id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}
	for _, bp := range d.Breakpoints.All() {
		if bp.ID == id {
			bp.Enabled = true
			return nil
		}
	}
	return fmt.Errorf("breakpoint %d not found", id)
}

func (d *Debugger) cmdDisable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: disable <breakpoint-id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}
	for _, bp := range d.Breakpoints.All() {
		if bp.ID == id {
			bp.Enabled = false
			return nil
		}
	}
	return fmt.Errorf("breakpoint %d not found", id)
}

func (d *Debugger) cmdWatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: watch <%%reg|address>")
	}
	target := args[0]
	var wp *Watchpoint
	if strings.HasPrefix(target, "%") && len(target) == 2 {
		reg := byte(target[1] - 'a')
		if reg > 3 {
			return fmt.Errorf("invalid register: %s", target)
		}
		wp = d.Watchpoints.AddRegister(target, reg)
	} else {
		addr, err := d.ResolveAddress(target)
		if err != nil {
			return err
		}
		wp = d.Watchpoints.AddMemory(target, addr)
	}
	if err := d.Watchpoints.Initialize(wp.ID, d.CPU); err != nil {
		return err
	}
	d.Printf("Watchpoint %d: %s\n", wp.ID, target)
	return nil
}

func (d *Debugger) cmdRegs(args []string) error {
	d.Printf("a=%#04x b=%#04x c=%#04x d=%#04x sp=%#04x ip=%#04x flags=%04b\n",
		d.CPU.R[vm.RA], d.CPU.R[vm.RB], d.CPU.R[vm.RC], d.CPU.R[vm.RD],
		d.CPU.SP, d.CPU.IP, d.CPU.Flags)
	return nil
}

func (d *Debugger) cmdMem(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: mem <address> [count]")
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	count := 16
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid count: %s", args[1])
		}
		count = n
	}
	for i := 0; i < count; i++ {
		d.Printf("%02x ", d.CPU.Memory.ReadByte(addr+uint16(i)))
	}
	d.Println()
	return nil
}

func (d *Debugger) cmdReset(args []string) error {
	d.CPU.Reset()
	d.Breakpoints.Clear()
	d.Watchpoints.Clear()
	d.State = StateIdle
	d.Println("Reset")
	return nil
}

func (d *Debugger) cmdHelp(args []string) error {
	d.Println("run|r  continue|c  step|s  break|b <addr>  tbreak|tb <addr>")
	d.Println("delete|d [id]  enable <id>  disable <id>  watch|w <%reg|addr>")
	d.Println("regs|info  mem|x <addr> [count]  reset  help")
	return nil
}
