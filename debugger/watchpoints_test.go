package debugger

import (
	"testing"

	"github.com/msc16/toolchain/vm"
)

func TestWatchpointRegisterChangeDetection(t *testing.T) {
	cpu := vm.NewCPU()
	wm := NewWatchpointManager()
	wp := wm.AddRegister("%a", vm.RA)

	if err := wm.Initialize(wp.ID, cpu); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, changed := wm.Check(cpu); changed {
		t.Error("expected no change right after initializing")
	}

	cpu.R[vm.RA] = 0x42
	hit, changed := wm.Check(cpu)
	if !changed {
		t.Fatal("expected a change after register write")
	}
	if hit.ID != wp.ID {
		t.Errorf("expected hit on watchpoint %d, got %d", wp.ID, hit.ID)
	}
	if hit.HitCount != 1 {
		t.Errorf("expected hit count 1, got %d", hit.HitCount)
	}
}

func TestWatchpointMemoryChangeDetection(t *testing.T) {
	cpu := vm.NewCPU()
	wm := NewWatchpointManager()
	wp := wm.AddMemory("[0x100]", 0x100)
	_ = wm.Initialize(wp.ID, cpu)

	cpu.Memory.WriteWord(0x100, 0xBEEF)
	_, changed := wm.Check(cpu)
	if !changed {
		t.Fatal("expected a change after memory write")
	}
}

func TestWatchpointDisabledIsSkipped(t *testing.T) {
	cpu := vm.NewCPU()
	wm := NewWatchpointManager()
	wp := wm.AddRegister("%a", vm.RA)
	_ = wm.Initialize(wp.ID, cpu)

	for _, w := range wm.All() {
		w.Enabled = false
	}
	cpu.R[vm.RA] = 1
	if _, changed := wm.Check(cpu); changed {
		t.Error("expected disabled watchpoint to be skipped")
	}
}
