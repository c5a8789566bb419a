package debugger

import (
	"fmt"
	"sync"

	"github.com/msc16/toolchain/vm"
)

// Watchpoint monitors a register or memory word for a value change.
// MSC-16 has no separate read/write memory-access hooks, so every
// watchpoint is value-change detection evaluated once per step.
type Watchpoint struct {
	ID         int
	Expression string // the watch target as the user typed it, e.g. "%a" or "[0x1000]"
	Address    uint16 // resolved address for a memory watchpoint
	IsRegister bool
	Register   byte
	Enabled    bool
	LastValue  uint16
	HitCount   int
}

// WatchpointManager owns every watchpoint for one debug session.
type WatchpointManager struct {
	mu          sync.RWMutex
	watchpoints map[int]*Watchpoint
	nextID      int
}

// NewWatchpointManager creates an empty watchpoint manager.
func NewWatchpointManager() *WatchpointManager {
	return &WatchpointManager{
		watchpoints: make(map[int]*Watchpoint),
		nextID:      1,
	}
}

// AddRegister watches a register for any value change.
func (wm *WatchpointManager) AddRegister(expression string, reg byte) *Watchpoint {
	return wm.add(expression, 0, true, reg)
}

// AddMemory watches a 16-bit memory word for any value change.
func (wm *WatchpointManager) AddMemory(expression string, addr uint16) *Watchpoint {
	return wm.add(expression, addr, false, 0)
}

func (wm *WatchpointManager) add(expression string, addr uint16, isRegister bool, reg byte) *Watchpoint {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	wp := &Watchpoint{
		ID:         wm.nextID,
		Expression: expression,
		Address:    addr,
		IsRegister: isRegister,
		Register:   reg,
		Enabled:    true,
	}
	wm.watchpoints[wp.ID] = wp
	wm.nextID++
	return wp
}

// Delete removes a watchpoint by ID.
func (wm *WatchpointManager) Delete(id int) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	if _, exists := wm.watchpoints[id]; !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}
	delete(wm.watchpoints, id)
	return nil
}

// Get returns a watchpoint by ID, or nil.
func (wm *WatchpointManager) Get(id int) *Watchpoint {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return wm.watchpoints[id]
}

// All returns every watchpoint, in no particular order.
func (wm *WatchpointManager) All() []*Watchpoint {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	result := make([]*Watchpoint, 0, len(wm.watchpoints))
	for _, wp := range wm.watchpoints {
		result = append(result, wp)
	}
	return result
}

// Clear removes every watchpoint.
func (wm *WatchpointManager) Clear() {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wm.watchpoints = make(map[int]*Watchpoint)
}

// Count returns the number of watchpoints.
func (wm *WatchpointManager) Count() int {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return len(wm.watchpoints)
}

func (wp *Watchpoint) currentValue(cpu *vm.CPU) uint16 {
	if wp.IsRegister {
		return cpu.R[wp.Register]
	}
	return cpu.Memory.ReadWord(wp.Address)
}

// Check evaluates every enabled watchpoint against cpu and returns the
// first one whose value changed since the last recorded value. Call
// Initialize right after adding a watchpoint to avoid a spurious hit
// on the first check.
func (wm *WatchpointManager) Check(cpu *vm.CPU) (*Watchpoint, bool) {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	for _, wp := range wm.watchpoints {
		if !wp.Enabled {
			continue
		}
		current := wp.currentValue(cpu)
		if current != wp.LastValue {
			wp.LastValue = current
			wp.HitCount++
			return wp, true
		}
	}
	return nil, false
}

// Initialize records a watchpoint's starting value so the next Check
// only reports a hit on an actual change.
func (wm *WatchpointManager) Initialize(id int, cpu *vm.CPU) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	wp, exists := wm.watchpoints[id]
	if !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}
	wp.LastValue = wp.currentValue(cpu)
	return nil
}
