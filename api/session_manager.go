package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/msc16/toolchain/debugger"
	"github.com/msc16/toolchain/vm"
)

var (
	// ErrSessionNotFound is returned when a session ID has no session.
	ErrSessionNotFound = errors.New("session not found")
)

// Session is one debug session: a CPU, its debugger, and the image
// most recently loaded into it.
type Session struct {
	ID        string
	Debugger  *debugger.Debugger
	CreatedAt time.Time
}

// SessionManager owns every active session and the broadcaster that
// announces their state changes.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	broadcaster *Broadcaster
}

// NewSessionManager creates an empty session manager.
func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
	}
}

// CreateSession allocates a fresh CPU and debugger under a new
// session ID.
func (sm *SessionManager) CreateSession() *Session {
	cpu := vm.NewCPU()
	session := &Session{
		ID:        uuid.NewString(),
		Debugger:  debugger.NewDebugger(cpu, nil),
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[session.ID] = session

	return session
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[id]; !exists {
		return ErrSessionNotFound
	}
	delete(sm.sessions, id)
	return nil
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// snapshot builds the StepEvent describing a session's current CPU state.
func snapshot(session *Session, reason string) StepEvent {
	cpu := session.Debugger.CPU
	return StepEvent{
		SessionID: session.ID,
		A:         cpu.R[vm.RA],
		B:         cpu.R[vm.RB],
		C:         cpu.R[vm.RC],
		D:         cpu.R[vm.RD],
		SP:        cpu.SP,
		IP:        cpu.IP,
		Flags: Flags{
			Z: cpu.Flags&vm.FlagZ != 0,
			N: cpu.Flags&vm.FlagN != 0,
			V: cpu.Flags&vm.FlagV != 0,
			I: cpu.Flags&vm.FlagI != 0,
		},
		Reason: reason,
	}
}
