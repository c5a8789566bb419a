package api

import "time"

// SessionCreateResponse is returned after a new debug session is created.
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoadProgramRequest carries assembly source to assemble and load.
type LoadProgramRequest struct {
	Source string `json:"source"`
}

// LoadProgramResponse reports whether assembly succeeded.
type LoadProgramResponse struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
	Size    int      `json:"size,omitempty"`
}

// RegistersResponse is the CPU's visible state.
type RegistersResponse struct {
	A     uint16 `json:"a"`
	B     uint16 `json:"b"`
	C     uint16 `json:"c"`
	D     uint16 `json:"d"`
	SP    uint16 `json:"sp"`
	IP    uint16 `json:"ip"`
	Flags Flags  `json:"flags"`
}

// Flags is the decoded form of the CPU's one flags byte.
type Flags struct {
	Z bool `json:"z"`
	N bool `json:"n"`
	V bool `json:"v"`
	I bool `json:"i"`
}

// MemoryResponse is a requested window of memory.
type MemoryResponse struct {
	Address uint16 `json:"address"`
	Data    []byte `json:"data"`
}

// BreakpointRequest names an address to set or clear a breakpoint at.
type BreakpointRequest struct {
	Address uint16 `json:"address"`
}

// BreakpointsResponse lists every address with a breakpoint.
type BreakpointsResponse struct {
	Breakpoints []uint16 `json:"breakpoints"`
}

// StepEvent is the state snapshot broadcast after every step or run
// stop: the full register file plus the reason execution paused.
type StepEvent struct {
	SessionID string `json:"sessionId"`
	A         uint16 `json:"a"`
	B         uint16 `json:"b"`
	C         uint16 `json:"c"`
	D         uint16 `json:"d"`
	SP        uint16 `json:"sp"`
	IP        uint16 `json:"ip"`
	Flags     Flags  `json:"flags"`
	Reason    string `json:"reason,omitempty"`
}

// ErrorResponse is the JSON body of a non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}
