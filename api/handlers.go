package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/msc16/toolchain/assembler"
	"github.com/msc16/toolchain/loader"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSession handles POST /api/v1/session.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session := s.sessions.CreateSession()
	writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
	})
}

// handleSessionRoute dispatches /api/v1/session/{id}[/action].
func (s *Server) handleSessionRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/session/")
	parts := strings.SplitN(path, "/", 2)
	if parts[0] == "" {
		writeError(w, http.StatusBadRequest, "missing session id")
		return
	}

	session, err := s.sessions.GetSession(parts[0])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodDelete:
			_ = s.sessions.DestroySession(session.ID)
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		case http.MethodGet:
			writeJSON(w, http.StatusOK, snapshot(session, ""))
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	switch parts[1] {
	case "load":
		s.handleLoad(w, r, session)
	case "step":
		s.handleStep(w, r, session)
	case "run":
		s.handleRun(w, r, session)
	case "registers":
		s.handleRegisters(w, r, session)
	case "memory":
		s.handleMemory(w, r, session)
	case "breakpoints":
		s.handleBreakpoints(w, r, session)
	default:
		writeError(w, http.StatusNotFound, "unknown session route")
	}
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request, session *Session) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req LoadProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	image, errs := assembler.Assemble(req.Source)
	if errs.HasErrors() {
		msgs := make([]string, len(errs.Errors))
		for i, e := range errs.Errors {
			msgs[i] = e.Error()
		}
		writeJSON(w, http.StatusOK, LoadProgramResponse{Success: false, Errors: msgs})
		return
	}

	session.Debugger.Image = image
	if err := loader.Load(session.Debugger.CPU, image); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, LoadProgramResponse{Success: true, Size: len(image)})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, session *Session) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := session.Debugger.ExecuteCommand("step"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event := snapshot(session, "step")
	s.broadcaster.BroadcastState(session.ID, stepEventToMap(event))
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, session *Session) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	maxCycles := uint64(1_000_000)
	if raw := r.URL.Query().Get("maxCycles"); raw != "" {
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			maxCycles = n
		}
	}

	reason := session.Debugger.Run(maxCycles)
	event := snapshot(session, reason)
	s.broadcaster.BroadcastState(session.ID, stepEventToMap(event))
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleRegisters(w http.ResponseWriter, r *http.Request, session *Session) {
	cpu := session.Debugger.CPU
	writeJSON(w, http.StatusOK, RegistersResponse{
		A: cpu.R[0], B: cpu.R[1], C: cpu.R[2], D: cpu.R[3],
		SP: cpu.SP, IP: cpu.IP,
		Flags: snapshot(session, "").Flags,
	})
}

func (s *Server) handleMemory(w http.ResponseWriter, r *http.Request, session *Session) {
	addrParam := r.URL.Query().Get("address")
	lenParam := r.URL.Query().Get("length")

	addr64, err := strconv.ParseUint(addrParam, 0, 16)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid address")
		return
	}
	length := 16
	if lenParam != "" {
		n, err := strconv.Atoi(lenParam)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid length")
			return
		}
		length = n
	}

	addr := uint16(addr64)
	data := make([]byte, length)
	for i := range data {
		data[i] = session.Debugger.CPU.Memory.ReadByte(addr + uint16(i))
	}

	writeJSON(w, http.StatusOK, MemoryResponse{Address: addr, Data: data})
}

func (s *Server) handleBreakpoints(w http.ResponseWriter, r *http.Request, session *Session) {
	switch r.Method {
	case http.MethodGet:
		addrs := make([]uint16, 0)
		for _, bp := range session.Debugger.Breakpoints.All() {
			addrs = append(addrs, bp.Address)
		}
		writeJSON(w, http.StatusOK, BreakpointsResponse{Breakpoints: addrs})

	case http.MethodPost:
		var req BreakpointRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		bp := session.Debugger.Breakpoints.Add(req.Address, false)
		writeJSON(w, http.StatusCreated, map[string]int{"id": bp.ID})

	case http.MethodDelete:
		var req BreakpointRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := session.Debugger.Breakpoints.DeleteAt(req.Address); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func stepEventToMap(e StepEvent) map[string]interface{} {
	return map[string]interface{}{
		"a": e.A, "b": e.B, "c": e.C, "d": e.D,
		"sp": e.SP, "ip": e.IP,
		"flags":  e.Flags,
		"reason": e.Reason,
	}
}
