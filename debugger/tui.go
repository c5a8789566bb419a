package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is the text-mode debugger front end: a registers panel, a
// memory-dump panel, a breakpoints/watchpoints panel, an output log,
// and a command input, all driven by one Debugger.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	MainLayout      *tview.Flex
	RegisterView    *tview.TextView
	MemoryView      *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField

	MemoryAddress uint16
}

// NewTUI builds a TUI around an existing debugger session.
func NewTUI(d *Debugger) *TUI {
	t := &TUI{
		Debugger: d,
		App:      tview.NewApplication(),
	}

	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()

	return t
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints/Watchpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.RegisterView, 0, 1, false).
		AddItem(t.MemoryView, 0, 2, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 0, 2, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF9:
			t.executeCommand("break")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd == "" {
		return
	}
	t.executeCommand(cmd)
	t.CommandInput.SetText("")
}

func (t *TUI) executeCommand(cmd string) {
	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.TakeOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}

	t.RefreshAll()
}

// WriteOutput appends text to the output panel and scrolls to it.
func (t *TUI) WriteOutput(text string) {
	fmt.Fprint(t.OutputView, text)
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel from current debugger state.
func (t *TUI) RefreshAll() {
	t.updateRegisterView()
	t.updateMemoryView()
	t.updateBreakpointsView()
	t.App.Draw()
}

func (t *TUI) updateRegisterView() {
	cpu := t.Debugger.CPU
	lines := []string{
		fmt.Sprintf("a: %#04x   b: %#04x", cpu.R[0], cpu.R[1]),
		fmt.Sprintf("c: %#04x   d: %#04x", cpu.R[2], cpu.R[3]),
		fmt.Sprintf("sp: %#04x  ip: %#04x", cpu.SP, cpu.IP),
		fmt.Sprintf("flags: %04b", cpu.Flags),
	}
	t.RegisterView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateMemoryView() {
	cpu := t.Debugger.CPU
	var sb strings.Builder
	base := t.MemoryAddress
	for row := 0; row < 8; row++ {
		addr := base + uint16(row*16)
		fmt.Fprintf(&sb, "%#04x: ", addr)
		for col := 0; col < 16; col++ {
			fmt.Fprintf(&sb, "%02x ", cpu.Memory.ReadByte(addr+uint16(col)))
		}
		sb.WriteByte('\n')
	}
	t.MemoryView.SetText(sb.String())
}

func (t *TUI) updateBreakpointsView() {
	var sb strings.Builder
	for _, bp := range t.Debugger.Breakpoints.All() {
		marker := " "
		if !bp.Enabled {
			marker = "x"
		}
		fmt.Fprintf(&sb, "[%s] #%d %#04x (hits=%d)\n", marker, bp.ID, bp.Address, bp.HitCount)
	}
	for _, wp := range t.Debugger.Watchpoints.All() {
		fmt.Fprintf(&sb, "watch #%d %s (hits=%d)\n", wp.ID, wp.Expression, wp.HitCount)
	}
	t.BreakpointsView.SetText(sb.String())
}

// Run starts the TUI event loop. It blocks until the user quits.
func (t *TUI) Run() error {
	t.RefreshAll()
	return t.App.SetRoot(t.MainLayout, true).SetFocus(t.CommandInput).Run()
}
