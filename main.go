// Command msc16 assembles and runs MSC-16 assembly source: plain
// execution, a line-mode or text-UI debugger, or an HTTP/WebSocket API
// server for remote front ends.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/msc16/toolchain/api"
	"github.com/msc16/toolchain/assembler"
	"github.com/msc16/toolchain/config"
	"github.com/msc16/toolchain/debugger"
	"github.com/msc16/toolchain/loader"
	"github.com/msc16/toolchain/vm"
)

func main() {
	var (
		debugMode  = flag.Bool("debug", false, "start the line-mode debugger")
		tuiMode    = flag.Bool("tui", false, "start the text UI debugger")
		apiServer  = flag.Bool("api-server", false, "start the HTTP/WebSocket API server")
		apiPort    = flag.Int("port", 8080, "API server port (used with -api-server)")
		maxCycles  = flag.Uint64("max-cycles", 0, "maximum CPU cycles before halt (0: use config default)")
		configPath = flag.String("config", "", "path to a config.toml file (default: platform config dir)")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *maxCycles == 0 {
		*maxCycles = cfg.Execution.MaxCycles
	}

	if *apiServer {
		runAPIServer(*apiPort)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	asmFile := flag.Arg(0)
	source, err := os.ReadFile(asmFile) // #nosec G304 -- user-supplied assembly source path
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", asmFile, err)
		os.Exit(1)
	}

	image, errs := assembler.Assemble(string(source))
	if errs.HasErrors() {
		fmt.Fprint(os.Stderr, errs.Error())
		os.Exit(1)
	}

	cpu := vm.NewCPU()
	if err := loader.Load(cpu, image); err != nil {
		fmt.Fprintf(os.Stderr, "load error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *tuiMode:
		d := debugger.NewDebugger(cpu, image)
		tui := debugger.NewTUI(d)
		if err := tui.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "tui error: %v\n", err)
			os.Exit(1)
		}

	case *debugMode:
		runLineDebugger(cpu, image)

	default:
		for i := uint64(0); i < *maxCycles; i++ {
			vm.Step(cpu)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func runLineDebugger(cpu *vm.CPU, image []byte) {
	d := debugger.NewDebugger(cpu, image)
	fmt.Println("msc16 debugger. Type 'help' for commands.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("(msc16) ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "q" {
			break
		}
		if err := d.ExecuteCommand(line); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		fmt.Print(d.TakeOutput())
	}
}

func runAPIServer(port int) {
	server := api.NewServer(port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "api server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	fmt.Println("\nshutting down api server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error during shutdown: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("usage: msc16 [flags] <file.asm>")
	flag.PrintDefaults()
}
