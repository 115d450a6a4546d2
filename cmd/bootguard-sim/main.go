// Command bootguard-sim simulates the boot-time life cycle of the
// memory-protection fault guard.
//
// The simulator assembles the guard against in-process stand-ins for
// the boot services: a service registry, an exception dispatch table,
// a file-backed flag store and a recording reset controller. The
// scripted mode plays the full story across two boots: the first boot
// arms the guard, installs the dispatch service, injects a synthetic
// page fault and observes the persisted disable flag plus the warm
// reset request; the second boot then sees protections disabled by
// the flag.
//
// Usage:
//
//	bootguard-sim [flags]
//
// Flags:
//
//	-config string      Policy configuration file (YAML)
//	-flag-store string  Flag store file path (default: temp file)
//	-diag-log string    Write diagnostic events to this file (CBOR)
//	-fault-addr uint    Fault address for the injected page fault
//	-interactive        Drive the machine from an interactive console
//	-clear              Clear the disable flag in the store and exit
//
// Examples:
//
//	# Run the scripted two-boot story
//	bootguard-sim -flag-store /tmp/bootguard.flag -diag-log /tmp/boot.blog
//
//	# Explore interactively
//	bootguard-sim -interactive -flag-store /tmp/bootguard.flag
//
//	# Rearm protections after a simulated disable
//	bootguard-sim -clear -flag-store /tmp/bootguard.flag
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bootguard-fw/bootguard-go/cmd/bootguard-sim/interactive"
	"github.com/bootguard-fw/bootguard-go/pkg/diag"
	"github.com/bootguard-fw/bootguard-go/pkg/memprot"
	"github.com/bootguard-fw/bootguard-go/pkg/nvstore"
	"github.com/bootguard-fw/bootguard-go/pkg/policy"
)

var (
	configPath    string
	flagStorePath string
	diagLogPath   string
	faultAddr     uint64
	interactiveUI bool
	clearFlag     bool
)

func init() {
	flag.StringVar(&configPath, "config", "", "Policy configuration file (YAML)")
	flag.StringVar(&flagStorePath, "flag-store", "", "Flag store file path (default: temp file)")
	flag.StringVar(&diagLogPath, "diag-log", "", "Write diagnostic events to this file (CBOR)")
	flag.Uint64Var(&faultAddr, "fault-addr", 0xdead0000, "Fault address for the injected page fault")
	flag.BoolVar(&interactiveUI, "interactive", false, "Drive the machine from an interactive console")
	flag.BoolVar(&clearFlag, "clear", false, "Clear the disable flag in the store and exit")
}

func main() {
	flag.Parse()

	cfg := policy.DefaultConfig()
	if configPath != "" {
		loaded, err := policy.Load(configPath)
		if err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
		cfg = loaded
	}

	if flagStorePath == "" {
		flagStorePath = filepath.Join(os.TempDir(), "bootguard.flag")
	}
	store := nvstore.NewFileStore(flagStorePath)

	if clearFlag {
		if err := policy.ClearFlag(store); err != nil {
			log.Fatalf("Failed to clear flag: %v", err)
		}
		fmt.Printf("Flag cleared in %s\n", flagStorePath)
		return
	}

	sink, closeSink, err := buildSink()
	if err != nil {
		log.Fatalf("Failed to set up diagnostics: %v", err)
	}
	defer closeSink()

	machine := newSimMachine(cfg, store, sink)

	if interactiveUI {
		console, err := interactive.New(machine)
		if err != nil {
			log.Fatalf("Failed to start console: %v", err)
		}
		console.Run()
		return
	}

	if err := runScripted(machine); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}
}

// buildSink assembles the diagnostic sink: structured stderr logging,
// plus a CBOR file sink when -diag-log is given.
func buildSink() (diag.Sink, func(), error) {
	slogSink := diag.NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if diagLogPath == "" {
		return slogSink, func() {}, nil
	}

	fileSink, err := diag.NewFileSink(diagLogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open diag log: %w", err)
	}
	return diag.NewMultiSink(slogSink, fileSink), func() { fileSink.Close() }, nil
}

// runScripted plays the two-boot story on the machine.
func runScripted(machine *simMachine) error {
	fmt.Println("=== Boot 1: arm, register, fault ===")

	if err := machine.Boot(); err != nil {
		return err
	}
	fmt.Printf("Guard initialized, state: %s\n", machine.State())

	if machine.State() == memprot.StateDisabled {
		fmt.Println("Protections are disabled, nothing to simulate.")
		fmt.Println("Run with -clear to rearm, or enable the global toggle in the policy file.")
		return nil
	}

	if err := machine.InstallDispatch(); err != nil {
		return fmt.Errorf("failed to install dispatch service: %w", err)
	}
	fmt.Printf("Dispatch service installed, state: %s, handler registered: %v\n",
		machine.State(), machine.Registered())

	fmt.Printf("Injecting page fault at %#x...\n", faultAddr)
	if err := machine.InjectFault(faultAddr); err != nil {
		return fmt.Errorf("fault not handled: %w", err)
	}
	fmt.Printf("Guard state: %s\n", machine.State())

	flagByte, err := machine.Flag()
	if err != nil {
		return fmt.Errorf("failed to read flag: %w", err)
	}
	fmt.Printf("Persisted flag byte: %#02x (%s)\n", byte(flagByte), flagByte)

	for _, r := range machine.Resets() {
		fmt.Printf("Reset requested: kind=%s status=%s\n", r.Kind, r.Status)
	}
	if machine.ResetCount() == 0 {
		return fmt.Errorf("expected a reset request after the fault")
	}

	fmt.Println()
	fmt.Println("=== Boot 2: flag observed, protections disabled ===")

	if err := machine.Boot(); err != nil {
		return err
	}
	fmt.Printf("Guard initialized, state: %s\n", machine.State())

	effective, err := machine.Effective()
	if err != nil {
		return err
	}
	fmt.Printf("Protections effective: %v\n", effective)
	fmt.Printf("Flag store: %s (run with -clear to rearm)\n", flagStorePath)
	return nil
}
