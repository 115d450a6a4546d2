// Command bootguard-log is a tool for viewing and analyzing boot
// diagnostic log files.
//
// Log files are produced by the diag.FileSink, for example when running
// bootguard-sim with the -diag-log flag.
//
// Usage:
//
//	bootguard-log <command> [flags] <file.blog>
//
// Commands:
//
//	view     View diag log in human-readable format
//	export   Export diag log to JSONL format
//	stats    Show statistics about the diag log
//
// Examples:
//
//	# View all events
//	bootguard-log view boot.blog
//
//	# View only fault-phase events
//	bootguard-log view -phase fault boot.blog
//
//	# View warnings and worse
//	bootguard-log view -min-severity warn boot.blog
//
//	# Export to JSONL
//	bootguard-log export -format jsonl boot.blog
//
//	# Show statistics
//	bootguard-log stats boot.blog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bootguard-fw/bootguard-go/cmd/bootguard-log/commands"
	"github.com/bootguard-fw/bootguard-go/pkg/diag"
)

const usage = `bootguard-log - Boot Diagnostic Log Analyzer

Usage:
  bootguard-log <command> [flags] <file.blog>

Commands:
  view     View diag log in human-readable format
  export   Export diag log to JSONL format
  stats    Show statistics about the diag log

Use "bootguard-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `bootguard-log view - View diag log in human-readable format

Usage:
  bootguard-log view [flags] <file.blog>

Flags:
`)
		fs.PrintDefaults()
	}

	phase := fs.String("phase", "", "Filter by phase (init, registration, fault, reset)")
	minSeverity := fs.String("min-severity", "", "Filter by minimum severity (info, warn, error, fatal)")
	bootID := fs.String("boot-id", "", "Filter by boot session ID")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: diag log path required")
		fs.Usage()
		os.Exit(1)
	}

	var filter diag.Filter
	filter.BootID = *bootID
	if *phase != "" {
		p, err := commands.ParsePhaseFlag(*phase)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Phase = &p
	}
	if *minSeverity != "" {
		s, err := commands.ParseSeverityFlag(*minSeverity)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.MinSeverity = &s
	}

	if err := commands.RunView(fs.Arg(0), filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "jsonl", "Export format (jsonl)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: diag log path required")
		os.Exit(1)
	}

	if err := commands.RunExport(fs.Arg(0), *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: diag log path required")
		os.Exit(1)
	}

	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
