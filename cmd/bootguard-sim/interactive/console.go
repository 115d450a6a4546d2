// Package interactive provides the interactive command-line interface
// for the boot simulator.
package interactive

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/bootguard-fw/bootguard-go/pkg/memprot"
	"github.com/bootguard-fw/bootguard-go/pkg/nvstore"
)

// Machine is the simulated boot machine the console drives. This
// interface allows the console to control the simulation without
// depending on the main package's wiring.
type Machine interface {
	// Boot starts a fresh boot session over the persistent flag store.
	Boot() error
	// InstallDispatch publishes the exception dispatch service.
	InstallDispatch() error
	// InjectFault dispatches a synthetic page fault at addr.
	InjectFault(addr uint64) error
	// State reports the guard state of the current boot session.
	State() memprot.State
	// Registered reports whether the fault handler is installed.
	Registered() bool
	// BootID identifies the current boot session.
	BootID() string
	// Flag reads the persisted disable flag byte.
	Flag() (nvstore.Flag, error)
	// ClearFlag rearms protections for the next boot.
	ClearFlag() error
	// Effective reports whether protections would be active next boot.
	Effective() (bool, error)
	// Boots counts started boot sessions.
	Boots() int
	// ResetCount counts reset requests issued by the guard.
	ResetCount() int
}

// Console handles interactive mode for bootguard-sim.
type Console struct {
	machine Machine
	rl      *readline.Instance
}

// New creates a new interactive console over the given machine.
func New(machine Machine) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "boot> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{
		machine: machine,
		rl:      rl,
	}, nil
}

// Stdout returns a writer that coordinates with the readline prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run starts the interactive command loop. It returns when the user
// quits or input is closed.
func (c *Console) Run() {
	defer c.rl.Close()

	c.printHelp()

	for {
		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "status", "s":
			c.cmdStatus()

		case "boot", "reboot", "b":
			c.cmdBoot()

		case "install", "i":
			c.cmdInstall()

		case "fault", "f":
			c.cmdFault(args)

		case "flag":
			c.cmdFlag()

		case "clear":
			c.cmdClear()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Boot Simulator Commands:
  Boot control:
    boot               - Start a fresh boot session (alias: reboot)
    install            - Publish the exception dispatch service
    fault [addr]       - Inject a synthetic page fault (hex addr, default 0xdead0000)

  Inspection:
    status             - Show guard state, boot session and reset count
    flag               - Show the persisted disable flag byte
    clear              - Clear the disable flag (rearm for next boot)

  General:
    help               - Show this help
    quit               - Exit`)
}

func (c *Console) cmdStatus() {
	w := c.rl.Stdout()
	fmt.Fprintf(w, "State:      %s\n", c.machine.State())
	fmt.Fprintf(w, "Registered: %v\n", c.machine.Registered())
	if id := c.machine.BootID(); id != "" {
		fmt.Fprintf(w, "Boot ID:    %s\n", id)
	}
	fmt.Fprintf(w, "Boots:      %d\n", c.machine.Boots())
	fmt.Fprintf(w, "Resets:     %d\n", c.machine.ResetCount())

	effective, err := c.machine.Effective()
	if err != nil {
		fmt.Fprintf(w, "Next boot:  unknown (%v)\n", err)
		return
	}
	if effective {
		fmt.Fprintln(w, "Next boot:  protections ACTIVE")
	} else {
		fmt.Fprintln(w, "Next boot:  protections DISABLED")
	}
}

func (c *Console) cmdBoot() {
	if err := c.machine.Boot(); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Boot failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Boot %d started, guard state: %s\n",
		c.machine.Boots(), c.machine.State())
}

func (c *Console) cmdInstall() {
	if err := c.machine.InstallDispatch(); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Install failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Dispatch service installed, guard state: %s\n",
		c.machine.State())
}

func (c *Console) cmdFault(args []string) {
	addr := uint64(0xdead0000)
	if len(args) > 0 {
		parsed, err := strconv.ParseUint(strings.TrimPrefix(args[0], "0x"), 16, 64)
		if err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Invalid address %q: %v\n", args[0], err)
			return
		}
		addr = parsed
	}

	if err := c.machine.InjectFault(addr); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Fault not handled: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Page fault at %#x dispatched, guard state: %s, resets: %d\n",
		addr, c.machine.State(), c.machine.ResetCount())
}

func (c *Console) cmdFlag() {
	flag, err := c.machine.Flag()
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Flag read failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Flag byte: %#02x (%s)\n", byte(flag), flag)
}

func (c *Console) cmdClear() {
	if err := c.machine.ClearFlag(); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Flag clear failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "Flag cleared, protections rearm on next boot")
}
