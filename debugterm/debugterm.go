// Package debugterm is an interactive, raw-mode step/breakpoint console for
// driving a nes.Console from a terminal, generalizing the teacher's
// nes.DebugConsole (nes/debug_console.go) out of the core package and onto
// github.com/pkg/term for raw keyboard input instead of a line-buffered
// bufio.Reader.
package debugterm

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/term"

	"nescore/nes"
)

// Console wraps a nes.Console with the step/print/breakpoint/reset/quit
// command set from the teacher's DebugConsole, read from a raw terminal so
// single keystrokes (not just whole lines via Enter) could later drive
// single-stepping without an extra Enter press.
type Console struct {
	console     *nes.Console
	tty         *term.Term
	cycles      uint64
	breakpoints []uint16
}

// New opens /dev/tty in raw mode and wraps console for interactive
// debugging. Callers must call Close when done to restore the terminal.
func New(console *nes.Console) (*Console, error) {
	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("debugterm: open tty: %w", err)
	}
	return &Console{console: console, tty: tty}, nil
}

// Close restores the terminal to its original (cooked) mode.
func (c *Console) Close() error {
	if c.tty == nil {
		return nil
	}
	c.tty.Restore()
	return c.tty.Close()
}

// readLine reads raw keystrokes until Enter, doing just enough line editing
// (backspace) to make commands usable, then returns the assembled line.
func (c *Console) readLine() (string, error) {
	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := c.tty.Read(buf)
		if err != nil {
			return "", err
		}
		if n == 0 {
			continue
		}
		b := buf[0]
		switch b {
		case '\r', '\n':
			fmt.Print("\r\n")
			return string(line), nil
		case 127, 8: // backspace/DEL
			if len(line) > 0 {
				line = line[:len(line)-1]
				fmt.Print("\b \b")
			}
		case 3: // Ctrl-C
			return "q", nil
		default:
			line = append(line, b)
			fmt.Printf("%c", b)
		}
	}
}

func (c *Console) step() int {
	cycles := c.console.Step()
	c.cycles += uint64(cycles)
	return cycles
}

func (c *Console) basePrint() {
	cpu := c.console.CPU
	ppu := c.console.PPU
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Executed cycles: %d\n", c.cycles)
	fmt.Printf("CPU:  PC=0x%04x, A=0x%02x, X=0x%02x, Y=0x%02x, S=0x%02x\n",
		cpu.PC(), cpu.A(), cpu.X(), cpu.Y(), cpu.SP())
	fmt.Printf("PPU: cycle=%d, scanline=%d\n", ppu.Cycle(), ppu.Scanline())
}

func (c *Console) checkBreak() bool {
	pc := c.console.CPU.PC()
	for _, bp := range c.breakpoints {
		if bp == pc {
			fmt.Printf("Break at: 0x%04x\n", bp)
			return true
		}
	}
	return false
}

var stepCountRE = regexp.MustCompile(`^([0-9]+)`)

func (c *Console) stepCommand(args []string) int {
	if len(args) < 2 {
		return c.step()
	}
	if !stepCountRE.MatchString(args[1]) {
		return 0
	}
	num, _ := strconv.Atoi(stepCountRE.FindString(args[1]))
	unit := args[1][len(args[1])-1]
	cycles := 0
	switch unit {
	case 's':
		target := nes.CPUFrequency * num
		for cycles < target {
			cycles += c.step()
			if c.checkBreak() {
				return cycles
			}
		}
	default:
		for i := 0; i < num; i++ {
			cycles += c.step()
			if c.checkBreak() {
				return cycles
			}
		}
	}
	return cycles
}

func (c *Console) breakPointCommand(args []string) {
	if len(args) < 2 {
		return
	}
	var addr uint
	fmt.Sscanf(args[1], "0x%x", &addr)
	c.breakpoints = append(c.breakpoints, uint16(addr))
}

// RunOnce reads and executes a single command line, returning false when
// the user asked to quit.
func (c *Console) RunOnce() (bool, error) {
	fmt.Print("debugterm> ")
	line, err := c.readLine()
	if err != nil {
		return false, err
	}
	args := strings.Fields(line)
	if len(args) == 0 {
		return true, nil
	}
	switch args[0] {
	case "p", "print":
		c.basePrint()
	case "s", "step":
		cycles := c.stepCommand(args)
		c.basePrint()
		fmt.Printf("Executed %d CPU cycles, %d PPU dots.\n", cycles, 3*cycles)
	case "br", "breakpoint":
		c.breakPointCommand(args)
	case "r", "reset":
		c.console.Reset()
	case "q", "quit":
		return false, nil
	default:
		fmt.Printf("unknown command %q\n", args[0])
	}
	return true, nil
}

// Run drives RunOnce until the user quits or stdin closes.
func (c *Console) Run() error {
	defer c.Close()
	fmt.Fprintln(os.Stdout, "debugterm, 'q' to quit")
	for {
		cont, err := c.RunOnce()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}
