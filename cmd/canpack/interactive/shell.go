// Package interactive provides the interactive packing shell for canpack.
package interactive

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/canpack/canpack-go/pkg/bits"
	"github.com/canpack/canpack-go/pkg/catalog"
	"github.com/canpack/canpack-go/pkg/packer"
)

// Shell reads commands and packs frames with one Packer.
type Shell struct {
	packer *packer.Packer
	out    io.Writer
	rl     *readline.Instance
}

// New creates a shell that writes its output to out.
func New(p *packer.Packer, out io.Writer) *Shell {
	return &Shell{packer: p, out: out}
}

// Stdout returns a writer that properly coordinates with the readline input.
// Only valid while Run is active.
func (s *Shell) Stdout() io.Writer {
	if s.rl != nil {
		return s.rl.Stdout()
	}
	return s.out
}

// Run starts the interactive command loop. It returns when the user quits,
// input ends, or ctx is cancelled.
func (s *Shell) Run(ctx context.Context, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "canpack> ",
		HistoryFile:     historyFile,
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	s.rl = rl
	s.out = rl.Stdout()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			return nil
		}

		if !s.Execute(line) {
			return nil
		}
	}
}

// Execute runs one command line. It returns false when the shell should
// exit.
func (s *Shell) Execute(line string) bool {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "list", "ls":
		s.cmdList(args)

	case "pack", "p":
		s.cmdPack(args)

	case "repeat", "r":
		s.cmdRepeat(args)

	case "inspect", "i":
		s.cmdInspect(args)

	case "counter", "c":
		s.cmdCounter(args)

	case "reset":
		s.packer.ResetCounters()
		fmt.Fprintln(s.out, "Counters reset")

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `
Commands:
  list [message]                    List messages, or the signals of one message
  pack <message> [NAME=VALUE ...]   Pack one frame
  repeat <message> <n> [NAME=VALUE ...]
                                    Pack n frames (shows the rolling counter)
  inspect <message> <hex>           Show the raw field codes of a frame
  counter <message>                 Show the next automatic counter value
  reset                             Reset all rolling counters
  help                              Show this help
  quit                              Exit

Messages are given by name or address (decimal or 0x hex).
`)
}

func (s *Shell) cmdList(args []string) {
	if len(args) == 0 {
		WriteMessages(s.out, s.packer)
		return
	}
	msg, ok := s.message(args[0])
	if !ok {
		return
	}
	WriteSignals(s.out, msg)
}

func (s *Shell) cmdPack(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: pack <message> [NAME=VALUE ...]")
		return
	}
	s.pack(args[0], 1, args[1:])
}

func (s *Shell) cmdRepeat(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: repeat <message> <n> [NAME=VALUE ...]")
		return
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		fmt.Fprintf(s.out, "Invalid count: %s\n", args[1])
		return
	}
	s.pack(args[0], n, args[2:])
}

func (s *Shell) pack(ref string, n int, assignments []string) {
	address, err := s.packer.ResolveMessage(ref)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	values, err := packer.ParseSignalValues(assignments)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	for i := 0; i < n; i++ {
		frame, err := s.packer.Pack(address, values)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(s.out, "0x%X %s\n", address, FormatFrame(frame))
	}
}

func (s *Shell) cmdInspect(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: inspect <message> <hex>")
		return
	}
	msg, ok := s.message(args[0])
	if !ok {
		return
	}
	data, err := hex.DecodeString(strings.Join(args[1:], ""))
	if err != nil {
		fmt.Fprintf(s.out, "Invalid hex: %v\n", err)
		return
	}
	if len(data) != msg.Size {
		fmt.Fprintf(s.out, "Frame is %d bytes, %s expects %d\n", len(data), msg.Name, msg.Size)
		return
	}

	fmt.Fprintf(s.out, "%s (0x%X):\n", msg.Name, msg.Address)
	for i := range msg.Signals {
		sig := &msg.Signals[i]
		raw := bits.Get(data, sig.StartBit, sig.BitLength, sig.Order)
		physical := float64(raw)*sig.Factor + sig.Offset
		fmt.Fprintf(s.out, "  %-24s raw=0x%-6X %s\n", sig.Name, raw, strconv.FormatFloat(physical, 'g', -1, 64))
	}
}

func (s *Shell) cmdCounter(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: counter <message>")
		return
	}
	msg, ok := s.message(args[0])
	if !ok {
		return
	}
	if msg.Signal(catalog.CounterSignal) == nil {
		fmt.Fprintf(s.out, "%s has no %s signal\n", msg.Name, catalog.CounterSignal)
		return
	}
	next, ok := s.packer.Counter(msg.Address)
	if !ok {
		fmt.Fprintf(s.out, "%s: next counter 0 (not started)\n", msg.Name)
		return
	}
	fmt.Fprintf(s.out, "%s: next counter %d\n", msg.Name, next)
}

func (s *Shell) message(ref string) (*catalog.Message, bool) {
	address, err := s.packer.ResolveMessage(ref)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return nil, false
	}
	msg, err := s.packer.Registry().Message(address)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return nil, false
	}
	return msg, true
}

func (s *Shell) completer() *readline.PrefixCompleter {
	messages := func(string) []string {
		msgs := s.packer.Registry().Messages()
		names := make([]string, len(msgs))
		for i, m := range msgs {
			names[i] = m.Name
		}
		return names
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("list", readline.PcItemDynamic(messages)),
		readline.PcItem("pack", readline.PcItemDynamic(messages)),
		readline.PcItem("repeat", readline.PcItemDynamic(messages)),
		readline.PcItem("inspect", readline.PcItemDynamic(messages)),
		readline.PcItem("counter", readline.PcItemDynamic(messages)),
		readline.PcItem("reset"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}
