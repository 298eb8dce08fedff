package main

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/vss-tools/vss-go/internal/treefile"
	"github.com/vss-tools/vss-go/pkg/signal"
	"github.com/vss-tools/vss-go/pkg/tree"
)

// shell holds the interactive browser state.
type shell struct {
	mu       sync.RWMutex
	t        tree.Tree
	treePath string

	cwd []string
	rl  *readline.Instance
}

func newShell(t tree.Tree, treePath string) (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "vss> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("ls"),
			readline.PcItem("cd"),
			readline.PcItem("pwd"),
			readline.PcItem("show"),
			readline.PcItem("find"),
			readline.PcItem("reload"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &shell{t: t, treePath: treePath, rl: rl}, nil
}

// run starts the interactive command loop.
func (s *shell) run() {
	defer s.rl.Close()

	s.printHelp()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
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
			s.printHelp()

		case "ls", "l":
			s.cmdLs()

		case "cd":
			s.cmdCd(args)

		case "pwd":
			fmt.Fprintln(s.rl.Stdout(), s.pwd())

		case "show", "s":
			s.cmdShow(args)

		case "find", "f":
			s.cmdFind(args)

		case "reload":
			if err := s.reload(); err != nil {
				fmt.Fprintf(s.rl.Stdout(), "reload failed: %v\n", err)
			} else {
				fmt.Fprintln(s.rl.Stdout(), "tree reloaded")
			}

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
VSS Browser Commands:
  ls                 - List children of the current branch
  cd <name>|..|/     - Change into a branch
  pwd                - Print the current branch path
  show <name>        - Show signal metadata (relative or absolute name)
  find <name>        - Resolve an absolute dotted name, e.g. Vehicle.Speed
  reload             - Reload the tree from its file
  help               - Show this help
  quit               - Exit`)
}

// pwd returns the current branch as a dotted name, "/" at the root.
func (s *shell) pwd() string {
	if len(s.cwd) == 0 {
		return "/"
	}
	return strings.Join(s.cwd, ".")
}

// snapshot returns the current tree. Nodes are never mutated after
// loading, so holding the map reference without the lock is safe.
func (s *shell) snapshot() tree.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t
}

// walkTo resolves a path against the tree's declared children.
func walkTo(t tree.Tree, path []string) *tree.Node {
	if len(path) == 0 {
		return nil
	}
	n, ok := t[path[0]]
	if !ok {
		return nil
	}
	for _, key := range path[1:] {
		n, ok = n.Children[key]
		if !ok {
			return nil
		}
	}
	return n
}

func (s *shell) cmdLs() {
	t := s.snapshot()

	var children map[string]*tree.Node
	if len(s.cwd) == 0 {
		children = t
	} else {
		n := walkTo(t, s.cwd)
		if n == nil {
			fmt.Fprintln(s.rl.Stdout(), "current branch no longer exists; cd /")
			return
		}
		children = n.Children
	}

	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		n := children[name]
		if n.IsBranch() {
			suffix := "/"
			if n.Instances != nil {
				suffix = fmt.Sprintf("/ instances: %v", n.Instances.Declaration())
			}
			fmt.Fprintf(s.rl.Stdout(), "  %s%s\n", name, suffix)
		} else {
			desc := fmt.Sprintf("%s %s", n.Type, n.Datatype)
			if n.Unit != "" {
				desc += " " + n.Unit
			}
			fmt.Fprintf(s.rl.Stdout(), "  %s  (%s)\n", name, desc)
		}
	}
}

func (s *shell) cmdCd(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: cd <name>|..|/")
		return
	}

	switch args[0] {
	case "/":
		s.cwd = nil
		return
	case "..":
		if len(s.cwd) > 0 {
			s.cwd = s.cwd[:len(s.cwd)-1]
		}
		return
	}

	target := append(append([]string(nil), s.cwd...), strings.Split(args[0], ".")...)
	n := walkTo(s.snapshot(), target)
	if n == nil {
		fmt.Fprintf(s.rl.Stdout(), "no such branch: %s\n", args[0])
		return
	}
	if !n.IsBranch() {
		fmt.Fprintf(s.rl.Stdout(), "%s is a signal, not a branch (use 'show')\n", args[0])
		return
	}
	s.cwd = target
}

func (s *shell) cmdShow(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: show <name>")
		return
	}

	t := s.snapshot()

	// Relative to the current branch first, then absolute.
	rel := append(append([]string(nil), s.cwd...), strings.Split(args[0], ".")...)
	sig, err := t.FindPath(nil, rel...)
	if err != nil && len(s.cwd) > 0 {
		if abs, absErr := t.Find(args[0]); absErr == nil {
			sig, err = abs, nil
		}
	}
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}

	s.printSignal(sig)
}

func (s *shell) cmdFind(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: find <dotted-name>")
		return
	}

	sig, err := s.snapshot().Find(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	s.printSignal(sig)
}

func (s *shell) printSignal(sig *signal.Signal) {
	out := s.rl.Stdout()
	fmt.Fprintf(out, "%s  (%s %s)\n", sig.Name(), sig.Type(), sig.Datatype())
	if sig.Description() != "" {
		fmt.Fprintf(out, "  %s\n", sig.Description())
	}
	if sig.UnitName() != "dimensionless" {
		fmt.Fprintf(out, "  unit:    %s\n", sig.UnitName())
	}
	if min, max, ok := sig.Bounds(); ok {
		fmt.Fprintf(out, "  range:   [%g, %g]\n", min, max)
	}
	if sig.Default() != nil {
		fmt.Fprintf(out, "  default: %v\n", sig.Default())
	}
	if len(sig.Allowed()) > 0 {
		fmt.Fprintf(out, "  allowed: %v\n", sig.Allowed())
	}
	if sig.UUID() != "" {
		fmt.Fprintf(out, "  uuid:    %s\n", sig.UUID())
	}
}

// reload replaces the tree from its backing file.
func (s *shell) reload() error {
	t, err := treefile.Load(s.treePath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.t = t
	s.mu.Unlock()
	return nil
}
