// Command vss-browse is an interactive shell for exploring a VSS tree.
//
// Usage:
//
//	vss-browse [flags]
//
// Flags:
//
//	-tree string   Tree file (.json, .cbor, .vspec); default: embedded tree
//	-watch         Reload the tree when the backing file changes
//
// Commands inside the shell: ls, cd, pwd, show, find, reload, help, quit.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/vss-tools/vss-go/internal/treefile"
)

func main() {
	var treePath string
	var watch bool
	flag.StringVar(&treePath, "tree", "", "Tree file (.json, .cbor, .vspec); default: embedded tree")
	flag.BoolVar(&watch, "watch", false, "Reload the tree when the backing file changes")
	flag.Parse()

	if watch && treePath == "" {
		fmt.Fprintln(os.Stderr, "error: -watch requires -tree")
		os.Exit(2)
	}

	t, err := treefile.Load(treePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	sh, err := newShell(t, treePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot watch %s: %v\n", treePath, err)
			os.Exit(2)
		}
		defer watcher.Close()
		if err := watcher.Add(treePath); err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot watch %s: %v\n", treePath, err)
			os.Exit(2)
		}
		go sh.watchLoop(watcher)
	}

	sh.run()
}

// watchLoop reloads the tree whenever the backing file is rewritten.
func (s *shell) watchLoop(watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := s.reload(); err != nil {
				fmt.Fprintf(s.rl.Stdout(), "\nreload failed: %v\n", err)
			} else {
				fmt.Fprintf(s.rl.Stdout(), "\ntree reloaded: %s\n", s.treePath)
			}
			s.rl.Refresh()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(s.rl.Stdout(), "\nwatch error: %v\n", err)
			s.rl.Refresh()
		}
	}
}
