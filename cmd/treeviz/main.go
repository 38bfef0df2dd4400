// Command treeviz is a full-screen terminal inspector for a sparse Merkle
// tree: an ASCII rendering of the tree on the left, a command line at the
// bottom accepting a small vocabulary (tree, stats, path <key>,
// add <key> <value>, quit), and a log of recent commands on the right.
package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/jroimartin/gocui"

	"github.com/jpcruz/ptree/internal/smt"
)

const defaultDepth = 4

type app struct {
	tree     *smt.Tree
	nextSeq  int
	maxDepth int
}

func main() {
	depth := defaultDepth

	tree, err := smt.New(depth)
	if err != nil {
		log.Fatalf("treeviz: %v", err)
	}

	a := &app{tree: tree, maxDepth: depth + 1}

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Fatalf("treeviz: %v", err)
	}
	defer g.Close()

	g.Cursor = true
	g.SetManagerFunc(a.layout)

	if err := a.bindKeys(g); err != nil {
		log.Fatalf("treeviz: %v", err)
	}

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Fatalf("treeviz: %v", err)
	}
}

func (a *app) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	treeW := maxX * 2 / 3
	if v, err := g.SetView("tree", 0, 0, treeW, maxY-4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Tree"
		v.Wrap = true
		a.render(v)
	}

	if v, err := g.SetView("log", treeW+1, 0, maxX-1, maxY-4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "History"
		v.Wrap = true
	}

	if v, err := g.SetView("cmd", 0, maxY-3, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Command (tree | stats | path <key> | add <key> <value> | quit)"
		v.Editable = true
		if _, err := g.SetCurrentView("cmd"); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) render(v *gocui.View) {
	v.Clear()
	fmt.Fprint(v, a.tree.Visualize(a.maxDepth))
}

func (a *app) bindKeys(g *gocui.Gui) error {
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		return err
	}
	return g.SetKeybinding("cmd", gocui.KeyEnter, gocui.ModNone, a.runCommand)
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

func (a *app) runCommand(g *gocui.Gui, v *gocui.View) error {
	line := strings.TrimSpace(v.Buffer())
	v.Clear()
	v.SetCursor(0, 0)

	logView, err := g.View("log")
	if err != nil {
		return err
	}
	treeView, err := g.View("tree")
	if err != nil {
		return err
	}

	if line == "" {
		return nil
	}
	fmt.Fprintf(logView, "> %s\n", line)

	fields := strings.Fields(line)
	switch fields[0] {
	case "quit", "exit":
		return gocui.ErrQuit

	case "tree":
		a.render(treeView)

	case "stats":
		fmt.Fprintf(logView, "depth=%d leaves=%d root=%x\n", a.tree.Depth(), a.tree.LeafCount(), firstBytes(a.tree.ReadRoot()))

	case "path":
		if len(fields) < 2 {
			fmt.Fprintln(logView, "usage: path <key>")
			return nil
		}
		p, err := a.tree.PathTo(fields[1])
		if err != nil {
			fmt.Fprintf(logView, "error: %v\n", err)
			return nil
		}
		fmt.Fprint(logView, p)

	case "add":
		if len(fields) < 3 {
			fmt.Fprintln(logView, "usage: add <key> <value>")
			return nil
		}
		a.nextSeq++
		tag := smt.WriterTag{ThreadID: 0, Seq: a.nextSeq}
		if err := a.tree.UpdateLive(fields[1], fields[2], tag); err != nil {
			fmt.Fprintf(logView, "error: %v\n", err)
			return nil
		}
		a.render(treeView)

	default:
		fmt.Fprintf(logView, "unknown command: %s\n", fields[0])
	}

	return nil
}

func firstBytes(d [32]byte) []byte {
	return d[:8]
}
