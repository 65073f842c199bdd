// ttfcli is an interactive explorer for TrueType/OpenType font files.
//
// It loads a font, parses it into a labeled byte tree and drops into a
// small REPL for walking the tree, inspecting leaf values and dumping
// the hex bytes behind any node.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	ttfexplorer "github.com/RazrFalcon/ttf-explorer"
	"github.com/RazrFalcon/ttf-explorer/ttf"
)

// tracer traces with key 'ttfexplorer.cli'
func tracer() tracing.Trace {
	return tracing.Select("ttfexplorer.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":       "go",
		"trace.ttfexplorer":     "Info",
		"trace.ttfexplorer.ttf": "Error",
		"trace.ttfexplorer.cli": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load")
	flag.Parse()
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}

	pterm.Info.Println("Welcome to the TTF Explorer CLI")
	if *fontname == "" {
		pterm.Error.Println("no font given; use -font <path>")
		os.Exit(2)
	}

	// set up REPL
	repl, err := readline.New("ttf > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl}

	if err := intp.loadFont(*fontname); err != nil {
		pterm.Error.Println(err)
		os.Exit(4)
	}

	pterm.Info.Println("Quit with <ctrl>D")
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " INFO ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " OOPS ",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is the interpreter state: the parsed font plus the node the user
// currently stands on.
type Intp struct {
	repl    *readline.Instance
	insp    *ttfexplorer.Inspection
	current ttf.NodeID
}

func (intp *Intp) tree() *ttf.Tree {
	return intp.insp.Output.Tree
}

func (intp *Intp) loadFont(fontname string) error {
	insp, err := ttfexplorer.InspectFile(fontname)
	if err != nil {
		return err
	}
	intp.insp = insp
	intp.current = insp.Output.Tree.RootID()
	pterm.Info.Printf("loaded '%s' (%d bytes)\n", insp.Fontname, len(insp.Binary))
	if n := len(insp.Output.Warnings); n > 0 {
		pterm.Error.Printf("%d table(s) could not be parsed; see 'warnings'\n", n)
	}
	return nil
}

// REPL reads and executes commands until EOF or quit.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if stop := intp.execute(line); stop {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

func (intp *Intp) execute(line string) (stop bool) {
	fields := strings.Fields(line)
	cmd, arg := fields[0], ""
	if len(fields) > 1 {
		arg = fields[1]
	}
	switch cmd {
	case "quit", "q", "exit":
		return true
	case "help", "h", "?":
		help()
	case "info", "i":
		intp.printInfo()
	case "ls", "l":
		intp.printChildren()
	case "cd":
		intp.changeNode(arg)
	case "up", "..":
		intp.changeNode("..")
	case "top":
		intp.current = intp.tree().RootID()
	case "tree", "t":
		depth := 2
		if n, err := strconv.Atoi(arg); err == nil && n > 0 {
			depth = n
		}
		intp.printTree(depth)
	case "hex", "x":
		intp.printHex()
	case "at":
		intp.printItemAt(arg)
	case "warnings", "w":
		intp.printWarnings()
	case "coverage", "cov":
		intp.printCoverage()
	default:
		pterm.Error.Printf("unknown command: %s\n", cmd)
	}
	return false
}

// changeNode moves the current node: ".." to the parent, a number to
// the n-th child.
func (intp *Intp) changeNode(arg string) {
	tree := intp.tree()
	if arg == ".." {
		if parent, ok := tree.Parent(intp.current); ok {
			intp.current = parent
		}
		return
	}
	row, err := strconv.Atoi(arg)
	if err != nil {
		pterm.Error.Println("cd expects a child number or '..'")
		return
	}
	child, ok := tree.ChildAt(intp.current, row)
	if !ok {
		pterm.Error.Printf("no child %d; node has %d children\n",
			row, tree.ChildrenCount(intp.current))
		return
	}
	intp.current = child
}
