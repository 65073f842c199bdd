package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/RazrFalcon/ttf-explorer/ttf"
)

func nodeLabel(tree *ttf.Tree, id ttf.NodeID) string {
	title := tree.Title(id)
	if title == "" {
		title = "(group)"
	}
	sb := strings.Builder{}
	sb.WriteString(title)
	if value := tree.Value(id); value != "" {
		// Multi-line values (bit flags) collapse to their first line.
		if i := strings.IndexByte(value, '\n'); i >= 0 {
			value = value[:i] + " …"
		}
		sb.WriteString(": ")
		sb.WriteString(value)
	}
	if typ := tree.ValueType(id); typ != "" {
		sb.WriteString("  [")
		sb.WriteString(typ)
		sb.WriteString("]")
	}
	return sb.String()
}

func (intp *Intp) printInfo() {
	tree := intp.tree()
	start, end := tree.Range(intp.current)
	pterm.Printf("%s\n", nodeLabel(tree, intp.current))
	pterm.Printf("range: [%d, %d) — %d bytes\n", start, end, end-start)
	if index, ok := tree.Index(intp.current); ok {
		pterm.Printf("array element %d\n", index)
	}
	pterm.Printf("children: %d\n", tree.ChildrenCount(intp.current))
}

func (intp *Intp) printChildren() {
	tree := intp.tree()
	count := tree.ChildrenCount(intp.current)
	if count == 0 {
		pterm.Println("(leaf node)")
		return
	}
	data := [][]string{{"#", "Title", "Value", "Type", "Range"}}
	for row := 0; row < count; row++ {
		id, _ := tree.ChildAt(intp.current, row)
		start, end := tree.Range(id)
		value := tree.Value(id)
		if i := strings.IndexByte(value, '\n'); i >= 0 {
			value = value[:i] + " …"
		}
		data = append(data, []string{
			fmt.Sprintf("%d", row),
			tree.Title(id),
			value,
			tree.ValueType(id),
			fmt.Sprintf("%d..%d", start, end),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// printTree renders the subtree under the current node with pterm's
// tree printer, limited to the given depth.
func (intp *Intp) printTree(depth int) {
	root := intp.buildPtermTree(intp.current, depth)
	pterm.DefaultTree.WithRoot(root).Render()
}

func (intp *Intp) buildPtermTree(id ttf.NodeID, depth int) pterm.TreeNode {
	tree := intp.tree()
	node := pterm.TreeNode{Text: nodeLabel(tree, id)}
	if depth == 0 {
		if tree.HasChildren(id) {
			node.Text += fmt.Sprintf(" (+%d)", tree.ChildrenCount(id))
		}
		return node
	}
	for row := 0; row < tree.ChildrenCount(id); row++ {
		child, _ := tree.ChildAt(id, row)
		node.Children = append(node.Children, intp.buildPtermTree(child, depth-1))
	}
	return node
}

const hexBytesPerLine = 16

// printHex dumps the bytes behind the current node.
func (intp *Intp) printHex() {
	tree := intp.tree()
	start, end := tree.Range(intp.current)
	if start == end {
		pterm.Println("(empty range)")
		return
	}
	const maxDump = 512
	truncated := false
	if end-start > maxDump {
		end = start + maxDump
		truncated = true
	}
	data := intp.insp.Binary[start:end]
	for line := 0; line < len(data); line += hexBytesPerLine {
		chunk := data[line:min(line+hexBytesPerLine, len(data))]
		sb := strings.Builder{}
		fmt.Fprintf(&sb, "%08x  ", start+uint32(line))
		for i, b := range chunk {
			if i == 8 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%02x ", b)
		}
		pterm.Println(sb.String())
	}
	if truncated {
		pterm.Printf("… %d more bytes\n", treeRangeSize(tree, intp.current)-maxDump)
	}
}

func treeRangeSize(tree *ttf.Tree, id ttf.NodeID) uint32 {
	start, end := tree.Range(id)
	return end - start
}

// printItemAt resolves a byte offset to the deepest leaf covering it.
func (intp *Intp) printItemAt(arg string) {
	var offset uint32
	if _, err := fmt.Sscanf(arg, "%v", &offset); err != nil {
		pterm.Error.Println("at expects a byte offset")
		return
	}
	tree := intp.tree()
	id, ok := tree.ItemAtByte(offset)
	if !ok {
		pterm.Printf("offset %d is not covered by a leaf\n", offset)
		return
	}
	start, end := tree.Range(id)
	pterm.Printf("%s  [%d..%d)\n", nodeLabel(tree, id), start, end)
}

func (intp *Intp) printWarnings() {
	warnings := intp.insp.Output.Warnings
	if len(warnings) == 0 {
		pterm.Info.Println("no warnings")
		return
	}
	for _, w := range warnings {
		pterm.Error.Println(w)
	}
}

// printCoverage summarizes labeled and skipped runs for the hex view.
func (intp *Intp) printCoverage() {
	cov := intp.insp.Output.Coverage
	offsets := cov.Offsets()
	if len(offsets) == 0 {
		return
	}
	var labeled, skipped uint64
	for i := 0; i+1 < len(offsets); i++ {
		size := uint64(offsets[i+1] - offsets[i])
		if cov.IsUnsupported(offsets[i]) {
			skipped += size
		} else {
			labeled += size
		}
	}
	pterm.Printf("%d runs: %d bytes labeled, %d bytes skipped\n",
		len(offsets)-1, labeled, skipped)
}

func help() {
	pterm.Println(`Commands:
  ls            list the children of the current node
  cd <n>        descend into child n
  up | ..       go to the parent node
  top           go back to the root
  info          show the current node's title, value and range
  tree [depth]  render the subtree (default depth 2)
  hex           dump the bytes behind the current node
  at <offset>   find the deepest leaf covering a byte offset
  warnings      list table-level parse warnings
  coverage      summarize labeled vs. skipped bytes
  quit          leave`)
}
