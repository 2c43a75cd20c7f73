package chain

import (
	"fmt"
	"io"
	"strings"
)

// String renders the tree with box drawing connectors, one block per line
func (t *Tree) String() string {
	sb := &strings.Builder{}
	t.Render(sb)

	return sb.String()
}

func (t *Tree) Render(w io.Writer) error {
	return renderNode(w, t.root, nil)
}

func renderNode(w io.Writer, n *Node, lasts []bool) error {
	for i, last := range lasts {
		if _, err := io.WriteString(w, connector(last, i == len(lasts)-1)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "%s (nonce: %d)\n", n.block.Miner, n.block.Nonce); err != nil {
		return err
	}

	for i, c := range n.children {
		if err := renderNode(w, c, append(lasts, i == len(n.children)-1)); err != nil {
			return err
		}
	}

	return nil
}

func connector(last, own bool) string {
	switch {
	case own && last:
		return "└── "
	case own:
		return "├── "
	case last:
		return "    "
	default:
		return "│   "
	}
}
