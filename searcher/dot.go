package searcher

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
)

// ToDot renders the tree of the last search in graphviz format, nodes with
// fewer than minVisits visits are left out. The graph is empty unless the
// searcher was built WithTreeRetention.
func (m *MCTS) ToDot(minVisits int) string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	g.SetDir(true)
	if m.last == nil {
		return g.String()
	}

	t := m.last
	for i := range t.nodes {
		id := nodeID(i)
		n := t.node(id)
		if id != root && n.visits < minVisits {
			continue
		}

		move := "root"
		if n.move != nil {
			move = n.move.Signature().String()
		}
		mover := t.mover(id)
		attrs := map[string]string{
			"shape": "box",
			"label": fmt.Sprintf("\"%s\\nN=%d\\nQ=%.3f\"", move, n.visits, n.mean(max(mover, 1))),
		}
		g.AddNode("G", dotName(id), attrs)
		if n.parent != nilNode {
			g.AddEdge(dotName(n.parent), dotName(id), true, nil)
		}
	}
	return g.String()
}

func dotName(id nodeID) string {
	return fmt.Sprintf("n%d", id)
}
