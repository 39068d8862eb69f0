package minmax

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/awalterschulze/gographviz"
)

type dotNode struct {
	Level int
	TreeEntry
	Own bool
}

func (n dotNode) Player() string {
	if n.Level == 0 {
		return "root"
	}
	if n.Own {
		return "own"
	}
	return "opponent"
}

// ToDot renders the tree in the DOT language.
func (t *SearchTree) ToDot() string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	if err := g.SetDir(true); err != nil {
		panic(err)
	}

	var buf bytes.Buffer
	for i, level := range t.levels {
		var start int
		for j, e := range level {
			n := dotNode{Level: i, TreeEntry: e, Own: i%2 == 1}
			if err := tmpl.Execute(&buf, n); err != nil {
				panic(err)
			}
			attrs := map[string]string{
				"fontname": "Monaco",
				"shape":    "none",
				"label":    buf.String(),
			}
			buf.Reset()
			if err := g.AddNode("G", nodeID(i, j), attrs); err != nil {
				panic(err)
			}
			for k := start; k < start+e.NumChildren; k++ {
				if err := g.AddEdge(nodeID(i, j), nodeID(i+1, k), true, nil); err != nil {
					panic(err)
				}
			}
			start += e.NumChildren
		}
	}
	return g.String()
}

func nodeID(level, i int) string { return fmt.Sprintf("n%d_%d", level, i) }

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Level</TD><TD>{{.Level}}</TD></TR>
<TR><TD>Move</TD><TD>{{.Index}}</TD></TR>
<TR><TD>Player</TD><TD>{{.Player}}</TD></TR>
<TR><TD>Rating</TD><TD>{{.Rating}}</TD></TR>
<TR><TD>Children</TD><TD>{{.NumChildren}}</TD></TR>
</TABLE>
>
`

var tmpl *template.Template

func init() {
	tmpl = template.Must(template.New("name").Parse(tmplRaw))
}
