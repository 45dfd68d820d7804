package rendering

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"maragu.dev/gomponents"
)

type gomponentComponent struct {
	node gomponents.Node
}

func (a gomponentComponent) Render(_ context.Context, w io.Writer) error {
	return a.node.Render(w)
}

// Templ wraps a gomponents node as a templ.Component.
func Templ(n gomponents.Node) templ.Component {
	return gomponentComponent{node: n}
}

type templNode struct {
	component templ.Component
}

// gomponents does not pass a context, so templ receives context.Background.
func (a templNode) Render(w io.Writer) error {
	return a.component.Render(context.Background(), w)
}

// Node wraps a templ.Component so it can be placed inside a gomponents tree.
func Node(c templ.Component) gomponents.Node {
	return templNode{component: c}
}
