package display

import (
	"github.com/san-kum/orrery/internal/bodies"
)

// Panel is an InfoPanel that keeps its content in memory. Terminal and
// headless hosts both render from it.
type Panel struct {
	name    string
	pairs   []bodies.InfoPair
	visible bool
	shows   int
}

func NewPanel() *Panel { return &Panel{} }

func (p *Panel) Show(name string, pairs []bodies.InfoPair) {
	p.name = name
	p.pairs = append(p.pairs[:0], pairs...)
	p.visible = true
	p.shows++
}

func (p *Panel) Hide() {
	p.visible = false
}

func (p *Panel) Visible() bool { return p.visible }

// Content returns what the panel last showed, visible or not.
func (p *Panel) Content() (string, []bodies.InfoPair) {
	out := make([]bodies.InfoPair, len(p.pairs))
	copy(out, p.pairs)
	return p.name, out
}

// Shows counts calls to Show.
func (p *Panel) Shows() int { return p.shows }
