package viz

import (
	"strconv"
	"strings"

	"github.com/matsen/agviewer/internal/entity"
	"github.com/matsen/agviewer/internal/style"
)

// StyleSource supplies per-label colors, sizes and captions.
// *style.Registry implements it.
type StyleSource interface {
	ColorFor(kind style.Kind, label string) style.LabelStyle
	SizeFor(kind style.Kind, label string) int
	Caption(kind style.Kind, label string) (string, bool)
	RegisterCaption(kind style.Kind, label, caption string) string
}

// Builder turns converted rows into legends and elements.
type Builder struct {
	styles StyleSource
}

// NewBuilder creates a Builder that takes label styles from styles.
func NewBuilder(styles StyleSource) *Builder {
	return &Builder{styles: styles}
}

// ToElements builds the legend and elements for rows.
//
// Only the first maxRows rows are used; maxRows <= 0 means all rows. Path cells
// contribute every entity they contain, aliased by position in the path.
// Scalar and null cells are skipped. When isNew is set, elements are tagged
// with the "new" class.
func (b *Builder) ToElements(rows []entity.Row, maxRows int, isNew bool) *Graph {
	p := &pass{
		styles:     b.styles,
		graph:      newGraph(),
		nodeLegend: map[string]*LegendEntry{},
		edgeLegend: map[string]*LegendEntry{},
		isNew:      isNew,
	}

	for i, row := range rows {
		if maxRows > 0 && i >= maxRows {
			break
		}
		for _, cell := range row {
			switch v := cell.Value.(type) {
			case entity.Path:
				for j, e := range v {
					p.add(strconv.Itoa(j), e)
				}
			case entity.Entity:
				p.add(cell.Column, v)
			}
		}
	}

	p.finish()
	return p.graph
}

// pass is the state of one ToElements call. Legend entries are pointers so
// a caption refined later in the pass shows up in the final legend.
type pass struct {
	styles     StyleSource
	graph      *Graph
	nodeLegend map[string]*LegendEntry
	edgeLegend map[string]*LegendEntry
	isNew      bool
}

func (p *pass) add(alias string, e entity.Entity) {
	switch x := e.(type) {
	case *entity.Edge:
		if x.Start != "" && x.End != "" {
			p.addEdge(alias, x)
			return
		}
		p.addNode(alias, x.Label, x.ID, x.Properties)
	case *entity.Vertex:
		p.addNode(alias, x.Label, x.ID, x.Properties)
	}
}

func (p *pass) addNode(alias, label, id string, props map[string]any) {
	entry := p.entry(style.KindNode, p.nodeLegend, strings.TrimSpace(label), props)

	classes := "node"
	if p.isNew {
		classes = "new node"
	}
	p.graph.Elements.Nodes = append(p.graph.Elements.Nodes, Element{
		Group: GroupNodes,
		Data: ElementData{
			ID:              id,
			Label:           label,
			BackgroundColor: entry.Color,
			BorderColor:     entry.BorderColor,
			FontColor:       entry.FontColor,
			Size:            entry.Size,
			Properties:      props,
			Caption:         entry.Caption,
		},
		Alias:   alias,
		Classes: classes,
	})
}

func (p *pass) addEdge(alias string, e *entity.Edge) {
	entry := p.entry(style.KindEdge, p.edgeLegend, strings.TrimSpace(e.Label), e.Properties)

	classes := "edge"
	if p.isNew {
		classes = "new edge"
	}
	p.graph.Elements.Edges = append(p.graph.Elements.Edges, Element{
		Group: GroupEdges,
		Data: ElementData{
			ID:              e.ID,
			Source:          e.Start,
			Target:          e.End,
			Label:           e.Label,
			BackgroundColor: entry.Color,
			BorderColor:     entry.BorderColor,
			FontColor:       entry.FontColor,
			Size:            entry.Size,
			Properties:      e.Properties,
			Caption:         entry.Caption,
		},
		Alias:   alias,
		Classes: classes,
	})
}

// entry returns the legend entry for label, creating it on first encounter.
func (p *pass) entry(kind style.Kind, legend map[string]*LegendEntry, label string, props map[string]any) *LegendEntry {
	entry, ok := legend[label]
	if !ok {
		color := p.styles.ColorFor(kind, label)
		entry = &LegendEntry{
			Size:        p.styles.SizeFor(kind, label),
			Caption:     p.caption(kind, label, props),
			Color:       color.Color,
			BorderColor: color.BorderColor,
			FontColor:   color.FontColor,
		}
		legend[label] = entry
	}

	if _, ok := props[entry.Caption]; !ok {
		entry.Caption = p.caption(kind, label, props)
	}
	return entry
}

// caption returns the configured caption for label. A label without one gets
// the kind's default, or "name" when the entity has a name property, and that
// choice is stored for later lookups.
func (p *pass) caption(kind style.Kind, label string, props map[string]any) string {
	if c, ok := p.styles.Caption(kind, label); ok {
		return c
	}
	c := style.DefaultCaption(kind)
	if _, ok := props[style.NameCaption]; ok {
		c = style.NameCaption
	}
	return p.styles.RegisterCaption(kind, label, c)
}

// finish copies the legend into the graph and points every element at the
// final caption of its label.
func (p *pass) finish() {
	for label, e := range p.nodeLegend {
		p.graph.Legend.NodeLegend[label] = *e
	}
	for label, e := range p.edgeLegend {
		p.graph.Legend.EdgeLegend[label] = *e
	}
	for i := range p.graph.Elements.Nodes {
		n := &p.graph.Elements.Nodes[i]
		n.Data.Caption = p.nodeLegend[strings.TrimSpace(n.Data.Label)].Caption
	}
	for i := range p.graph.Elements.Edges {
		e := &p.graph.Elements.Edges[i]
		e.Data.Caption = p.edgeLegend[strings.TrimSpace(e.Data.Label)].Caption
	}
}
