// Package style assigns colors, sizes and captions to graph labels.
package style

import "fmt"

// Kind distinguishes node labels from edge labels.
type Kind string

const (
	KindNode Kind = "node"
	KindEdge Kind = "edge"
)

// ParseKind parses "node" or "edge".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindNode, KindEdge:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("invalid kind %q: must be node or edge", s)
	}
}

// LabelStyle is the color triple of a palette slot.
type LabelStyle struct {
	Color       string `json:"color"`
	BorderColor string `json:"borderColor"`
	FontColor   string `json:"fontColor"`
}

// NodePalette holds the fixed node colors.
var NodePalette = [...]LabelStyle{
	{Color: "#6366F1", BorderColor: "#4F46E5", FontColor: "#FFFFFF"}, // indigo
	{Color: "#10B981", BorderColor: "#059669", FontColor: "#FFFFFF"}, // emerald
	{Color: "#F59E0B", BorderColor: "#D97706", FontColor: "#1F2937"}, // amber
	{Color: "#F43F5E", BorderColor: "#E11D48", FontColor: "#FFFFFF"}, // rose
	{Color: "#06B6D4", BorderColor: "#0891B2", FontColor: "#FFFFFF"}, // cyan
	{Color: "#8B5CF6", BorderColor: "#7C3AED", FontColor: "#FFFFFF"}, // violet
	{Color: "#F97316", BorderColor: "#EA580C", FontColor: "#FFFFFF"}, // orange
	{Color: "#14B8A6", BorderColor: "#0D9488", FontColor: "#FFFFFF"}, // teal
	{Color: "#EC4899", BorderColor: "#DB2777", FontColor: "#FFFFFF"}, // pink
	{Color: "#0EA5E9", BorderColor: "#0284C7", FontColor: "#FFFFFF"}, // sky
	{Color: "#84CC16", BorderColor: "#65A30D", FontColor: "#1F2937"}, // lime
	{Color: "#64748B", BorderColor: "#475569", FontColor: "#FFFFFF"}, // slate
}

// EdgePalette holds the fixed edge colors, muted relative to the node palette.
var EdgePalette = [...]LabelStyle{
	{Color: "#64748B", BorderColor: "#475569", FontColor: "#1F2937"},
	{Color: "#818CF8", BorderColor: "#6366F1", FontColor: "#1F2937"},
	{Color: "#34D399", BorderColor: "#10B981", FontColor: "#1F2937"},
	{Color: "#FBBF24", BorderColor: "#F59E0B", FontColor: "#1F2937"},
	{Color: "#FB7185", BorderColor: "#F43F5E", FontColor: "#1F2937"},
	{Color: "#22D3EE", BorderColor: "#06B6D4", FontColor: "#1F2937"},
	{Color: "#A78BFA", BorderColor: "#8B5CF6", FontColor: "#1F2937"},
	{Color: "#FB923C", BorderColor: "#F97316", FontColor: "#1F2937"},
	{Color: "#2DD4BF", BorderColor: "#14B8A6", FontColor: "#1F2937"},
	{Color: "#F472B6", BorderColor: "#EC4899", FontColor: "#1F2937"},
	{Color: "#38BDF8", BorderColor: "#0EA5E9", FontColor: "#1F2937"},
	{Color: "#A3E635", BorderColor: "#84CC16", FontColor: "#1F2937"},
}

// Size buckets. Node sizes are diameters, edge sizes are line widths.
var (
	NodeSizes = [...]int{25, 50, 75, 100, 125}
	EdgeSizes = [...]int{1, 6, 11, 16, 21}
)

// Default size bucket indexes for labels seen for the first time.
const (
	DefaultNodeSizeIndex = 2
	DefaultEdgeSizeIndex = 0
)

// Default captions registered the first time a label is seen.
const (
	DefaultNodeCaption = "gid"
	DefaultEdgeCaption = "label"
	NameCaption        = "name"
)

func palette(kind Kind) []LabelStyle {
	if kind == KindEdge {
		return EdgePalette[:]
	}
	return NodePalette[:]
}

func sizes(kind Kind) []int {
	if kind == KindEdge {
		return EdgeSizes[:]
	}
	return NodeSizes[:]
}

func defaultSizeIndex(kind Kind) int {
	if kind == KindEdge {
		return DefaultEdgeSizeIndex
	}
	return DefaultNodeSizeIndex
}

// DefaultCaption returns the caption a label of kind gets before any
// configuration.
func DefaultCaption(kind Kind) string {
	if kind == KindEdge {
		return DefaultEdgeCaption
	}
	return DefaultNodeCaption
}

// normalize maps unknown kinds to KindNode.
func (k Kind) normalize() Kind {
	if k == KindEdge {
		return KindEdge
	}
	return KindNode
}
