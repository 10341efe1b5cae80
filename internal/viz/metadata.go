package viz

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/matsen/agviewer/internal/result"
	"github.com/matsen/agviewer/internal/style"
)

// MetaRecord is one per-label count row of a graph's label metadata.
// Edge labels carry the start and end labels they connect.
type MetaRecord struct {
	Name  string `json:"la_name"`
	OID   string `json:"la_oid"`
	Count *int64 `json:"la_count"`
	Start string `json:"la_start,omitempty"`
	End   string `json:"la_end,omitempty"`
}

// IsEdge reports whether the record describes an edge label.
func (r MetaRecord) IsEdge() bool {
	return r.Start != "" && r.End != ""
}

// MetaRecordsFromResult reads metadata records from a normalized result.
func MetaRecordsFromResult(n *result.Normalized) []MetaRecord {
	records := make([]MetaRecord, 0, len(n.Rows))
	for _, row := range n.Rows {
		records = append(records, MetaRecordFromMap(row))
	}
	return records
}

// MetaRecordFromMap reads a metadata record from a raw row.
// A missing or non-numeric la_count leaves Count nil.
func MetaRecordFromMap(m map[string]any) MetaRecord {
	r := MetaRecord{
		Name:  stringOf(m["la_name"]),
		OID:   stringOf(m["la_oid"]),
		Start: stringOf(m["la_start"]),
		End:   stringOf(m["la_end"]),
	}
	if n, ok := countOf(m["la_count"]); ok {
		r.Count = &n
	}
	return r
}

// ToMetadataElements builds a label-level graph from metadata records.
// Records without a positive count are skipped.
func (b *Builder) ToMetadataElements(records []MetaRecord) *Graph {
	g := newGraph()

	for _, r := range records {
		if r.Count == nil || *r.Count <= 0 {
			continue
		}

		props := map[string]any{"count": *r.Count, "id": r.OID, "name": r.Name}
		if r.IsEdge() {
			entry, ok := g.Legend.EdgeLegend[r.Name]
			if !ok {
				entry = metadataEntry(b.styles.ColorFor(style.KindEdge, r.Name), MetadataEdgeSize)
				g.Legend.EdgeLegend[r.Name] = entry
			}
			g.Elements.Edges = append(g.Elements.Edges, Element{
				Group:   GroupEdges,
				Data:    metadataData(r, entry, props),
				Classes: "edge",
			})
			continue
		}

		entry, ok := g.Legend.NodeLegend[r.Name]
		if !ok {
			entry = metadataEntry(b.styles.ColorFor(style.KindNode, r.Name), MetadataNodeSize)
			g.Legend.NodeLegend[r.Name] = entry
		}
		g.Elements.Nodes = append(g.Elements.Nodes, Element{
			Group:   GroupNodes,
			Data:    metadataData(r, entry, props),
			Classes: "node",
		})
	}

	return g
}

func metadataEntry(color style.LabelStyle, size int) LegendEntry {
	return LegendEntry{
		Size:        size,
		Caption:     style.NameCaption,
		Color:       color.Color,
		BorderColor: color.BorderColor,
		FontColor:   color.FontColor,
	}
}

func metadataData(r MetaRecord, entry LegendEntry, props map[string]any) ElementData {
	d := ElementData{
		ID:              r.OID,
		Label:           r.Name,
		BackgroundColor: entry.Color,
		BorderColor:     entry.BorderColor,
		FontColor:       entry.FontColor,
		Size:            entry.Size,
		Properties:      props,
		Caption:         entry.Caption,
	}
	if r.IsEdge() {
		d.Source = r.Start
		d.Target = r.End
	}
	return d
}

func stringOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func countOf(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
