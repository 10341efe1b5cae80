package session

import (
	"context"
	"fmt"

	"github.com/matsen/agviewer/internal/viz"
)

// Queries that aggregate the selected graph per label. Vertex labels are
// identified by name so edge records can point at them.
const (
	vertexMetaQuery = `MATCH (v) RETURN label(v) AS la_name, label(v) AS la_oid, count(v) AS la_count`
	edgeMetaQuery   = `MATCH (a)-[e]->(b) RETURN label(e) AS la_name, label(e) + ':' + label(a) + ':' + label(b) AS la_oid, count(e) AS la_count, label(a) AS la_start, label(b) AS la_end`
)

// Metadata returns per-label counts of the selected graph: vertex labels
// first, then edge labels grouped by their endpoint labels.
func (s *Service) Metadata(ctx context.Context) ([]viz.MetaRecord, error) {
	var records []viz.MetaRecord
	for _, q := range []string{vertexMetaQuery, edgeMetaQuery} {
		n, err := s.Execute(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("reading label metadata: %w", err)
		}
		records = append(records, viz.MetaRecordsFromResult(n)...)
	}
	return records, nil
}
