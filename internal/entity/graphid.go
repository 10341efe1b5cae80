package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// localIDBits is the width of the entry part of an AGE graphid.
// The remaining high bits hold the label id.
const localIDBits = 48

const localIDMask = int64(1)<<localIDBits - 1

// GraphID is a two-part native identifier: the owning label's oid and the
// entry id within that label.
type GraphID struct {
	OID int64 `json:"oid"`
	ID  int64 `json:"id"`
}

// String formats the id as "<oid>.<id>".
func (g GraphID) String() string {
	return FormatID(g.OID, g.ID)
}

// FormatID formats a two-part id as "<oid>.<id>".
func FormatID(oid, id int64) string {
	return strconv.FormatInt(oid, 10) + "." + strconv.FormatInt(id, 10)
}

// SplitGraphid splits a packed 64-bit AGE graphid into its label and entry parts.
func SplitGraphid(v int64) GraphID {
	return GraphID{OID: v >> localIDBits, ID: v & localIDMask}
}

// ParseID parses an "<oid>.<id>" string.
func ParseID(s string) (GraphID, error) {
	oidPart, idPart, ok := strings.Cut(s, ".")
	if !ok {
		return GraphID{}, fmt.Errorf("invalid graph id %q: missing '.'", s)
	}
	oid, err := strconv.ParseInt(oidPart, 10, 64)
	if err != nil {
		return GraphID{}, fmt.Errorf("invalid graph id %q: %w", s, err)
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return GraphID{}, fmt.Errorf("invalid graph id %q: %w", s, err)
	}
	return GraphID{OID: oid, ID: id}, nil
}

// idPair reads a native identifier from any of the shapes backends produce:
// a GraphID, an {oid, id} object, an "oid.id" string or a packed graphid.
func idPair(v any) (GraphID, bool) {
	switch x := v.(type) {
	case GraphID:
		return x, true
	case *GraphID:
		if x == nil {
			return GraphID{}, false
		}
		return *x, true
	case map[string]any:
		oid, ok := toInt64(x["oid"])
		if !ok {
			return GraphID{}, false
		}
		id, ok := toInt64(x["id"])
		if !ok {
			return GraphID{}, false
		}
		return GraphID{OID: oid, ID: id}, true
	case string:
		g, err := ParseID(x)
		return g, err == nil
	default:
		n, ok := toInt64(v)
		if !ok {
			return GraphID{}, false
		}
		return SplitGraphid(n), true
	}
}

// toInt64 converts integral numbers of any common Go or JSON type.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
