package comparison

import (
	"fmt"
	"strings"

	"github.com/tabularops/modeldiff/pkg/tabularmodel"
)

// unknownTable is the sentinel for references that fail every parse pattern.
// Relationships that both resolve to it still match an identically-ambiguous
// counterpart, at the accepted cost of possible collisions between unrelated
// unparseable references.
const unknownTable = "Unknown"

// relationshipEndpoints is the canonical identity of a relationship, derived
// from either representation without mutating the source object.
type relationshipEndpoints struct {
	FromTable  string
	FromColumn string
	ToTable    string
	ToColumn   string
}

// normalizeRelationship derives the canonical endpoint tuple. Explicit table
// fields are trusted as-is; otherwise the combined column references are
// parsed. The derivation is idempotent and side-effect-free.
func normalizeRelationship(rel tabularmodel.Relationship) relationshipEndpoints {
	fromTable, fromColumn := normalizeEndpoint(rel.FromTable, rel.FromColumn)
	toTable, toColumn := normalizeEndpoint(rel.ToTable, rel.ToColumn)
	return relationshipEndpoints{
		FromTable:  fromTable,
		FromColumn: fromColumn,
		ToTable:    toTable,
		ToColumn:   toColumn,
	}
}

// key renders the tuple in the form used for matching relationships across
// the two models.
func (e relationshipEndpoints) key() string {
	return fmt.Sprintf("%s[%s]|%s[%s]", e.FromTable, e.FromColumn, e.ToTable, e.ToColumn)
}

// normalizeEndpoint resolves one side of a relationship. An explicit,
// non-empty table field wins with the column taken verbatim; otherwise the
// column is treated as a combined reference.
func normalizeEndpoint(table, column string) (string, string) {
	if table != "" {
		return table, column
	}
	return parseColumnReference(column)
}

// parseColumnReference splits a combined column reference into table and
// column. Patterns are tried in precedence order:
//
//  1. 'Table'[Column] or Table[Column]: table optionally single-quoted,
//     column bracketed
//  2. Table.Column: only when no bracket is present, split on the first dot
//  3. fallback: table becomes the Unknown sentinel and the raw reference is
//     kept as the column
func parseColumnReference(ref string) (string, string) {
	if open := strings.Index(ref, "["); open > 0 && strings.HasSuffix(ref, "]") {
		table := strings.Trim(ref[:open], "'")
		if table != "" {
			return table, ref[open+1 : len(ref)-1]
		}
	}
	if !strings.Contains(ref, "[") {
		if dot := strings.Index(ref, "."); dot > 0 {
			return ref[:dot], ref[dot+1:]
		}
	}
	return unknownTable, ref
}
