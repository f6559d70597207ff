// Package comparison implements the structural diff engine for tabular
// semantic models. It matches objects across two independently-serialized
// model trees, detects field and expression changes on matched pairs, and
// aggregates everything into one categorized, deterministic DiffResult.
//
// A comparison is a pure function over two read-only trees: no I/O, no
// shared state, no mutation of the inputs. The same input pair always
// yields structurally identical output.
package comparison

import (
	"golang.org/x/sync/errgroup"

	"github.com/tabularops/modeldiff/pkg/tabularmodel"
)

// Options configures a Comparator.
type Options struct {
	// Workers bounds how many common table pairs are compared concurrently.
	// Each table pair is independent, so this only affects throughput on
	// very large models; output ordering is identical to a serial run.
	// Values below 2 keep the comparison fully serial.
	Workers int
}

// DefaultOptions returns the default comparator options.
func DefaultOptions() Options {
	return Options{Workers: 1}
}

// Comparator compares two tabular models. It holds only configuration, so a
// single instance is safe for concurrent use on different input pairs.
type Comparator struct {
	opts Options
}

// NewComparator creates a comparator with default options.
func NewComparator() *Comparator {
	return NewComparatorWithOptions(DefaultOptions())
}

// NewComparatorWithOptions creates a comparator with the given options.
func NewComparatorWithOptions(opts Options) *Comparator {
	return &Comparator{opts: opts}
}

// CompareModels produces the full change-set between model1 (the old side)
// and model2 (the new side). Nil models count as empty models; the result is
// built fresh on every call and never references the inputs.
func (c *Comparator) CompareModels(model1, model2 *tabularmodel.Model) *DiffResult {
	if model1 == nil {
		model1 = &tabularmodel.Model{}
	}
	if model2 == nil {
		model2 = &tabularmodel.Model{}
	}

	result := &DiffResult{
		Summary: Summary{
			Model1Name: model1.DisplayName(),
			Model2Name: model2.DisplayName(),
		},
		Tables: TablesDiff{
			Added:     []TableSummary{},
			Removed:   []TableSummary{},
			Modified:  []TableDiff{},
			Unchanged: []string{},
		},
		Measures: MeasuresRollup{
			Added:    []TableMeasure{},
			Removed:  []TableMeasure{},
			Modified: []TableMeasureDiff{},
		},
		Relationships: RelationshipsDiff{
			Added:    []RelationshipSummary{},
			Removed:  []RelationshipSummary{},
			Modified: []RelationshipDiff{},
		},
		Roles:        NamesDiff{Added: []string{}, Removed: []string{}},
		Perspectives: NamesDiff{Added: []string{}, Removed: []string{}},
	}

	tables1, tables2 := c.compareTables(model1.Tables, model2.Tables, result)
	c.rollUpMeasures(tables1, tables2, result)
	c.compareRelationships(model1.Relationships, model2.Relationships, result)
	c.compareRoles(model1.Roles, model2.Roles, result)
	c.comparePerspectives(model1.Perspectives, model2.Perspectives, result)
	c.compareModelProperties(model1, model2, result)
	c.summarize(result)

	return result
}

// compareTables partitions the table sets, compares every common pair and
// files each as modified or unchanged. The name-keyed maps are returned so
// the measure rollup can reach the full definitions of wholly added and
// removed tables.
func (c *Comparator) compareTables(first, second []tabularmodel.Table, result *DiffResult) (map[string]tabularmodel.Table, map[string]tabularmodel.Table) {
	added, removed, common, tables1, tables2 := matchByName(first, second,
		func(t tabularmodel.Table) string { return t.Name })

	for _, name := range added {
		result.Tables.Added = append(result.Tables.Added, summarizeTable(tables2[name]))
	}
	for _, name := range removed {
		result.Tables.Removed = append(result.Tables.Removed, summarizeTable(tables1[name]))
	}

	// Common pairs are processed over the sorted name list into
	// index-addressed slots, so serial and parallel runs assemble the same
	// output.
	diffs := make([]TableDiff, len(common))
	if c.opts.Workers > 1 {
		var group errgroup.Group
		group.SetLimit(c.opts.Workers)
		for i, name := range common {
			i, name := i, name
			group.Go(func() error {
				diffs[i] = c.compareTable(tables1[name], tables2[name])
				return nil
			})
		}
		_ = group.Wait() // table comparison never fails
	} else {
		for i, name := range common {
			diffs[i] = c.compareTable(tables1[name], tables2[name])
		}
	}

	for _, diff := range diffs {
		if diff.HasChanges {
			result.Tables.Modified = append(result.Tables.Modified, diff)
		} else {
			result.Tables.Unchanged = append(result.Tables.Unchanged, diff.Name)
		}
	}

	return tables1, tables2
}

func summarizeTable(table tabularmodel.Table) TableSummary {
	return TableSummary{
		Name:               table.Name,
		ColumnsCount:       len(table.Columns),
		MeasuresCount:      len(table.Measures),
		HierarchiesCount:   len(table.Hierarchies),
		PartitionsCount:    len(table.Partitions),
		IsCalculationGroup: table.IsCalculationGroup,
	}
}

// rollUpMeasures flattens every measure change into the top-level list, each
// entry tagged with its owning table: first the entries nested inside
// modified tables in table-processing order, then every measure belonging to
// a wholly added or removed table.
func (c *Comparator) rollUpMeasures(tables1, tables2 map[string]tabularmodel.Table, result *DiffResult) {
	for _, tableDiff := range result.Tables.Modified {
		measures := tableDiff.Changes.Measures
		if measures == nil {
			continue
		}
		for _, m := range measures.Added {
			result.Measures.Added = append(result.Measures.Added,
				TableMeasure{Name: m.Name, Table: tableDiff.Name, Expression: m.Expression})
		}
		for _, m := range measures.Removed {
			result.Measures.Removed = append(result.Measures.Removed,
				TableMeasure{Name: m.Name, Table: tableDiff.Name, Expression: m.Expression})
		}
		for _, m := range measures.Modified {
			result.Measures.Modified = append(result.Measures.Modified,
				TableMeasureDiff{Name: m.Name, Table: tableDiff.Name, Changes: m.Changes})
		}
	}

	for _, summary := range result.Tables.Added {
		for _, m := range tables2[summary.Name].Measures {
			result.Measures.Added = append(result.Measures.Added,
				TableMeasure{Name: m.Name, Table: summary.Name, Expression: m.Expression})
		}
	}
	for _, summary := range result.Tables.Removed {
		for _, m := range tables1[summary.Name].Measures {
			result.Measures.Removed = append(result.Measures.Removed,
				TableMeasure{Name: m.Name, Table: summary.Name, Expression: m.Expression})
		}
	}
}

// compareRelationships matches relationships by their normalized endpoint
// key, so a relationship serialized with explicit table fields on one side
// and combined column references on the other still pairs up.
func (c *Comparator) compareRelationships(first, second []tabularmodel.Relationship, result *DiffResult) {
	added, removed, common, byKey1, byKey2 := matchByName(first, second,
		func(rel tabularmodel.Relationship) string { return normalizeRelationship(rel).key() })

	for _, key := range added {
		result.Relationships.Added = append(result.Relationships.Added, summarizeRelationship(byKey2[key]))
	}
	for _, key := range removed {
		result.Relationships.Removed = append(result.Relationships.Removed, summarizeRelationship(byKey1[key]))
	}
	for _, key := range common {
		if changes := compareRelationship(byKey1[key], byKey2[key]); !changes.isEmpty() {
			endpoints := normalizeRelationship(byKey2[key])
			result.Relationships.Modified = append(result.Relationships.Modified, RelationshipDiff{
				FromTable:  endpoints.FromTable,
				FromColumn: endpoints.FromColumn,
				ToTable:    endpoints.ToTable,
				ToColumn:   endpoints.ToColumn,
				Changes:    changes,
			})
		}
	}
}

func summarizeRelationship(rel tabularmodel.Relationship) RelationshipSummary {
	endpoints := normalizeRelationship(rel)
	return RelationshipSummary{
		FromTable:       endpoints.FromTable,
		FromColumn:      endpoints.FromColumn,
		ToTable:         endpoints.ToTable,
		ToColumn:        endpoints.ToColumn,
		FromCardinality: string(rel.FromCardinality),
		ToCardinality:   string(rel.ToCardinality),
		IsActive:        rel.IsActive,
	}
}

// compareRoles reports role presence only; field-level role diffs are a
// documented limitation.
func (c *Comparator) compareRoles(first, second []tabularmodel.Role, result *DiffResult) {
	added, removed, _, _, _ := matchByName(first, second,
		func(r tabularmodel.Role) string { return r.Name })
	result.Roles.Added = append(result.Roles.Added, added...)
	result.Roles.Removed = append(result.Roles.Removed, removed...)
}

// comparePerspectives reports perspective presence only.
func (c *Comparator) comparePerspectives(first, second []tabularmodel.Perspective, result *DiffResult) {
	added, removed, _, _, _ := matchByName(first, second,
		func(p tabularmodel.Perspective) string { return p.Name })
	result.Perspectives.Added = append(result.Perspectives.Added, added...)
	result.Perspectives.Removed = append(result.Perspectives.Removed, removed...)
}

// compareModelProperties independently diffs the database and model property
// bags; each side appears in the result only when it actually differs.
func (c *Comparator) compareModelProperties(model1, model2 *tabularmodel.Model, result *DiffResult) {
	if diff := diffProperties(model1.Database.Properties, model2.Database.Properties); len(diff) > 0 {
		result.ModelProperties.Database = diff
	}
	if diff := diffProperties(model1.Model.Properties, model2.Model.Properties); len(diff) > 0 {
		result.ModelProperties.Model = diff
	}
}

// summarize fills the category counters. Column and measure counters sum the
// sub-diff list lengths across modified tables; totalChanges is the raw sum
// of every counter, double-counting included.
func (c *Comparator) summarize(result *DiffResult) {
	counts := ChangesByCategory{
		TablesAdded:           len(result.Tables.Added),
		TablesRemoved:         len(result.Tables.Removed),
		TablesModified:        len(result.Tables.Modified),
		RelationshipsAdded:    len(result.Relationships.Added),
		RelationshipsRemoved:  len(result.Relationships.Removed),
		RelationshipsModified: len(result.Relationships.Modified),
		RolesAdded:            len(result.Roles.Added),
		RolesRemoved:          len(result.Roles.Removed),
		PerspectivesAdded:     len(result.Perspectives.Added),
		PerspectivesRemoved:   len(result.Perspectives.Removed),
	}

	for _, tableDiff := range result.Tables.Modified {
		if columns := tableDiff.Changes.Columns; columns != nil {
			counts.ColumnsAdded += len(columns.Added)
			counts.ColumnsRemoved += len(columns.Removed)
			counts.ColumnsModified += len(columns.Modified)
		}
		if measures := tableDiff.Changes.Measures; measures != nil {
			counts.MeasuresAdded += len(measures.Added)
			counts.MeasuresRemoved += len(measures.Removed)
			counts.MeasuresModified += len(measures.Modified)
		}
	}

	result.Summary.ChangesByCategory = counts
	result.Summary.TotalChanges = counts.Total()
}
