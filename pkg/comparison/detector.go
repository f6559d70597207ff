package comparison

import (
	"fmt"

	"github.com/tabularops/modeldiff/pkg/tabularmodel"
)

// compareTable detects every change of one matched table pair: table-level
// fields, annotations and all sub-collections. HasChanges is true iff any of
// them differ; tables with zero detected differences stay out of the
// modified list.
func (c *Comparator) compareTable(table1, table2 tabularmodel.Table) TableDiff {
	changes := TableChanges{}

	if table1.Description != table2.Description {
		changes.Description = &FieldChange{From: table1.Description, To: table2.Description}
	}
	if table1.IsHidden != table2.IsHidden {
		changes.IsHidden = &FieldChange{From: table1.IsHidden, To: table2.IsHidden}
	}
	if table1.IsCalculationGroup != table2.IsCalculationGroup {
		changes.IsCalculationGroup = &FieldChange{From: table1.IsCalculationGroup, To: table2.IsCalculationGroup}
	}
	changes.Annotations = diffAnnotations(table1.Annotations, table2.Annotations)

	if diff := c.compareColumns(table1.Columns, table2.Columns); !diff.isEmpty() {
		changes.Columns = diff
	}
	if diff := c.compareMeasures(table1.Measures, table2.Measures); !diff.isEmpty() {
		changes.Measures = diff
	}
	if diff := c.compareHierarchies(table1.Hierarchies, table2.Hierarchies); !diff.isEmpty() {
		changes.Hierarchies = diff
	}
	if diff := c.comparePartitions(table1.Partitions, table2.Partitions); !diff.isEmpty() {
		changes.Partitions = diff
	}
	if diff := c.compareCalculationItems(table1.CalculationItems, table2.CalculationItems); !diff.isEmpty() {
		changes.CalculationItems = diff
	}

	return TableDiff{Name: table2.Name, Changes: changes, HasChanges: !changes.isEmpty()}
}

func (c *Comparator) compareColumns(columns1, columns2 []tabularmodel.Column) *ColumnsDiff {
	added, removed, common, byName1, byName2 := matchByName(columns1, columns2,
		func(col tabularmodel.Column) string { return col.Name })

	diff := &ColumnsDiff{Added: []ColumnSummary{}, Removed: []ColumnSummary{}, Modified: []ColumnDiff{}}
	for _, name := range added {
		diff.Added = append(diff.Added, summarizeColumn(byName2[name]))
	}
	for _, name := range removed {
		diff.Removed = append(diff.Removed, summarizeColumn(byName1[name]))
	}
	for _, name := range common {
		if changes := compareColumn(byName1[name], byName2[name]); !changes.isEmpty() {
			diff.Modified = append(diff.Modified, ColumnDiff{Name: name, Changes: changes})
		}
	}
	return diff
}

func summarizeColumn(col tabularmodel.Column) ColumnSummary {
	return ColumnSummary{Name: col.Name, DataType: col.DataType, IsCalculated: col.IsCalculated}
}

func compareColumn(col1, col2 tabularmodel.Column) ColumnChanges {
	changes := ColumnChanges{}

	if col1.DataType != col2.DataType {
		changes.DataType = &FieldChange{From: col1.DataType, To: col2.DataType}
	}
	if col1.IsCalculated != col2.IsCalculated {
		changes.IsCalculated = &FieldChange{From: col1.IsCalculated, To: col2.IsCalculated}
	}
	changes.Expression = diffExpression(col1.Expression, col2.Expression)
	if col1.Description != col2.Description {
		changes.Description = &FieldChange{From: col1.Description, To: col2.Description}
	}
	if col1.DisplayFolder != col2.DisplayFolder {
		changes.DisplayFolder = &FieldChange{From: col1.DisplayFolder, To: col2.DisplayFolder}
	}
	if col1.FormatString != col2.FormatString {
		changes.FormatString = &FieldChange{From: col1.FormatString, To: col2.FormatString}
	}
	if col1.DataCategory != col2.DataCategory {
		changes.DataCategory = &FieldChange{From: col1.DataCategory, To: col2.DataCategory}
	}
	if col1.SummarizeBy != col2.SummarizeBy {
		changes.SummarizeBy = &FieldChange{From: col1.SummarizeBy, To: col2.SummarizeBy}
	}
	if col1.SortByColumn != col2.SortByColumn {
		changes.SortByColumn = &FieldChange{From: col1.SortByColumn, To: col2.SortByColumn}
	}
	if col1.IsKey != col2.IsKey {
		changes.IsKey = &FieldChange{From: col1.IsKey, To: col2.IsKey}
	}
	if col1.IsHidden != col2.IsHidden {
		changes.IsHidden = &FieldChange{From: col1.IsHidden, To: col2.IsHidden}
	}
	changes.Annotations = diffAnnotations(col1.Annotations, col2.Annotations)
	changes.Properties = diffProperties(col1.Properties, col2.Properties)

	return changes
}

func (c *Comparator) compareMeasures(measures1, measures2 []tabularmodel.Measure) *MeasuresDiff {
	added, removed, common, byName1, byName2 := matchByName(measures1, measures2,
		func(m tabularmodel.Measure) string { return m.Name })

	diff := &MeasuresDiff{Added: []MeasureSummary{}, Removed: []MeasureSummary{}, Modified: []MeasureDiff{}}
	for _, name := range added {
		diff.Added = append(diff.Added, summarizeMeasure(byName2[name]))
	}
	for _, name := range removed {
		diff.Removed = append(diff.Removed, summarizeMeasure(byName1[name]))
	}
	for _, name := range common {
		if changes := compareMeasure(byName1[name], byName2[name]); !changes.isEmpty() {
			diff.Modified = append(diff.Modified, MeasureDiff{Name: name, Changes: changes})
		}
	}
	return diff
}

func summarizeMeasure(m tabularmodel.Measure) MeasureSummary {
	return MeasureSummary{Name: m.Name, Expression: m.Expression, DisplayFolder: m.DisplayFolder}
}

func compareMeasure(measure1, measure2 tabularmodel.Measure) MeasureChanges {
	changes := MeasureChanges{}

	if change := diffExpression(measure1.Expression, measure2.Expression); change != nil {
		change.Impact = impactHigh
		changes.Expression = change
	}
	if measure1.FormatString != measure2.FormatString {
		changes.FormatString = &FieldChange{From: measure1.FormatString, To: measure2.FormatString}
	}
	if measure1.DisplayFolder != measure2.DisplayFolder {
		changes.DisplayFolder = &FieldChange{From: measure1.DisplayFolder, To: measure2.DisplayFolder}
	}
	if measure1.Description != measure2.Description {
		changes.Description = &FieldChange{From: measure1.Description, To: measure2.Description}
	}
	if measure1.IsHidden != measure2.IsHidden {
		changes.IsHidden = &FieldChange{From: measure1.IsHidden, To: measure2.IsHidden}
	}
	if measure1.DataCategory != measure2.DataCategory {
		changes.DataCategory = &FieldChange{From: measure1.DataCategory, To: measure2.DataCategory}
	}
	changes.Annotations = diffAnnotations(measure1.Annotations, measure2.Annotations)
	changes.Properties = diffProperties(measure1.Properties, measure2.Properties)

	return changes
}

// compareHierarchies treats a hierarchy as modified only when its ordered
// list of level names differs as a whole.
func (c *Comparator) compareHierarchies(hierarchies1, hierarchies2 []tabularmodel.Hierarchy) *HierarchiesDiff {
	added, removed, common, byName1, byName2 := matchByName(hierarchies1, hierarchies2,
		func(h tabularmodel.Hierarchy) string { return h.Name })

	diff := &HierarchiesDiff{Added: []HierarchySummary{}, Removed: []HierarchySummary{}, Modified: []HierarchyDiff{}}
	for _, name := range added {
		diff.Added = append(diff.Added, HierarchySummary{Name: name, Levels: levelNames(byName2[name].Levels)})
	}
	for _, name := range removed {
		diff.Removed = append(diff.Removed, HierarchySummary{Name: name, Levels: levelNames(byName1[name].Levels)})
	}
	for _, name := range common {
		from := levelNames(byName1[name].Levels)
		to := levelNames(byName2[name].Levels)
		if !equalStringSlices(from, to) {
			diff.Modified = append(diff.Modified, HierarchyDiff{
				Name:    name,
				Changes: HierarchyChanges{LevelsFrom: from, LevelsTo: to},
			})
		}
	}
	return diff
}

func levelNames(levels []tabularmodel.Level) []string {
	names := make([]string, len(levels))
	for i, level := range levels {
		names[i] = level.Name
	}
	return names
}

func (c *Comparator) comparePartitions(partitions1, partitions2 []tabularmodel.Partition) *PartitionsDiff {
	added, removed, common, byName1, byName2 := matchByName(partitions1, partitions2,
		func(p tabularmodel.Partition) string { return p.Name })

	diff := &PartitionsDiff{Added: []PartitionSummary{}, Removed: []PartitionSummary{}, Modified: []PartitionDiff{}}
	for _, name := range added {
		diff.Added = append(diff.Added, PartitionSummary{Name: name, Mode: byName2[name].Mode})
	}
	for _, name := range removed {
		diff.Removed = append(diff.Removed, PartitionSummary{Name: name, Mode: byName1[name].Mode})
	}
	for _, name := range common {
		partition1, partition2 := byName1[name], byName2[name]
		changes := PartitionChanges{}
		if partition1.Mode != partition2.Mode {
			changes.Mode = &FieldChange{From: partition1.Mode, To: partition2.Mode}
		}
		changes.Source = diffExpression(partition1.Source, partition2.Source)
		if !changes.isEmpty() {
			diff.Modified = append(diff.Modified, PartitionDiff{Name: name, Changes: changes})
		}
	}
	return diff
}

func (c *Comparator) compareCalculationItems(items1, items2 []tabularmodel.CalculationItem) *CalculationItemsDiff {
	added, removed, common, byName1, byName2 := matchByName(items1, items2,
		func(item tabularmodel.CalculationItem) string { return item.Name })

	diff := &CalculationItemsDiff{Added: []CalculationItemSummary{}, Removed: []CalculationItemSummary{}, Modified: []CalculationItemDiff{}}
	for _, name := range added {
		diff.Added = append(diff.Added, CalculationItemSummary{Name: name, Ordinal: byName2[name].Ordinal})
	}
	for _, name := range removed {
		diff.Removed = append(diff.Removed, CalculationItemSummary{Name: name, Ordinal: byName1[name].Ordinal})
	}
	for _, name := range common {
		if changes := compareCalculationItem(byName1[name], byName2[name]); !changes.isEmpty() {
			diff.Modified = append(diff.Modified, CalculationItemDiff{Name: name, Changes: changes})
		}
	}
	return diff
}

func compareCalculationItem(item1, item2 tabularmodel.CalculationItem) CalculationItemChanges {
	changes := CalculationItemChanges{}

	changes.Expression = diffExpression(item1.Expression, item2.Expression)
	changes.FormatStringDefinition = diffExpression(item1.FormatStringDefinition, item2.FormatStringDefinition)
	if item1.Ordinal != item2.Ordinal {
		changes.Ordinal = &FieldChange{From: item1.Ordinal, To: item2.Ordinal}
	}
	if item1.Description != item2.Description {
		changes.Description = &FieldChange{From: item1.Description, To: item2.Description}
	}
	changes.Annotations = diffAnnotations(item1.Annotations, item2.Annotations)

	return changes
}

func compareRelationship(rel1, rel2 tabularmodel.Relationship) RelationshipChanges {
	changes := RelationshipChanges{}

	if rel1.FromCardinality != rel2.FromCardinality {
		changes.FromCardinality = &FieldChange{From: string(rel1.FromCardinality), To: string(rel2.FromCardinality)}
	}
	if rel1.ToCardinality != rel2.ToCardinality {
		changes.ToCardinality = &FieldChange{From: string(rel1.ToCardinality), To: string(rel2.ToCardinality)}
	}
	if rel1.IsActive != rel2.IsActive {
		changes.IsActive = &FieldChange{From: rel1.IsActive, To: rel2.IsActive}
	}
	if rel1.CrossFilteringBehavior != rel2.CrossFilteringBehavior {
		changes.CrossFilteringBehavior = &FieldChange{From: rel1.CrossFilteringBehavior, To: rel2.CrossFilteringBehavior}
	}
	if rel1.SecurityFilteringBehavior != rel2.SecurityFilteringBehavior {
		changes.SecurityFilteringBehavior = &FieldChange{From: rel1.SecurityFilteringBehavior, To: rel2.SecurityFilteringBehavior}
	}
	if rel1.RelyOnReferentialIntegrity != rel2.RelyOnReferentialIntegrity {
		changes.RelyOnReferentialIntegrity = &FieldChange{From: rel1.RelyOnReferentialIntegrity, To: rel2.RelyOnReferentialIntegrity}
	}
	changes.Annotations = diffAnnotations(rel1.Annotations, rel2.Annotations)

	return changes
}

// diffAnnotations collapses each annotation list to a name -> value map and
// diffs by key over the union of names. A key missing on one side maps to
// nil, which represents annotation added, removed and changed uniformly.
func diffAnnotations(first, second []tabularmodel.Annotation) map[string]FieldChange {
	values1 := make(map[string]string, len(first))
	for _, a := range first {
		values1[a.Name] = a.Value
	}
	values2 := make(map[string]string, len(second))
	for _, a := range second {
		values2[a.Name] = a.Value
	}

	var out map[string]FieldChange
	for _, key := range unionKeys(values1, values2) {
		v1, ok1 := values1[key]
		v2, ok2 := values2[key]
		if ok1 == ok2 && v1 == v2 {
			continue
		}
		change := FieldChange{}
		if ok1 {
			change.From = v1
		}
		if ok2 {
			change.To = v2
		}
		if out == nil {
			out = make(map[string]FieldChange)
		}
		out[key] = change
	}
	return out
}

// diffProperties diffs two flat property maps by key over the union of keys.
// Property bags carry arbitrary JSON-shaped values, so values compare
// through their fmt representation rather than direct equality.
func diffProperties(first, second map[string]any) map[string]FieldChange {
	var out map[string]FieldChange
	for _, key := range unionKeys(first, second) {
		v1, ok1 := first[key]
		v2, ok2 := second[key]
		if ok1 == ok2 && fmt.Sprintf("%v", v1) == fmt.Sprintf("%v", v2) {
			continue
		}
		change := FieldChange{}
		if ok1 {
			change.From = v1
		}
		if ok2 {
			change.To = v2
		}
		if out == nil {
			out = make(map[string]FieldChange)
		}
		out[key] = change
	}
	return out
}
