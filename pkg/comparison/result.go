package comparison

// FieldChange records one scalar field difference. From and To hold the raw
// values of each side; a side where the field (or annotation/property key)
// is absent holds nil, which is distinct from the empty string or false.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// ExpressionChange records a difference in an expression-bearing field.
// Diff is a unified line diff for display only; the change decision is made
// on normalized expression text, never on Diff.
type ExpressionChange struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Diff   []string `json:"diff"`
	Impact string   `json:"impact,omitempty"`
}

// DiffResult is the complete categorized change-set between two models. It
// is built fresh on every comparison and never mutated after return.
type DiffResult struct {
	Summary         Summary             `json:"summary"`
	Tables          TablesDiff          `json:"tables"`
	Measures        MeasuresRollup      `json:"measures"`
	Relationships   RelationshipsDiff   `json:"relationships"`
	Roles           NamesDiff           `json:"roles"`
	Perspectives    NamesDiff           `json:"perspectives"`
	ModelProperties ModelPropertiesDiff `json:"modelProperties"`
}

// Summary carries the resolved model names and the category counters.
type Summary struct {
	Model1Name        string            `json:"model1Name"`
	Model2Name        string            `json:"model2Name"`
	TotalChanges      int               `json:"totalChanges"`
	ChangesByCategory ChangesByCategory `json:"changesByCategory"`
}

// ChangesByCategory holds independently computed per-category counters.
// Column and measure counters sum the sub-diff list lengths across modified
// tables only. The total is the raw arithmetic sum of every counter, so a
// measure modified inside a modified table is counted under both its own
// category and the table's; downstream reports depend on these exact
// numbers.
type ChangesByCategory struct {
	TablesAdded           int `json:"tablesAdded"`
	TablesRemoved         int `json:"tablesRemoved"`
	TablesModified        int `json:"tablesModified"`
	ColumnsAdded          int `json:"columnsAdded"`
	ColumnsRemoved        int `json:"columnsRemoved"`
	ColumnsModified       int `json:"columnsModified"`
	MeasuresAdded         int `json:"measuresAdded"`
	MeasuresRemoved       int `json:"measuresRemoved"`
	MeasuresModified      int `json:"measuresModified"`
	RelationshipsAdded    int `json:"relationshipsAdded"`
	RelationshipsRemoved  int `json:"relationshipsRemoved"`
	RelationshipsModified int `json:"relationshipsModified"`
	RolesAdded            int `json:"rolesAdded"`
	RolesRemoved          int `json:"rolesRemoved"`
	PerspectivesAdded     int `json:"perspectivesAdded"`
	PerspectivesRemoved   int `json:"perspectivesRemoved"`
}

// Total sums every counter.
func (c ChangesByCategory) Total() int {
	return c.TablesAdded + c.TablesRemoved + c.TablesModified +
		c.ColumnsAdded + c.ColumnsRemoved + c.ColumnsModified +
		c.MeasuresAdded + c.MeasuresRemoved + c.MeasuresModified +
		c.RelationshipsAdded + c.RelationshipsRemoved + c.RelationshipsModified +
		c.RolesAdded + c.RolesRemoved +
		c.PerspectivesAdded + c.PerspectivesRemoved
}

// TablesDiff partitions the tables of both models.
type TablesDiff struct {
	Added     []TableSummary `json:"added"`
	Removed   []TableSummary `json:"removed"`
	Modified  []TableDiff    `json:"modified"`
	Unchanged []string       `json:"unchanged"`
}

// TableSummary describes a wholly added or removed table.
type TableSummary struct {
	Name               string `json:"name"`
	ColumnsCount       int    `json:"columnsCount"`
	MeasuresCount      int    `json:"measuresCount"`
	HierarchiesCount   int    `json:"hierarchiesCount"`
	PartitionsCount    int    `json:"partitionsCount"`
	IsCalculationGroup bool   `json:"isCalculationGroup,omitempty"`
}

// TableDiff bundles all detected changes of one matched table pair.
type TableDiff struct {
	Name       string       `json:"name"`
	Changes    TableChanges `json:"changes"`
	HasChanges bool         `json:"hasChanges"`
}

// TableChanges holds the table-level field diffs plus the sub-collection
// diffs. Sub-diff pointers are nil when that collection is unchanged.
type TableChanges struct {
	Description        *FieldChange           `json:"description,omitempty"`
	IsHidden           *FieldChange           `json:"isHidden,omitempty"`
	IsCalculationGroup *FieldChange           `json:"isCalculationGroup,omitempty"`
	Annotations        map[string]FieldChange `json:"annotations,omitempty"`
	Columns            *ColumnsDiff           `json:"columns,omitempty"`
	Measures           *MeasuresDiff          `json:"measures,omitempty"`
	Hierarchies        *HierarchiesDiff       `json:"hierarchies,omitempty"`
	Partitions         *PartitionsDiff        `json:"partitions,omitempty"`
	CalculationItems   *CalculationItemsDiff  `json:"calculationItems,omitempty"`
}

func (t TableChanges) isEmpty() bool {
	return t.Description == nil && t.IsHidden == nil && t.IsCalculationGroup == nil &&
		len(t.Annotations) == 0 && t.Columns == nil && t.Measures == nil &&
		t.Hierarchies == nil && t.Partitions == nil && t.CalculationItems == nil
}

// ColumnsDiff partitions the columns of one matched table pair.
type ColumnsDiff struct {
	Added    []ColumnSummary `json:"added"`
	Removed  []ColumnSummary `json:"removed"`
	Modified []ColumnDiff    `json:"modified"`
}

func (d *ColumnsDiff) isEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// ColumnSummary describes an added or removed column.
type ColumnSummary struct {
	Name         string `json:"name"`
	DataType     string `json:"dataType,omitempty"`
	IsCalculated bool   `json:"isCalculated,omitempty"`
}

// ColumnDiff is one modified column with its per-field changes.
type ColumnDiff struct {
	Name    string        `json:"name"`
	Changes ColumnChanges `json:"changes"`
}

// ColumnChanges holds the per-field diffs of one column.
type ColumnChanges struct {
	DataType      *FieldChange           `json:"dataType,omitempty"`
	IsCalculated  *FieldChange           `json:"isCalculated,omitempty"`
	Expression    *ExpressionChange      `json:"expression,omitempty"`
	Description   *FieldChange           `json:"description,omitempty"`
	DisplayFolder *FieldChange           `json:"displayFolder,omitempty"`
	FormatString  *FieldChange           `json:"formatString,omitempty"`
	DataCategory  *FieldChange           `json:"dataCategory,omitempty"`
	SummarizeBy   *FieldChange           `json:"summarizeBy,omitempty"`
	SortByColumn  *FieldChange           `json:"sortByColumn,omitempty"`
	IsKey         *FieldChange           `json:"isKey,omitempty"`
	IsHidden      *FieldChange           `json:"isHidden,omitempty"`
	Annotations   map[string]FieldChange `json:"annotations,omitempty"`
	Properties    map[string]FieldChange `json:"properties,omitempty"`
}

func (c ColumnChanges) isEmpty() bool {
	return c.DataType == nil && c.IsCalculated == nil && c.Expression == nil &&
		c.Description == nil && c.DisplayFolder == nil && c.FormatString == nil &&
		c.DataCategory == nil && c.SummarizeBy == nil && c.SortByColumn == nil &&
		c.IsKey == nil && c.IsHidden == nil &&
		len(c.Annotations) == 0 && len(c.Properties) == 0
}

// MeasuresDiff partitions the measures of one matched table pair.
type MeasuresDiff struct {
	Added    []MeasureSummary `json:"added"`
	Removed  []MeasureSummary `json:"removed"`
	Modified []MeasureDiff    `json:"modified"`
}

func (d *MeasuresDiff) isEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// MeasureSummary describes an added or removed measure.
type MeasureSummary struct {
	Name          string `json:"name"`
	Expression    string `json:"expression,omitempty"`
	DisplayFolder string `json:"displayFolder,omitempty"`
}

// MeasureDiff is one modified measure with its per-field changes.
type MeasureDiff struct {
	Name    string         `json:"name"`
	Changes MeasureChanges `json:"changes"`
}

// MeasureChanges holds the per-field diffs of one measure. Every expression
// change is tagged high impact regardless of textual distance.
type MeasureChanges struct {
	Expression    *ExpressionChange      `json:"expression,omitempty"`
	FormatString  *FieldChange           `json:"formatString,omitempty"`
	DisplayFolder *FieldChange           `json:"displayFolder,omitempty"`
	Description   *FieldChange           `json:"description,omitempty"`
	IsHidden      *FieldChange           `json:"isHidden,omitempty"`
	DataCategory  *FieldChange           `json:"dataCategory,omitempty"`
	Annotations   map[string]FieldChange `json:"annotations,omitempty"`
	Properties    map[string]FieldChange `json:"properties,omitempty"`
}

func (c MeasureChanges) isEmpty() bool {
	return c.Expression == nil && c.FormatString == nil && c.DisplayFolder == nil &&
		c.Description == nil && c.IsHidden == nil && c.DataCategory == nil &&
		len(c.Annotations) == 0 && len(c.Properties) == 0
}

// HierarchiesDiff partitions the hierarchies of one matched table pair.
type HierarchiesDiff struct {
	Added    []HierarchySummary `json:"added"`
	Removed  []HierarchySummary `json:"removed"`
	Modified []HierarchyDiff    `json:"modified"`
}

func (d *HierarchiesDiff) isEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// HierarchySummary describes an added or removed hierarchy.
type HierarchySummary struct {
	Name   string   `json:"name"`
	Levels []string `json:"levels"`
}

// HierarchyDiff reports a hierarchy whose ordered level-name list changed.
// Levels are compared as a whole, not level by level.
type HierarchyDiff struct {
	Name    string           `json:"name"`
	Changes HierarchyChanges `json:"changes"`
}

// HierarchyChanges carries the full before/after level-name lists.
type HierarchyChanges struct {
	LevelsFrom []string `json:"levelsFrom"`
	LevelsTo   []string `json:"levelsTo"`
}

// PartitionsDiff partitions the partitions of one matched table pair.
type PartitionsDiff struct {
	Added    []PartitionSummary `json:"added"`
	Removed  []PartitionSummary `json:"removed"`
	Modified []PartitionDiff    `json:"modified"`
}

func (d *PartitionsDiff) isEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// PartitionSummary describes an added or removed partition.
type PartitionSummary struct {
	Name string `json:"name"`
	Mode string `json:"mode,omitempty"`
}

// PartitionDiff is one modified partition with its per-field changes.
type PartitionDiff struct {
	Name    string           `json:"name"`
	Changes PartitionChanges `json:"changes"`
}

// PartitionChanges holds the per-field diffs of one partition.
type PartitionChanges struct {
	Mode   *FieldChange      `json:"mode,omitempty"`
	Source *ExpressionChange `json:"source,omitempty"`
}

func (c PartitionChanges) isEmpty() bool {
	return c.Mode == nil && c.Source == nil
}

// CalculationItemsDiff partitions the calculation items of one matched
// calculation-group table pair.
type CalculationItemsDiff struct {
	Added    []CalculationItemSummary `json:"added"`
	Removed  []CalculationItemSummary `json:"removed"`
	Modified []CalculationItemDiff    `json:"modified"`
}

func (d *CalculationItemsDiff) isEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// CalculationItemSummary describes an added or removed calculation item.
type CalculationItemSummary struct {
	Name    string `json:"name"`
	Ordinal int    `json:"ordinal,omitempty"`
}

// CalculationItemDiff is one modified calculation item.
type CalculationItemDiff struct {
	Name    string                 `json:"name"`
	Changes CalculationItemChanges `json:"changes"`
}

// CalculationItemChanges holds the per-field diffs of one calculation item.
type CalculationItemChanges struct {
	Expression             *ExpressionChange      `json:"expression,omitempty"`
	FormatStringDefinition *ExpressionChange      `json:"formatStringDefinition,omitempty"`
	Ordinal                *FieldChange           `json:"ordinal,omitempty"`
	Description            *FieldChange           `json:"description,omitempty"`
	Annotations            map[string]FieldChange `json:"annotations,omitempty"`
}

func (c CalculationItemChanges) isEmpty() bool {
	return c.Expression == nil && c.FormatStringDefinition == nil &&
		c.Ordinal == nil && c.Description == nil && len(c.Annotations) == 0
}

// MeasuresRollup is the flat top-level measure list, each entry tagged with
// its owning table. It duplicates information nested under modified tables
// so report consumers can render measures without walking the table tree.
type MeasuresRollup struct {
	Added    []TableMeasure     `json:"added"`
	Removed  []TableMeasure     `json:"removed"`
	Modified []TableMeasureDiff `json:"modified"`
}

// TableMeasure is one added or removed measure tagged with its table.
type TableMeasure struct {
	Name       string `json:"name"`
	Table      string `json:"table"`
	Expression string `json:"expression,omitempty"`
}

// TableMeasureDiff is one modified measure tagged with its table.
type TableMeasureDiff struct {
	Name    string         `json:"name"`
	Table   string         `json:"table"`
	Changes MeasureChanges `json:"changes"`
}

// RelationshipsDiff partitions the relationships of both models by their
// normalized endpoint key.
type RelationshipsDiff struct {
	Added    []RelationshipSummary `json:"added"`
	Removed  []RelationshipSummary `json:"removed"`
	Modified []RelationshipDiff    `json:"modified"`
}

// RelationshipSummary describes an added or removed relationship using the
// normalized endpoint tuple as display fields.
type RelationshipSummary struct {
	FromTable       string `json:"fromTable"`
	FromColumn      string `json:"fromColumn"`
	ToTable         string `json:"toTable"`
	ToColumn        string `json:"toColumn"`
	FromCardinality string `json:"fromCardinality,omitempty"`
	ToCardinality   string `json:"toCardinality,omitempty"`
	IsActive        bool   `json:"isActive"`
}

// RelationshipDiff is one modified relationship with its per-field changes.
type RelationshipDiff struct {
	FromTable  string              `json:"fromTable"`
	FromColumn string              `json:"fromColumn"`
	ToTable    string              `json:"toTable"`
	ToColumn   string              `json:"toColumn"`
	Changes    RelationshipChanges `json:"changes"`
}

// RelationshipChanges holds the per-field diffs of one relationship.
type RelationshipChanges struct {
	FromCardinality            *FieldChange           `json:"fromCardinality,omitempty"`
	ToCardinality              *FieldChange           `json:"toCardinality,omitempty"`
	IsActive                   *FieldChange           `json:"isActive,omitempty"`
	CrossFilteringBehavior     *FieldChange           `json:"crossFilteringBehavior,omitempty"`
	SecurityFilteringBehavior  *FieldChange           `json:"securityFilteringBehavior,omitempty"`
	RelyOnReferentialIntegrity *FieldChange           `json:"relyOnReferentialIntegrity,omitempty"`
	Annotations                map[string]FieldChange `json:"annotations,omitempty"`
}

func (c RelationshipChanges) isEmpty() bool {
	return c.FromCardinality == nil && c.ToCardinality == nil && c.IsActive == nil &&
		c.CrossFilteringBehavior == nil && c.SecurityFilteringBehavior == nil &&
		c.RelyOnReferentialIntegrity == nil && len(c.Annotations) == 0
}

// NamesDiff reports presence-only changes for roles and perspectives.
type NamesDiff struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// ModelPropertiesDiff carries flat-map diffs of the database and model
// property bags. A side is present only when its properties actually differ.
type ModelPropertiesDiff struct {
	Database map[string]FieldChange `json:"database,omitempty"`
	Model    map[string]FieldChange `json:"model,omitempty"`
}
