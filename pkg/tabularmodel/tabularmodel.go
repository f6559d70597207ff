// Package tabularmodel provides the typed representation of a tabular
// semantic model's metadata: tables, columns, measures, hierarchies,
// partitions, calculation groups, relationships, roles and perspectives.
// Instances are plain serializable trees produced by an external
// model-definition parser; missing fields default to their zero value.
package tabularmodel

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Cardinality describes the multiplicity on one end of a relationship.
type Cardinality string

const (
	CardinalityOne  Cardinality = "one"
	CardinalityMany Cardinality = "many"
)

// CrossFilteringBehavior controls filter propagation across a relationship.
type CrossFilteringBehavior string

const (
	CrossFilteringOneDirection   CrossFilteringBehavior = "oneDirection"
	CrossFilteringBothDirections CrossFilteringBehavior = "bothDirections"
	CrossFilteringAutomatic      CrossFilteringBehavior = "automatic"
)

// Model is the root of one parsed semantic-model definition. It is never
// mutated by the comparison engine.
type Model struct {
	Model         Info           `json:"model" yaml:"model"`
	Database      Info           `json:"database" yaml:"database"`
	Tables        []Table        `json:"tables" yaml:"tables"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
	Roles         []Role         `json:"roles" yaml:"roles"`
	Perspectives  []Perspective  `json:"perspectives" yaml:"perspectives"`
}

// Info carries the name and loose property bag of the model or database node.
type Info struct {
	Name       string         `json:"name" yaml:"name"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Table is unique by name within a model. CalculationItems are only
// populated when IsCalculationGroup is set.
type Table struct {
	Name               string            `json:"name" yaml:"name"`
	Description        string            `json:"description,omitempty" yaml:"description,omitempty"`
	IsHidden           bool              `json:"isHidden,omitempty" yaml:"isHidden,omitempty"`
	IsCalculationGroup bool              `json:"isCalculationGroup,omitempty" yaml:"isCalculationGroup,omitempty"`
	Columns            []Column          `json:"columns,omitempty" yaml:"columns,omitempty"`
	Measures           []Measure         `json:"measures,omitempty" yaml:"measures,omitempty"`
	Hierarchies        []Hierarchy       `json:"hierarchies,omitempty" yaml:"hierarchies,omitempty"`
	Partitions         []Partition       `json:"partitions,omitempty" yaml:"partitions,omitempty"`
	CalculationItems   []CalculationItem `json:"calculationItems,omitempty" yaml:"calculationItems,omitempty"`
	Annotations        []Annotation      `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Properties         map[string]any    `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Column is unique by name within a table. Expression is only meaningful
// for calculated columns.
type Column struct {
	Name          string         `json:"name" yaml:"name"`
	DataType      string         `json:"dataType,omitempty" yaml:"dataType,omitempty"`
	IsCalculated  bool           `json:"isCalculated,omitempty" yaml:"isCalculated,omitempty"`
	Expression    string         `json:"expression,omitempty" yaml:"expression,omitempty"`
	Description   string         `json:"description,omitempty" yaml:"description,omitempty"`
	DisplayFolder string         `json:"displayFolder,omitempty" yaml:"displayFolder,omitempty"`
	FormatString  string         `json:"formatString,omitempty" yaml:"formatString,omitempty"`
	DataCategory  string         `json:"dataCategory,omitempty" yaml:"dataCategory,omitempty"`
	SummarizeBy   string         `json:"summarizeBy,omitempty" yaml:"summarizeBy,omitempty"`
	SortByColumn  string         `json:"sortByColumn,omitempty" yaml:"sortByColumn,omitempty"`
	IsKey         bool           `json:"isKey,omitempty" yaml:"isKey,omitempty"`
	IsHidden      bool           `json:"isHidden,omitempty" yaml:"isHidden,omitempty"`
	Annotations   []Annotation   `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Properties    map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Measure is a named DAX aggregation attached to a table, unique by name
// within the table.
type Measure struct {
	Name          string         `json:"name" yaml:"name"`
	Expression    string         `json:"expression,omitempty" yaml:"expression,omitempty"`
	FormatString  string         `json:"formatString,omitempty" yaml:"formatString,omitempty"`
	DisplayFolder string         `json:"displayFolder,omitempty" yaml:"displayFolder,omitempty"`
	Description   string         `json:"description,omitempty" yaml:"description,omitempty"`
	IsHidden      bool           `json:"isHidden,omitempty" yaml:"isHidden,omitempty"`
	DataCategory  string         `json:"dataCategory,omitempty" yaml:"dataCategory,omitempty"`
	Annotations   []Annotation   `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Properties    map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Hierarchy is an ordered list of levels, unique by name within a table.
type Hierarchy struct {
	Name   string  `json:"name" yaml:"name"`
	Levels []Level `json:"levels,omitempty" yaml:"levels,omitempty"`
}

// Level is one step of a hierarchy.
type Level struct {
	Name string `json:"name" yaml:"name"`
}

// Partition holds the query or import expression feeding a table, unique by
// name within the table.
type Partition struct {
	Name   string `json:"name" yaml:"name"`
	Mode   string `json:"mode,omitempty" yaml:"mode,omitempty"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// CalculationItem is one named formula of a calculation group.
type CalculationItem struct {
	Name                   string       `json:"name" yaml:"name"`
	Expression             string       `json:"expression,omitempty" yaml:"expression,omitempty"`
	FormatStringDefinition string       `json:"formatStringDefinition,omitempty" yaml:"formatStringDefinition,omitempty"`
	Ordinal                int          `json:"ordinal,omitempty" yaml:"ordinal,omitempty"`
	Description            string       `json:"description,omitempty" yaml:"description,omitempty"`
	Annotations            []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// Relationship links a column of one table to a column of another. Either
// the table fields are explicit, or FromColumn/ToColumn carry a combined
// reference such as 'Table'[Column], Table[Column] or Table.Column. The
// canonical identity is the normalized four-part endpoint tuple, not any
// name field.
type Relationship struct {
	FromTable                  string                 `json:"fromTable,omitempty" yaml:"fromTable,omitempty"`
	FromColumn                 string                 `json:"fromColumn,omitempty" yaml:"fromColumn,omitempty"`
	ToTable                    string                 `json:"toTable,omitempty" yaml:"toTable,omitempty"`
	ToColumn                   string                 `json:"toColumn,omitempty" yaml:"toColumn,omitempty"`
	FromCardinality            Cardinality            `json:"fromCardinality,omitempty" yaml:"fromCardinality,omitempty"`
	ToCardinality              Cardinality            `json:"toCardinality,omitempty" yaml:"toCardinality,omitempty"`
	IsActive                   bool                   `json:"isActive,omitempty" yaml:"isActive,omitempty"`
	CrossFilteringBehavior     CrossFilteringBehavior `json:"crossFilteringBehavior,omitempty" yaml:"crossFilteringBehavior,omitempty"`
	SecurityFilteringBehavior  string                 `json:"securityFilteringBehavior,omitempty" yaml:"securityFilteringBehavior,omitempty"`
	RelyOnReferentialIntegrity bool                   `json:"relyOnReferentialIntegrity,omitempty" yaml:"relyOnReferentialIntegrity,omitempty"`
	Annotations                []Annotation           `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// Role is a named security definition. Only presence is compared.
type Role struct {
	Name            string `json:"name" yaml:"name"`
	ModelPermission string `json:"modelPermission,omitempty" yaml:"modelPermission,omitempty"`
}

// Perspective is a named curated subset of model objects. Only presence is
// compared.
type Perspective struct {
	Name string `json:"name" yaml:"name"`
}

// Annotation is an arbitrary name/value metadata pair.
type Annotation struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// DecodeJSON parses one model definition from JSON. Absent optional fields
// default to their zero value.
func DecodeJSON(r io.Reader) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeYAML parses one model definition from YAML.
func DecodeYAML(r io.Reader) (*Model, error) {
	var m Model
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

/// DisplayName resolves a human-readable name for the model: the model name
// unless it looks like a machine-generated UUID, then the database name
// unless it is a UUID, then whichever of the two is present at all.
func (m *Model) DisplayName() string {
	modelName := m.Model.Name
	databaseName := m.Database.Name

	if modelName != "" && !isCanonicalUUID(modelName) {
		return modelName
	}
	if databaseName != "" && !isCanonicalUUID(databaseName) {
		return databaseName
	}
	if modelName != "" {
		return modelName
	}
	if databaseName != "" {
		return databaseName
	}
	return "Unknown Model"
}

// isCanonicalUUID reports whether s is a UUID in the canonical 8-4-4-4-12
// hex-with-hyphens form. Other representations accepted by uuid.Parse
// (braced, URN, bare hex) do not count.
func isCanonicalUUID(s string) bool {
	if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
