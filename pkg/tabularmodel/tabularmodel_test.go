package tabularmodel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		want  string
	}{
		{
			"model name wins",
			Model{Model: Info{Name: "Sales Model"}, Database: Info{Name: "SalesDB"}},
			"Sales Model",
		},
		{
			"uuid model name falls back to database",
			Model{Model: Info{Name: "9e107d9d-3f4a-4b2c-8a1e-b6e543210abc"}, Database: Info{Name: "SalesDB"}},
			"SalesDB",
		},
		{
			"both uuids returns the model uuid",
			Model{
				Model:    Info{Name: "9e107d9d-3f4a-4b2c-8a1e-b6e543210abc"},
				Database: Info{Name: "01234567-89ab-cdef-0123-456789abcdef"},
			},
			"9e107d9d-3f4a-4b2c-8a1e-b6e543210abc",
		},
		{
			"uuid-shaped but non-hex name is kept",
			Model{Model: Info{Name: "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz"}},
			"zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz",
		},
		{
			"database only",
			Model{Database: Info{Name: "SalesDB"}},
			"SalesDB",
		},
		{
			"uuid database only is still used",
			Model{Database: Info{Name: "9e107d9d-3f4a-4b2c-8a1e-b6e543210abc"}},
			"9e107d9d-3f4a-4b2c-8a1e-b6e543210abc",
		},
		{
			"nothing present",
			Model{},
			"Unknown Model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.model.DisplayName())
		})
	}
}

func TestIsCanonicalUUID(t *testing.T) {
	assert.True(t, isCanonicalUUID("9e107d9d-3f4a-4b2c-8a1e-b6e543210abc"))
	assert.True(t, isCanonicalUUID("9E107D9D-3F4A-4B2C-8A1E-B6E543210ABC"))
	assert.False(t, isCanonicalUUID("9e107d9d3f4a4b2c8a1eb6e543210abc"))
	assert.False(t, isCanonicalUUID("{9e107d9d-3f4a-4b2c-8a1e-b6e543210abc}"))
	assert.False(t, isCanonicalUUID("not-a-uuid"))
	assert.False(t, isCanonicalUUID(""))
}

func TestDecodeJSONDefaults(t *testing.T) {
	input := `{
		"model": {"name": "Minimal"},
		"tables": [
			{"name": "Sales", "columns": [{"name": "Amount"}]}
		]
	}`

	model, err := DecodeJSON(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "Minimal", model.Model.Name)
	assert.Empty(t, model.Database.Name)
	assert.Nil(t, model.Relationships)
	assert.Nil(t, model.Roles)
	require.Len(t, model.Tables, 1)
	table := model.Tables[0]
	assert.False(t, table.IsHidden)
	assert.False(t, table.IsCalculationGroup)
	require.Len(t, table.Columns, 1)
	assert.Empty(t, table.Columns[0].DataType)
	assert.False(t, table.Columns[0].IsKey)
}

func TestDecodeYAML(t *testing.T) {
	input := `
model:
  name: Sales Model
tables:
  - name: Sales
    columns:
      - name: Amount
        dataType: decimal
        summarizeBy: sum
    measures:
      - name: Total
        expression: SUM(Sales[Amount])
relationships:
  - fromColumn: "'Sales'[CustomerID]"
    toColumn: "'Customer'[CustomerID]"
    isActive: true
`

	model, err := DecodeYAML(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "Sales Model", model.Model.Name)
	require.Len(t, model.Tables, 1)
	assert.Equal(t, "decimal", model.Tables[0].Columns[0].DataType)
	assert.Equal(t, "sum", model.Tables[0].Columns[0].SummarizeBy)
	assert.Equal(t, "SUM(Sales[Amount])", model.Tables[0].Measures[0].Expression)
	require.Len(t, model.Relationships, 1)
	assert.True(t, model.Relationships[0].IsActive)
	assert.Equal(t, "'Sales'[CustomerID]", model.Relationships[0].FromColumn)
}

func TestDecodeJSONMalformed(t *testing.T) {
	_, err := DecodeJSON(strings.NewReader("{"))
	assert.Error(t, err)
}
