package comparison

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabularops/modeldiff/pkg/tabularmodel"
)

func loadModelFixture(t *testing.T, name string) *tabularmodel.Model {
	t.Helper()
	file, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	defer file.Close()

	model, err := tabularmodel.DecodeYAML(file)
	require.NoError(t, err)
	return model
}

func TestCompareModelsFromYAMLFixtures(t *testing.T) {
	before := loadModelFixture(t, "model_v1.yaml")
	after := loadModelFixture(t, "model_v2.yaml")

	result := NewComparator().CompareModels(before, after)

	assert.Equal(t, "Contoso Sales", result.Summary.Model1Name)
	assert.Equal(t, "Contoso Sales", result.Summary.Model2Name)

	require.Len(t, result.Tables.Modified, 1)
	sales := result.Tables.Modified[0]
	assert.Equal(t, "Sales", sales.Name)
	assert.True(t, sales.HasChanges)
	assert.Contains(t, result.Tables.Unchanged, "Customer")

	require.NotNil(t, sales.Changes.Columns)
	require.Len(t, sales.Changes.Columns.Added, 1)
	assert.Equal(t, "Margin", sales.Changes.Columns.Added[0].Name)
	require.Len(t, sales.Changes.Columns.Modified, 1)
	assert.Equal(t, "OrderDate", sales.Changes.Columns.Modified[0].Name)
	require.NotNil(t, sales.Changes.Columns.Modified[0].Changes.FormatString)
	assert.Equal(t, "dd/mm/yyyy", sales.Changes.Columns.Modified[0].Changes.FormatString.From)
	assert.Equal(t, "yyyy-mm-dd", sales.Changes.Columns.Modified[0].Changes.FormatString.To)

	require.NotNil(t, sales.Changes.Measures)
	require.Len(t, sales.Changes.Measures.Modified, 1)
	total := sales.Changes.Measures.Modified[0]
	assert.Equal(t, "Total Sales", total.Name)
	require.NotNil(t, total.Changes.Expression)
	assert.Equal(t, impactHigh, total.Changes.Expression.Impact)

	require.NotNil(t, sales.Changes.Partitions)
	require.Len(t, sales.Changes.Partitions.Modified, 1)
	require.NotNil(t, sales.Changes.Partitions.Modified[0].Changes.Source)

	require.Len(t, result.Relationships.Modified, 1)
	rel := result.Relationships.Modified[0]
	assert.Equal(t, "Sales", rel.FromTable)
	assert.Equal(t, "Customer", rel.ToTable)
	require.NotNil(t, rel.Changes.IsActive)
	assert.Equal(t, true, rel.Changes.IsActive.From)
	assert.Equal(t, false, rel.Changes.IsActive.To)

	assert.Equal(t, []string{"Analyst"}, result.Roles.Added)
	assert.Equal(t, []string{"Operations"}, result.Perspectives.Removed)

	require.Len(t, result.Measures.Modified, 1)
	assert.Equal(t, "Sales", result.Measures.Modified[0].Table)
	assert.Equal(t, "Total Sales", result.Measures.Modified[0].Name)

	counts := result.Summary.ChangesByCategory
	assert.Equal(t, 1, counts.TablesModified)
	assert.Equal(t, 1, counts.ColumnsAdded)
	assert.Equal(t, 1, counts.ColumnsModified)
	assert.Equal(t, 1, counts.MeasuresModified)
	assert.Equal(t, 1, counts.RelationshipsModified)
	assert.Equal(t, 1, counts.RolesAdded)
	assert.Equal(t, 1, counts.PerspectivesRemoved)
	assert.Equal(t, 7, result.Summary.TotalChanges)
}
