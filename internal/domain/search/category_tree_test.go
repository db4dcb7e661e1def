package search

import (
	"testing"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCategoryTree(t *testing.T) {
	categories := []*models.Category{
		{ID: 12, ParentID: 11, Name: "secondLevel", Path: []int{11, 3, 1}},
		{ID: 3, ParentID: 1, Name: "Deutsch", Path: []int{1}},
		{ID: 11, ParentID: 3, Name: "firstLevel", Path: []int{3, 1}},
		{ID: 13, ParentID: 3, Name: "anotherFirstLevel", Position: 2, Path: []int{3, 1}},
		{ID: 99, ParentID: 50, Name: "orphan"},
	}

	tree := BuildCategoryTree(categories, 1, []int{11})

	require.Len(t, tree, 1)
	root := tree[0]
	assert.Equal(t, "Deutsch", root.Label)
	assert.False(t, root.Active)

	require.Len(t, root.Values, 2)
	first := root.Values[0]
	assert.Equal(t, "firstLevel", first.Label)
	assert.True(t, first.Active)
	assert.Equal(t, "anotherFirstLevel", root.Values[1].Label)

	require.Len(t, first.Values, 1)
	assert.Equal(t, "secondLevel", first.Values[0].Label)
	assert.Empty(t, first.Values[0].Values)
}

func TestBuildCategoryTree_Empty(t *testing.T) {
	assert.Empty(t, BuildCategoryTree(nil, 1, nil))
}

func TestProductSearchResult_Facet(t *testing.T) {
	result := &ProductSearchResult{
		Facets: []FacetResult{
			NewBooleanFacetResult(FacetShippingFree, "shippingFree", "Shipping free", false),
			NewValueListFacetResult(FacetManufacturer, "sSupplier", "Manufacturer", true, []ValueListItem{{ID: 1, Label: "Acme", Active: true}}),
		},
	}

	facet, ok := result.Facet(FacetManufacturer)
	require.True(t, ok)
	assert.Equal(t, FacetResultValueList, facet.GetType())
	assert.True(t, facet.IsActive())

	_, ok = result.Facet(FacetCategory)
	assert.False(t, ok)
}
