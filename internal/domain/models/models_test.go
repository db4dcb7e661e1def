package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceBoundDecoding(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{in: `20`, want: IntPtr(20)},
		{in: `"21"`, want: IntPtr(21)},
		{in: `"-"`, want: nil},
		{in: `null`, want: nil},
		{in: `"beliebig"`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var price ArticlePrice
			require.NoError(t, json.Unmarshal([]byte(`{"customerGroupKey":"EK","from":1,"price":5,"to":`+tt.in+`}`), &price))
			assert.Equal(t, tt.want, price.To.Value)
		})
	}

	var price ArticlePrice
	assert.Error(t, json.Unmarshal([]byte(`{"to":"many"}`), &price))
}

func TestArticleDetailsPutsMainFirst(t *testing.T) {
	article := Article{
		MainDetail: &ArticleDetail{Number: "SW1"},
		Variants:   []*ArticleDetail{{Number: "SW1"}, {Number: "SW1.1"}},
	}

	details := article.Details()
	require.Len(t, details, 2)
	assert.Equal(t, "SW1", details[0].Number)
	assert.Equal(t, "SW1.1", details[1].Number)
}

func TestArticleFilterToMap(t *testing.T) {
	active := false
	f := ArticleFilter{Name: "shirt", SupplierID: 2, Active: &active}

	assert.Equal(t, map[string]interface{}{
		"name":        "shirt",
		"supplier_id": 2,
		"active":      false,
	}, f.ToMap())
}

func TestAttributesSetAllocates(t *testing.T) {
	var attrs Attributes
	attrs.Set("core", Attribute{"attr1": "a"})

	assert.True(t, attrs.Has("core"))
	assert.Equal(t, "a", attrs.Get("core")["attr1"])
	assert.False(t, attrs.Has("image"))
}
