package fingerprint

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawoe/modelforge/internal/schema"
	"github.com/dawoe/modelforge/internal/source"
)

func testFragments() []source.Fragment {
	return []source.Fragment{
		{Path: "models/article.go", Text: "package models\n"},
		{Path: "models/page.go", Text: "package models\n\n// page extras\n"},
	}
}

func testTypes() []schema.TypeDescriptor {
	return []schema.TypeDescriptor{
		{
			ID:          1001,
			Alias:       "article",
			ClrName:     "Article",
			Name:        "Article",
			Description: "An article",
			ItemType:    schema.ItemTypeContent,
			Mixins:      []int64{1010, 1005},
			Properties: []schema.PropertyDescriptor{
				{Alias: "title", ClrName: "Title", Name: "Title", TypeFullName: "string"},
				{Alias: "body", ClrName: "Body", Name: "Body", TypeFullName: "string"},
			},
		},
		{
			ID:       1002,
			Alias:    "page",
			ClrName:  "Page",
			Name:     "Page",
			ItemType: schema.ItemTypeContent,
		},
	}
}

func mustCompute(t *testing.T, fragments []source.Fragment, types []schema.TypeDescriptor) Fingerprint {
	t.Helper()
	fp, err := Compute(fragments, types)
	require.NoError(t, err)
	require.NotEmpty(t, fp)
	return fp
}

func TestCompute_Deterministic(t *testing.T) {
	a := mustCompute(t, testFragments(), testTypes())
	b := mustCompute(t, testFragments(), testTypes())
	assert.Equal(t, a, b)
}

func TestCompute_OrderIndependent(t *testing.T) {
	base := mustCompute(t, testFragments(), testTypes())

	t.Run("fragments permuted", func(t *testing.T) {
		fragments := testFragments()
		fragments[0], fragments[1] = fragments[1], fragments[0]
		assert.Equal(t, base, mustCompute(t, fragments, testTypes()))
	})

	t.Run("types permuted", func(t *testing.T) {
		types := testTypes()
		types[0], types[1] = types[1], types[0]
		assert.Equal(t, base, mustCompute(t, testFragments(), types))
	})

	t.Run("mixins permuted", func(t *testing.T) {
		types := testTypes()
		types[0].Mixins = []int64{1005, 1010}
		assert.Equal(t, base, mustCompute(t, testFragments(), types))
	})

	t.Run("properties permuted", func(t *testing.T) {
		types := testTypes()
		props := types[0].Properties
		props[0], props[1] = props[1], props[0]
		assert.Equal(t, base, mustCompute(t, testFragments(), types))
	})
}

// TestCompute_HashedFieldChanges verifies the hashed field contract:
// every relevant field must move the fingerprint.
func TestCompute_HashedFieldChanges(t *testing.T) {
	base := mustCompute(t, testFragments(), testTypes())

	typeMutations := map[string]func(*schema.TypeDescriptor){
		"id":            func(d *schema.TypeDescriptor) { d.ID = 9999 },
		"alias":         func(d *schema.TypeDescriptor) { d.Alias = "articleV2" },
		"clrName":       func(d *schema.TypeDescriptor) { d.ClrName = "ArticleModel" },
		"parentId":      func(d *schema.TypeDescriptor) { d.ParentID = 42 },
		"name":          func(d *schema.TypeDescriptor) { d.Name = "Renamed" },
		"description":   func(d *schema.TypeDescriptor) { d.Description = "changed" },
		"itemType":      func(d *schema.TypeDescriptor) { d.ItemType = schema.ItemTypeMedia },
		"mixin added":   func(d *schema.TypeDescriptor) { d.Mixins = append(d.Mixins, 2000) },
		"mixin removed": func(d *schema.TypeDescriptor) { d.Mixins = d.Mixins[:1] },
		"property alias": func(d *schema.TypeDescriptor) {
			d.Properties[0].Alias = "headline"
		},
		"property clrName": func(d *schema.TypeDescriptor) {
			d.Properties[0].ClrName = "Headline"
		},
		"property name": func(d *schema.TypeDescriptor) {
			d.Properties[0].Name = "Headline"
		},
		"property description": func(d *schema.TypeDescriptor) {
			d.Properties[0].Description = "changed"
		},
		"property typeFullName": func(d *schema.TypeDescriptor) {
			d.Properties[0].TypeFullName = "int64"
		},
		"property removed": func(d *schema.TypeDescriptor) {
			d.Properties = d.Properties[:1]
		},
	}

	for name, mutate := range typeMutations {
		t.Run("type "+name, func(t *testing.T) {
			types := testTypes()
			mutate(&types[0])
			assert.NotEqual(t, base, mustCompute(t, testFragments(), types))
		})
	}

	t.Run("fragment text", func(t *testing.T) {
		fragments := testFragments()
		fragments[0].Text += "// edited\n"
		assert.NotEqual(t, base, mustCompute(t, fragments, testTypes()))
	})

	t.Run("fragment path", func(t *testing.T) {
		fragments := testFragments()
		fragments[0].Path = "models/renamed.go"
		assert.NotEqual(t, base, mustCompute(t, fragments, testTypes()))
	})

	t.Run("fragment removed", func(t *testing.T) {
		assert.NotEqual(t, base, mustCompute(t, testFragments()[:1], testTypes()))
	})

	t.Run("type removed", func(t *testing.T) {
		assert.NotEqual(t, base, mustCompute(t, testFragments(), testTypes()[:1]))
	})
}

// Origin is bookkeeping: a descriptor moving between schema files
// must not invalidate compiled models.
func TestCompute_OriginIgnored(t *testing.T) {
	base := mustCompute(t, testFragments(), testTypes())

	types := testTypes()
	types[0].Origin = "elsewhere.cue:99"
	assert.Equal(t, base, mustCompute(t, testFragments(), types))
}

func TestCompute_EmptyInputs(t *testing.T) {
	a := mustCompute(t, nil, nil)
	b := mustCompute(t, []source.Fragment{}, []schema.TypeDescriptor{})
	assert.Equal(t, a, b)
}

func TestCompute_DoesNotMutateInputs(t *testing.T) {
	fragments := testFragments()
	fragments[0], fragments[1] = fragments[1], fragments[0]
	types := testTypes()
	types[0].Mixins = []int64{1010, 1005}

	mustCompute(t, fragments, types)

	assert.Equal(t, "models/page.go", fragments[0].Path, "fragment order must be preserved")
	assert.Equal(t, []int64{1010, 1005}, types[0].Mixins, "mixin order must be preserved")
}

// TestPreimage_Golden pins the exact canonical pre-image encoding. A
// change here silently orphans every persisted artifact, so it must
// be deliberate.
func TestPreimage_Golden(t *testing.T) {
	fragments := []source.Fragment{
		{Path: "models/article.go", Text: "package models\n"},
	}
	types := []schema.TypeDescriptor{
		{
			ID:          1001,
			Alias:       "article",
			ClrName:     "Article",
			Name:        "Article",
			Description: "An article",
			ItemType:    schema.ItemTypeContent,
			Mixins:      []int64{1010},
			Properties: []schema.PropertyDescriptor{
				{Alias: "title", ClrName: "Title", Name: "Title", TypeFullName: "string"},
			},
		},
	}

	pre, err := Preimage(fragments, types)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "article_preimage", pre)
}
