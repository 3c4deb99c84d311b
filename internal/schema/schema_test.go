package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/querysql"
)

func TestLoadCUE(t *testing.T) {
	models, err := LoadCUE("testdata/cue")
	require.NoError(t, err)
	require.Len(t, models, 2)

	products := models[0]
	assert.Equal(t, "products", products.Name)
	assert.Equal(t, "products", products.Table)
	assert.Equal(t, []string{"name", "description", "author.name"}, products.Searchable)
	assert.Equal(t, map[string]int{"name": 3, "description": 1, "author.name": 1}, products.Weights)
	assert.Equal(t, Relation{Table: "reviews", LocalKey: "id", ForeignKey: "product_id"}, products.Relations["reviews"])

	authors := models[1]
	assert.Equal(t, "authors", authors.Name)
	assert.Nil(t, authors.Filterable)
}

func TestParseCUERejectsUnknownField(t *testing.T) {
	src := []byte(`model: x: {table: "x", colour: "red"}`)
	_, err := ParseCUE("bad.cue", src)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeBuildFailed, loadErr.Code)
	assert.True(t, loadErr.Pos.IsValid())
}

func TestParseCUERejectsNegativeWeight(t *testing.T) {
	_, err := ParseCUE("w.cue", []byte(`model: x: {table: "x", weights: {name: -1}}`))
	require.Error(t, err)
}

func TestParseYAML(t *testing.T) {
	data, err := os.ReadFile("testdata/yaml/models.yaml")
	require.NoError(t, err)

	models, err := ParseYAML(data)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "articles", models[0].Name)
	assert.Equal(t, []string{"title", "body"}, models[0].Searchable)
	assert.Equal(t, map[string]int{"title": 2}, models[0].Weights)
}

func TestParseYAMLRejectsUnknownKeys(t *testing.T) {
	_, err := ParseYAML([]byte("models:\n  x:\n    table: x\n    colour: red\n"))
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeLoadFailed, loadErr.Code)
}

func TestParseYAMLDefaultsLocalKey(t *testing.T) {
	models, err := ParseYAML([]byte("models:\n  x:\n    table: x\n    relations:\n      tags:\n        table: tags\n        foreign_key: x_id\n"))
	require.NoError(t, err)
	assert.Equal(t, "id", models[0].Relations["tags"].LocalKey)
}

func TestModelValidate(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		code  string
	}{
		{"valid", Model{Name: "p", Table: "products"}, ""},
		{"missing table", Model{Name: "p"}, ErrCodeInvalidModel},
		{"bad table", Model{Name: "p", Table: "drop table"}, ErrCodeInvalidModel},
		{"bad searchable", Model{Name: "p", Table: "p", Searchable: []string{"a b"}}, ErrCodeInvalidModel},
		{"negative weight", Model{Name: "p", Table: "p", Weights: map[string]int{"name": -2}}, ErrCodeInvalidModel},
		{"undeclared relation", Model{Name: "p", Table: "p", Searchable: []string{"author.name"}}, ErrCodeUnknownRelation},
		{"declared relation", Model{
			Name: "p", Table: "p",
			Filterable: []string{"author.name"},
			Relations:  map[string]Relation{"author": {Table: "authors", LocalKey: "author_id", ForeignKey: "id"}},
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			if tt.code == "" {
				require.NoError(t, err)
				return
			}
			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "got %v", err)
			assert.Equal(t, tt.code, loadErr.Code)
		})
	}
}

func TestModelFieldConfig(t *testing.T) {
	m := Model{
		Name:       "p",
		Table:      "products",
		Searchable: []string{"name"},
		Weights:    map[string]int{"name": 2},
		Filterable: []string{"price", "author.name"},
		Relations:  map[string]Relation{"author": {Table: "authors", LocalKey: "author_id", ForeignKey: "id"}},
	}

	cfg := m.FieldConfig()
	assert.Equal(t, []string{"name"}, cfg.Searchable)
	assert.Equal(t, 2, cfg.Weights["name"])
	assert.True(t, cfg.Filterable.Allows("price"))
	assert.True(t, cfg.Filterable.Allows("author.id"))
	assert.False(t, cfg.Filterable.Allows("stock"))
	assert.True(t, cfg.Resolves("author.name"))
	assert.False(t, cfg.Resolves("price.amount"))

	bare := Model{Name: "q", Table: "q"}.FieldConfig()
	assert.Nil(t, bare.Filterable)
	assert.False(t, bare.Resolves("author.name"), "a model without relations resolves no dotted path")
}

func TestModelTarget(t *testing.T) {
	m := Model{
		Table:     "products",
		Relations: map[string]Relation{"author": {Table: "authors", LocalKey: "author_id", ForeignKey: "id"}},
	}
	assert.Equal(t, querysql.Target{
		Table:     "products",
		Relations: map[string]querysql.Relation{"author": {Table: "authors", LocalKey: "author_id", ForeignKey: "id"}},
	}, m.Target())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cue, err := os.ReadFile("testdata/cue/models.cue")
	require.NoError(t, err)
	yml, err := os.ReadFile("testdata/yaml/models.yaml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models.cue"), cue, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "more.yaml"), yml, 0o644))

	reg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"articles", "authors", "products"}, reg.Names())

	m, ok := reg.Get("articles")
	require.True(t, ok)
	assert.Equal(t, "articles", m.Table)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestLoadSingleFile(t *testing.T) {
	reg, err := Load("testdata/yaml/models.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"articles"}, reg.Names())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("testdata/nope")
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)

	_, err = Load(t.TempDir())
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(Model{Name: "a", Table: "a"}, Model{Name: "a", Table: "b"})
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeDuplicateModel, loadErr.Code)
}

func TestModelEmbed(t *testing.T) {
	m := Model{
		Name:  "products",
		Table: "products",
		Relations: map[string]Relation{
			"author":  {Table: "authors", LocalKey: "author_id", ForeignKey: "id"},
			"reviews": {Table: "reviews", LocalKey: "id", ForeignKey: "product_id"},
		},
	}
	tables := map[string][]ir.IRObject{
		"products": {
			{"id": ir.IRInt(1), "author_id": ir.IRInt(7)},
			{"id": ir.IRInt(2), "author_id": ir.IRNull{}},
		},
		"authors": {{"id": ir.IRInt(7), "name": ir.IRString("Ann")}},
		"reviews": {
			{"product_id": ir.IRInt(1), "rating": ir.IRInt(5)},
			{"product_id": ir.IRInt(1), "rating": ir.IRInt(2)},
		},
	}

	got := m.Embed(tables)
	require.Len(t, got, 2)
	assert.Equal(t, ir.IRArray{ir.IRObject{"id": ir.IRInt(7), "name": ir.IRString("Ann")}}, got[0]["author"])
	assert.Len(t, got[0]["reviews"], 2)
	assert.Equal(t, ir.IRArray{}, got[1]["author"])
	assert.Equal(t, ir.IRArray{}, got[1]["reviews"])
	assert.NotContains(t, tables["products"][0], "author")
}
