// Package schema loads model field configurations.
//
// A model declares which of its fields are searchable (with optional
// relevance weights), which are filterable, and how related tables join.
// Models are written in CUE or YAML:
//
//	model: products: {
//		table:      "products"
//		searchable: ["name", "author.name"]
//		weights:    {name: 3}
//		filterable: ["id", "price", "created_at", "author.name"]
//		relations: author: {table: "authors", local_key: "author_id", foreign_key: "id"}
//	}
package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/sieve/internal/fields"
	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/querysql"
)

// Relation declares how a related table joins to the model table.
type Relation struct {
	Table      string `json:"table" yaml:"table" validate:"required,ident"`
	LocalKey   string `json:"local_key" yaml:"local_key" validate:"required,ident"`
	ForeignKey string `json:"foreign_key" yaml:"foreign_key" validate:"required,ident"`
}

// Model is one model's field configuration.
//
// A nil Filterable permits every field; an empty list permits none.
type Model struct {
	Name       string              `json:"-" yaml:"-" validate:"required,ident"`
	Table      string              `json:"table" yaml:"table" validate:"required,ident"`
	Searchable []string            `json:"searchable,omitempty" yaml:"searchable" validate:"dive,field"`
	Weights    map[string]int      `json:"weights,omitempty" yaml:"weights" validate:"dive,keys,field,endkeys,min=0"`
	Filterable []string            `json:"filterable,omitempty" yaml:"filterable" validate:"omitnil,dive,field"`
	Relations  map[string]Relation `json:"relations,omitempty" yaml:"relations" validate:"dive,keys,ident,endkeys,required"`
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("ident", func(fl validator.FieldLevel) bool {
		return identPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("field", func(fl validator.FieldLevel) bool {
		return filter.ValidField(fl.Field().String())
	})
	return v
}

// Validate checks field shapes and that every dotted field names a
// declared relation.
func (m Model) Validate() error {
	if err := validate.Struct(m); err != nil {
		return &LoadError{Code: ErrCodeInvalidModel, Message: fmt.Sprintf("model %q: %v", m.Name, err)}
	}

	check := func(kind string, names []string) error {
		for _, name := range names {
			if rel, _, dotted := strings.Cut(name, "."); dotted {
				if _, ok := m.Relations[rel]; !ok {
					return &LoadError{
						Code:    ErrCodeUnknownRelation,
						Message: fmt.Sprintf("model %q: %s field %q uses undeclared relation %q", m.Name, kind, name, rel),
					}
				}
			}
		}
		return nil
	}
	if err := check("searchable", m.Searchable); err != nil {
		return err
	}
	if err := check("filterable", m.Filterable); err != nil {
		return err
	}
	weighted := make([]string, 0, len(m.Weights))
	for name := range m.Weights {
		weighted = append(weighted, name)
	}
	sort.Strings(weighted)
	return check("weighted", weighted)
}

// FieldConfig returns the compiler's view of the model.
func (m Model) FieldConfig() fields.Config {
	cfg := fields.Config{
		Searchable: append([]string(nil), m.Searchable...),
		Weights:    make(map[string]int, len(m.Weights)),
	}
	for k, v := range m.Weights {
		cfg.Weights[k] = v
	}
	if m.Filterable != nil {
		cfg.Filterable = fields.NewWhitelist(m.Filterable...)
	}
	relations := make([]string, 0, len(m.Relations))
	for name := range m.Relations {
		relations = append(relations, name)
	}
	cfg.Relations = fields.NewWhitelist(relations...)
	return cfg
}

// Target returns the SQL compilation target for the model.
func (m Model) Target() querysql.Target {
	t := querysql.Target{Table: m.Table, Relations: make(map[string]querysql.Relation, len(m.Relations))}
	for name, r := range m.Relations {
		t.Relations[name] = querysql.Relation{Table: r.Table, LocalKey: r.LocalKey, ForeignKey: r.ForeignKey}
	}
	return t
}

// Registry holds models by name.
type Registry struct {
	models map[string]Model
}

// NewRegistry validates models and indexes them by name.
func NewRegistry(models ...Model) (*Registry, error) {
	r := &Registry{models: make(map[string]Model, len(models))}
	for _, m := range models {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.models[m.Name]; dup {
			return nil, &LoadError{Code: ErrCodeDuplicateModel, Message: fmt.Sprintf("model %q declared twice", m.Name)}
		}
		r.models[m.Name] = m
	}
	return r, nil
}

// Get returns the named model.
func (r *Registry) Get(name string) (Model, bool) {
	if r == nil {
		return Model{}, false
	}
	m, ok := r.models[name]
	return m, ok
}

// Names returns the model names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
