package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// yamlFile is the top-level shape of a YAML model descriptor.
type yamlFile struct {
	Models map[string]Model `yaml:"models"`
}

// ParseYAML decodes models from YAML. Unknown keys are rejected.
//
//	models:
//	  products:
//	    table: products
//	    searchable: [name]
func ParseYAML(data []byte) ([]Model, error) {
	var file yamlFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("decode YAML: %v", err)}
	}

	names := make([]string, 0, len(file.Models))
	for name := range file.Models {
		names = append(names, name)
	}
	sort.Strings(names)

	models := make([]Model, 0, len(names))
	for _, name := range names {
		m := file.Models[name]
		m.Name = name
		for relName, rel := range m.Relations {
			if rel.LocalKey == "" {
				rel.LocalKey = "id"
				m.Relations[relName] = rel
			}
		}
		models = append(models, m)
	}
	return models, nil
}
