package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Load builds a registry from the model descriptors in path.
//
// path may be a directory or a single file. A directory loads its CUE
// package (if it has .cue files) plus every .yaml/.yml file.
func Load(path string) (*Registry, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("models path not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing models path: %v", err)}
	}

	if !info.IsDir() {
		models, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		return NewRegistry(models...)
	}

	cueFiles, yamlFiles, err := findModelFiles(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 && len(yamlFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no model files found in %s", path)}
	}

	var models []Model
	if len(cueFiles) > 0 {
		cueModels, err := LoadCUE(path)
		if err != nil {
			return nil, err
		}
		models = append(models, cueModels...)
	}
	for _, f := range yamlFiles {
		yamlModels, err := loadFile(f)
		if err != nil {
			return nil, err
		}
		models = append(models, yamlModels...)
	}
	return NewRegistry(models...)
}

func loadFile(path string) ([]Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("read %s: %v", path, err)}
	}
	switch filepath.Ext(path) {
	case ".cue":
		return ParseCUE(path, data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("unsupported model file: %s", path)}
	}
}

// findModelFiles lists the top-level model files in dir, sorted.
func findModelFiles(dir string) (cueFiles, yamlFiles []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		switch filepath.Ext(p) {
		case ".cue":
			cueFiles = append(cueFiles, p)
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, p)
		}
	}
	sort.Strings(cueFiles)
	sort.Strings(yamlFiles)
	return cueFiles, yamlFiles, nil
}
