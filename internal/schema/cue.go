package schema

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// modelSchema constrains the "model" struct of every descriptor.
//
//go:embed schema.cue
var modelSchema string

// LoadCUE loads every model declared under "model" in the CUE package in
// dir.
func LoadCUE(dir string) ([]Model, error) {
	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(ErrCodeLoadFailed, inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(ErrCodeBuildFailed, err)
	}
	return decodeModels(ctx, value)
}

// ParseCUE loads models from CUE source text. filename is used in error
// positions.
func ParseCUE(filename string, src []byte) ([]Model, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(ErrCodeBuildFailed, err)
	}
	return decodeModels(ctx, value)
}

// decodeModels checks value against the model schema and decodes each
// model in declaration order.
func decodeModels(ctx *cue.Context, value cue.Value) ([]Model, error) {
	schema := ctx.CompileString(modelSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile model schema: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(ErrCodeBuildFailed, err)
	}

	modelsVal := unified.LookupPath(cue.ParsePath("model"))
	if !modelsVal.Exists() {
		return nil, nil
	}

	iter, err := modelsVal.Fields()
	if err != nil {
		return nil, formatCUEError(ErrCodeBuildFailed, err)
	}

	var models []Model
	for iter.Next() {
		var m Model
		if err := iter.Value().Decode(&m); err != nil {
			return nil, formatCUEError(ErrCodeInvalidModel, err)
		}
		m.Name = iter.Label()
		models = append(models, m)
	}
	return models, nil
}
