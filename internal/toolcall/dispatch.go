package toolcall

import (
	"context"
	"fmt"

	"github.com/braid-labs/braid/internal/manifest"
)

// Dispatch looks up a tool, validates the arguments against its declared
// inputs (required fields present, declared types respected, defaults
// applied), and invokes it.
func Dispatch(ctx context.Context, reg *Registry, name string, args map[string]any) (*Result, error) {
	tool, err := reg.Get(name)
	if err != nil {
		return nil, err
	}

	validated, err := validateArgs(tool.Inputs(), args)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", name, err)
	}

	return tool.Call(ctx, validated)
}

// validateArgs checks args against the declared inputs and returns a copy
// with defaults filled in. Unknown arguments are rejected.
func validateArgs(inputs []manifest.InputField, args map[string]any) (map[string]any, error) {
	declared := make(map[string]manifest.InputField, len(inputs))
	for _, f := range inputs {
		declared[f.Name] = f
	}

	for name := range args {
		if _, ok := declared[name]; !ok {
			return nil, fmt.Errorf("unknown argument %q", name)
		}
	}

	out := make(map[string]any, len(inputs))
	for _, f := range inputs {
		val, present := args[f.Name]
		if !present {
			if f.Required {
				return nil, fmt.Errorf("missing required argument %q", f.Name)
			}
			if f.Default != nil {
				out[f.Name] = f.Default
			}
			continue
		}

		if err := checkType(f, val); err != nil {
			return nil, err
		}
		out[f.Name] = val
	}

	return out, nil
}

// checkType verifies a value matches the declared input type.
func checkType(f manifest.InputField, val any) error {
	ok := true
	switch f.Type {
	case "string":
		_, ok = val.(string)
	case "number":
		switch val.(type) {
		case int, int64, float64:
		default:
			ok = false
		}
	case "boolean":
		_, ok = val.(bool)
	case "object":
		_, ok = val.(map[string]any)
	case "array":
		_, ok = val.([]any)
	}
	if !ok {
		return fmt.Errorf("argument %q must be a %s", f.Name, f.Type)
	}
	return nil
}
