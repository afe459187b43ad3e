package refinement

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/jrbp/p4vasp/application/config"
)

// Quantity is embedded in data wrappers to provide metadata.
// Tag format: `name:"dos" desc:"Density of states"`
type Quantity struct{}

// Op is a field type for declaring refinements.
// Tag format: `method:"Read" desc:"Refinement description"`
type Op struct{}

var (
	quantityType = reflect.TypeOf(Quantity{})
	opType       = reflect.TypeOf(Op{})
	ctxType      = reflect.TypeOf((*context.Context)(nil)).Elem()
	optionsType  = reflect.TypeOf(config.Options(nil))
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

// MustRegister registers a quantity or panics.
func MustRegister(def *Definition, q any) {
	if err := Register(def, q); err != nil {
		panic(fmt.Sprintf("failed to register quantity: %v", err))
	}
}

// Register binds all refinements declared on a data wrapper.
func Register(def *Definition, q any) error {
	qType := reflect.TypeOf(q)
	qValue := reflect.ValueOf(q)

	if qType == nil || qType.Kind() != reflect.Ptr || qType.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("quantity must be a pointer to struct, got %T", q)
	}
	structType := qType.Elem()

	name, desc, err := extractQuantityMetadata(structType)
	if err != nil {
		return err
	}

	ops, err := extractOperations(structType)
	if err != nil {
		return fmt.Errorf("quantity %s: %w", name, err)
	}

	handlers := make([]HandlerFunc, len(ops))
	for i, op := range ops {
		method := qValue.MethodByName(op.methodName)
		if !method.IsValid() {
			return fmt.Errorf("quantity %s: no method %s for refinement %s (field %s)",
				name, op.methodName, op.name, op.fieldName)
		}

		handler, err := wrapMethod(method)
		if err != nil {
			return fmt.Errorf("quantity %s, refinement %s: %w", name, op.name, err)
		}
		handlers[i] = handler
	}

	// nothing is registered unless every refinement binds
	for i, op := range ops {
		def.RegisterHandler(name, desc, op.name, op.description, q, handlers[i])
	}

	return nil
}

// extractQuantityMetadata finds the embedded Quantity field and parses its tags.
func extractQuantityMetadata(t reflect.Type) (name, desc string, err error) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Type == quantityType {
			name = field.Tag.Get("name")
			desc = field.Tag.Get("desc")
			if name == "" {
				return "", "", fmt.Errorf("Quantity field missing 'name' tag")
			}
			return name, desc, nil
		}
	}
	return "", "", fmt.Errorf("struct %s must embed refinement.Quantity", t.Name())
}

type opInfo struct {
	fieldName   string
	methodName  string
	name        string // snake_case refinement name
	description string
}

// extractOperations finds all Op fields and extracts their metadata.
// Field names end in "Op" by convention; the suffix is dropped from the refinement name.
func extractOperations(t reflect.Type) ([]opInfo, error) {
	var ops []opInfo

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Type != opType {
			continue
		}
		methodName := field.Tag.Get("method")
		if methodName == "" {
			return nil, fmt.Errorf("field %s missing 'method' tag", field.Name)
		}
		name := field.Tag.Get("name")
		if name == "" {
			name = toSnakeCase(strings.TrimSuffix(field.Name, "Op"))
		}

		ops = append(ops, opInfo{
			fieldName:   field.Name,
			methodName:  methodName,
			name:        name,
			description: field.Tag.Get("desc"),
		})
	}

	if len(ops) == 0 {
		return nil, fmt.Errorf("no refinements (no Op fields)")
	}

	return ops, nil
}

// wrapMethod wraps a reflected method as a HandlerFunc.
func wrapMethod(method reflect.Value) (HandlerFunc, error) {
	methodType := method.Type()

	// Expected signature: func(ctx context.Context, opts config.Options) (T, error)
	if methodType.NumIn() != 2 || methodType.NumOut() != 2 {
		return nil, fmt.Errorf("method must have signature (context.Context, config.Options) (T, error)")
	}
	if !methodType.In(0).Implements(ctxType) {
		return nil, fmt.Errorf("first parameter must be context.Context")
	}
	if methodType.In(1) != optionsType {
		return nil, fmt.Errorf("second parameter must be config.Options")
	}
	if !methodType.Out(1).Implements(errorType) {
		return nil, fmt.Errorf("second return value must be error")
	}

	return func(ctx context.Context, opts config.Options) (any, error) {
		results := method.Call([]reflect.Value{
			reflect.ValueOf(&ctx).Elem(),
			reflect.ValueOf(&opts).Elem(),
		})

		var err error
		if !results[1].IsNil() {
			err = results[1].Interface().(error)
		}
		return results[0].Interface(), err
	}, nil
}

var (
	matchFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
	matchAllCap   = regexp.MustCompile("([a-z0-9])([A-Z])")
)

// toSnakeCase converts PascalCase to snake_case.
func toSnakeCase(str string) string {
	snake := matchFirstCap.ReplaceAllString(str, "${1}_${2}")
	snake = matchAllCap.ReplaceAllString(snake, "${1}_${2}")
	return strings.ToLower(snake)
}
