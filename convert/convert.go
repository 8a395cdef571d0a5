package convert

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

var ctyValueType = reflect.TypeOf(cty.Value{})

// GoToCtyValue converts a go value into a cty.Value. Attribute names are
// taken from the `hcl` struct tags so that converted resources can be
// referenced from expressions using the same names they are written with in
// the config. Fields from embedded structs are merged into the parent
// object.
func GoToCtyValue(val interface{}) (cty.Value, error) {
	return toCty(reflect.ValueOf(val))
}

// CtyToGo converts a cty.Value into the given go type
func CtyToGo(val cty.Value, target interface{}) error {
	return gocty.FromCtyValue(val, target)
}

func toCty(v reflect.Value) (cty.Value, error) {
	if !v.IsValid() {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}

	// cty values pass straight through
	if v.Type() == ctyValueType {
		cv := v.Interface().(cty.Value)
		if cv.Type() == cty.NilType {
			return cty.NullVal(cty.DynamicPseudoType), nil
		}

		return cv, nil
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return cty.NullVal(cty.DynamicPseudoType), nil
		}

		return toCty(v.Elem())

	case reflect.String:
		return cty.StringVal(v.String()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cty.NumberIntVal(v.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cty.NumberUIntVal(v.Uint()), nil

	case reflect.Float32, reflect.Float64:
		return cty.NumberFloatVal(v.Float()), nil

	case reflect.Bool:
		return cty.BoolVal(v.Bool()), nil

	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return cty.EmptyTupleVal, nil
		}

		vals := make([]cty.Value, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			cv, err := toCty(v.Index(i))
			if err != nil {
				return cty.NilVal, err
			}

			vals = append(vals, cv)
		}

		return cty.TupleVal(vals), nil

	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return cty.NilVal, fmt.Errorf("unable to convert map with %s keys to a cty value", v.Type().Key().Kind())
		}

		if v.Len() == 0 {
			return cty.EmptyObjectVal, nil
		}

		attrs := map[string]cty.Value{}
		iter := v.MapRange()
		for iter.Next() {
			cv, err := toCty(iter.Value())
			if err != nil {
				return cty.NilVal, err
			}

			attrs[iter.Key().String()] = cv
		}

		return cty.ObjectVal(attrs), nil

	case reflect.Struct:
		attrs, err := structToCty(v)
		if err != nil {
			return cty.NilVal, err
		}

		if len(attrs) == 0 {
			return cty.EmptyObjectVal, nil
		}

		return cty.ObjectVal(attrs), nil
	}

	return cty.NilVal, fmt.Errorf("unable to convert %s to a cty value", v.Kind())
}

func structToCty(v reflect.Value) (map[string]cty.Value, error) {
	attrs := map[string]cty.Value{}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		// skip unexported fields
		if f.PkgPath != "" {
			continue
		}

		name := strings.Split(f.Tag.Get("hcl"), ",")[0]

		// merge the attributes of embedded types like ResourceBase into the
		// parent object
		if f.Anonymous && name == "" {
			sub, err := structToCty(v.Field(i))
			if err != nil {
				return nil, err
			}

			for k, val := range sub {
				attrs[k] = val
			}

			continue
		}

		// computed only fields have no hcl tag, fall back to the json tag
		if name == "" {
			name = strings.Split(f.Tag.Get("json"), ",")[0]
		}

		if name == "" || name == "-" {
			continue
		}

		val, err := toCty(v.Field(i))
		if err != nil {
			return nil, fmt.Errorf("unable to convert field %s: %w", f.Name, err)
		}

		attrs[name] = val
	}

	return attrs, nil
}
