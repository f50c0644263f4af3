// Package helpers provides conversions between Terraform framework values and
// plain Go values for the provider's functions and data source.
package helpers

import (
	"context"
	"fmt"
	"math"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/types"
)

// TerraformValueToGo converts various Terraform attr.Value types to Go values.
// It recursively handles lists, maps, objects, sets and tuples. Whole numbers
// become int64, other numbers float64. Returns nil for null values and an
// error for unknown values.
func TerraformValueToGo(ctx context.Context, value attr.Value) (any, error) {
	if value.IsNull() {
		return nil, nil
	}
	if value.IsUnknown() {
		return nil, fmt.Errorf("cannot process unknown values")
	}

	switch v := value.(type) {
	case types.String:
		return v.ValueString(), nil
	case types.Int64:
		return v.ValueInt64(), nil
	case types.Float64:
		return v.ValueFloat64(), nil
	case types.Bool:
		return v.ValueBool(), nil
	case types.Number:
		bigFloat := v.ValueBigFloat()
		if bigFloat == nil {
			return nil, fmt.Errorf("number value is nil")
		}
		if bigFloat.IsInt() {
			if i, accuracy := bigFloat.Int64(); accuracy == 0 {
				return i, nil
			}
		}
		floatVal, _ := bigFloat.Float64()
		return floatVal, nil
	case types.List:
		return elementsToGo(ctx, v.Elements())
	case types.Set:
		return elementsToGo(ctx, v.Elements())
	case types.Tuple:
		return elementsToGo(ctx, v.Elements())
	case types.Map:
		return attributesToGo(ctx, v.Elements())
	case types.Object:
		return attributesToGo(ctx, v.Attributes())
	case types.Dynamic:
		return TerraformValueToGo(ctx, v.UnderlyingValue())
	default:
		return nil, fmt.Errorf("unsupported type: %T", value)
	}
}

func elementsToGo(ctx context.Context, elements []attr.Value) ([]any, error) {
	result := make([]any, len(elements))
	for i, elem := range elements {
		goVal, err := TerraformValueToGo(ctx, elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		result[i] = goVal
	}
	return result, nil
}

func attributesToGo(ctx context.Context, attributes map[string]attr.Value) (map[string]any, error) {
	result := make(map[string]any, len(attributes))
	for name, val := range attributes {
		goVal, err := TerraformValueToGo(ctx, val)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		result[name] = goVal
	}
	return result, nil
}

// DynamicValueToMap converts a Terraform dynamic value holding an object or a
// map to a Go map. Returns an error if the value is null, unknown, or of any
// other type.
func DynamicValueToMap(ctx context.Context, value types.Dynamic) (map[string]any, error) {
	if value.IsNull() || value.IsUnknown() || value.IsUnderlyingValueNull() || value.IsUnderlyingValueUnknown() {
		return nil, fmt.Errorf("value cannot be null or unknown")
	}

	switch v := value.UnderlyingValue().(type) {
	case types.Object:
		return attributesToGo(ctx, v.Attributes())
	case types.Map:
		return attributesToGo(ctx, v.Elements())
	default:
		return nil, fmt.Errorf("expected object or map value, got %T", v)
	}
}

// GoValueToTerraform converts Go values back to Terraform attr.Value types.
// Maps become objects and slices become tuples, so heterogeneous values
// convert without a common element type.
func GoValueToTerraform(ctx context.Context, value any) (attr.Value, error) {
	if value == nil {
		return types.StringNull(), nil
	}

	switch v := value.(type) {
	case string:
		return types.StringValue(v), nil
	case int:
		return types.Int64Value(int64(v)), nil
	case int64:
		return types.Int64Value(v), nil
	case float64:
		return types.Float64Value(v), nil
	case bool:
		return types.BoolValue(v), nil
	case []string:
		return StringListValue(v), nil
	case map[string]any:
		attrTypes := make(map[string]attr.Type, len(v))
		attrValues := make(map[string]attr.Value, len(v))
		for key, val := range v {
			terraformVal, err := GoValueToTerraform(ctx, val)
			if err != nil {
				return nil, fmt.Errorf("failed to convert map element %s: %w", key, err)
			}
			attrValues[key] = terraformVal
			attrTypes[key] = terraformVal.Type(ctx)
		}
		return types.ObjectValueMust(attrTypes, attrValues), nil
	case []any:
		elements := make([]attr.Value, len(v))
		elementTypes := make([]attr.Type, len(v))
		for i, val := range v {
			terraformVal, err := GoValueToTerraform(ctx, val)
			if err != nil {
				return nil, fmt.Errorf("failed to convert list element %d: %w", i, err)
			}
			elements[i] = terraformVal
			elementTypes[i] = terraformVal.Type(ctx)
		}
		return types.TupleValueMust(elementTypes, elements), nil
	default:
		return nil, fmt.Errorf("unsupported Go type for conversion: %T", value)
	}
}

// StringListValue returns a known list of strings. A nil slice yields an
// empty list rather than null.
func StringListValue(values []string) types.List {
	elements := make([]attr.Value, len(values))
	for i, v := range values {
		elements[i] = types.StringValue(v)
	}
	return types.ListValueMust(types.StringType, elements)
}

// StringField returns m[key] as a string. A missing or null key reports
// ok=false.
func StringField(m map[string]any, key string) (value string, ok bool, err error) {
	raw, exists := m[key]
	if !exists || raw == nil {
		return "", false, nil
	}
	s, isString := raw.(string)
	if !isString {
		return "", false, fmt.Errorf("%s must be a string, got %T", key, raw)
	}
	return s, true, nil
}

// BoolField returns m[key] as a bool. A missing or null key reports ok=false.
func BoolField(m map[string]any, key string) (value bool, ok bool, err error) {
	raw, exists := m[key]
	if !exists || raw == nil {
		return false, false, nil
	}
	b, isBool := raw.(bool)
	if !isBool {
		return false, false, fmt.Errorf("%s must be a bool, got %T", key, raw)
	}
	return b, true, nil
}

// IntField returns m[key] as a whole number. A missing or null key reports
// ok=false.
func IntField(m map[string]any, key string) (value int64, ok bool, err error) {
	raw, exists := m[key]
	if !exists || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case int64:
		return v, true, nil
	case int:
		return int64(v), true, nil
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
			return 0, false, fmt.Errorf("%s must be a whole number, got %v", key, v)
		}
		return int64(v), true, nil
	default:
		return 0, false, fmt.Errorf("%s must be a number, got %T", key, raw)
	}
}

// StringSliceField returns m[key] as a slice of strings. A single string is
// accepted as a one-element slice.
func StringSliceField(m map[string]any, key string) (value []string, ok bool, err error) {
	raw, exists := m[key]
	if !exists || raw == nil {
		return nil, false, nil
	}
	switch v := raw.(type) {
	case string:
		return []string{v}, true, nil
	case []string:
		return v, true, nil
	case []any:
		result := make([]string, len(v))
		for i, elem := range v {
			s, isString := elem.(string)
			if !isString {
				return nil, false, fmt.Errorf("%s[%d] must be a string, got %T", key, i, elem)
			}
			result[i] = s
		}
		return result, true, nil
	default:
		return nil, false, fmt.Errorf("%s must be a list of strings, got %T", key, raw)
	}
}

// ObjectSliceField returns m[key] as a slice of objects.
func ObjectSliceField(m map[string]any, key string) (value []map[string]any, ok bool, err error) {
	raw, exists := m[key]
	if !exists || raw == nil {
		return nil, false, nil
	}
	list, isList := raw.([]any)
	if !isList {
		return nil, false, fmt.Errorf("%s must be a list of objects, got %T", key, raw)
	}
	result := make([]map[string]any, len(list))
	for i, elem := range list {
		obj, isObject := elem.(map[string]any)
		if !isObject {
			return nil, false, fmt.Errorf("%s[%d] must be an object, got %T", key, i, elem)
		}
		result[i] = obj
	}
	return result, true, nil
}
