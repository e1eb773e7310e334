// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package fieldpath

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Normalize converts v into the data model understood by [Path].
//
// Maps are converted to map[string]any, with non-string keys formatted
// using fmt, and slices and arrays are converted to []any. The conversion
// is applied recursively. Values which are already map[string]any or []any
// are only copied if one of their descendants needed converting. Every
// other value, including structs, is returned as is.
func Normalize(v any) any {
	out, _ := normalize(v)
	return out
}

func normalize(v any) (any, bool) {
	switch x := v.(type) {
	case nil, string, bool, float64, float32, int, int64, int32, uint, uint64, []byte:
		return v, false
	case map[string]any:
		var out map[string]any
		for k, child := range x {
			nc, changed := normalize(child)
			if !changed {
				continue
			}
			if out == nil {
				out = maps.Clone(x)
			}
			out[k] = nc
		}
		if out == nil {
			return x, false
		}
		return out, true
	case []any:
		var out []any
		for i, child := range x {
			nc, changed := normalize(child)
			if !changed {
				continue
			}
			if out == nil {
				out = slices.Clone(x)
			}
			out[i] = nc
		}
		if out == nil {
			return x, false
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return nil, true
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			var key string
			if k.Kind() == reflect.String {
				key = k.String()
			} else {
				key = fmt.Sprint(k.Interface())
			}
			out[key], _ = normalize(iter.Value().Interface())
		}
		return out, true
	case reflect.Slice:
		if rv.IsNil() {
			return nil, true
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			out[i], _ = normalize(rv.Index(i).Interface())
		}
		return out, true
	default:
		return v, false
	}
}
