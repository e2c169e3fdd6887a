package aspectlog

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Limits for formatValue. Deeper or longer values are elided.
const (
	maxFormatDepth    = 10
	maxFormatElements = 10
)

// formatPool is a buffer pool for argument and result rendering.
var formatPool = sync.Pool{
	New: func() interface{} {
		return new(strings.Builder)
	},
}

// formatArgs renders an argument list as "[a, b, c]".
func formatArgs(args []any) string {
	if args == nil {
		args = []any{}
	}
	return formatValue(args)
}

// formatValue renders v for a human-readable log line. Structs show their
// exported fields, maps are sorted by key, and slices are truncated.
// Pointer cycles render as <circular reference>.
func formatValue(v interface{}) string {
	buf := formatPool.Get().(*strings.Builder)
	buf.Reset()
	defer formatPool.Put(buf)

	writeValue(buf, v, make(map[uintptr]bool), 0)
	return buf.String()
}

func writeValue(buf *strings.Builder, v interface{}, visited map[uintptr]bool, depth int) {
	if depth > maxFormatDepth {
		buf.WriteString("<max depth reached>")
		return
	}
	if v == nil {
		buf.WriteString("<nil>")
		return
	}

	// A typed nil pointer renders as <nil> before any method is called on it.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
		buf.WriteString("<nil>")
		return
	}

	switch t := v.(type) {
	case string:
		buf.WriteString(t)
		return
	case error:
		writeMethod(buf, "Error", t.Error)
		return
	case fmt.Stringer:
		writeMethod(buf, "String", t.String)
		return
	}

	val := reflect.ValueOf(v)

	// Unwrap interfaces and pointers, with cycle detection.
	for val.Kind() == reflect.Interface || val.Kind() == reflect.Ptr {
		if val.IsNil() {
			buf.WriteString("<nil>")
			return
		}
		if val.Kind() == reflect.Ptr {
			ptr := val.Pointer()
			if visited[ptr] {
				buf.WriteString("<circular reference>")
				return
			}
			visited[ptr] = true
			defer delete(visited, ptr)
		}
		val = val.Elem()
	}

	typ := val.Type()

	switch val.Kind() {
	case reflect.Struct:
		buf.WriteString(typ.Name())
		buf.WriteByte('{')
		first := true
		for i := 0; i < val.NumField(); i++ {
			fieldVal := val.Field(i)
			// Skip unexported fields
			if !fieldVal.CanInterface() {
				continue
			}
			if !first {
				buf.WriteString(", ")
			}
			first = false
			buf.WriteString(typ.Field(i).Name)
			buf.WriteByte(':')
			writeValue(buf, fieldVal.Interface(), visited, depth+1)
		}
		buf.WriteByte('}')

	case reflect.Map:
		if val.IsNil() {
			buf.WriteString("<nil>")
			return
		}
		keys := val.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		buf.WriteString("map[")
		for i, k := range keys {
			if i == maxFormatElements {
				fmt.Fprintf(buf, ", ... (%d more)", len(keys)-maxFormatElements)
				break
			}
			if i > 0 {
				buf.WriteString(", ")
			}
			writeValue(buf, k.Interface(), visited, depth+1)
			buf.WriteByte(':')
			writeValue(buf, val.MapIndex(k).Interface(), visited, depth+1)
		}
		buf.WriteByte(']')

	case reflect.Slice, reflect.Array:
		if val.Kind() == reflect.Slice && typ.Elem().Kind() == reflect.Uint8 {
			fmt.Fprintf(buf, "%q", val.Bytes())
			return
		}
		buf.WriteByte('[')
		for i := 0; i < val.Len(); i++ {
			if i == maxFormatElements {
				fmt.Fprintf(buf, ", ... (%d more)", val.Len()-maxFormatElements)
				break
			}
			if i > 0 {
				buf.WriteString(", ")
			}
			elem := val.Index(i)
			if elem.CanInterface() {
				writeValue(buf, elem.Interface(), visited, depth+1)
			} else {
				buf.WriteString("<unexported>")
			}
		}
		buf.WriteByte(']')

	default:
		if val.CanInterface() {
			fmt.Fprintf(buf, "%v", val.Interface())
		} else {
			fmt.Fprintf(buf, "%v", v)
		}
	}
}

// writeMethod writes the result of an Error or String method. A panicking
// method is rendered the way fmt does instead of escaping the formatter.
func writeMethod(buf *strings.Builder, name string, fn func() string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(buf, "%%!v(PANIC=%s method: %v)", name, r)
		}
	}()
	buf.WriteString(fn())
}
