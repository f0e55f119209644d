// Package callfmt renders intercepted calls as readable call signatures.
package callfmt

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/gogpu/gltrace/gl"
	"github.com/gogpu/gltrace/internal/symbols"
)

// ShowNumbersFunc reports whether numeric argument i of function name must
// be printed literally instead of as "num".
type ShowNumbersFunc func(name string, i int) bool

// Formatter turns a function name and its arguments into a call signature
// such as `gl.BindBuffer(gl.ARRAY_BUFFER, Buffer#1)`.
//
// Output depends only on the registry contents at the time of the call.
type Formatter struct {
	Symbols     *symbols.Registry
	Prefix      string
	ShowNumbers ShowNumbersFunc
}

// Format returns the call signature for name(args...).
func (f *Formatter) Format(name string, args []any) string {
	var b strings.Builder
	b.WriteString(f.Prefix)
	b.WriteString(name)
	b.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Arg(name, i, arg))
	}
	b.WriteByte(')')
	return b.String()
}

// Arg renders argument i of a call to name.
//
// Precedence: registered handle name, constant name, "num" for numbers
// outside the show-numbers list, "elem[len]" for slices and arrays, the type
// name for other composite values, JSON text for everything else.
func (f *Formatter) Arg(name string, i int, x any) string {
	if h, ok := x.(gl.Handle); ok && f.Symbols != nil {
		if sym, ok := f.Symbols.Name(h); ok {
			return sym
		}
	}
	if f.Symbols != nil {
		if c, ok := f.Symbols.Constant(x); ok {
			return c
		}
	}
	if IsNull(x) {
		return "null"
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		if f.ShowNumbers == nil || !f.ShowNumbers(name, i) {
			return "num"
		}
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("%s[%d]", typeName(rv.Type().Elem()), rv.Len())
	case reflect.Pointer:
		return typeName(rv.Type().Elem())
	case reflect.Struct, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface:
		return typeName(rv.Type())
	}

	out, err := json.Marshal(x)
	if err != nil {
		return fmt.Sprint(x)
	}
	return string(out)
}

// IsNull reports whether x is the API's null: an untyped nil or a nil
// pointer, slice, map, func, channel or interface.
func IsNull(x any) bool {
	if x == nil {
		return true
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func typeName(t reflect.Type) string {
	if n := t.Name(); n != "" {
		return n
	}
	return t.String()
}
