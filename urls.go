package shelterapi

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// URLWithParams appends params to base as a query string, skipping unset
// values. When nothing is left to encode base is returned unchanged.
func URLWithParams(base string, params Params) string {
	return encodeParams(base, params, true)
}

// URLWithAllParams is URLWithParams without the unset filter; unset values
// are encoded with an empty value.
func URLWithAllParams(base string, params Params) string {
	return encodeParams(base, params, false)
}

func encodeParams(base string, params Params, excludeUnset bool) string {
	var b strings.Builder
	n := 0
	for _, p := range params {
		unset := isUnset(p.Value)
		if unset && excludeUnset {
			continue
		}
		if n > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		if !unset {
			b.WriteString(url.QueryEscape(stringify(p.Value)))
		}
		n++
	}

	if n == 0 {
		return base
	}
	return base + "?" + b.String()
}

func isUnset(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// stringify renders a param or form value. Types cast does not know, such
// as named numeric types, are formatted by kind; anything else falls back
// to fmt.
func stringify(v any) string {
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	}
	return fmt.Sprint(rv.Interface())
}
