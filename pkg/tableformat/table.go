package tableformat

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/schema"
)

// AttrGetter is implemented by records that resolve attributes themselves,
// such as columnar.RowView
type AttrGetter interface {
	Attr(name string) (any, bool)
}

// PrintTable writes attrs as the headings, then one row per record holding
// each record's value for every attribute. f must be a usable formatter; nil
// and typed-nil values are configuration errors.
func PrintTable[T any](records []T, attrs []string, f Formatter) error {
	if isNil(f) {
		return errors.New(errors.ErrorTypeConfig, "expected a table formatter").
			WithDetail("formatter", fmt.Sprintf("%T", f))
	}

	if err := f.Headings(attrs); err != nil {
		return err
	}
	for i, rec := range records {
		values := make([]any, len(attrs))
		for j, name := range attrs {
			v, err := Attr(rec, name)
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeData, "cannot render record").
					WithDetail("index", i)
			}
			values[j] = v
		}
		if err := f.Row(values); err != nil {
			return err
		}
	}
	return nil
}

// Attr looks up one attribute of rec. Maps are indexed by key, AttrGetters
// are asked directly, and structs resolve to an exported field (matched by its
// `table` tag or case-insensitively by name) or an exported zero-argument
// method returning one value.
func Attr(rec any, name string) (any, error) {
	switch r := rec.(type) {
	case schema.Record:
		if v, ok := r[name]; ok {
			return v, nil
		}
	case map[string]any:
		if v, ok := r[name]; ok {
			return v, nil
		}
	case AttrGetter:
		if v, ok := r.Attr(name); ok {
			return v, nil
		}
	default:
		if v, ok := reflectAttr(reflect.ValueOf(rec), name); ok {
			return v, nil
		}
	}
	return nil, errors.New(errors.ErrorTypeData, "record has no such attribute").
		WithDetail("attribute", name).
		WithDetail("record", fmt.Sprintf("%T", rec))
}

func reflectAttr(v reflect.Value, name string) (any, bool) {
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return nil, false
	}
	if m, ok := method(v, name); ok {
		return m, true
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if tag, ok := sf.Tag.Lookup("table"); ok {
			if tag == name {
				return v.Field(i).Interface(), true
			}
			continue
		}
		if strings.EqualFold(sf.Name, name) {
			return v.Field(i).Interface(), true
		}
	}
	return method(v, name)
}

func method(v reflect.Value, name string) (any, bool) {
	t := v.Type()
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if !strings.EqualFold(m.Name, name) {
			continue
		}
		mt := m.Type
		// receiver is the only input
		if mt.NumIn() != 1 || mt.NumOut() != 1 {
			return nil, false
		}
		return v.Method(i).Call(nil)[0].Interface(), true
	}
	return nil, false
}

func isNil(f Formatter) bool {
	if f == nil {
		return true
	}
	v := reflect.ValueOf(f)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
