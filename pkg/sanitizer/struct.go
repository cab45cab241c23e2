package sanitizer

import (
	"errors"
	"reflect"
	"strings"
)

// ErrNotStructPointer is returned when SanitizeStruct gets anything but a pointer to a struct.
var ErrNotStructPointer = errors.New("sanitizer: target must be a non-nil pointer to a struct")

// Tag values understood by SanitizeStruct.
const (
	TagName   = "sanitize"
	TagStrict = "strict"
	TagSafe   = "safe"
	TagTrim   = "trim"
)

// SanitizeStruct rewrites string fields of the struct pointed to by v
// according to their `sanitize` tag:
//
//	Title   string `sanitize:"strict"` // all HTML removed
//	Content string `sanitize:"safe"`   // basic formatting kept
//	Name    string `sanitize:"trim"`   // surrounding spaces removed
//
// Nested structs and pointers to structs are walked. Untagged fields are left alone.
func SanitizeStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	sanitizeValue(rv.Elem())
	return nil
}

func sanitizeValue(rv reflect.Value) {
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := rv.Field(i)
		switch fv.Kind() {
		case reflect.String:
			tag := sf.Tag.Get(TagName)
			if tag != "" && fv.CanSet() {
				fv.SetString(apply(tag, fv.String()))
			}
		case reflect.Struct:
			sanitizeValue(fv)
		case reflect.Pointer:
			if !fv.IsNil() && fv.Elem().Kind() == reflect.Struct {
				sanitizeValue(fv.Elem())
			}
		}
	}
}

func apply(tag, s string) string {
	for _, rule := range strings.Split(tag, ",") {
		switch strings.TrimSpace(rule) {
		case TagStrict:
			s = StripHTML(s)
		case TagSafe:
			s = SanitizeHTML(s)
		case TagTrim:
			s = strings.TrimSpace(s)
		}
	}
	return s
}
