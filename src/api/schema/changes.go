package schema

import "reflect"

// Changes turns a patch struct of pointer fields into a GORM update map
// keyed by field name. Nil pointers are absent and left out.
func Changes(patch any) map[string]any {
	out := map[string]any{}
	v := reflect.ValueOf(patch)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return out
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return out
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := v.Field(i)
		if fv.Kind() != reflect.Ptr || fv.IsNil() {
			continue
		}
		out[sf.Name] = fv.Elem().Interface()
	}
	return out
}
