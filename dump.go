package asynclog

import (
	"fmt"
	"reflect"
)

const (
	maxDumpDepth    = 10
	maxDumpElements = 10
)

// Dump logs the contents of v at debug level, one line per field, map entry
// or element. Unexported struct fields are skipped, slices are cut after
// maxDumpElements and pointer cycles are reported instead of followed.
func (s *Service) Dump(v interface{}) {
	if s == nil || !s.initialized.Load() || s.Level() > DebugLevel {
		return
	}
	d := dumper{seen: make(map[uintptr]bool)}
	if v == nil {
		d.add("Dump: <nil>")
	} else {
		d.walk("", reflect.ValueOf(v), 0)
	}
	for _, line := range d.lines {
		s.Debug(line)
	}
}

// dumper renders a value into lines before any of them is logged.
type dumper struct {
	lines []string
	seen  map[uintptr]bool
}

func (d *dumper) add(format string, args ...interface{}) {
	d.lines = append(d.lines, fmt.Sprintf(format, args...))
}

// deref follows interfaces and pointers. ok is false when it reported a nil
// or a cycle itself.
func (d *dumper) deref(path string, v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			d.add("%s: <nil>", path)
			return v, false
		}
		if v.Kind() == reflect.Ptr {
			if d.seen[v.Pointer()] {
				d.add("%s: <circular reference>", path)
				return v, false
			}
			d.seen[v.Pointer()] = true
		}
		v = v.Elem()
	}
	return v, true
}

func dumpPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func (d *dumper) walk(path string, v reflect.Value, depth int) {
	if depth > maxDumpDepth {
		d.add("%s: <max depth reached>", path)
		return
	}
	if !v.IsValid() {
		d.add("%s: <nil>", path)
		return
	}
	v, ok := d.deref(path, v)
	if !ok {
		return
	}

	t := v.Type()
	switch v.Kind() {
	case reflect.Struct:
		if path == "" {
			d.add("Struct: %s", t.Name())
		} else {
			d.add("%s: %s {", path, t.Name())
		}
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			d.walk(dumpPath(path, t.Field(i).Name), v.Field(i), depth+1)
		}
		if path != "" {
			d.add("%s: }", path)
		}
	case reflect.Map:
		d.add("%s: map[%s]%s (len: %d) {", path, t.Key(), t.Elem(), v.Len())
		for it := v.MapRange(); it.Next(); {
			d.walk(fmt.Sprintf("%s[%v]", path, it.Key()), it.Value(), depth+1)
		}
		d.add("%s: }", path)
	case reflect.Slice, reflect.Array:
		d.add("%s: %s (len: %d, cap: %d) {", path, t, v.Len(), v.Cap())
		n := min(v.Len(), maxDumpElements)
		for i := 0; i < n; i++ {
			d.walk(fmt.Sprintf("%s[%d]", path, i), v.Index(i), depth+1)
		}
		if v.Len() > n {
			d.add("%s: ... (%d more elements)", path, v.Len()-n)
		}
		d.add("%s: }", path)
	default:
		d.add("%s: %v", path, v)
	}
}
