package utils

import (
	"reflect"
	"runtime"
	"strings"
)

// FuncName returns the short declared name of fn, suitable as a default span
// name: the package path is stripped, as are the "-fm" method-value suffix
// and generic instantiation brackets. When fn is not a function (or its name
// cannot be resolved) the empty string is returned and the caller should fall
// back to its own default.
//
// Example: a reference to mypkg.FetchDocuments yields "FetchDocuments"; a
// method value (*Client).Send yields "Client.Send".
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}

	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return ""
	}

	name := rf.Name()

	// Drop the package path: everything up to the last slash, then the
	// leading package qualifier.
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}

	// Method values carry a "-fm" suffix.
	name = strings.TrimSuffix(name, "-fm")

	// Generic instantiations look like "Fetch[...]"; keep the base name.
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}

	// Parenthesized receivers: "(*Client).Send" -> "Client.Send".
	name = strings.ReplaceAll(name, "(", "")
	name = strings.ReplaceAll(name, ")", "")
	name = strings.TrimPrefix(name, "*")

	return name
}
