// Package catalog holds the typed output of API discovery: the flat, ordered list of a
// package's public exports that the section planner consumes.
package catalog

import "fmt"

// Kind classifies an exported object.
type Kind int

const (
	KindOther Kind = iota
	KindClass
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	default:
		return "other"
	}
}

// Location points at the defining source of an object. Lines are 1-based and zero when
// unknown (e.g. names listed in __all__ that could not be resolved).
type Location struct {
	File      string
	StartLine int
	EndLine   int
}

// Known reports whether the location was resolved to a file and line.
func (l Location) Known() bool { return l.File != "" && l.StartLine > 0 }

// Method is a public method of a class.
type Method struct {
	Name          string
	QualifiedName string
	Docstring     string
	Location      Location
}

// Object is one exported name. Methods is only populated for KindClass and keeps
// discovery (source) order.
type Object struct {
	QualifiedName string
	Kind          Kind
	ModulePath    string
	Docstring     string
	Location      Location
	Methods       []Method
}

// Name returns the unqualified export name.
func (o Object) Name() string { return o.QualifiedName }

// IsClass reports whether o is a class entry.
func (o Object) IsClass() bool { return o.Kind == KindClass }

// MethodCount is the number of public methods of a class entry.
func (o Object) MethodCount() int { return len(o.Methods) }

func (o Object) String() string {
	if o.Kind == KindClass {
		return fmt.Sprintf("%s (class, %d methods)", o.QualifiedName, len(o.Methods))
	}
	return fmt.Sprintf("%s (%s)", o.QualifiedName, o.Kind)
}

// NewClass builds a class entry whose methods are qualified with the class name.
func NewClass(name, module string, methods ...string) Object {
	obj := Object{QualifiedName: name, Kind: KindClass, ModulePath: module}
	for _, m := range methods {
		obj.Methods = append(obj.Methods, Method{Name: m, QualifiedName: name + "." + m})
	}
	return obj
}

// Catalog is the ordered result of a discovery run.
type Catalog []Object

// Lookup finds an object by qualified name.
func (c Catalog) Lookup(name string) (Object, bool) {
	for _, o := range c {
		if o.QualifiedName == name {
			return o, true
		}
	}
	return Object{}, false
}

// Counts returns the number of objects per kind.
func (c Catalog) Counts() map[Kind]int {
	out := map[Kind]int{}
	for _, o := range c {
		out[o.Kind]++
	}
	return out
}

// Validate checks that qualified names are unique, as required for a discovery run.
func (c Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for _, o := range c {
		if o.QualifiedName == "" {
			return fmt.Errorf("catalog entry with empty name")
		}
		if _, dup := seen[o.QualifiedName]; dup {
			return fmt.Errorf("duplicate catalog entry %q", o.QualifiedName)
		}
		seen[o.QualifiedName] = struct{}{}
	}
	return nil
}
