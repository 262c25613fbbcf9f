package discovery

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rich-iannone/great-docs/internal/catalog"
)

// maxAliasDepth bounds re-export chains (a imports from b imports from c ...).
const maxAliasDepth = 8

// resolver parses modules of one package on demand and follows re-exports to the
// defining module.
type resolver struct {
	ctx     context.Context
	pkgName string
	pkgDir  string
	modules map[string]*pyModule
}

func newResolver(ctx context.Context, pkg Package) *resolver {
	return &resolver{ctx: ctx, pkgName: pkg.Name, pkgDir: pkg.Dir, modules: map[string]*pyModule{}}
}

// inPackage reports whether dotted names a module of this package.
func (r *resolver) inPackage(dotted string) bool {
	return dotted == r.pkgName || strings.HasPrefix(dotted, r.pkgName+".")
}

// file maps a dotted module name of this package to its source file.
func (r *resolver) file(dotted string) (path string, isPackage bool, ok bool) {
	if !r.inPackage(dotted) {
		return "", false, false
	}
	rel := strings.TrimPrefix(strings.TrimPrefix(dotted, r.pkgName), ".")
	dir := r.pkgDir
	if rel != "" {
		dir = filepath.Join(r.pkgDir, filepath.FromSlash(strings.ReplaceAll(rel, ".", "/")))
	}
	if init := filepath.Join(dir, "__init__.py"); isFile(init) {
		return init, true, true
	}
	if isFile(dir + ".py") {
		return dir + ".py", false, true
	}
	return "", false, false
}

// isModule reports whether dotted resolves to a module or subpackage of this package.
func (r *resolver) isModule(dotted string) bool {
	_, _, ok := r.file(dotted)
	return ok
}

func (r *resolver) module(dotted string) (*pyModule, error) {
	if m, ok := r.modules[dotted]; ok {
		return m, nil
	}
	if err := r.ctx.Err(); err != nil {
		return nil, err
	}
	path, isPackage, ok := r.file(dotted)
	if !ok {
		return nil, os.ErrNotExist
	}
	m, err := parsePython(r.ctx, path, dotted, isPackage)
	if err != nil {
		return nil, err
	}
	r.modules[dotted] = m
	return m, nil
}

// resolve follows name as seen from module dotted to its definition. It returns an
// object with KindOther and no location when the name cannot be resolved inside the
// package, and ok=false when the name refers to a module.
func (r *resolver) resolve(dotted, name string) (obj catalog.Object, ok bool) {
	obj = catalog.Object{QualifiedName: name, Kind: catalog.KindOther, ModulePath: dotted}
	for range maxAliasDepth {
		if r.isModule(dotted + "." + name) {
			if m, err := r.module(dotted); err != nil || !m.definesLocally(name) {
				return obj, false
			}
		}
		m, err := r.module(dotted)
		if err != nil {
			return obj, true
		}
		s, found := m.lookup(name)
		if !found {
			if target, ok := m.starSource(r, name); ok {
				dotted = target
				continue
			}
			return obj, true
		}
		if !s.imported {
			obj.Kind = s.kind
			obj.ModulePath = dotted
			obj.Docstring = s.doc
			obj.Location = s.loc
			obj.Methods = requalify(obj.QualifiedName, s.methods)
			return obj, true
		}
		if !r.inPackage(s.fromModule) {
			obj.ModulePath = s.fromModule
			return obj, true
		}
		dotted, name = s.fromModule, s.origName
		obj.ModulePath = dotted
	}
	return obj, true
}

// definesLocally reports whether name is bound in m by a definition rather than an import.
func (m *pyModule) definesLocally(name string) bool {
	s, ok := m.lookup(name)
	return ok && !s.imported
}

// starSource finds the module a name comes from through `from X import *` in m.
func (m *pyModule) starSource(r *resolver, name string) (string, bool) {
	for _, s := range m.symbols {
		if !s.imported || s.origName != "*" || !r.inPackage(s.fromModule) {
			continue
		}
		target, err := r.module(s.fromModule)
		if err != nil {
			continue
		}
		for _, exported := range target.publicNames(r) {
			if exported == name {
				return s.fromModule, true
			}
		}
	}
	return "", false
}

// publicNames is what `from m import *` binds: __all__ when present, else every
// public top-level name.
func (m *pyModule) publicNames(r *resolver) []string {
	if m.hasAll {
		return m.all
	}
	var out []string
	for _, s := range m.symbols {
		if s.origName == "*" || strings.HasPrefix(s.name, "_") {
			continue
		}
		if s.imported && !r.inPackage(s.fromModule) {
			continue
		}
		out = append(out, s.name)
	}
	return out
}

// requalify renames methods after the exported alias of their class.
func requalify(className string, methods []catalog.Method) []catalog.Method {
	if len(methods) == 0 {
		return nil
	}
	out := make([]catalog.Method, len(methods))
	for i, m := range methods {
		m.QualifiedName = className + "." + m.Name
		out[i] = m
	}
	return out
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
