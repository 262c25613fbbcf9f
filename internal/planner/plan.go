// Package planner turns a discovery catalog into the ordered list of API-reference
// sections quartodoc renders. Classes with many methods keep a compact entry and get
// a dedicated methods section so their page stays readable.
package planner

import (
	"fmt"
	"strings"

	"github.com/rich-iannone/great-docs/internal/catalog"
	"github.com/rich-iannone/great-docs/internal/config"
)

// Titles and descriptions of the generated sections.
const (
	ClassesTitle       = "Classes"
	ClassesDescription = "Core classes and types"

	FunctionsTitle       = "Functions"
	FunctionsDescription = "Public functions"

	OtherTitle       = "Other"
	OtherDescription = "Additional exports"

	methodsSuffix = " Methods"
)

// ContentRef is one entry of a section. SuppressMembers renders the entry without
// its inline member documentation (quartodoc `members: []`).
type ContentRef struct {
	Name            string
	SuppressMembers bool
}

// Section is a titled group of reference entries.
type Section struct {
	Title       string
	Description string
	Contents    []ContentRef
}

// Names returns the entry names in order.
func (s Section) Names() []string {
	out := make([]string, len(s.Contents))
	for i, c := range s.Contents {
		out[i] = c.Name
	}
	return out
}

// SectionPlan is the ordered set of sections for one package.
type SectionPlan struct {
	Sections []Section
}

// Empty reports whether the plan has no sections.
func (p SectionPlan) Empty() bool { return len(p.Sections) == 0 }

// Titles returns the section titles in order.
func (p SectionPlan) Titles() []string {
	out := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		out[i] = s.Title
	}
	return out
}

// SplitClasses returns the classes that received a methods section.
func (p SectionPlan) SplitClasses() []string {
	var out []string
	for _, s := range p.Sections {
		if cls, ok := MethodsSectionClass(s.Title); ok {
			out = append(out, cls)
		}
	}
	return out
}

// MethodsSectionTitle is the title of the methods section for class.
func MethodsSectionTitle(class string) string { return class + methodsSuffix }

// MethodsSectionClass reports whether title names a methods section and for which class.
func MethodsSectionClass(title string) (string, bool) {
	cls, ok := strings.CutSuffix(title, methodsSuffix)
	if !ok || cls == "" || strings.ContainsAny(cls, " \t") {
		return "", false
	}
	return cls, true
}

// IsGeneratedTitle reports whether title is one the planner produces in default mode.
func IsGeneratedTitle(title string) bool {
	switch title {
	case ClassesTitle, FunctionsTitle, OtherTitle:
		return true
	}
	_, ok := MethodsSectionClass(title)
	return ok
}

// Options tunes planning.
type Options struct {
	// Threshold is the largest method count documented inline. Zero or negative
	// means config.DefaultThreshold.
	Threshold int
}

func (o Options) threshold() int {
	if o.Threshold <= 0 {
		return config.DefaultThreshold
	}
	return o.Threshold
}

// splits reports whether a class gets its own methods section.
func (o Options) splits(obj catalog.Object) bool {
	return obj.IsClass() && obj.MethodCount() > o.threshold()
}

// Plan partitions cat into Classes, per-class Methods, Functions and Other sections.
// Discovery order is kept everywhere and empty sections are omitted. Plan is pure.
func Plan(cat catalog.Catalog, opts Options) SectionPlan {
	var b builder
	b.opts = opts
	b.addDefaultSections(cat)
	return SectionPlan{Sections: b.sections}
}

type builder struct {
	opts     Options
	sections []Section
}

func (b *builder) add(s Section) {
	if len(s.Contents) > 0 {
		b.sections = append(b.sections, s)
	}
}

// ref builds the entry for obj and reports whether obj needs a methods section.
func (b *builder) ref(obj catalog.Object) (ContentRef, bool) {
	split := b.opts.splits(obj)
	return ContentRef{Name: obj.QualifiedName, SuppressMembers: split}, split
}

func methodsSection(obj catalog.Object) Section {
	s := Section{
		Title:       MethodsSectionTitle(obj.QualifiedName),
		Description: fmt.Sprintf("Methods for the %s class", obj.QualifiedName),
	}
	for _, m := range obj.Methods {
		s.Contents = append(s.Contents, ContentRef{Name: m.QualifiedName})
	}
	return s
}

// addDefaultSections appends the kind-partitioned sections for objs. extraSplit holds
// classes placed elsewhere (family sections) whose methods sections still go here.
func (b *builder) addDefaultSections(objs []catalog.Object, extraSplit ...catalog.Object) {
	classes := Section{Title: ClassesTitle, Description: ClassesDescription}
	functions := Section{Title: FunctionsTitle, Description: FunctionsDescription}
	other := Section{Title: OtherTitle, Description: OtherDescription}
	split := append([]catalog.Object(nil), extraSplit...)

	for _, obj := range objs {
		switch obj.Kind {
		case catalog.KindClass:
			ref, s := b.ref(obj)
			classes.Contents = append(classes.Contents, ref)
			if s {
				split = append(split, obj)
			}
		case catalog.KindFunction:
			functions.Contents = append(functions.Contents, ContentRef{Name: obj.QualifiedName})
		default:
			other.Contents = append(other.Contents, ContentRef{Name: obj.QualifiedName})
		}
	}

	b.add(classes)
	for _, obj := range split {
		b.add(methodsSection(obj))
	}
	b.add(functions)
	b.add(other)
}
