package planner

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rich-iannone/great-docs/internal/catalog"
	"github.com/rich-iannone/great-docs/internal/config"
	"github.com/rich-iannone/great-docs/internal/directives"
)

// defaultOrder places unordered families and items after ordered ones.
const defaultOrder = 999

type familyGroup struct {
	name  string
	order int
	conf  config.FamilyConfig
	items []catalog.Object
}

// PlanFamilies groups objects carrying a %family directive into one section per
// family. Families sort by configured order then name; items by %order then name.
// Objects without a family fall back to the default sections, which also receive
// the methods sections of split classes. Without any %family directive the result
// equals Plan.
func PlanFamilies(cat catalog.Catalog, dirs directives.Map, families map[string]config.FamilyConfig, opts Options) SectionPlan {
	groups := map[string]*familyGroup{}
	var order []string
	var unassigned []catalog.Object

	for _, obj := range cat {
		fam := dirs.Get(obj.QualifiedName).Family
		if fam == "" {
			unassigned = append(unassigned, obj)
			continue
		}
		g, ok := groups[fam]
		if !ok {
			conf := families[config.FamilyKey(fam)]
			g = &familyGroup{name: fam, order: defaultOrder, conf: conf}
			if conf.Order != nil {
				g.order = *conf.Order
			}
			groups[fam] = g
			order = append(order, fam)
		}
		g.items = append(g.items, obj)
	}
	if len(groups) == 0 {
		return Plan(cat, opts)
	}

	sorted := make([]*familyGroup, 0, len(order))
	for _, name := range order {
		sorted = append(sorted, groups[name])
	}
	slices.SortStableFunc(sorted, func(a, b *familyGroup) int {
		return cmp.Or(cmp.Compare(a.order, b.order), cmp.Compare(strings.ToLower(a.name), strings.ToLower(b.name)))
	})

	b := builder{opts: opts}
	var split []catalog.Object
	for _, g := range sorted {
		slices.SortStableFunc(g.items, func(x, y catalog.Object) int {
			ox := dirs.Get(x.QualifiedName).OrderOr(defaultOrder)
			oy := dirs.Get(y.QualifiedName).OrderOr(defaultOrder)
			return cmp.Or(cmp.Compare(ox, oy),
				cmp.Compare(strings.ToLower(x.QualifiedName), strings.ToLower(y.QualifiedName)))
		})
		s := Section{Title: AutoTitle(g.name), Description: g.conf.Desc}
		if g.conf.Title != "" {
			s.Title = g.conf.Title
		}
		for _, obj := range g.items {
			ref, isSplit := b.ref(obj)
			s.Contents = append(s.Contents, ref)
			if isSplit {
				split = append(split, obj)
			}
		}
		b.add(s)
	}
	b.addDefaultSections(unassigned, split...)
	return SectionPlan{Sections: b.sections}
}

// AutoTitle turns a family name into a section title: "graph-builders" and
// "graph_builders" both become "Graph Builders". Existing capitals are kept.
func AutoTitle(family string) string {
	words := strings.NewReplacer("-", " ", "_", " ").Replace(family)
	return cases.Title(language.Und, cases.NoLower).String(words)
}
