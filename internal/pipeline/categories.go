package pipeline

import (
	"cmp"
	"slices"
	"strings"

	"github.com/theirongolddev/carlog/internal/model"
)

// CategoryOther collects services that match no keyword group.
const CategoryOther = "Other"

type categoryRule struct {
	name     string
	keywords []string
}

// Order matters: the first matching group wins.
var categoryRules = []categoryRule{
	{"Oil Change & Filters", []string{"oil", "filter"}},
	{"Tires & Wheels", []string{"tire", "wheel", "rotation", "alignment"}},
	{"Brakes", []string{"brake"}},
	{"Electrical", []string{"battery", "electrical"}},
	{"Transmission", []string{"transmission"}},
	{"Inspections", []string{"inspection", "check"}},
}

// Categories lists every category name in match order, ending with Other.
func Categories() []string {
	names := make([]string, 0, len(categoryRules)+1)
	for _, r := range categoryRules {
		names = append(names, r.name)
	}
	return append(names, CategoryOther)
}

// Categorize classifies a free-text service description.
func Categorize(service string) string {
	s := strings.ToLower(service)
	for _, r := range categoryRules {
		for _, kw := range r.keywords {
			if strings.Contains(s, kw) {
				return r.name
			}
		}
	}
	return CategoryOther
}

// AggregateCategories sums maintenance cost per category, most expensive
// first. Equal costs keep category order.
func AggregateCategories(entries []model.MaintenanceEntry) []model.CategoryTotal {
	byName := make(map[string]*model.CategoryTotal)
	for _, e := range entries {
		name := Categorize(e.Service)
		ct, ok := byName[name]
		if !ok {
			ct = &model.CategoryTotal{Category: name}
			byName[name] = ct
		}
		ct.Cost += e.Cost
		ct.Count++
	}

	out := make([]model.CategoryTotal, 0, len(byName))
	for _, name := range Categories() {
		if ct, ok := byName[name]; ok {
			out = append(out, *ct)
		}
	}
	slices.SortStableFunc(out, func(a, b model.CategoryTotal) int {
		return cmp.Compare(b.Cost, a.Cost)
	})
	return out
}
