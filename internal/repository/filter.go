package repository

import (
	"fmt"
	"strings"

	"github.com/stanstork/timeline-notify/internal/models"
)

// Filter selects stored events. Every filter can be evaluated in memory and
// rendered as a Postgres predicate, so both event stores share one query model.
type Filter interface {
	Match(event models.Event) bool
	predicate(args *argList) string
}

type argList struct {
	values []interface{}
}

func (a *argList) add(v interface{}) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

// RangeFilter matches instants inside r and ranged timings overlapping r.
func RangeFilter(r models.TimeRange) Filter {
	return rangeFilter{r: r}
}

// PluginFilter matches events written by the given plugin.
func PluginFilter(kind models.PluginKind) Filter {
	return pluginFilter{kind: kind}
}

// And combines filters conjunctively. An empty And matches everything.
func And(filters ...Filter) Filter {
	return andFilter(filters)
}

type rangeFilter struct {
	r models.TimeRange
}

func (f rangeFilter) Match(event models.Event) bool {
	return event.Timing.Within(f.r)
}

func (f rangeFilter) predicate(args *argList) string {
	start, end := args.add(f.r.Start), args.add(f.r.End)
	return fmt.Sprintf(
		"((timing_end IS NULL AND timing_start BETWEEN %[1]s AND %[2]s) OR (timing_end IS NOT NULL AND timing_end >= %[1]s AND timing_start <= %[2]s))",
		start, end,
	)
}

type pluginFilter struct {
	kind models.PluginKind
}

func (f pluginFilter) Match(event models.Event) bool {
	return event.Plugin == f.kind
}

func (f pluginFilter) predicate(args *argList) string {
	return "plugin = " + args.add(string(f.kind))
}

type andFilter []Filter

func (f andFilter) Match(event models.Event) bool {
	for _, filter := range f {
		if !filter.Match(event) {
			return false
		}
	}
	return true
}

func (f andFilter) predicate(args *argList) string {
	if len(f) == 0 {
		return "TRUE"
	}
	parts := make([]string, 0, len(f))
	for _, filter := range f {
		parts = append(parts, "("+filter.predicate(args)+")")
	}
	return strings.Join(parts, " AND ")
}

// whereClause renders filter as a WHERE predicate plus its positional args.
func whereClause(filter Filter) (string, []interface{}) {
	args := &argList{}
	if filter == nil {
		return "TRUE", nil
	}
	return filter.predicate(args), args.values
}
