// Package browser is the interaction browser: an explicit view state, a pure
// function from (result, state) to what is shown, and a controller that talks
// to the HTTP API.
package browser

import (
	"sort"
	"strings"

	"github.com/korjavin/druglookup/internal/drug"
)

const PageSize = 10

type Filter string

const (
	FilterAll      Filter = "all"
	FilterHigh     Filter = "high"
	FilterModerate Filter = "moderate"
	FilterLow      Filter = "low" // Low and unknown
)

type SortKey string

const (
	SortNone     SortKey = "none"
	SortName     SortKey = "name"
	SortSeverity SortKey = "severity"
)

// ViewState is everything the rendered view depends on besides the result.
type ViewState struct {
	Page   int     `json:"page"`
	Filter Filter  `json:"filter"`
	Sort   SortKey `json:"sort"`
}

func DefaultViewState() ViewState {
	return ViewState{Page: 1, Filter: FilterAll, Sort: SortNone}
}

func ParseFilter(s string) Filter {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterHigh, FilterModerate, FilterLow:
		return f
	}
	return FilterAll
}

func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortName, SortSeverity:
		return k
	}
	return SortNone
}

// View is the rendered state.
type View struct {
	Query             string
	Matches           []drug.Match
	Page              int
	PageCount         int
	TotalMatches      int
	Interactions      []drug.InteractionPair
	InteractionsError string
	Filter            Filter
	Sort              SortKey
}

func (v View) HasPrev() bool { return v.Page > 1 }
func (v View) HasNext() bool { return v.Page < v.PageCount }
func (v View) PrevPage() int { return v.Page - 1 }
func (v View) NextPage() int { return v.Page + 1 }

// SeverityRank orders High < Moderate < Low < unknown.
func SeverityRank(severity string) int {
	switch strings.ToLower(severity) {
	case "high":
		return 0
	case "moderate":
		return 1
	case "low":
		return 2
	}
	return 3
}

func (f Filter) matches(severity string) bool {
	rank := SeverityRank(severity)
	switch f {
	case FilterHigh:
		return rank == 0
	case FilterModerate:
		return rank == 1
	case FilterLow:
		return rank >= 2
	}
	return true
}

// PageCount returns ceil(n / PageSize).
func PageCount(n int) int {
	return (n + PageSize - 1) / PageSize
}

// Render applies filter, sort and pagination to doc. It does not modify doc.
func Render(doc *drug.Result, state ViewState) View {
	v := View{Filter: state.Filter, Sort: state.Sort, Page: 1}
	if v.Filter == "" {
		v.Filter = FilterAll
	}
	if v.Sort == "" {
		v.Sort = SortNone
	}
	if doc == nil {
		return v
	}
	v.Query = doc.Query
	v.InteractionsError = doc.InteractionsError

	matches := append([]drug.Match(nil), doc.Matches...)
	if v.Sort == SortName {
		sort.SliceStable(matches, func(i, j int) bool {
			return strings.ToLower(matches[i].Name) < strings.ToLower(matches[j].Name)
		})
	}

	v.TotalMatches = len(matches)
	v.PageCount = PageCount(len(matches))
	v.Page = clamp(state.Page, 1, max(v.PageCount, 1))
	start := (v.Page - 1) * PageSize
	end := min(start+PageSize, len(matches))
	v.Matches = matches[start:end]

	var pairs []drug.InteractionPair
	for _, p := range doc.Interactions {
		if v.Filter.matches(p.Severity) {
			pairs = append(pairs, p)
		}
	}
	switch v.Sort {
	case SortSeverity:
		sort.SliceStable(pairs, func(i, j int) bool {
			return SeverityRank(pairs[i].Severity) < SeverityRank(pairs[j].Severity)
		})
	case SortName:
		sort.SliceStable(pairs, func(i, j int) bool {
			return strings.ToLower(pairName(pairs[i])) < strings.ToLower(pairName(pairs[j]))
		})
	}
	v.Interactions = pairs

	return v
}

func pairName(p drug.InteractionPair) string {
	if len(p.RelatedConcepts) > 0 && p.RelatedConcepts[0].Name != "" {
		return p.RelatedConcepts[0].Name
	}
	return p.Description
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
