package search

import (
	"sort"

	"quickdash/internal/domain"
)

// Caps limits how many items each vertical kind contributes
type Caps struct {
	FileHistory   int
	Disk          int // current display window capacity
	SystemFolders int
	Memos         int
	Suggestions   int
}

// MergeInput is everything the merger needs: the current result set of
// each source (any subset may be nil for sources that have not responded)
// and the launch-usage map driving the quick-launch ordering.
type MergeInput struct {
	Sets  map[domain.ResultKind][]domain.SearchResult
	Disk  []domain.SearchResult // streamed/finalized disk accumulation
	Usage map[string]int64      // path -> last-used epoch seconds
	Caps  Caps
}

// Merged is the combined, ordered output: the horizontal quick-launch row
// and the vertical detailed column.
type Merged struct {
	Horizontal []domain.SearchResult
	Vertical   []domain.SearchResult
}

// horizontalOrder is the fixed category precedence of the quick-launch row
var horizontalOrder = []domain.ResultKind{
	domain.KindURL,
	domain.KindApp,
	domain.KindShortcut,
	domain.KindPlugin,
}

// Merge recomputes the combined list. It is a pure function of its input:
// identical inputs always produce identical output ordering.
func Merge(in MergeInput) Merged {
	var m Merged

	for _, kind := range horizontalOrder {
		category := dedupByPath(in.Sets[kind])
		if len(in.Usage) > 0 {
			// Stable keeps source order for entries never launched
			sort.SliceStable(category, func(i, j int) bool {
				return in.Usage[category[i].Path] > in.Usage[category[j].Path]
			})
		}
		m.Horizontal = append(m.Horizontal, category...)
	}

	m.Vertical = append(m.Vertical, truncate(dedupByPath(in.Sets[domain.KindFile]), in.Caps.FileHistory)...)
	m.Vertical = append(m.Vertical, truncate(in.Disk, in.Caps.Disk)...)
	m.Vertical = append(m.Vertical, truncate(dedupByPath(in.Sets[domain.KindSystemFolder]), in.Caps.SystemFolders)...)
	m.Vertical = append(m.Vertical, truncate(dedupByPath(in.Sets[domain.KindMemo]), in.Caps.Memos)...)
	m.Vertical = append(m.Vertical, truncate(dedupByPath(in.Sets[domain.KindSearchEngine]), in.Caps.Suggestions)...)

	return m
}

// dedupByPath keeps the first occurrence of each path, preserving order
func dedupByPath(results []domain.SearchResult) []domain.SearchResult {
	if len(results) == 0 {
		return nil
	}

	out := make([]domain.SearchResult, 0, len(results))
	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		if _, dup := seen[r.Path]; dup {
			continue
		}
		seen[r.Path] = struct{}{}
		out = append(out, r)
	}
	return out
}

func truncate(results []domain.SearchResult, cap int) []domain.SearchResult {
	if cap >= 0 && len(results) > cap {
		return results[:cap]
	}
	return results
}
