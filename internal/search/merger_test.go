package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"quickdash/internal/domain"
)

func kindResults(kind domain.ResultKind, paths ...string) []domain.SearchResult {
	out := make([]domain.SearchResult, 0, len(paths))
	for _, p := range paths {
		out = append(out, domain.SearchResult{Kind: kind, DisplayName: p, Path: p})
	}
	return out
}

func defaultCaps() Caps {
	return Caps{FileHistory: 50, Disk: 500, SystemFolders: 20, Memos: 20, Suggestions: 10}
}

func TestMergeHorizontalCategoryPrecedence(t *testing.T) {
	t.Parallel()

	merged := Merge(MergeInput{
		Sets: map[domain.ResultKind][]domain.SearchResult{
			domain.KindPlugin:   kindResults(domain.KindPlugin, "plugin://calc"),
			domain.KindApp:      kindResults(domain.KindApp, "/apps/editor"),
			domain.KindShortcut: kindResults(domain.KindShortcut, "/shortcuts/proj"),
			domain.KindURL:      kindResults(domain.KindURL, "https://example.com"),
		},
		Caps: defaultCaps(),
	})

	require.Equal(t,
		[]string{"https://example.com", "/apps/editor", "/shortcuts/proj", "plugin://calc"},
		paths(merged.Horizontal),
		"Quick-launch row orders URL, apps, shortcuts, plugins")
	require.Empty(t, merged.Vertical)
}

func TestMergeVerticalSectionOrder(t *testing.T) {
	t.Parallel()

	merged := Merge(MergeInput{
		Sets: map[domain.ResultKind][]domain.SearchResult{
			domain.KindSearchEngine: kindResults(domain.KindSearchEngine, "https://google/q"),
			domain.KindMemo:         kindResults(domain.KindMemo, "memo://json/1"),
			domain.KindSystemFolder: kindResults(domain.KindSystemFolder, "/home/u/Downloads"),
			domain.KindFile:         kindResults(domain.KindFile, "/recent/report.pdf"),
		},
		Disk: kindResults(domain.KindEverything, "/disk/hit"),
		Caps: defaultCaps(),
	})

	require.Equal(t,
		[]string{"/recent/report.pdf", "/disk/hit", "/home/u/Downloads", "memo://json/1", "https://google/q"},
		paths(merged.Vertical),
		"Vertical column orders history, disk, folders, memos, suggestions")
}

func TestMergeUsageOrdersWithinCategory(t *testing.T) {
	t.Parallel()

	in := MergeInput{
		Sets: map[domain.ResultKind][]domain.SearchResult{
			domain.KindApp: kindResults(domain.KindApp, "/apps/rarely", "/apps/daily", "/apps/never"),
		},
		Usage: map[string]int64{
			"/apps/rarely": 100,
			"/apps/daily":  9000,
		},
		Caps: defaultCaps(),
	}

	merged := Merge(in)
	require.Equal(t, []string{"/apps/daily", "/apps/rarely", "/apps/never"}, paths(merged.Horizontal),
		"Recently launched entries come first; never-launched keep source order")
}

func TestMergeUsageNeverCrossesCategories(t *testing.T) {
	t.Parallel()

	merged := Merge(MergeInput{
		Sets: map[domain.ResultKind][]domain.SearchResult{
			domain.KindURL: kindResults(domain.KindURL, "https://example.com"),
			domain.KindApp: kindResults(domain.KindApp, "/apps/daily"),
		},
		Usage: map[string]int64{"/apps/daily": 9000},
		Caps:  defaultCaps(),
	})

	require.Equal(t, []string{"https://example.com", "/apps/daily"}, paths(merged.Horizontal),
		"A heavily used app still ranks after the URL category")
}

func TestMergeIsDeterministic(t *testing.T) {
	t.Parallel()

	in := MergeInput{
		Sets: map[domain.ResultKind][]domain.SearchResult{
			domain.KindApp:  kindResults(domain.KindApp, "/a", "/b", "/c"),
			domain.KindFile: kindResults(domain.KindFile, "/f1", "/f2"),
		},
		Disk:  kindResults(domain.KindEverything, "/d1", "/d2"),
		Usage: map[string]int64{"/b": 5, "/c": 5},
		Caps:  defaultCaps(),
	}

	first := Merge(in)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Merge(in), "Identical input must merge identically")
	}
}

func TestMergeDedupsWithinCategory(t *testing.T) {
	t.Parallel()

	merged := Merge(MergeInput{
		Sets: map[domain.ResultKind][]domain.SearchResult{
			domain.KindApp: kindResults(domain.KindApp, "/apps/editor", "/apps/editor", "/apps/term"),
		},
		Caps: defaultCaps(),
	})

	require.Equal(t, []string{"/apps/editor", "/apps/term"}, paths(merged.Horizontal))
}

func TestMergeDiskWindowCap(t *testing.T) {
	t.Parallel()

	disk := make([]domain.SearchResult, 0, 800)
	for i := 0; i < 800; i++ {
		disk = append(disk, domain.SearchResult{Kind: domain.KindEverything, Path: string(rune('a' + i%26))})
	}
	// The accumulation is already deduped; the merger only truncates
	disk = disk[:800]

	caps := defaultCaps()
	caps.Disk = 500

	merged := Merge(MergeInput{Disk: disk, Caps: caps})
	require.Len(t, merged.Vertical, 500, "Disk section is clipped to the display window")
	require.Equal(t, disk[:500], merged.Vertical)
}

func TestMergeMissingSourcesContributeNothing(t *testing.T) {
	t.Parallel()

	merged := Merge(MergeInput{Caps: defaultCaps()})
	require.Empty(t, merged.Horizontal)
	require.Empty(t, merged.Vertical)
}
