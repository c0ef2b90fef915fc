package domain

// ResultKind identifies which source a search result came from
type ResultKind string

const (
	KindApp          ResultKind = "app"
	KindFile         ResultKind = "file"
	KindEverything   ResultKind = "everything"
	KindURL          ResultKind = "url"
	KindPlugin       ResultKind = "plugin"
	KindSearchEngine ResultKind = "search-engine"
	KindSystemFolder ResultKind = "system-folder"
	KindShortcut     ResultKind = "shortcut"
	KindMemo         ResultKind = "memo"
)

// SearchResult is one entry in the combined result list. Path is the
// de-duplication key within a kind; two results with equal Kind and Path
// are the same result.
type SearchResult struct {
	Kind        ResultKind
	DisplayName string
	Path        string
	Description string
	Icon        string
	PluginID    string // set for KindPlugin
	URL         string // set for KindURL and KindSearchEngine
}

// Key returns the identity used for de-duplication
func (r SearchResult) Key() string {
	return string(r.Kind) + "\x00" + r.Path
}

// AppInfo describes an installed application found by the scanner
type AppInfo struct {
	Name        string
	Path        string
	Icon        string
	Description string
}

// FileHistoryItem is one entry of the file-open history
type FileHistoryItem struct {
	Name     string
	Path     string
	LastUsed int64 // epoch seconds
	UseCount int
}

// ShortcutItem is a user-defined launchable shortcut
type ShortcutItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Icon      string `json:"icon,omitempty"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// PluginInfo describes a registered plugin entry
type PluginInfo struct {
	ID          string
	Name        string
	Description string
}

// BatchEvent is one increment of streamed results from the disk-search
// service during a single search call. RequestID ties the batch to the
// in-flight request so a late batch can never land on a newer search.
type BatchEvent struct {
	RequestID    string
	Results      []SearchResult
	TotalCount   int
	CurrentCount int
}

// SourceStatus reports availability of an external search backend
type SourceStatus struct {
	Available bool
	Error     string
}
