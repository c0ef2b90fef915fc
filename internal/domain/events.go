package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventQueryCommitted      EventType = "QueryCommitted"
	EventQueryCleared        EventType = "QueryCleared"
	EventSourceResults       EventType = "SourceResults"
	EventSourceFailed        EventType = "SourceFailed"
	EventDiskBatch           EventType = "DiskBatch"
	EventDiskFinalized       EventType = "DiskFinalized"
	EventAvailabilityChanged EventType = "AvailabilityChanged"
	EventLaunchRequested     EventType = "LaunchRequested"
	EventUsageRecorded       EventType = "UsageRecorded"
	EventHideRequested       EventType = "HideRequested"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// QueryCommittedEvent is emitted when the debounce window closes on a
// non-empty query
type QueryCommittedEvent struct {
	Query string
}

func (e QueryCommittedEvent) Type() EventType { return EventQueryCommitted }

// QueryClearedEvent is emitted when the committed query is empty; all
// result state must be dropped
type QueryClearedEvent struct{}

func (e QueryClearedEvent) Type() EventType { return EventQueryCleared }

// SourceResultsEvent is emitted when a source's result set for the
// current query has been replaced
type SourceResultsEvent struct {
	Kind    ResultKind
	Query   string
	Results []SearchResult
}

func (e SourceResultsEvent) Type() EventType { return EventSourceResults }

// SourceFailedEvent is emitted when a still-current adapter call fails
type SourceFailedEvent struct {
	Kind  ResultKind
	Query string
	Err   error
}

func (e SourceFailedEvent) Type() EventType { return EventSourceFailed }

// DiskBatchEvent is emitted for every streamed batch applied to the
// accumulation of the current disk search
type DiskBatchEvent struct {
	Query        string
	Accumulated  int
	TotalCount   int
	CurrentCount int
}

func (e DiskBatchEvent) Type() EventType { return EventDiskBatch }

// DiskFinalizedEvent is emitted when the authoritative disk-search
// response replaces the streamed accumulation
type DiskFinalizedEvent struct {
	Query      string
	TotalCount int
}

func (e DiskFinalizedEvent) Type() EventType { return EventDiskFinalized }

// AvailabilityChangedEvent is emitted when a backend's availability flag
// flips after a probe
type AvailabilityChangedEvent struct {
	Kind   ResultKind
	Status SourceStatus
}

func (e AvailabilityChangedEvent) Type() EventType { return EventAvailabilityChanged }

// LaunchRequestedEvent is emitted when the user activates a result
type LaunchRequestedEvent struct {
	Result SearchResult
}

func (e LaunchRequestedEvent) Type() EventType { return EventLaunchRequested }

// UsageRecordedEvent is emitted after a launch has been recorded in the
// usage history
type UsageRecordedEvent struct {
	Path string
}

func (e UsageRecordedEvent) Type() EventType { return EventUsageRecorded }

// HideRequestedEvent is emitted when the launcher window should hide
type HideRequestedEvent struct{}

func (e HideRequestedEvent) Type() EventType { return EventHideRequested }
