package ui

import (
	"quickdash/internal/domain"
	"quickdash/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// launchDoneMsg carries the outcome of a launch attempt
type launchDoneMsg struct {
	result domain.SearchResult
	err    error
}

// revealDoneMsg carries the outcome of a reveal-in-folder attempt
type revealDoneMsg struct {
	err error
}

// usageLoadedMsg delivers a refreshed launch-usage map
type usageLoadedMsg struct {
	usage map[string]int64
	err   error
}
