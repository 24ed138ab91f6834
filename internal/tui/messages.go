package tui

import (
	"github.com/kingrea/jobboard/internal/application"
	"github.com/kingrea/jobboard/internal/catalog"
)

// screen is the page underneath the apply modal.
type screen int

const (
	screenHome screen = iota
	screenSearch
	screenDetail
)

func (s screen) String() string {
	switch s {
	case screenHome:
		return "home"
	case screenSearch:
		return "search"
	case screenDetail:
		return "detail"
	}
	return "unknown"
}

// catalogLoadedMsg ends a simulated fetch for one screen. seq lets the
// screen ignore loads it has since superseded.
type catalogLoadedMsg struct {
	target  screen
	seq     int
	catalog *catalog.Catalog
	err     error
}

type submitDoneMsg struct {
	outcome application.Outcome
}
