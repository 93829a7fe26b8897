package presenter

import (
	"fmt"
	"strings"
)

// Layout selects how the form and the dashboard share the page.
type Layout string

const (
	// LayoutSingle shows either the form or the dashboard.
	LayoutSingle Layout = "single"
	// LayoutTabs shows the dashboard as one tab among several.
	LayoutTabs Layout = "tabs"
)

// ParseLayout accepts "single" or "tabs", case-insensitively.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case LayoutSingle, LayoutTabs:
		return l, nil
	case "":
		return LayoutSingle, nil
	default:
		return "", fmt.Errorf("unknown layout %q, expected %q or %q", s, LayoutSingle, LayoutTabs)
	}
}

// Screen is one of the two mutually exclusive view states.
type Screen int

const (
	ScreenForm Screen = iota
	ScreenDashboard
)

func (s Screen) String() string {
	if s == ScreenDashboard {
		return "dashboard"
	}

	return "form"
}

// Tab identifies a panel of the tabs layout.
type Tab string

const (
	TabProperty    Tab = "property"
	TabDashboard   Tab = "dashboard"
	TabMethodology Tab = "methodology"
)

var tabTitles = []struct {
	tab   Tab
	title string
}{
	{TabProperty, "Property"},
	{TabDashboard, "Dashboard"},
	{TabMethodology, "Methodology"},
}

// ParseTab returns the tab named s.
func ParseTab(s string) (Tab, bool) {
	for _, t := range tabTitles {
		if string(t.tab) == s {
			return t.tab, true
		}
	}

	return "", false
}

// TabItem is a rendered tab header.
type TabItem struct {
	Tab     Tab
	Title   string
	Active  bool
	Enabled bool
}
