package presenter

import (
	"time"

	"github.com/katiamach/terraguard/internal/mapview"
	"github.com/katiamach/terraguard/internal/model"
	"github.com/katiamach/terraguard/internal/risk"
)

// Submit control texts.
const (
	submitIdleLabel = "Generate Risk Analysis"
	submitBusyLabel = "Analyzing..."
	submitIdleIcon  = "send"
	submitBusyIcon  = "autorenew"
)

// Submit describes the submit control.
type Submit struct {
	Disabled bool
	Label    string
	Icon     string
}

// View is an immutable snapshot of a presenter, ready to render.
type View struct {
	Layout      Layout
	Screen      Screen
	Tab         Tab
	Tabs        []TabItem
	Draft       Draft
	Busy        bool
	Submit      Submit
	Error       string
	Query       *model.LocationQuery
	Panel       *Panel
	Map         mapview.State
	RedrawDelay time.Duration
}

// Dashboard reports whether the dashboard screen is showing.
func (v View) Dashboard() bool {
	return v.Screen == ScreenDashboard
}

// View returns a snapshot of the current state.
func (p *Presenter) View() View {
	v := View{
		Layout:      p.opts.Layout,
		Screen:      p.screen,
		Tab:         p.tab,
		Draft:       p.draft,
		Busy:        p.busy,
		Submit:      Submit{Label: submitIdleLabel, Icon: submitIdleIcon},
		Error:       p.errMsg,
		Map:         p.surface.Snapshot(),
		RedrawDelay: p.opts.RedrawDelay,
	}

	if p.busy {
		v.Submit = Submit{Disabled: true, Label: submitBusyLabel, Icon: submitBusyIcon}
	}

	if p.report != nil {
		q := p.query
		panel := NewPanel(p.report)
		v.Query = &q
		v.Panel = &panel
	}

	if p.opts.Layout == LayoutTabs {
		for _, t := range tabTitles {
			v.Tabs = append(v.Tabs, TabItem{
				Tab:     t.tab,
				Title:   t.title,
				Active:  t.tab == p.tab,
				Enabled: t.tab != TabDashboard || p.report != nil,
			})
		}
	}

	return v
}

func formatCoordinate(v float64) string {
	return risk.FormatNumber(v, 6)
}
