// Package presenter turns location queries into risk dashboards. A
// Presenter is a state machine with two screens, form and dashboard, driven
// by messages through Update; a Program runs it on a single goroutine.
package presenter

import (
	"context"
	"errors"
	"time"

	"github.com/katiamach/terraguard/internal/logger"
	"github.com/katiamach/terraguard/internal/mapview"
	"github.com/katiamach/terraguard/internal/metrics"
	"github.com/katiamach/terraguard/internal/model"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=presenter.go -destination=mock/mock.go Scorer

// Scorer produces a risk report for a location.
type Scorer interface {
	Analyze(ctx context.Context, q model.LocationQuery) (*model.RiskReport, error)
}

// Defaults applied by New for zero Options fields.
const (
	DefaultFocusZoom   = 14
	DefaultRedrawDelay = 100 * time.Millisecond
)

// DefaultCenter is shown before the first query.
var DefaultCenter = mapview.LatLng{Lat: 19.43, Lng: -99.13}

const defaultInitialZoom = 10

// Options configures a Presenter.
type Options struct {
	Layout        Layout
	TileLayer     mapview.TileLayer
	InitialCenter mapview.LatLng
	InitialZoom   int
	FocusZoom     int
	RedrawDelay   time.Duration
	Metrics       *metrics.Metrics
}

// Draft holds the raw form values as last entered.
type Draft struct {
	Latitude  string
	Longitude string
	Year      string
}

// Presenter owns the state of one results view: the current report, the
// map surface and the single marker placed on it.
type Presenter struct {
	scorer Scorer
	opts   Options

	screen Screen
	tab    Tab
	draft  Draft
	busy   bool
	errMsg string

	query  model.LocationQuery
	report *model.RiskReport

	surface   *mapview.Surface
	marker    mapview.MarkerID
	hasMarker bool
}

// New creates a presenter showing the empty form.
func New(scorer Scorer, opts Options) *Presenter {
	if opts.Layout == "" {
		opts.Layout = LayoutSingle
	}
	if opts.InitialCenter == (mapview.LatLng{}) {
		opts.InitialCenter = DefaultCenter
	}
	if opts.InitialZoom == 0 {
		opts.InitialZoom = defaultInitialZoom
	}
	if opts.FocusZoom == 0 {
		opts.FocusZoom = DefaultFocusZoom
	}
	if opts.RedrawDelay == 0 {
		opts.RedrawDelay = DefaultRedrawDelay
	}

	return &Presenter{
		scorer:  scorer,
		opts:    opts,
		screen:  ScreenForm,
		tab:     TabProperty,
		surface: mapview.NewSurface(opts.InitialCenter, opts.InitialZoom),
	}
}

// Update applies msg and returns the follow-up command, if any.
func (p *Presenter) Update(msg Msg) Cmd {
	switch m := msg.(type) {
	case SubmitMsg:
		return p.submit(m)
	case AnalysisDoneMsg:
		return p.analysisDone(m)
	case BackMsg:
		p.back()
	case SelectTabMsg:
		return p.selectTab(m.Tab)
	case PickLocationMsg:
		p.pick(m)
	case RedrawMsg:
		if p.surface.Initialized() {
			p.surface.InvalidateSize()
		}
	}

	return nil
}

func (p *Presenter) submit(m SubmitMsg) Cmd {
	if p.busy {
		return nil
	}

	p.draft = Draft{Latitude: m.Latitude, Longitude: m.Longitude, Year: m.Year}
	p.errMsg = ""

	q, err := ParseQuery(m.Latitude, m.Longitude, m.Year)
	if err != nil {
		p.errMsg = err.Error()
		return nil
	}

	p.busy = true
	scorer := p.scorer

	return func(ctx context.Context) Msg {
		report, err := scorer.Analyze(ctx, q)
		return AnalysisDoneMsg{Query: q, Report: report, Err: err}
	}
}

func (p *Presenter) analysisDone(m AnalysisDoneMsg) Cmd {
	p.busy = false

	err := m.Err
	if err == nil && m.Report == nil {
		err = errEmptyReport
	}
	if err != nil {
		p.errMsg = userMessage(err)
		return nil
	}

	p.query = m.Query
	p.report = m.Report
	p.errMsg = ""

	if err := p.placeMarker(); err != nil {
		logger.Error(err)
	}

	p.show(ScreenDashboard, TabDashboard)
	return after(p.opts.RedrawDelay, RedrawMsg{})
}

// placeMarker recenters the map on the current query and replaces the
// previous marker.
func (p *Presenter) placeMarker() error {
	p.surface.Init(p.opts.TileLayer)

	pos := mapview.LatLng{Lat: p.query.Latitude, Lng: p.query.Longitude}
	if err := p.surface.SetView(pos, p.opts.FocusZoom); err != nil {
		return err
	}

	if p.hasMarker {
		err := p.surface.RemoveMarker(p.marker)
		p.hasMarker = false
		if err != nil && !errors.Is(err, mapview.ErrNoSuchMarker) {
			return err
		}
	}

	id, err := p.surface.AddMarker(pos)
	if err != nil {
		return err
	}
	p.marker, p.hasMarker = id, true

	popup, err := PopupHTML(p.query, p.report)
	if err != nil {
		return err
	}
	if err := p.surface.BindPopup(id, popup); err != nil {
		return err
	}

	return p.surface.OpenPopup(id)
}

func (p *Presenter) back() {
	if p.screen == ScreenDashboard {
		p.show(ScreenForm, TabProperty)
	}
}

func (p *Presenter) selectTab(tab Tab) Cmd {
	if p.opts.Layout != LayoutTabs || tab == p.tab {
		return nil
	}

	switch tab {
	case TabDashboard:
		if p.report == nil {
			return nil
		}
		p.show(ScreenDashboard, tab)
		return after(p.opts.RedrawDelay, RedrawMsg{})
	case TabProperty, TabMethodology:
		p.show(ScreenForm, tab)
	}

	return nil
}

func (p *Presenter) pick(m PickLocationMsg) {
	q, _, err := model.NormalizeCoordinates(m.Latitude, m.Longitude)
	if err != nil {
		p.errMsg = msgInvalidCoordinates
		return
	}

	p.draft.Latitude = formatCoordinate(q.Latitude)
	p.draft.Longitude = formatCoordinate(q.Longitude)
	p.errMsg = ""
	p.show(ScreenForm, TabProperty)
}

func (p *Presenter) show(screen Screen, tab Tab) {
	if p.screen != screen {
		logger.WithFields(logrus.Fields{"from": p.screen.String(), "to": screen.String()}).Debug("view transition")
		if p.opts.Metrics != nil {
			p.opts.Metrics.Transitions.WithLabelValues(screen.String()).Inc()
		}
	}

	p.screen = screen
	p.tab = tab
}
