package presenter

import (
	"context"
	"time"

	"github.com/katiamach/terraguard/internal/model"
)

// Msg is an event delivered to Presenter.Update.
type Msg interface{}

// Cmd is a side effect requested by Update. It runs off the update loop and
// its result, if not nil, is fed back into Update.
type Cmd func(ctx context.Context) Msg

// SubmitMsg carries the raw form values.
type SubmitMsg struct {
	Latitude  string
	Longitude string
	Year      string
}

// BackMsg returns from the dashboard to the form.
type BackMsg struct{}

// SelectTabMsg activates a tab in the tabs layout.
type SelectTabMsg struct {
	Tab Tab
}

// PickLocationMsg is a click on the map; it fills the form with the point.
type PickLocationMsg struct {
	Latitude  float64
	Longitude float64
}

// RedrawMsg fires after a view switch so the map recomputes its size.
type RedrawMsg struct{}

// AnalysisDoneMsg completes a scoring request.
type AnalysisDoneMsg struct {
	Query  model.LocationQuery
	Report *model.RiskReport
	Err    error
}

func after(d time.Duration, msg Msg) Cmd {
	return func(ctx context.Context) Msg {
		t := time.NewTimer(d)
		defer t.Stop()

		select {
		case <-t.C:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}
