package presenter

import (
	"context"
	"errors"
)

// ErrProgramStopped is returned when talking to a program whose loop ended.
var ErrProgramStopped = errors.New("presenter program is stopped")

type viewRequest struct {
	reply chan View
}

type idleRequest struct {
	reply chan View
}

type cmdResult struct {
	msg Msg
}

// Program runs a Presenter: every message, including command results, is
// applied on the Run goroutine, one at a time.
type Program struct {
	presenter *Presenter
	msgs      chan Msg
	stopped   chan struct{}

	// owned by the Run goroutine
	inflight int
	waiters  []chan View
}

// NewProgram wraps p. Nothing happens until Run is called.
func NewProgram(p *Presenter) *Program {
	return &Program{
		presenter: p,
		msgs:      make(chan Msg),
		stopped:   make(chan struct{}),
	}
}

// Run processes messages until ctx is done. Commands receive ctx, so
// cancelling it also abandons outstanding commands.
func (pr *Program) Run(ctx context.Context) error {
	defer close(pr.stopped)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-pr.msgs:
			pr.handle(ctx, msg)
		}

		if pr.inflight == 0 && len(pr.waiters) > 0 {
			v := pr.presenter.View()
			for _, w := range pr.waiters {
				w <- v
			}
			pr.waiters = nil
		}
	}
}

func (pr *Program) handle(ctx context.Context, msg Msg) {
	switch m := msg.(type) {
	case viewRequest:
		m.reply <- pr.presenter.View()
	case idleRequest:
		if pr.inflight == 0 {
			m.reply <- pr.presenter.View()
			return
		}
		pr.waiters = append(pr.waiters, m.reply)
	case cmdResult:
		pr.inflight--
		if m.msg != nil {
			pr.dispatch(ctx, m.msg)
		}
	default:
		pr.dispatch(ctx, msg)
	}
}

func (pr *Program) dispatch(ctx context.Context, msg Msg) {
	cmd := pr.presenter.Update(msg)
	if cmd == nil {
		return
	}

	pr.inflight++
	go func() {
		res := cmd(ctx)
		select {
		case pr.msgs <- cmdResult{msg: res}:
		case <-ctx.Done():
		}
	}()
}

// Send delivers msg to the presenter.
func (pr *Program) Send(ctx context.Context, msg Msg) error {
	select {
	case pr.msgs <- msg:
		return nil
	case <-pr.stopped:
		return ErrProgramStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// View returns the current snapshot.
func (pr *Program) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	return pr.request(ctx, viewRequest{reply: reply}, reply)
}

// AwaitIdle waits until no command is outstanding and returns the snapshot
// at that moment.
func (pr *Program) AwaitIdle(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	return pr.request(ctx, idleRequest{reply: reply}, reply)
}

func (pr *Program) request(ctx context.Context, req Msg, reply chan View) (View, error) {
	if err := pr.Send(ctx, req); err != nil {
		return View{}, err
	}

	select {
	case v := <-reply:
		return v, nil
	case <-pr.stopped:
		return View{}, ErrProgramStopped
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// Done is closed when Run returns.
func (pr *Program) Done() <-chan struct{} {
	return pr.stopped
}
