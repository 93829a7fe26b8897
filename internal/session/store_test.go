package session

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/katiamach/terraguard/internal/logger"
	"github.com/katiamach/terraguard/internal/metrics"
	"github.com/katiamach/terraguard/internal/presenter"
	"github.com/tj/assert"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	m.Run()
}

func newStore() *Store {
	factory := func() *presenter.Presenter {
		return presenter.New(nil, presenter.Options{})
	}
	return NewStore(factory, time.Hour, 0, metrics.New())
}

func TestGet(t *testing.T) {
	s := newStore()
	defer s.Close()

	id, prog := s.Get("")
	assert.NotEqual(t, "", id)
	assert.NotNil(t, prog)

	sameID, sameProg := s.Get(id)
	assert.Equal(t, id, sameID)
	assert.Equal(t, prog, sameProg)

	otherID, otherProg := s.Get("not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", otherID)
	assert.NotEqual(t, prog, otherProg)
	assert.Equal(t, 2, s.Len())

	v, err := prog.View(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, presenter.ScreenForm, v.Screen)
}

func TestEvict(t *testing.T) {
	s := newStore()
	defer s.Close()

	now := time.Now()
	s.now = func() time.Time { return now }

	id, prog := s.Get("")
	now = now.Add(2 * time.Hour)
	s.evict()

	assert.Equal(t, 0, s.Len())
	<-prog.Done()

	newID, _ := s.Get(id)
	assert.NotEqual(t, id, newID)
	assert.Equal(t, 1, s.Len())
}

func TestGetMintsIDForUnknownSession(t *testing.T) {
	s := newStore()
	defer s.Close()

	chosen := uuid.NewString()
	id, _ := s.Get(chosen)
	assert.NotEqual(t, chosen, id)

	_, ok := s.Lookup(chosen)
	assert.False(t, ok)
	_, ok = s.Lookup(id)
	assert.True(t, ok)
}

func TestGetEvictsOldestAtLimit(t *testing.T) {
	factory := func() *presenter.Presenter {
		return presenter.New(nil, presenter.Options{})
	}
	s := NewStore(factory, time.Hour, 3, metrics.New())
	defer s.Close()

	now := time.Now()
	s.now = func() time.Time { return now }

	progs := make(map[string]*presenter.Program)
	var ids []string
	for i := 0; i < 3; i++ {
		id, prog := s.Get("")
		ids = append(ids, id)
		progs[id] = prog
		now = now.Add(time.Second)
	}

	// touching the first session makes the second one the oldest
	_, ok := s.Lookup(ids[0])
	assert.True(t, ok)
	now = now.Add(time.Second)

	s.Get("")
	assert.Equal(t, 3, s.Len())
	<-progs[ids[1]].Done()
	_, ok = s.Lookup(ids[1])
	assert.False(t, ok)
	_, ok = s.Lookup(ids[0])
	assert.True(t, ok)

	for i := 0; i < 100; i++ {
		now = now.Add(time.Second)
		s.Get("")
	}
	assert.Equal(t, 3, s.Len())
	<-progs[ids[2]].Done()
}

func TestLookupAndPreviewDoNotStartSessions(t *testing.T) {
	s := newStore()
	defer s.Close()

	_, ok := s.Lookup("")
	assert.False(t, ok)

	v := s.Preview()
	assert.Equal(t, presenter.ScreenForm, v.Screen)
	assert.Equal(t, 0, s.Len())
}

func TestClose(t *testing.T) {
	s := newStore()
	_, prog := s.Get("")

	s.Close()
	<-prog.Done()
	assert.Equal(t, 0, s.Len())
}
