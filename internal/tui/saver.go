package tui

import (
	"context"
	"sync"
	"time"

	"github.com/theirongolddev/carlog/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

const saveTimeout = 10 * time.Second

// saver runs background saves one at a time. Every save gets a sequence
// number when it is queued, and a save older than the last committed one
// is dropped, so the stored snapshot always ends at the newest state.
type saver struct {
	store Store

	mu        sync.Mutex
	queued    uint64
	committed uint64
}

func newSaver(store Store) *saver {
	return &saver{store: store}
}

// cmd returns a command that persists a copy of d.
func (s *saver) cmd(d model.Data, what string) tea.Cmd {
	s.mu.Lock()
	s.queued++
	seq := s.queued
	s.mu.Unlock()

	snapshot := d.Clone()
	return func() tea.Msg {
		return s.save(seq, snapshot, what)
	}
}

func (s *saver) save(seq uint64, d model.Data, what string) SavedMsg {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.committed {
		return SavedMsg{What: what, Superseded: true}
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.store.Save(ctx, d); err != nil {
		return SavedMsg{What: what, Err: err}
	}
	s.committed = seq
	return SavedMsg{What: what}
}
