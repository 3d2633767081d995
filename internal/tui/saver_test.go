package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/theirongolddev/carlog/internal/model"
)

// gatedStore blocks its first Save until release is closed.
type gatedStore struct {
	memStore

	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedStore) Save(ctx context.Context, d model.Data) error {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()
	if first {
		close(g.entered)
		<-g.release
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.memStore.Save(ctx, d)
}

func (g *gatedStore) last() model.Data {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saved[len(g.saved)-1]
}

func withRegion(code string) model.Data {
	d := sampleData()
	d.Settings.RegionCode = code
	return d
}

func TestSaverSlowOlderSaveDoesNotWin(t *testing.T) {
	store := newGatedStore()
	s := newSaver(store)

	older := s.cmd(withRegion("us"), "older")
	newer := s.cmd(withRegion("uk"), "newer")

	var wg sync.WaitGroup
	msgs := make([]SavedMsg, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		msgs[0] = older().(SavedMsg)
	}()
	<-store.entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		msgs[1] = newer().(SavedMsg)
	}()
	close(store.release)
	wg.Wait()

	for _, m := range msgs {
		if m.Err != nil {
			t.Fatalf("%s: %v", m.What, m.Err)
		}
	}
	if got := store.last().Settings.RegionCode; got != "uk" {
		t.Errorf("stored region = %q, want newest (uk)", got)
	}
}

func TestSaverSkipsSaveOlderThanCommitted(t *testing.T) {
	store := &memStore{}
	s := newSaver(store)

	older := s.cmd(withRegion("us"), "older")
	newer := s.cmd(withRegion("uk"), "newer")

	if m := newer().(SavedMsg); m.Err != nil || m.Superseded {
		t.Fatalf("newer = %+v", m)
	}
	m := older().(SavedMsg)
	if !m.Superseded {
		t.Errorf("older save not marked superseded: %+v", m)
	}
	if len(store.saved) != 1 || store.saved[0].Settings.RegionCode != "uk" {
		t.Errorf("saved = %+v, want one uk snapshot", store.saved)
	}
}

func TestSaverSnapshotIgnoresLaterEdits(t *testing.T) {
	store := &memStore{}
	s := newSaver(store)

	d := sampleData()
	cmd := s.cmd(d, "snapshot")
	d.FuelEntries[0].Total = 999
	cmd()

	if got := store.saved[0].FuelEntries[0].Total; got != 35 {
		t.Errorf("saved total = %v, want 35", got)
	}
}

func TestSupersededSaveLeavesNoticeAlone(t *testing.T) {
	a := loadedApp(t, &memStore{data: sampleData()})
	a, _ = send(t, a, SavedMsg{What: "reminder updated"})
	a, _ = send(t, a, SavedMsg{What: "stale", Superseded: true})
	if !strings.Contains(a.notice, "reminder updated") {
		t.Errorf("notice = %q", a.notice)
	}
}
