package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/theirongolddev/carlog/internal/model"
)

type fakeSnapshot struct {
	data model.Data
	err  error
	ts   time.Time
}

func (f fakeSnapshot) Load(context.Context) (model.Data, error)    { return f.data, f.err }
func (f fakeSnapshot) UpdatedAt(context.Context) (time.Time, error) { return f.ts, nil }

func TestLoadRecoversFromCorruptState(t *testing.T) {
	src := fakeSnapshot{data: model.NewData(), err: fmt.Errorf("%w: bad json", model.ErrCorruptState)}
	res, err := Load(context.Background(), src, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !res.Recovered || !res.Data.IsEmpty() {
		t.Errorf("result = %+v, want recovered empty data", res)
	}
}

func TestLoadPropagatesReadErrors(t *testing.T) {
	src := fakeSnapshot{err: errors.New("disk on fire")}
	if _, err := Load(context.Background(), src, nil); err == nil {
		t.Fatal("Load returned nil error")
	}
}

func TestLoadKeepsTimestamp(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	res, err := Load(context.Background(), fakeSnapshot{data: model.NewData(), ts: ts}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !res.UpdatedAt.Equal(ts) || res.Recovered {
		t.Errorf("result = %+v", res)
	}
}

func TestDataPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	if got := DataPath(); got != "/tmp/xdg-data/carlog/carlog.db" {
		t.Errorf("DataPath = %q", got)
	}
}
