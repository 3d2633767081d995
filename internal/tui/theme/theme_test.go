package theme

import (
	"testing"

	"github.com/theirongolddev/carlog/internal/model"
)

func TestThemesSeparateExpenseAndStatusColors(t *testing.T) {
	for _, th := range All {
		if th.Fuel == th.Maintenance {
			t.Errorf("%s: fuel and maintenance share %s", th.Name, th.Fuel)
		}
		due, upcoming, ok := th.Status(model.StatusDue), th.Status(model.StatusUpcoming), th.Status(model.StatusOK)
		if due == upcoming || due == ok || upcoming == ok {
			t.Errorf("%s: status colors collide: due %s, upcoming %s, ok %s", th.Name, due, upcoming, ok)
		}
	}
}

func TestByName(t *testing.T) {
	if got := ByName("garage"); got.Name != "garage" {
		t.Errorf("ByName(garage) = %s", got.Name)
	}
	if got := ByName("nope"); got.Name != FlexokiDark.Name {
		t.Errorf("ByName(nope) = %s, want default", got.Name)
	}
	if names := Names(); len(names) != len(All) || names[1] != "garage" {
		t.Errorf("Names = %v", names)
	}
}
