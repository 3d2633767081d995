package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/carlog/internal/model"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// parseDateFlag parses a --date style value. Empty means today.
func parseDateFlag(name, value string) (model.Date, error) {
	if value == "" {
		return model.DateOf(now()), nil
	}
	d, err := model.ParseDate(value)
	if err != nil {
		return model.Date{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}
