package backtester

import (
	"bytes"
	"encoding/json"
	"os"
	"sort"

	"github.com/pkg/errors"

	"wfbt/internal"
)

// LoadBars читает свечи из JSON: либо {"candles": [...]}, либо массив.
// Свечи сортируются по дате; движок порядок не проверяет.
func LoadBars(filename string) ([]internal.Bar, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", filename)
	}
	return ParseBars(data)
}

func ParseBars(data []byte) ([]internal.Bar, error) {
	var bars []internal.Bar
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &bars); err != nil {
			return nil, errors.Wrap(err, "parse bars")
		}
	} else {
		var wrapper struct {
			Candles []internal.Bar `json:"candles"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, errors.Wrap(err, "parse bars")
		}
		bars = wrapper.Candles
	}

	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})
	return bars, nil
}
