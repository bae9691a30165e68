package internal

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
)

func TestParseStrategyKind(t *testing.T) {
	for _, kind := range StrategyKinds() {
		got, err := ParseStrategyKind(" " + kind.String() + " ")
		if err != nil || got != kind {
			t.Errorf("ParseStrategyKind(%q) = %v, %v", kind.String(), got, err)
		}
	}

	if got, err := ParseStrategyKind("MACD"); err != nil || got != MACDHist {
		t.Errorf("Expected case-insensitive match, got %v, %v", got, err)
	}

	for _, name := range []string{"", "supertrend", "buy_and_hold"} {
		if _, err := ParseStrategyKind(name); !errors.Is(err, ErrUnknownStrategy) {
			t.Errorf("ParseStrategyKind(%q): expected ErrUnknownStrategy, got %v", name, err)
		}
	}
}

func TestStrategyKind_JSON(t *testing.T) {
	data, err := json.Marshal(KDJCross)
	if err != nil || string(data) != `"kdj"` {
		t.Fatalf("Marshal = %s, %v", data, err)
	}

	var k StrategyKind
	if err := json.Unmarshal([]byte(`"bollinger"`), &k); err != nil || k != BollingerBand {
		t.Errorf("Unmarshal = %v, %v", k, err)
	}
	if err := json.Unmarshal([]byte(`"unknown"`), &k); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Expected ErrUnknownStrategy, got %v", err)
	}
}
