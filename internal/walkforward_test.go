package internal

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

// growingBars — ряд с постоянным ростом 0.2% за свечу
func growingBars(n int) []Bar {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 * math.Pow(1.002, float64(i))
	}
	return barsFromCloses(closes...)
}

func TestSplitBars(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		warmup  int
		ratio   float64
		wantAt  int
		wantErr error
	}{
		{"default ratio", 300, 19, 0.8, 243, nil},
		{"no warmup", 100, 0, 0.95, 95, nil},
		{"too short", 50, 19, 0.8, 0, ErrNoResult},
		{"warmup beyond series", 30, 40, 0.8, 0, ErrNoResult},
		{"zero ratio", 300, 19, 0, 0, ErrInvalidSplit},
		{"full ratio", 300, 19, 1, 0, ErrInvalidSplit},
		{"train too short", 100, 0, 0.1, 0, ErrInvalidSplit},
		{"test too short", 100, 0, 0.97, 0, ErrInvalidSplit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := SplitBars(tt.n, tt.warmup, tt.ratio)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitBars: %v", err)
			}
			if s.At != tt.wantAt || s.Warmup != tt.warmup || s.End != tt.n {
				t.Errorf("Unexpected split %+v", s)
			}
			if s.Train().To != s.Test().From {
				t.Errorf("Train and test windows must be adjacent: %+v %+v", s.Train(), s.Test())
			}
		})
	}
}

func TestEvaluateWalkForward_BuyAndHoldFallback(t *testing.T) {
	bars := growingBars(300)
	gen := scriptedGen{warmup: 19, signals: []Signal{{Index: 19, Action: BUY}}}

	item, err := EvaluateWalkForward(bars, gen, StrategyParams{ShortWindow: 5, LongWindow: 20}, WalkForwardOptions{})
	if err != nil {
		t.Fatalf("EvaluateWalkForward: %v", err)
	}

	if item.TrainBars != 224 || item.TestBars != 57 {
		t.Errorf("Expected 224/57 bars, got %d/%d", item.TrainBars, item.TestBars)
	}
	if item.TrainFrom != "2024-01-20" || item.TestFrom != "2024-08-31" {
		t.Errorf("Unexpected window dates %s / %s", item.TrainFrom, item.TestFrom)
	}
	if item.Train.Trades != 1 || item.Test.Trades != 0 {
		t.Errorf("Expected 1 train trade and no test trades, got %d/%d", item.Train.Trades, item.Test.Trades)
	}

	// без сделок на тесте фактом считается buy-and-hold тестового окна
	if item.TestHasTrades || item.ActualReturnPct != item.TestBuyHoldPct {
		t.Errorf("Expected buy-and-hold fallback, got actual=%v bnh=%v", item.ActualReturnPct, item.TestBuyHoldPct)
	}
	if item.TestAlphaPct != 0 {
		t.Errorf("Fallback must give zero test alpha, got %v", item.TestAlphaPct)
	}

	if item.PredictedDirection != Bullish || item.ActualDirection != Bullish || !item.DirectionCorrect {
		t.Errorf("Expected bullish/bullish, got %s/%s", item.PredictedDirection, item.ActualDirection)
	}
	if item.PredictedReturnPct < 10 || item.PredictedReturnPct > 13 {
		t.Errorf("Predicted return out of range: %v", item.PredictedReturnPct)
	}
	if item.ConfidenceScore < 50 || item.ConfidenceScore > 100 {
		t.Errorf("Expected confidence >= 50, got %v", item.ConfidenceScore)
	}

	if len(item.TestEquityPredicted) != 58 {
		t.Errorf("Expected 58 predicted points, got %d", len(item.TestEquityPredicted))
	}
	if len(item.TestEquityActual) != 57 {
		t.Errorf("Expected 57 actual points, got %d", len(item.TestEquityActual))
	}
	// фактическая кривая теста продолжает обучающую
	lastTrain := item.TrainEquity[len(item.TrainEquity)-1].Value
	if math.Abs(item.TestEquityActual[0].Value-lastTrain) > 0.02 {
		t.Errorf("Actual test curve starts at %v, train ends at %v", item.TestEquityActual[0].Value, lastTrain)
	}
	if item.Label != "ma_cross" {
		t.Errorf("Expected default label, got %q", item.Label)
	}
}

func TestEvaluateWalkForward_ExternalSplit(t *testing.T) {
	bars := growingBars(300)
	gen := scriptedGen{warmup: 19, signals: []Signal{{Index: 59, Action: BUY}}}
	split := Split{Warmup: 59, At: 251, End: 300}

	item, err := EvaluateWalkForward(bars, gen, StrategyParams{}, WalkForwardOptions{Split: &split})
	if err != nil {
		t.Fatalf("EvaluateWalkForward: %v", err)
	}
	// общее деление важнее собственного прогрева стратегии
	if item.TrainBars != 192 || item.TestBars != 49 {
		t.Errorf("Expected 192/49 bars, got %d/%d", item.TrainBars, item.TestBars)
	}
	if item.TrainFrom != formatDate(bars[59].Date) || item.TestFrom != formatDate(bars[251].Date) {
		t.Errorf("Unexpected window dates %s / %s", item.TrainFrom, item.TestFrom)
	}
	if want := RoundCents(BuyAndHoldReturn(bars[251:])); item.TestBuyHoldPct != want {
		t.Errorf("Expected test buy-and-hold %v, got %v", want, item.TestBuyHoldPct)
	}
}

func TestEvaluateWalkForward_Errors(t *testing.T) {
	bars := growingBars(300)
	silent := scriptedGen{warmup: 19}

	tests := []struct {
		name    string
		bars    []Bar
		gen     SignalGenerator
		opts    WalkForwardOptions
		wantErr error
	}{
		{"no train trades", bars, silent, WalkForwardOptions{}, ErrNoResult},
		{"short series", bars[:50], silent, WalkForwardOptions{}, ErrNoResult},
		{"bad ratio", bars, silent, WalkForwardOptions{TrainRatio: 1.5}, ErrInvalidSplit},
		{"nil generator", bars, nil, WalkForwardOptions{}, ErrUnknownStrategy},
		{"rejected params", bars, scriptedGen{warmup: 19, invalid: errors.New("bad window")}, WalkForwardOptions{}, ErrInvalidParams},
		{"split before warmup", bars, silent, WalkForwardOptions{Split: &Split{Warmup: 10, At: 200, End: 300}}, ErrInvalidSplit},
		{"split beyond series", bars, silent, WalkForwardOptions{Split: &Split{Warmup: 19, At: 250, End: 320}}, ErrInvalidSplit},
		{"split with short test", bars, silent, WalkForwardOptions{Split: &Split{Warmup: 19, At: 298, End: 300}}, ErrInvalidSplit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := EvaluateWalkForward(tt.bars, tt.gen, StrategyParams{}, tt.opts)
			if !errors.Is(err, tt.wantErr) || item != nil {
				t.Errorf("Expected %v, got item=%v err=%v", tt.wantErr, item, err)
			}
		})
	}
}
