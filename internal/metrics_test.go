package internal

import (
	"math"
	"testing"
)

func equityOf(values ...float64) []EquityPoint {
	out := make([]EquityPoint, len(values))
	for i, v := range values {
		out[i] = EquityPoint{Date: testStart.AddDate(0, 0, i), Value: v}
	}
	return out
}

func profit(v float64) *float64 { return &v }

func TestComputeMetrics_AppliesTradesByIndex(t *testing.T) {
	bars := barsFromCloses(10, 11, 12, 9)
	trades := []Trade{
		{Index: 0, Action: BUY, Price: 10, Quantity: 100},
		{Index: 2, Action: SELL, Price: 12, Quantity: 100, Profit: profit(200)},
	}

	m := ComputeMetrics(bars, Window{From: 0, To: 4}, trades, 1000)

	want := []float64{1000, 1100, 1200, 1200}
	for i, p := range m.Equity {
		if math.Abs(p.Value-want[i]) > 1e-9 {
			t.Errorf("equity[%d] = %v, want %v", i, p.Value, want[i])
		}
	}
	if m.FinalCapital != 1200 || m.TotalReturn != 200 || m.TotalReturnPct != 20 {
		t.Errorf("Unexpected totals: %+v", m)
	}
	if m.WinRate != 100 || m.TotalTrades != 2 || m.MaxDrawdown != 0 {
		t.Errorf("Unexpected stats: win=%v trades=%d dd=%v", m.WinRate, m.TotalTrades, m.MaxDrawdown)
	}
}

func TestComputeMetrics_OpenPositionMarkedToMarket(t *testing.T) {
	bars := barsFromCloses(10, 8)
	trades := []Trade{{Index: 0, Action: BUY, Price: 10, Quantity: 100}}

	m := ComputeMetrics(bars, Window{From: 0, To: 2}, trades, 1000)
	if m.FinalCapital != 800 {
		t.Errorf("Expected 800, got %v", m.FinalCapital)
	}
	if math.Abs(m.MaxDrawdown-20) > 1e-9 {
		t.Errorf("Expected 20%% drawdown, got %v", m.MaxDrawdown)
	}
	if m.WinRate != 0 {
		t.Errorf("No closed trades must give zero win rate, got %v", m.WinRate)
	}
}

func TestDrawdowns(t *testing.T) {
	equity := equityOf(100, 120, 90, 130, 117)
	dd := Drawdowns(equity)

	want := []float64{0, 0, 25, 0, 10}
	for i := range want {
		if math.Abs(dd[i]-want[i]) > 1e-9 {
			t.Errorf("drawdown[%d] = %v, want %v", i, dd[i], want[i])
		}
	}

	maxDD := MaxDrawdown(equity)
	for _, d := range dd {
		if d < 0 || d > maxDD {
			t.Errorf("Point drawdown %v outside [0, %v]", d, maxDD)
		}
	}

	if got := MaxDrawdown(equityOf(-10, -5, -20)); got != 0 {
		t.Errorf("Non-positive peak must give 0, got %v", got)
	}
	if got := MaxDrawdown(nil); got != 0 {
		t.Errorf("Empty curve must give 0, got %v", got)
	}
}

func TestSharpeRatio(t *testing.T) {
	tests := []struct {
		name   string
		equity []EquityPoint
		check  func(float64) bool
	}{
		{"flat equity", equityOf(100, 100, 100, 100, 100, 100, 100, 100), func(s float64) bool { return s == 0 }},
		{"too few returns", equityOf(100, 101, 103, 104, 106, 107), func(s float64) bool { return s == 0 }},
		{"steady growth", equityOf(100, 101, 103, 104, 106, 107, 109), func(s float64) bool { return s > 0 }},
		{"steady decline", equityOf(109, 107, 106, 104, 103, 101, 100), func(s float64) bool { return s < 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SharpeRatio(tt.equity); !tt.check(got) {
				t.Errorf("SharpeRatio = %v", got)
			}
		})
	}
}

func TestWinRate(t *testing.T) {
	trades := []Trade{
		{Action: BUY},
		{Action: SELL, Profit: profit(10)},
		{Action: BUY},
		{Action: SELL, Profit: profit(-5)},
		{Action: BUY},
		{Action: SELL, Profit: profit(0)},
	}
	if got, want := WinRate(trades), 100.0/3; math.Abs(got-want) > 1e-9 {
		t.Errorf("WinRate = %v, want %v", got, want)
	}
	if got := WinRate([]Trade{{Action: BUY}}); got != 0 {
		t.Errorf("WinRate without sells = %v, want 0", got)
	}
}
