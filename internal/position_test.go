package internal

import (
	"math"
	"testing"
)

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{Flat, "FLAT"},
		{Long, "LONG"},
		{Cooldown, "COOLDOWN"},
		{Phase(7), "UNKNOWN"},
		{Phase(-1), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(tt.phase), got, tt.want)
		}
	}
}

func TestPosition_Cooldown(t *testing.T) {
	p := Position{}.Open(100, 10).Close(ExitStopLoss, 2)
	if p.Phase != Cooldown || p.CanEnter() {
		t.Fatalf("Expected cooldown after stop loss, got %s", p.Phase)
	}

	p = p.Tick()
	if p.Phase != Cooldown {
		t.Errorf("Expected cooldown after first tick, got %s", p.Phase)
	}
	p = p.Tick()
	if p.Phase != Flat || !p.CanEnter() {
		t.Errorf("Expected flat after second tick, got %s", p.Phase)
	}

	if got := (Position{}).Open(100, 10).Close(ExitTrailingStop, 2); got.Phase != Flat {
		t.Errorf("Trailing exit must not start cooldown, got %s", got.Phase)
	}
	if got := (Position{}).Open(100, 10).Close(ExitStopLoss, 0); got.Phase != Flat {
		t.Errorf("Zero cooldown must return to flat, got %s", got.Phase)
	}
}

func TestPosition_StopPrice(t *testing.T) {
	risk := DefaultRiskConfig()
	p := Position{}.Open(100, 100)

	tests := []struct {
		name string
		atr  float64
		want float64
	}{
		{"atr undefined", 0, 93},
		{"tight atr stop wins", 2, 96},
		{"wide atr stop loses to percent stop", 10, 93},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.StopPrice(tt.atr, risk); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("StopPrice(%v) = %v, want %v", tt.atr, got, tt.want)
			}
		})
	}
}

func TestPosition_ExitRule(t *testing.T) {
	risk := DefaultRiskConfig()

	tests := []struct {
		name   string
		peak   float64
		close  float64
		atr    float64
		want   ExitReason
		exited bool
	}{
		{"hold", 100, 99, 0, "", false},
		{"percent stop", 100, 92.9, 0, ExitStopLoss, true},
		{"atr stop", 100, 96, 2, ExitStopLoss, true},
		{"trailing in profit", 150, 120, 0, ExitTrailingStop, true},
		{"trailing ignored below entry", 120, 98, 0, "", false},
		{"stop before trailing", 150, 90, 0, ExitStopLoss, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Position{}.Open(100, 100)
			p.PeakPrice = tt.peak
			reason, ok := p.Mark(tt.close).ExitRule(tt.close, tt.atr, risk)
			if ok != tt.exited || reason != tt.want {
				t.Errorf("ExitRule(%v) = %q, %v; want %q, %v", tt.close, reason, ok, tt.want, tt.exited)
			}
		})
	}
}

func TestPosition_MarkTracksPeak(t *testing.T) {
	p := Position{}.Open(100, 1).Mark(110).Mark(105)
	if p.PeakPrice != 110 {
		t.Errorf("Expected peak 110, got %v", p.PeakPrice)
	}
	if flat := (Position{}).Mark(200); flat.PeakPrice != 0 {
		t.Errorf("Flat position must not track peak, got %v", flat.PeakPrice)
	}
}
