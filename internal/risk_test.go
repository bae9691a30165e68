package internal

import "testing"

func TestRiskConfig_Merge(t *testing.T) {
	stop := 0.05
	lot := 10
	base := DefaultRiskConfig()

	merged := base.Merge(RiskOverrides{StopLossPct: &stop, LotSize: &lot})
	if merged.StopLossPct != 0.05 || merged.LotSize != 10 {
		t.Errorf("Overrides not applied: %+v", merged)
	}
	if merged.TrailingStopPct != base.TrailingStopPct || merged.ATRPeriod != base.ATRPeriod {
		t.Errorf("Unset fields must come from the base profile: %+v", merged)
	}
	if base.StopLossPct != 0.07 || base.LotSize != 100 {
		t.Errorf("Merge must not modify the base profile: %+v", base)
	}

	if got := base.Merge(RiskOverrides{}); got != base {
		t.Errorf("Empty overrides must return the base profile, got %+v", got)
	}
}

func TestWalkForwardRiskConfig(t *testing.T) {
	cfg := WalkForwardRiskConfig()
	if cfg.StopLossPct != 0.10 || cfg.TrailingStopPct != 0.22 || cfg.CooldownBars != 1 || cfg.TrendMALen != 20 {
		t.Errorf("Unexpected walk-forward profile %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Walk-forward profile must be valid: %v", err)
	}
}

func TestRiskConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RiskConfig)
		wantErr bool
	}{
		{"default", func(*RiskConfig) {}, false},
		{"filters disabled", func(c *RiskConfig) { c.TrendMALen, c.VolumeMALen = 0, 0 }, false},
		{"zero stop", func(c *RiskConfig) { c.StopLossPct = 0 }, true},
		{"stop of whole price", func(c *RiskConfig) { c.StopLossPct = 1 }, true},
		{"negative trailing", func(c *RiskConfig) { c.TrailingStopPct = -0.1 }, true},
		{"risk above one", func(c *RiskConfig) { c.RiskPerTrade = 1.5 }, true},
		{"zero position limit", func(c *RiskConfig) { c.MaxPositionPct = 0 }, true},
		{"negative trend ma", func(c *RiskConfig) { c.TrendMALen = -1 }, true},
		{"negative cooldown", func(c *RiskConfig) { c.CooldownBars = -1 }, true},
		{"zero atr period", func(c *RiskConfig) { c.ATRPeriod = 0 }, true},
		{"zero atr multiplier", func(c *RiskConfig) { c.ATRStopMult = 0 }, true},
		{"zero lot", func(c *RiskConfig) { c.LotSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRiskConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
