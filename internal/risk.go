package internal

import (
	"github.com/pkg/errors"
)

// RiskConfig — параметры риск-менеджмента движка исполнения.
// Значение неизменяемо: переопределения применяются через Merge и дают новую копию.
type RiskConfig struct {
	StopLossPct     float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	TrailingStopPct float64 `json:"trailing_stop_pct" yaml:"trailing_stop_pct"`
	RiskPerTrade    float64 `json:"risk_per_trade" yaml:"risk_per_trade"`
	MaxPositionPct  float64 `json:"max_position_pct" yaml:"max_position_pct"`
	TrendMALen      int     `json:"trend_ma_len" yaml:"trend_ma_len"`
	CooldownBars    int     `json:"cooldown_bars" yaml:"cooldown_bars"`
	ATRPeriod       int     `json:"atr_period" yaml:"atr_period"`
	ATRStopMult     float64 `json:"atr_stop_mult" yaml:"atr_stop_mult"`
	VolumeMALen     int     `json:"volume_ma_len" yaml:"volume_ma_len"`
	LotSize         int     `json:"lot_size" yaml:"lot_size"`
}

// DefaultRiskConfig — профиль движка по умолчанию
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		StopLossPct:     0.07,
		TrailingStopPct: 0.18,
		RiskPerTrade:    0.04,
		MaxPositionPct:  0.90,
		TrendMALen:      40,
		CooldownBars:    2,
		ATRPeriod:       14,
		ATRStopMult:     2.0,
		VolumeMALen:     20,
		LotSize:         100,
	}
}

// WalkForwardRiskConfig — более свободный профиль для walk-forward:
// больше сделок, меньше фильтров.
func WalkForwardRiskConfig() RiskConfig {
	cfg := DefaultRiskConfig()
	cfg.RiskPerTrade = 0.08
	cfg.MaxPositionPct = 0.95
	cfg.StopLossPct = 0.10
	cfg.TrailingStopPct = 0.22
	cfg.TrendMALen = 20
	cfg.CooldownBars = 1
	return cfg
}

// RiskOverrides — частичные переопределения; nil означает «взять из базового профиля».
type RiskOverrides struct {
	StopLossPct     *float64 `json:"stop_loss_pct,omitempty" yaml:"stop_loss_pct,omitempty"`
	TrailingStopPct *float64 `json:"trailing_stop_pct,omitempty" yaml:"trailing_stop_pct,omitempty"`
	RiskPerTrade    *float64 `json:"risk_per_trade,omitempty" yaml:"risk_per_trade,omitempty"`
	MaxPositionPct  *float64 `json:"max_position_pct,omitempty" yaml:"max_position_pct,omitempty"`
	TrendMALen      *int     `json:"trend_ma_len,omitempty" yaml:"trend_ma_len,omitempty"`
	CooldownBars    *int     `json:"cooldown_bars,omitempty" yaml:"cooldown_bars,omitempty"`
	ATRPeriod       *int     `json:"atr_period,omitempty" yaml:"atr_period,omitempty"`
	ATRStopMult     *float64 `json:"atr_stop_mult,omitempty" yaml:"atr_stop_mult,omitempty"`
	VolumeMALen     *int     `json:"volume_ma_len,omitempty" yaml:"volume_ma_len,omitempty"`
	LotSize         *int     `json:"lot_size,omitempty" yaml:"lot_size,omitempty"`
}

// Merge возвращает копию c с применёнными переопределениями
func (c RiskConfig) Merge(o RiskOverrides) RiskConfig {
	if o.StopLossPct != nil {
		c.StopLossPct = *o.StopLossPct
	}
	if o.TrailingStopPct != nil {
		c.TrailingStopPct = *o.TrailingStopPct
	}
	if o.RiskPerTrade != nil {
		c.RiskPerTrade = *o.RiskPerTrade
	}
	if o.MaxPositionPct != nil {
		c.MaxPositionPct = *o.MaxPositionPct
	}
	if o.TrendMALen != nil {
		c.TrendMALen = *o.TrendMALen
	}
	if o.CooldownBars != nil {
		c.CooldownBars = *o.CooldownBars
	}
	if o.ATRPeriod != nil {
		c.ATRPeriod = *o.ATRPeriod
	}
	if o.ATRStopMult != nil {
		c.ATRStopMult = *o.ATRStopMult
	}
	if o.VolumeMALen != nil {
		c.VolumeMALen = *o.VolumeMALen
	}
	if o.LotSize != nil {
		c.LotSize = *o.LotSize
	}
	return c
}

func (c RiskConfig) Validate() error {
	if c.StopLossPct <= 0 || c.StopLossPct >= 1 {
		return errors.Errorf("stop_loss_pct must be in (0,1), got %v", c.StopLossPct)
	}
	if c.TrailingStopPct <= 0 || c.TrailingStopPct >= 1 {
		return errors.Errorf("trailing_stop_pct must be in (0,1), got %v", c.TrailingStopPct)
	}
	if c.RiskPerTrade <= 0 || c.RiskPerTrade > 1 {
		return errors.Errorf("risk_per_trade must be in (0,1], got %v", c.RiskPerTrade)
	}
	if c.MaxPositionPct <= 0 || c.MaxPositionPct > 1 {
		return errors.Errorf("max_position_pct must be in (0,1], got %v", c.MaxPositionPct)
	}
	if c.TrendMALen < 0 || c.VolumeMALen < 0 {
		return errors.New("moving average lengths must not be negative")
	}
	if c.CooldownBars < 0 {
		return errors.New("cooldown_bars must not be negative")
	}
	if c.ATRPeriod < 1 {
		return errors.New("atr_period must be positive")
	}
	if c.ATRStopMult <= 0 {
		return errors.New("atr_stop_mult must be positive")
	}
	if c.LotSize < 1 {
		return errors.New("lot_size must be positive")
	}
	return nil
}
