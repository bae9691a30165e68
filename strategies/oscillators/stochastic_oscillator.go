// strategies/oscillators/stochastic_oscillator.go

// KDJ (Stochastic Oscillator) Strategy
//
// Описание стратегии:
// Стохастик в китайской нотации KDJ: сравнивает цену закрытия с диапазоном
// максимумов и минимумов за окно. K это сглаженный RSV, D это сглаженный K, J = 3K - 2D.
//
// Как работает:
// - RSV = 100 * (close - lowest_low) / (highest_high - lowest_low) за окно ShortWindow
// - K и D сглаживаются с коэффициентом 1/LongWindow, стартуя с 50
// - Покупка: K пересекает D снизу вверх
// - Продажа: K пересекает D сверху вниз
//
// Параметры:
// - ShortWindow: окно RSV (обычно 9)
// - LongWindow: сглаживание K и D (обычно 3)
//
// Слабые стороны:
// - Много ложных сигналов в трендовых рынках
// - Чувствителен к выбору окна

package oscillators

import (
	"fmt"

	"github.com/pkg/errors"

	"wfbt/internal"
)

type KDJConfig struct {
	Window    int `json:"window"`
	Smoothing int `json:"smoothing"`
}

func (c *KDJConfig) Validate() error {
	if c.Window < 1 {
		return errors.New("kdj window must be positive")
	}
	if c.Smoothing < 2 {
		return errors.New("kdj smoothing must be at least 2")
	}
	return nil
}

func (c *KDJConfig) String() string {
	return fmt.Sprintf("KDJ(window=%d, smoothing=%d)", c.Window, c.Smoothing)
}

type KDJStrategy struct{}

func (s *KDJStrategy) Kind() internal.StrategyKind {
	return internal.KDJCross
}

func (s *KDJStrategy) Validate(params internal.StrategyParams) error {
	cfg := &KDJConfig{Window: params.ShortWindow, Smoothing: params.LongWindow}
	return cfg.Validate()
}

func (s *KDJStrategy) Warmup(params internal.StrategyParams) int {
	return params.ShortWindow - 1
}

func (s *KDJStrategy) GenerateSignals(bars []internal.Bar, params internal.StrategyParams) []internal.Signal {
	cfg := &KDJConfig{Window: params.ShortWindow, Smoothing: params.LongWindow}
	if err := cfg.Validate(); err != nil {
		return nil
	}

	closes := internal.Closes(bars)
	k, d, _ := internal.KDJ(internal.Highs(bars), internal.Lows(bars), closes, cfg.Window, cfg.Smoothing)

	var signals []internal.Signal
	for i := internal.SignalFrom(s.Warmup(params)); i < len(bars); i++ {
		prev := internal.ZeroNoise(k[i-1]-d[i-1], 100)
		curr := internal.ZeroNoise(k[i]-d[i], 100)

		switch {
		case prev <= 0 && curr > 0:
			signals = append(signals, internal.Signal{Index: i, Action: internal.BUY})
		case prev >= 0 && curr < 0:
			signals = append(signals, internal.Signal{Index: i, Action: internal.SELL})
		}
	}
	return signals
}
