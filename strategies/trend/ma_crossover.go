// strategies/trend/ma_crossover.go

// Moving Average Crossover Strategy
//
// Описание стратегии:
// Классическая стратегия пересечения скользящих средних. Используются две SMA:
// быстрая (ShortWindow) и медленная (LongWindow).
//
// Как работает:
// - Строится разрыв gap = fastMA - slowMA; пока одна из средних не определена, gap = 0
// - Покупка: gap пересекает ноль снизу вверх (золотой крест)
// - Продажа: gap пересекает ноль сверху вниз (мёртвый крест)
// - Первая свеча, где обе средние определены, сравнивается с нулевым разрывом,
//   поэтому устойчивый тренд даёт сигнал сразу после прогрева
//
// Параметры:
// - ShortWindow: период быстрой MA (5, 10, 20 в каталоге)
// - LongWindow: период медленной MA (20, 30, 60 в каталоге)
//
// Слабые стороны:
// - Много ложных сигналов в боковике (whipsaws)
// - Значительное запаздывание сигнала

package trend

import (
	"fmt"

	"github.com/pkg/errors"

	"wfbt/internal"
)

type MACrossoverConfig struct {
	FastPeriod int `json:"fast_period"`
	SlowPeriod int `json:"slow_period"`
}

func (c *MACrossoverConfig) Validate() error {
	if c.FastPeriod <= 0 {
		return errors.New("fast period must be positive")
	}
	if c.SlowPeriod <= 0 {
		return errors.New("slow period must be positive")
	}
	if c.FastPeriod >= c.SlowPeriod {
		return errors.New("fast period must be less than slow period")
	}
	return nil
}

func (c *MACrossoverConfig) String() string {
	return fmt.Sprintf("MACrossover(fast=%d, slow=%d)", c.FastPeriod, c.SlowPeriod)
}

func configFromParams(p internal.StrategyParams) *MACrossoverConfig {
	return &MACrossoverConfig{FastPeriod: p.ShortWindow, SlowPeriod: p.LongWindow}
}

type MACrossoverStrategy struct{}

func (s *MACrossoverStrategy) Kind() internal.StrategyKind {
	return internal.MACross
}

func (s *MACrossoverStrategy) Validate(params internal.StrategyParams) error {
	return configFromParams(params).Validate()
}

func (s *MACrossoverStrategy) Warmup(params internal.StrategyParams) int {
	return max(params.ShortWindow, params.LongWindow) - 1
}

func (s *MACrossoverStrategy) GenerateSignals(bars []internal.Bar, params internal.StrategyParams) []internal.Signal {
	cfg := configFromParams(params)
	if err := cfg.Validate(); err != nil {
		return nil
	}

	closes := internal.Closes(bars)
	fastMA := internal.SMA(closes, cfg.FastPeriod)
	slowMA := internal.SMA(closes, cfg.SlowPeriod)
	warmup := s.Warmup(params)

	gap := make([]float64, len(bars))
	for i := warmup; i < len(bars); i++ {
		gap[i] = internal.ZeroNoise(fastMA[i]-slowMA[i], closes[i])
	}

	var signals []internal.Signal
	for i := max(warmup, 1); i < len(bars); i++ {
		prev, curr := gap[i-1], gap[i]

		switch {
		// Быстрая MA пересекает медленную снизу вверх
		case prev <= 0 && curr > 0:
			signals = append(signals, internal.Signal{Index: i, Action: internal.BUY})
		// Сверху вниз
		case prev > 0 && curr <= 0:
			signals = append(signals, internal.Signal{Index: i, Action: internal.SELL})
		}
	}
	return signals
}
