// strategies/volatility/bollinger_bands.go

// Bollinger Bands Strategy
//
// Описание стратегии:
// Полосы Боллинджера: SMA за период и ±2 стандартных отклонения вокруг неё.
// Ширина полос отражает волатильность.
//
// Как работает:
// - Покупка: цена закрылась ниже нижней полосы, а затем вернулась выше неё
// - Продажа: цена закрылась выше верхней полосы, а затем вернулась ниже неё
// - После сигнала сторона снова взводится только когда цена пересечёт среднюю линию
//
// Параметры:
// - LongWindow: период SMA (обычно 20), множитель фиксирован (2.0)
//
// Слабые стороны:
// - В сильных трендах цена долго идёт вдоль полосы, сигнал запаздывает
// - В периоды низкой волатильности полосы сжимаются, давая больше сигналов

package volatility

import (
	"fmt"

	"github.com/pkg/errors"

	"wfbt/internal"
)

const bollingerMultiplier = 2.0

type BollingerBandsConfig struct {
	Period     int     `json:"period"`
	Multiplier float64 `json:"multiplier"`
}

func (c *BollingerBandsConfig) Validate() error {
	if c.Period < 2 {
		return errors.New("bollinger period must be at least 2")
	}
	if c.Multiplier <= 0 {
		return errors.New("bollinger multiplier must be positive")
	}
	return nil
}

func (c *BollingerBandsConfig) String() string {
	return fmt.Sprintf("BollingerBands(period=%d, multiplier=%.1f)", c.Period, c.Multiplier)
}

type BollingerBandsStrategy struct{}

func (s *BollingerBandsStrategy) Kind() internal.StrategyKind {
	return internal.BollingerBand
}

func (s *BollingerBandsStrategy) Validate(params internal.StrategyParams) error {
	cfg := &BollingerBandsConfig{Period: params.LongWindow, Multiplier: bollingerMultiplier}
	return cfg.Validate()
}

func (s *BollingerBandsStrategy) Warmup(params internal.StrategyParams) int {
	return params.LongWindow - 1
}

func (s *BollingerBandsStrategy) GenerateSignals(bars []internal.Bar, params internal.StrategyParams) []internal.Signal {
	cfg := &BollingerBandsConfig{Period: params.LongWindow, Multiplier: bollingerMultiplier}
	if err := cfg.Validate(); err != nil {
		return nil
	}

	closes := internal.Closes(bars)
	upper, middle, lower := internal.Bollinger(closes, cfg.Period, cfg.Multiplier)

	buyArmed, sellArmed := true, true
	var signals []internal.Signal
	for i := internal.SignalFrom(s.Warmup(params)); i < len(bars); i++ {
		if closes[i] > middle[i] {
			buyArmed = true
		}
		if closes[i] < middle[i] {
			sellArmed = true
		}

		switch {
		// Возврат в канал снизу
		case buyArmed && closes[i-1] < lower[i-1] && closes[i] >= lower[i]:
			signals = append(signals, internal.Signal{Index: i, Action: internal.BUY})
			buyArmed = false
		// Возврат в канал сверху
		case sellArmed && closes[i-1] > upper[i-1] && closes[i] <= upper[i]:
			signals = append(signals, internal.Signal{Index: i, Action: internal.SELL})
			sellArmed = false
		}
	}
	return signals
}
