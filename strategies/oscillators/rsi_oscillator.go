// strategies/oscillators/rsi_oscillator.go

// RSI Oscillator Strategy
//
// Описание стратегии:
// Индекс относительной силы (RSI) определяет перекупленность и перепроданность
// по шкале от 0 до 100.
//
// Как работает:
// - Рассчитывается RSI с периодом ShortWindow (по умолчанию 14)
// - Покупка: RSI возвращается выше 30 после пребывания ниже (выход из перепроданности)
// - Продажа: RSI возвращается ниже 70 после пребывания выше (выход из перекупленности)
// - Гистерезис: каждая сторона снова взводится только после пересечения средней линии 50,
//   поэтому колебания около уровня не дают серию одинаковых сигналов
//
// Слабые стороны:
// - Ложные сигналы в сильных трендах
// - Не учитывает направление тренда

package oscillators

import (
	"wfbt/internal"
)

const (
	rsiDefaultPeriod = 14
	rsiOversold      = 30.0
	rsiOverbought    = 70.0
	rsiMidBand       = 50.0
)

type RsiOscillatorStrategy struct{}

func (s *RsiOscillatorStrategy) Kind() internal.StrategyKind {
	return internal.RSIBand
}

func rsiPeriod(params internal.StrategyParams) int {
	if params.ShortWindow <= 0 {
		return rsiDefaultPeriod
	}
	return params.ShortWindow
}

// Validate: неположительный период заменяется на 14, любое окно допустимо
func (s *RsiOscillatorStrategy) Validate(internal.StrategyParams) error {
	return nil
}

func (s *RsiOscillatorStrategy) Warmup(params internal.StrategyParams) int {
	return rsiPeriod(params)
}

func (s *RsiOscillatorStrategy) GenerateSignals(bars []internal.Bar, params internal.StrategyParams) []internal.Signal {
	rsi := internal.RSI(internal.Closes(bars), rsiPeriod(params))

	buyArmed, sellArmed := true, true
	var signals []internal.Signal
	for i := internal.SignalFrom(s.Warmup(params)); i < len(bars); i++ {
		prev, curr := rsi[i-1], rsi[i]

		// Пересечение средней линии взводит противоположную сторону
		if curr > rsiMidBand {
			buyArmed = true
		}
		if curr < rsiMidBand {
			sellArmed = true
		}

		switch {
		case buyArmed && prev < rsiOversold && curr >= rsiOversold:
			signals = append(signals, internal.Signal{Index: i, Action: internal.BUY})
			buyArmed = false
		case sellArmed && prev > rsiOverbought && curr <= rsiOverbought:
			signals = append(signals, internal.Signal{Index: i, Action: internal.SELL})
			sellArmed = false
		}
	}
	return signals
}
