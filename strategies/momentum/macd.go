// strategies/momentum/macd.go

// MACD (Moving Average Convergence Divergence) Strategy
//
// Описание стратегии:
// MACD показывает связь между двумя экспоненциальными средними цены.
// DIF = EMA12 - EMA26, DEA = EMA9 от DIF, гистограмма = DIF - DEA.
//
// Как работает:
// - Покупка: гистограмма меняет знак на положительный (DIF пересекает DEA снизу вверх)
// - Продажа: гистограмма становится неположительной (DIF пересекает DEA сверху вниз)
// - Первые 26+9-1 свечей считаются прогревом: EMA ещё не устоялись
//
// Параметры:
// Периоды фиксированы (12, 26, 9); пара окон каталога (12, 26) их только подписывает.
//
// Слабые стороны:
// - Ложные сигналы в боковых рынках (whipsaws)
// - Запаздывает по сравнению с более быстрыми индикаторами

package momentum

import (
	"wfbt/internal"
)

const (
	macdSlowPeriod   = 26
	macdSignalPeriod = 9
)

type MACDStrategy struct{}

func (s *MACDStrategy) Kind() internal.StrategyKind {
	return internal.MACDHist
}

// Validate: периоды фиксированы, окна из параметров не используются
func (s *MACDStrategy) Validate(internal.StrategyParams) error {
	return nil
}

func (s *MACDStrategy) Warmup(internal.StrategyParams) int {
	return macdSlowPeriod + macdSignalPeriod - 1
}

func (s *MACDStrategy) GenerateSignals(bars []internal.Bar, params internal.StrategyParams) []internal.Signal {
	closes := internal.Closes(bars)
	_, _, hist := internal.MACD(closes)

	var signals []internal.Signal
	for i := internal.SignalFrom(s.Warmup(params)); i < len(bars); i++ {
		prev := internal.ZeroNoise(hist[i-1], closes[i-1])
		curr := internal.ZeroNoise(hist[i], closes[i])

		switch {
		case prev <= 0 && curr > 0:
			signals = append(signals, internal.Signal{Index: i, Action: internal.BUY})
		case prev > 0 && curr <= 0:
			signals = append(signals, internal.Signal{Index: i, Action: internal.SELL})
		}
	}
	return signals
}
