// strategies/catalog.go — неизменяемая таблица стратегий.
// Новая стратегия добавляется сюда и в перечисление internal.StrategyKind.
package strategies

import (
	"github.com/pkg/errors"

	"wfbt/internal"
	"wfbt/strategies/momentum"
	"wfbt/strategies/oscillators"
	"wfbt/strategies/trend"
	"wfbt/strategies/volatility"
)

var generators = map[internal.StrategyKind]internal.SignalGenerator{
	internal.MACross:       &trend.MACrossoverStrategy{},
	internal.MACDHist:      &momentum.MACDStrategy{},
	internal.KDJCross:      &oscillators.KDJStrategy{},
	internal.RSIBand:       &oscillators.RsiOscillatorStrategy{},
	internal.BollingerBand: &volatility.BollingerBandsStrategy{},
}

// Lookup возвращает генератор сигналов для вида стратегии
func Lookup(kind internal.StrategyKind) (internal.SignalGenerator, error) {
	gen, ok := generators[kind]
	if !ok {
		return nil, errors.Wrapf(internal.ErrUnknownStrategy, "kind %d", int(kind))
	}
	return gen, nil
}

// LookupName — Lookup по строковому имени ("ma_cross", "macd", ...)
func LookupName(name string) (internal.SignalGenerator, error) {
	kind, err := internal.ParseStrategyKind(name)
	if err != nil {
		return nil, err
	}
	return Lookup(kind)
}

// Entry — стратегия каталога с окнами и подписью для отчёта
type Entry struct {
	Kind   internal.StrategyKind   `json:"strategy"`
	Params internal.StrategyParams `json:"params"`
	Label  string                  `json:"label"`
}

// Catalog — набор, который прогоняется в режиме проверки стратегий
func Catalog() []Entry {
	return []Entry{
		{Kind: internal.MACross, Params: internal.StrategyParams{ShortWindow: 5, LongWindow: 20}, Label: "MA(5,20)"},
		{Kind: internal.MACross, Params: internal.StrategyParams{ShortWindow: 10, LongWindow: 30}, Label: "MA(10,30)"},
		{Kind: internal.MACross, Params: internal.StrategyParams{ShortWindow: 20, LongWindow: 60}, Label: "MA(20,60)"},
		{Kind: internal.MACDHist, Params: internal.StrategyParams{ShortWindow: 12, LongWindow: 26}, Label: "MACD"},
		{Kind: internal.KDJCross, Params: internal.StrategyParams{ShortWindow: 9, LongWindow: 3}, Label: "KDJ"},
		{Kind: internal.RSIBand, Params: internal.StrategyParams{ShortWindow: 14, LongWindow: 0}, Label: "RSI(14)"},
		{Kind: internal.BollingerBand, Params: internal.StrategyParams{ShortWindow: 0, LongWindow: 20}, Label: "BOLL(20)"},
	}
}
