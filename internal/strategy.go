// strategy.go
package internal

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// ErrInvalidParams — окна стратегии не подходят её генератору сигналов.
// Это ошибка конфигурации, а не нехватка данных.
var ErrInvalidParams = errors.New("invalid strategy params")

// StrategyKind — закрытый перечень поддерживаемых стратегий
type StrategyKind int

const (
	MACross StrategyKind = iota + 1
	MACDHist
	KDJCross
	RSIBand
	BollingerBand
)

var strategyNames = map[StrategyKind]string{
	MACross:       "ma_cross",
	MACDHist:      "macd",
	KDJCross:      "kdj",
	RSIBand:       "rsi",
	BollingerBand: "bollinger",
}

// StrategyKinds возвращает все виды стратегий в фиксированном порядке
func StrategyKinds() []StrategyKind {
	return []StrategyKind{MACross, MACDHist, KDJCross, RSIBand, BollingerBand}
}

func (k StrategyKind) String() string {
	if name, ok := strategyNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseStrategyKind не подставляет стратегию по умолчанию:
// неизвестное имя всегда ошибка.
func ParseStrategyKind(name string) (StrategyKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, n := range strategyNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownStrategy, "%q", name)
}

func (k StrategyKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *StrategyKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind, err := ParseStrategyKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// StrategyParams — пара окон, которую каждая стратегия трактует по-своему:
// периоды MA, окно и сглаживание KDJ, период RSI, период Боллинджера.
type StrategyParams struct {
	ShortWindow int `json:"short_window" yaml:"short_window"`
	LongWindow  int `json:"long_window" yaml:"long_window"`
}

// SignalGenerator — единый контракт всех стратегий
type SignalGenerator interface {
	Kind() StrategyKind
	// Validate проверяет окна до запуска
	Validate(params StrategyParams) error
	// Warmup — первый индекс, начиная с которого стратегия может давать сигналы
	Warmup(params StrategyParams) int
	GenerateSignals(bars []Bar, params StrategyParams) []Signal
}

// ValidateParams оборачивает ошибку генератора в ErrInvalidParams
func ValidateParams(gen SignalGenerator, params StrategyParams) error {
	if err := gen.Validate(params); err != nil {
		return errors.Wrapf(ErrInvalidParams, "%s (short=%d, long=%d): %v", gen.Kind(), params.ShortWindow, params.LongWindow, err)
	}
	return nil
}
