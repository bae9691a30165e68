// metrics.go — кривая капитала и показатели эффективности по журналу сделок
package internal

import (
	"math"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

const (
	tradingDaysPerYear = 252
	minSharpeReturns   = 6
)

type EquityPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

type Metrics struct {
	InitialCapital float64
	FinalCapital   float64
	TotalReturn    float64
	TotalReturnPct float64
	MaxDrawdown    float64 // в процентах
	SharpeRatio    float64
	WinRate        float64 // в процентах
	TotalTrades    int
	Equity         []EquityPoint
}

// ComputeMetrics переигрывает сделки по индексам свечей окна:
// капитал на свече = кэш + количество × close.
func ComputeMetrics(bars []Bar, w Window, trades []Trade, capital float64) Metrics {
	equity := EquityCurve(bars, w, trades, capital)

	final := capital
	if len(equity) > 0 {
		final = equity[len(equity)-1].Value
	}

	m := Metrics{
		InitialCapital: capital,
		FinalCapital:   final,
		TotalReturn:    final - capital,
		MaxDrawdown:    MaxDrawdown(equity),
		SharpeRatio:    SharpeRatio(equity),
		WinRate:        WinRate(trades),
		TotalTrades:    len(trades),
		Equity:         equity,
	}
	if capital > 0 {
		m.TotalReturnPct = m.TotalReturn / capital * 100
	}
	return m
}

func EquityCurve(bars []Bar, w Window, trades []Trade, capital float64) []EquityPoint {
	byIndex := lo.GroupBy(trades, func(t Trade) int { return t.Index })

	cash, qty := capital, 0
	points := make([]EquityPoint, 0, w.Len())
	for i := w.From; i < w.To && i < len(bars); i++ {
		for _, t := range byIndex[i] {
			switch t.Action {
			case BUY:
				cash -= t.Price * float64(t.Quantity)
				qty += t.Quantity
			case SELL:
				cash += t.Price * float64(t.Quantity)
				qty -= t.Quantity
			}
		}
		points = append(points, EquityPoint{
			Date:  bars[i].Date,
			Value: cash + float64(qty)*bars[i].Close,
		})
	}
	return points
}

// Drawdowns — просадка в процентах от текущего пика для каждой точки.
// Неположительный пик даёт 0.
func Drawdowns(equity []EquityPoint) []float64 {
	out := make([]float64, len(equity))
	peak := math.Inf(-1)
	for i, p := range equity {
		peak = math.Max(peak, p.Value)
		if peak > 0 {
			out[i] = (peak - p.Value) / peak * 100
		}
	}
	return out
}

func MaxDrawdown(equity []EquityPoint) float64 {
	if len(equity) == 0 {
		return 0
	}
	return lo.Max(Drawdowns(equity))
}

// SharpeRatio — годовой коэффициент Шарпа по дневным доходностям капитала
// (безрисковая ставка 0, выборочное стандартное отклонение).
func SharpeRatio(equity []EquityPoint) float64 {
	returns := make([]float64, 0, len(equity))
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Value
		if prev == 0 {
			continue
		}
		returns = append(returns, equity[i].Value/prev-1)
	}
	if len(returns) < minSharpeReturns {
		return 0
	}

	mean, std := stat.MeanStdDev(returns, nil)
	if std == 0 || math.IsNaN(std) {
		return 0
	}
	return mean / std * math.Sqrt(tradingDaysPerYear)
}

// WinRate — доля прибыльных закрытий среди всех SELL, в процентах
func WinRate(trades []Trade) float64 {
	sells := lo.Filter(trades, func(t Trade, _ int) bool { return t.Action == SELL })
	if len(sells) == 0 {
		return 0
	}
	wins := lo.CountBy(sells, func(t Trade) bool { return t.Profit != nil && *t.Profit > 0 })
	return float64(wins) / float64(len(sells)) * 100
}
