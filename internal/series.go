// series.go — прореженные ряды для графиков отчёта.
// Все значения округляются до копеек.
package internal

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	maxEquityPoints    = 200
	maxPricePoints     = 250
	maxBuyHoldPoints   = 100
	maxPredictedPoints = 30

	calendarDaysPerYear = 365
)

// ProjectedPoint — точка графика: дата в формате DateLayout и значение
type ProjectedPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

func RoundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func point(date time.Time, v float64) ProjectedPoint {
	return ProjectedPoint{Date: date.Format(DateLayout), Value: RoundCents(v)}
}

// sampleIndexes — индексы 0, step, 2·step, ... плюс последний, если он не попал в шаг
func sampleIndexes(n, maxPoints int) []int {
	if n == 0 {
		return nil
	}
	step := 1
	if maxPoints > 0 && n > maxPoints {
		step = n / maxPoints
	}
	idx := make([]int, 0, n/step+1)
	for i := 0; i < n; i += step {
		idx = append(idx, i)
	}
	if (n-1)%step != 0 {
		idx = append(idx, n-1)
	}
	return idx
}

func SampleEquity(equity []EquityPoint, maxPoints int) []ProjectedPoint {
	idx := sampleIndexes(len(equity), maxPoints)
	out := make([]ProjectedPoint, 0, len(idx))
	for _, i := range idx {
		out = append(out, point(equity[i].Date, equity[i].Value))
	}
	return out
}

func SamplePrices(bars []Bar, maxPoints int) []ProjectedPoint {
	idx := sampleIndexes(len(bars), maxPoints)
	out := make([]ProjectedPoint, 0, len(idx))
	for _, i := range idx {
		out = append(out, point(bars[i].Date, bars[i].Close))
	}
	return out
}

// BuyAndHoldEquity — капитал start, целиком вложенный в первую свечу
func BuyAndHoldEquity(bars []Bar, start float64) []ProjectedPoint {
	if len(bars) < 2 || bars[0].Close <= 0 {
		return []ProjectedPoint{}
	}
	base := bars[0].Close
	idx := sampleIndexes(len(bars), maxBuyHoldPoints)
	out := make([]ProjectedPoint, 0, len(idx))
	for _, i := range idx {
		out = append(out, point(bars[i].Date, start*bars[i].Close/base))
	}
	return out
}

// PredictedEquity раскладывает прогнозную доходность predictedPct на testBars
// торговых дней с постоянным дневным множителем. Даты календарные,
// 252 торговых дня соответствуют 365 календарным.
func PredictedEquity(start, predictedPct float64, testStart time.Time, testBars int) []ProjectedPoint {
	out := []ProjectedPoint{point(testStart, start)}
	if testBars < 1 {
		return out
	}

	dailyMult := math.Pow(1+predictedPct/100, 1/float64(testBars))
	nPoints := min(maxPredictedPoints, testBars)
	step := max(1, testBars/nPoints)
	for b := step; b <= testBars; b += step {
		days := b * calendarDaysPerYear / tradingDaysPerYear
		out = append(out, point(testStart.AddDate(0, 0, days), start*math.Pow(dailyMult, float64(b))))
	}
	return out
}

// ShiftSeries сдвигает все значения на offset
func ShiftSeries(points []ProjectedPoint, offset float64) []ProjectedPoint {
	out := make([]ProjectedPoint, len(points))
	for i, p := range points {
		out[i] = ProjectedPoint{Date: p.Date, Value: RoundCents(p.Value + offset)}
	}
	return out
}
