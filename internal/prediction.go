// prediction.go — экстраполяция доходности, классификация направления
// и оценка доверия к прогнозу.
package internal

import (
	"math"
)

const (
	directionDeadBand = 3.0

	minPredictTrainBars = 5
	minPredictTestBars  = 1
)

type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
	Neutral Direction = "neutral"
)

// ClassifyDirection — коридор ±3% считается боковиком
func ClassifyDirection(returnPct float64) Direction {
	switch {
	case returnPct > directionDeadBand:
		return Bullish
	case returnPct < -directionDeadBand:
		return Bearish
	default:
		return Neutral
	}
}

// PredictReturn переносит доходность обучающего окна на тестовое через
// среднюю дневную сложную ставку:
//
//	cagr = (1+r)^(1/trainBars) - 1
//	pred = (1+cagr)^testBars - 1
//
// Результат в процентах.
func PredictReturn(trainReturnPct float64, trainBars, testBars int) float64 {
	if trainBars < minPredictTrainBars || testBars < minPredictTestBars {
		return 0
	}
	r := trainReturnPct / 100
	if r <= -1 {
		return -100
	}
	daily := math.Pow(1+r, 1/float64(trainBars)) - 1
	return (math.Pow(1+daily, float64(testBars)) - 1) * 100
}

// BuyAndHoldReturn — доходность покупки на первой свече и продажи на последней, %
func BuyAndHoldReturn(bars []Bar) float64 {
	if len(bars) < 2 || bars[0].Close <= 0 {
		return 0
	}
	return PercentChange(bars[0].Close, bars[len(bars)-1].Close)
}

// ConfidenceInputs — всё, из чего складывается оценка доверия
type ConfidenceInputs struct {
	PredictedPct     float64
	ActualPct        float64
	DirectionCorrect bool
	TrainAlphaPct    float64
	TestAlphaPct     float64
	TrainSharpe      float64
	TrainWinRate     float64
	TestTrades       int
}

// ConfidenceScore — сумма баллов по пяти блокам, ограниченная [0, 100]:
// направление (25), ошибка доходности (25), согласованность альфы (20),
// качество обучения (15), активность на тесте (15).
func ConfidenceScore(in ConfidenceInputs) float64 {
	score := 0.0

	switch {
	case in.DirectionCorrect:
		score += 25
	case in.PredictedPct >= 0 && in.ActualPct >= 0, in.PredictedPct < 0 && in.ActualPct < 0:
		score += 12
	}

	// 0% ошибки → 25 баллов, от ~30% → 0
	returnError := math.Abs(in.PredictedPct - in.ActualPct)
	score += math.Max(0, 25-returnError*0.83)

	switch {
	case in.TrainAlphaPct >= 0 && in.TestAlphaPct >= 0:
		score += 20
	case in.TrainAlphaPct < 0 && in.TestAlphaPct < 0:
		score += 10
	case math.Abs(in.TrainAlphaPct) < 3 && math.Abs(in.TestAlphaPct) < 3:
		score += 8
	}

	switch {
	case in.TrainSharpe > 1.5:
		score += 10
	case in.TrainSharpe > 0.5:
		score += 6
	case in.TrainSharpe > 0:
		score += 3
	}
	switch {
	case in.TrainWinRate > 55:
		score += 5
	case in.TrainWinRate > 40:
		score += 3
	}

	switch {
	case in.TestTrades >= 3:
		score += 15
	case in.TestTrades >= 1:
		score += 8
	}

	if math.IsNaN(score) {
		return 0
	}
	return math.Min(100, math.Max(0, score))
}
