// common.go
// Индикаторы для всех стратегий и для движка исполнения.
// Каждая функция возвращает ряд той же длины, что и вход; до окончания
// прогрева значение равно 0 (или нейтральному уровню для осцилляторов).

package internal

import (
	"github.com/markcheno/go-talib"
	"github.com/samber/lo"
)

const (
	kdjWindow    = 9
	kdjSmoothing = 3
	macdFast     = 12
	macdSlow     = 26
	macdSignal   = 9
)

func Closes(bars []Bar) []float64 {
	return lo.Map(bars, func(b Bar, _ int) float64 { return b.Close })
}

func Highs(bars []Bar) []float64 {
	return lo.Map(bars, func(b Bar, _ int) float64 { return b.High })
}

func Lows(bars []Bar) []float64 {
	return lo.Map(bars, func(b Bar, _ int) float64 { return b.Low })
}

func Volumes(bars []Bar) []float64 {
	return lo.Map(bars, func(b Bar, _ int) float64 { return b.Volume })
}

// SMA — простая скользящая средняя, 0 для первых period-1 значений
func SMA(values []float64, period int) []float64 {
	if period < 1 || len(values) < period {
		return make([]float64, len(values))
	}
	if period == 1 {
		return append([]float64(nil), values...)
	}
	return talib.Sma(values, period)
}

// EMA — экспоненциальная средняя с затравкой первым значением ряда
func EMA(values []float64, period int) []float64 {
	ema := make([]float64, len(values))
	if len(values) == 0 || period < 1 {
		return ema
	}

	multiplier := 2.0 / (float64(period) + 1.0)
	ema[0] = values[0]
	for i := 1; i < len(values); i++ {
		ema[i] = (values[i]-ema[i-1])*multiplier + ema[i-1]
	}
	return ema
}

// ATR — средний истинный диапазон со сглаживанием Уайлдера.
// Затравка: среднее первых period истинных диапазонов.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	if period < 1 || n <= period || len(highs) != n || len(lows) != n {
		return make([]float64, n)
	}
	return talib.Atr(highs, lows, closes, period)
}

// RSI по Уайлдеру: 100 - 100/(1+RS).
// Без движения цены возвращает нейтральные 50, только с ростом 100.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	rsi := make([]float64, n)
	if period < 1 || n <= period {
		return rsi
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	rsi[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		rsi[i] = rsiValue(avgGain, avgLoss)
	}
	return rsi
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// KDJ — стохастик в китайской нотации.
// RSV считается по скользящему окну максимумов/минимумов длиной window,
// K и D сглаживаются как (smoothing-1)/smoothing от предыдущего значения
// плюс 1/smoothing от нового; J = 3K - 2D. До прогрева K=D=J=50.
func KDJ(highs, lows, closes []float64, window, smoothing int) (k, d, j []float64) {
	n := len(closes)
	k = make([]float64, n)
	d = make([]float64, n)
	j = make([]float64, n)
	if window < 1 {
		window = kdjWindow
	}
	if smoothing < 2 {
		smoothing = kdjSmoothing
	}

	prevK, prevD := 50.0, 50.0
	keep := float64(smoothing-1) / float64(smoothing)
	blend := 1.0 / float64(smoothing)

	for i := 0; i < n; i++ {
		if i < window-1 {
			k[i], d[i], j[i] = 50, 50, 50
			continue
		}
		lowest := lo.Min(lows[i-window+1 : i+1])
		highest := lo.Max(highs[i-window+1 : i+1])

		rsv := 50.0
		if highest > lowest {
			rsv = (closes[i] - lowest) / (highest - lowest) * 100
		}

		k[i] = keep*prevK + blend*rsv
		d[i] = keep*prevD + blend*k[i]
		j[i] = 3*k[i] - 2*d[i]
		prevK, prevD = k[i], d[i]
	}
	return k, d, j
}

// Bollinger — средняя линия и полосы ±mult стандартных отклонений
func Bollinger(closes []float64, period int, mult float64) (upper, middle, lower []float64) {
	n := len(closes)
	if period < 2 || n < period {
		return make([]float64, n), make([]float64, n), make([]float64, n)
	}
	return talib.BBands(closes, period, mult, mult, talib.SMA)
}

// MACD возвращает DIF (EMA12-EMA26), DEA (EMA9 от DIF) и гистограмму DIF-DEA
func MACD(closes []float64) (dif, dea, hist []float64) {
	fast := EMA(closes, macdFast)
	slow := EMA(closes, macdSlow)

	dif = make([]float64, len(closes))
	for i := range closes {
		dif[i] = fast[i] - slow[i]
	}
	dea = EMA(dif, macdSignal)

	hist = make([]float64, len(closes))
	for i := range closes {
		hist[i] = dif[i] - dea[i]
	}
	return dif, dea, hist
}
