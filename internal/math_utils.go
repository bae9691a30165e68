package internal

import "math"

// ZeroNoise обнуляет разность, если она меньше погрешности округления
// относительно масштаба цены
func ZeroNoise(v, scale float64) float64 {
	if math.Abs(v) <= 1e-9*math.Max(1, math.Abs(scale)) {
		return 0
	}
	return v
}

// PercentChange возвращает изменение от from к to в процентах, 0 при from <= 0
func PercentChange(from, to float64) float64 {
	if from <= 0 {
		return 0
	}
	return (to - from) / from * 100
}

// SignalFrom — первый индекс, на котором сигнал можно сравнить с предыдущей
// свечой, уже прошедшей прогрев
func SignalFrom(warmup int) int {
	return max(warmup, 0) + 1
}
