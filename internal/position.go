package internal

import "math"

// Phase — фаза синтетической позиции
type Phase int

const (
	Flat Phase = iota
	Long
	Cooldown
)

func (p Phase) String() string {
	switch p {
	case Flat:
		return "FLAT"
	case Long:
		return "LONG"
	case Cooldown:
		return "COOLDOWN"
	}
	return "UNKNOWN"
}

// ExitReason — причина закрытия позиции
type ExitReason string

const (
	ExitSignal       ExitReason = "signal"
	ExitStopLoss     ExitReason = "stop_loss"
	ExitTrailingStop ExitReason = "trailing_stop"
)

// Position — явное состояние позиции: Flat | Long{entry, peak, qty} | Cooldown{remaining}.
// Все переходы возвращают новое значение.
type Position struct {
	Phase      Phase
	EntryPrice float64
	PeakPrice  float64
	Quantity   int
	Remaining  int
}

// Tick — шаг 1 на каждой свече: уменьшает охлаждение, по истечении — Flat.
func (p Position) Tick() Position {
	if p.Phase != Cooldown {
		return p
	}
	p.Remaining--
	if p.Remaining <= 0 {
		return Position{Phase: Flat}
	}
	return p
}

func (p Position) CanEnter() bool {
	return p.Phase == Flat
}

func (p Position) Open(price float64, qty int) Position {
	return Position{Phase: Long, EntryPrice: price, PeakPrice: price, Quantity: qty}
}

// Close переводит позицию во Flat, а после стоп-лосса в Cooldown.
func (p Position) Close(reason ExitReason, cooldownBars int) Position {
	if reason == ExitStopLoss && cooldownBars > 0 {
		return Position{Phase: Cooldown, Remaining: cooldownBars}
	}
	return Position{Phase: Flat}
}

// Mark обновляет пиковую цену открытой позиции
func (p Position) Mark(close float64) Position {
	if p.Phase == Long {
		p.PeakPrice = math.Max(p.PeakPrice, close)
	}
	return p
}

// StopPrice — более строгий из ATR-стопа и процентного стопа.
// При недоступном ATR остаётся только процентный.
func (p Position) StopPrice(atr float64, risk RiskConfig) float64 {
	stop := p.EntryPrice * (1 - risk.StopLossPct)
	if atr > 0 {
		stop = math.Max(stop, p.EntryPrice-atr*risk.ATRStopMult)
	}
	return stop
}

func (p Position) TrailingPrice(risk RiskConfig) float64 {
	return p.PeakPrice * (1 - risk.TrailingStopPct)
}

// ExitRule проверяет правила выхода. Фиксированный/ATR стоп проверяется
// раньше трейлинга: при одновременном срабатывании побеждает стоп.
func (p Position) ExitRule(close, atr float64, risk RiskConfig) (ExitReason, bool) {
	if p.Phase != Long {
		return "", false
	}
	if close <= p.StopPrice(atr, risk) {
		return ExitStopLoss, true
	}
	if close <= p.TrailingPrice(risk) && close > p.EntryPrice {
		return ExitTrailingStop, true
	}
	return "", false
}
