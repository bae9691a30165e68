package backtester

import (
	"fmt"
	"io"
	"os"
	"strings"

	"wfbt/internal"
)

// ConsolePrinter — реализация вывода результатов в консоль
type ConsolePrinter struct {
	w io.Writer
}

// NewConsolePrinter — конструктор для ConsolePrinter
func NewConsolePrinter() *ConsolePrinter {
	return &ConsolePrinter{w: os.Stdout}
}

func NewWriterPrinter(w io.Writer) *ConsolePrinter {
	return &ConsolePrinter{w: w}
}

// PrintBacktest — итоги одного прогона и журнал сделок
func (p *ConsolePrinter) PrintBacktest(r *internal.BacktestResult) {
	fmt.Fprintln(p.w, "\n"+strings.Repeat("=", 100))
	fmt.Fprintf(p.w, "📊 БЭКТЕСТ %s (short=%d, long=%d) │ %s — %s\n",
		r.Strategy, r.Params.ShortWindow, r.Params.LongWindow,
		r.StartDate.Format(internal.DateLayout), r.EndDate.Format(internal.DateLayout))
	fmt.Fprintln(p.w, strings.Repeat("=", 100))
	fmt.Fprintf(p.w, "💰 Капитал:     %.2f → %.2f (%s)\n", r.InitialCapital, r.FinalCapital, signedPct(r.TotalReturnPct))
	fmt.Fprintf(p.w, "📉 Просадка:    %.2f%%\n", r.MaxDrawdown)
	fmt.Fprintf(p.w, "📐 Шарп:        %.2f\n", r.SharpeRatio)
	fmt.Fprintf(p.w, "🎯 Win rate:    %.2f%%\n", r.WinRate)
	fmt.Fprintf(p.w, "🔁 Сделок:      %d\n", r.TotalTrades)

	if len(r.Trades) == 0 {
		return
	}
	fmt.Fprintln(p.w, strings.Repeat("-", 100))
	fmt.Fprintf(p.w, "%-12s %-6s %-12s %-10s %-14s %-14s\n", "Дата", "Тип", "Цена", "Кол-во", "Прибыль", "Причина")
	for _, t := range r.Trades {
		profit := ""
		if t.Profit != nil {
			profit = fmt.Sprintf("%+.2f", *t.Profit)
		}
		fmt.Fprintf(p.w, "%-12s %-6s %-12.2f %-10d %-14s %-14s\n",
			t.Date.Format(internal.DateLayout), t.Action, t.Price, t.Quantity, profit, t.Reason)
	}
}

// PrintStrategyTest — сравнительная таблица walk-forward, лучшие вверху
func (p *ConsolePrinter) PrintStrategyTest(res *StrategyTestResult) {
	fmt.Fprintln(p.w, "\n"+strings.Repeat("=", 120))
	fmt.Fprintf(p.w, "📊 ПРОВЕРКА СТРАТЕГИЙ │ %s — %s │ обучение %.0f%%\n", res.FullFrom, res.FullTo, res.TrainRatio*100)
	fmt.Fprintln(p.w, strings.Repeat("=", 120))
	fmt.Fprintf(p.w, "%-10s %-10s %-10s %-10s %-10s %-10s %-8s %-8s %-12s %-8s\n",
		"Стратегия", "Обучение", "B&H обуч.", "Прогноз", "Факт", "B&H тест", "Сделки", "Верно", "Доверие", "Ранг")
	fmt.Fprintln(p.w, strings.Repeat("-", 120))

	for i, it := range res.Items {
		direction := "❌"
		if it.DirectionCorrect {
			direction = "✅"
		}
		fmt.Fprintf(p.w, "%-10s %-10s %-10s %-10s %-10s %-10s %-8d %-8s %-12.1f %-8s\n",
			it.Label,
			signedPct(it.Train.ReturnPct),
			signedPct(it.TrainBuyHoldPct),
			signedPct(it.PredictedReturnPct),
			signedPct(it.ActualReturnPct),
			signedPct(it.TestBuyHoldPct),
			it.Test.Trades,
			direction,
			it.ConfidenceScore,
			rankLabel(i))
	}

	fmt.Fprintln(p.w, strings.Repeat("-", 120))
	fmt.Fprintf(p.w, "🧮 Стратегий: %d │ Среднее доверие: %.1f │ Лучшая: %s\n", res.TotalStrategies, res.AvgConfidence, res.BestLabel)
	fmt.Fprintf(p.w, "📈 Купи и держи: весь период %s, тест %s\n", signedPct(res.FullBuyHoldPct), signedPct(res.TestBuyHoldPct))
}

func signedPct(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

func rankLabel(i int) string {
	switch i {
	case 0:
		return "🥇 1"
	case 1:
		return "🥈 2"
	case 2:
		return "🥉 3"
	default:
		return fmt.Sprintf("  %d", i+1)
	}
}
