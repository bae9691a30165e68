// backtest.go — движок исполнения: одна синтетическая длинная позиция,
// стоп-лосс, трейлинг-стоп, фильтры входа и размер позиции по риску.
package internal

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrNoResult — данных недостаточно для запрошенного окна. Пакетные вызовы
// пропускают такой инструмент, не прерывая весь пакет.
var ErrNoResult = errors.New("no result")

const (
	minWindowBars      = 2
	liquidityThreshold = 0.5
)

// Window — полуоткрытый диапазон индексов [From, To). To == 0 означает «до конца ряда».
type Window struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (w Window) Len() int {
	return w.To - w.From
}

func (w Window) resolve(n int) Window {
	if w.To <= 0 || w.To > n {
		w.To = n
	}
	if w.From < 0 {
		w.From = 0
	}
	return w
}

type Trade struct {
	Index    int        `json:"-"`
	Date     time.Time  `json:"date"`
	Action   Action     `json:"action"`
	Price    float64    `json:"price"`
	Quantity int        `json:"quantity"`
	Profit   *float64   `json:"profit,omitempty"`
	Reason   ExitReason `json:"reason,omitempty"`
}

// ExecutionInput — всё, что нужно движку для одного прогона
type ExecutionInput struct {
	Bars     []Bar
	Window   Window
	Signals  map[int]Action
	ATR      []float64
	TrendMA  []float64
	VolumeMA []float64
	Risk     RiskConfig
	Capital  float64
}

// SignalsByIndex раскладывает сигналы по индексам свечей внутри окна
func SignalsByIndex(signals []Signal, w Window) map[int]Action {
	out := make(map[int]Action, len(signals))
	for _, s := range signals {
		if s.Index >= w.From && s.Index < w.To {
			out[s.Index] = s.Action
		}
	}
	return out
}

// Execute проходит окно свеча за свечой и возвращает журнал сделок.
// Открытая на последней свече позиция не закрывается принудительно,
// её оценка по рынку делается в метриках.
func Execute(in ExecutionInput) []Trade {
	trades := []Trade{}
	pos := Position{}
	cash := in.Capital

	for i := in.Window.From; i < in.Window.To; i++ {
		bar := in.Bars[i]
		atr := valueAt(in.ATR, i)

		pos = pos.Tick()

		if pos.Phase == Long {
			pos = pos.Mark(bar.Close)
			if reason, ok := pos.ExitRule(bar.Close, atr, in.Risk); ok {
				trades = append(trades, closingTrade(i, bar, pos, reason))
				cash += bar.Close * float64(pos.Quantity)
				pos = pos.Close(reason, in.Risk.CooldownBars)
				continue
			}
		}

		action, ok := in.Signals[i]
		if !ok {
			continue
		}

		switch action {
		case BUY:
			if !pos.CanEnter() {
				continue
			}
			if !passesEntryFilters(bar, valueAt(in.TrendMA, i), valueAt(in.VolumeMA, i)) {
				continue
			}
			qty := PositionSize(cash, bar.Close, atr, in.Risk)
			if qty <= 0 {
				continue
			}
			cash -= bar.Close * float64(qty)
			pos = pos.Open(bar.Close, qty)
			trades = append(trades, Trade{
				Index:    i,
				Date:     bar.Date,
				Action:   BUY,
				Price:    bar.Close,
				Quantity: qty,
			})
		case SELL:
			if pos.Phase != Long {
				continue
			}
			trades = append(trades, closingTrade(i, bar, pos, ExitSignal))
			cash += bar.Close * float64(pos.Quantity)
			pos = pos.Close(ExitSignal, in.Risk.CooldownBars)
		}
	}

	return trades
}

func closingTrade(i int, bar Bar, pos Position, reason ExitReason) Trade {
	profit := (bar.Close - pos.EntryPrice) * float64(pos.Quantity)
	return Trade{
		Index:    i,
		Date:     bar.Date,
		Action:   SELL,
		Price:    bar.Close,
		Quantity: pos.Quantity,
		Profit:   &profit,
		Reason:   reason,
	}
}

// passesEntryFilters — фильтр тренда (цена не ниже трендовой MA)
// и фильтр ликвидности (объём не ниже половины средней).
func passesEntryFilters(bar Bar, trendMA, volumeMA float64) bool {
	if trendMA > 0 && bar.Close < trendMA {
		return false
	}
	if volumeMA > 0 && bar.Volume < liquidityThreshold*volumeMA {
		return false
	}
	return true
}

// PositionSize — количество, кратное лоту. При доступном ATR берётся меньшее
// из риск-размера и лимита доли капитала; меньше одного лота даёт 0.
func PositionSize(capital, price, atr float64, risk RiskConfig) int {
	if capital <= 0 || price <= 0 || risk.LotSize < 1 {
		return 0
	}

	raw := math.Floor(capital * risk.MaxPositionPct / price)
	if stopDistance := atr * risk.ATRStopMult; atr > 0 && stopDistance > 0 {
		raw = math.Min(raw, math.Floor(capital*risk.RiskPerTrade/stopDistance))
	}

	lots := math.Floor(raw / float64(risk.LotSize))
	if lots < 1 {
		return 0
	}
	return int(lots) * risk.LotSize
}

func valueAt(series []float64, i int) float64 {
	if i < 0 || i >= len(series) {
		return 0
	}
	return series[i]
}

// BacktestOptions — окно, риск-профиль и стартовый капитал одного прогона
type BacktestOptions struct {
	Window  Window
	Risk    RiskConfig
	Capital float64
}

type BacktestResult struct {
	ID             string           `json:"id"`
	Strategy       StrategyKind     `json:"strategy"`
	Params         StrategyParams   `json:"params"`
	StartDate      time.Time        `json:"start_date"`
	EndDate        time.Time        `json:"end_date"`
	Window         Window           `json:"window"`
	InitialCapital float64          `json:"initial_capital"`
	FinalCapital   float64          `json:"final_capital"`
	TotalReturn    float64          `json:"total_return"`
	TotalReturnPct float64          `json:"total_return_percent"`
	MaxDrawdown    float64          `json:"max_drawdown"`
	SharpeRatio    float64          `json:"sharpe_ratio"`
	WinRate        float64          `json:"win_rate"`
	TotalTrades    int              `json:"total_trades"`
	Trades         []Trade          `json:"trades"`
	Equity         []EquityPoint    `json:"-"`
	EquitySeries   []ProjectedPoint `json:"equity_series"`
	PriceSeries    []ProjectedPoint `json:"price_series"`
}

// RunBacktest — полный конвейер: сигналы → исполнение → метрики.
// Индикаторы считаются по всему ряду, поэтому история до окна служит прогревом.
func RunBacktest(bars []Bar, gen SignalGenerator, params StrategyParams, opts BacktestOptions) (*BacktestResult, error) {
	if gen == nil {
		return nil, ErrUnknownStrategy
	}
	if err := ValidateParams(gen, params); err != nil {
		return nil, err
	}
	if err := opts.Risk.Validate(); err != nil {
		return nil, errors.Wrap(err, "risk config")
	}
	if opts.Capital <= 0 {
		return nil, errors.Errorf("initial capital must be positive, got %v", opts.Capital)
	}

	w := opts.Window.resolve(len(bars))
	if warmup := gen.Warmup(params); w.From < warmup {
		w.From = warmup
	}
	if w.Len() < minWindowBars {
		return nil, errors.Wrapf(ErrNoResult, "%s: %d bars, tradable window [%d,%d)", gen.Kind(), len(bars), w.From, w.To)
	}

	closes := Closes(bars)
	in := ExecutionInput{
		Bars:     bars,
		Window:   w,
		Signals:  SignalsByIndex(gen.GenerateSignals(bars, params), w),
		ATR:      ATR(Highs(bars), Lows(bars), closes, opts.Risk.ATRPeriod),
		TrendMA:  SMA(closes, opts.Risk.TrendMALen),
		VolumeMA: SMA(Volumes(bars), opts.Risk.VolumeMALen),
		Risk:     opts.Risk,
		Capital:  opts.Capital,
	}
	trades := Execute(in)
	m := ComputeMetrics(bars, w, trades, opts.Capital)

	return &BacktestResult{
		ID:             uuid.NewString(),
		Strategy:       gen.Kind(),
		Params:         params,
		StartDate:      bars[w.From].Date,
		EndDate:        bars[w.To-1].Date,
		Window:         w,
		InitialCapital: m.InitialCapital,
		FinalCapital:   m.FinalCapital,
		TotalReturn:    m.TotalReturn,
		TotalReturnPct: m.TotalReturnPct,
		MaxDrawdown:    m.MaxDrawdown,
		SharpeRatio:    m.SharpeRatio,
		WinRate:        m.WinRate,
		TotalTrades:    m.TotalTrades,
		Trades:         trades,
		Equity:         m.Equity,
		EquitySeries:   SampleEquity(m.Equity, maxEquityPoints),
		PriceSeries:    SamplePrices(bars[w.From:w.To], maxPricePoints),
	}, nil
}
