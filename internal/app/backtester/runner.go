package backtester

import (
	"runtime"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	lop "github.com/samber/lo/parallel"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"wfbt/internal"
	"wfbt/strategies"
)

// Runner запускает одиночный бэктест или проверку набора стратегий
type Runner struct {
	cfg     Config
	log     *zap.Logger
	printer ResultPrinter
}

func NewRunner(cfg Config, log *zap.Logger, printer ResultPrinter) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, log: log, printer: printer}
}

// entries — стратегии к запуску: весь каталог, записи каталога одного вида
// или одна запись с окнами из конфигурации
func (r *Runner) entries() ([]strategies.Entry, error) {
	catalog := strategies.Catalog()
	if r.cfg.Strategy == "" {
		return catalog, nil
	}

	kind, err := internal.ParseStrategyKind(r.cfg.Strategy)
	if err != nil {
		return nil, err
	}
	if r.cfg.ShortWindow > 0 || r.cfg.LongWindow > 0 {
		params := internal.StrategyParams{ShortWindow: r.cfg.ShortWindow, LongWindow: r.cfg.LongWindow}
		return []strategies.Entry{{Kind: kind, Params: params, Label: kind.String()}}, nil
	}
	return lo.Filter(catalog, func(e strategies.Entry, _ int) bool { return e.Kind == kind }), nil
}

// RunBacktest — один прогон стратегии по всему ряду с профилем риска по умолчанию
func (r *Runner) RunBacktest(bars []internal.Bar) (*internal.BacktestResult, error) {
	entries, err := r.entries()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.Wrapf(internal.ErrUnknownStrategy, "%q", r.cfg.Strategy)
	}
	entry := entries[0]

	gen, err := strategies.Lookup(entry.Kind)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	result, err := internal.RunBacktest(bars, gen, entry.Params, internal.BacktestOptions{
		Risk:    internal.DefaultRiskConfig().Merge(r.cfg.Risk),
		Capital: r.cfg.Capital,
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("✅ backtest done",
		zap.String("strategy", entry.Label),
		zap.Float64("return_pct", result.TotalReturnPct),
		zap.Int("trades", result.TotalTrades),
		zap.Duration("elapsed", time.Since(startTime)))

	if r.printer != nil {
		r.printer.PrintBacktest(result)
	}
	return result, nil
}

type walkForwardOutcome struct {
	entry strategies.Entry
	item  *internal.WalkForwardItem
	err   error
}

// sharedSplit делит ряд по самому длинному прогреву среди стратегий,
// чтобы все они обучались и проверялись на одних и тех же окнах
func (r *Runner) sharedSplit(n int, entries []strategies.Entry) (internal.Split, error) {
	warmup := 0
	for _, e := range entries {
		gen, err := strategies.Lookup(e.Kind)
		if err != nil {
			return internal.Split{}, err
		}
		if err := internal.ValidateParams(gen, e.Params); err != nil {
			return internal.Split{}, errors.Wrap(err, e.Label)
		}
		warmup = max(warmup, gen.Warmup(e.Params))
	}
	return internal.SplitBars(n, warmup, r.cfg.TrainRatio)
}

// RunStrategyTest прогоняет стратегии через walk-forward параллельно.
// Все стратегии делят ряд одинаково. Стратегии без результата (ErrNoResult)
// пропускаются, ошибка деления выборки или окон прерывает весь запуск.
func (r *Runner) RunStrategyTest(bars []internal.Bar) (*StrategyTestResult, error) {
	if len(bars) == 0 {
		return nil, errors.Wrap(internal.ErrNoResult, "no bars")
	}
	entries, err := r.entries()
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	result := &StrategyTestResult{
		Source:         r.cfg.Filename,
		FullFrom:       bars[0].Date.Format(internal.DateLayout),
		FullTo:         bars[len(bars)-1].Date.Format(internal.DateLayout),
		TrainRatio:     r.cfg.TrainRatio,
		FullBuyHoldPct: internal.RoundCents(internal.BuyAndHoldReturn(bars)),
		Items:          []*internal.WalkForwardItem{},
	}

	split, err := r.sharedSplit(len(bars), entries)
	switch {
	case errors.Is(err, internal.ErrNoResult):
		r.log.Info("🔸 series too short for walk-forward", zap.Int("bars", len(bars)), zap.Error(err))
		return r.finishStrategyTest(result, startTime), nil
	case err != nil:
		return nil, err
	}

	testBars := bars[split.At:split.End]
	result.TrainFrom = bars[split.Warmup].Date.Format(internal.DateLayout)
	result.TestFrom = testBars[0].Date.Format(internal.DateLayout)
	result.TestBuyHoldPct = internal.RoundCents(internal.BuyAndHoldReturn(testBars))

	r.log.Info("🚀 strategy test started",
		zap.Int("strategies", len(entries)),
		zap.Int("bars", len(bars)),
		zap.Int("train_from", split.Warmup),
		zap.Int("test_from", split.At),
		zap.Int("cpus", runtime.NumCPU()))

	outcomes := lop.Map(entries, func(e strategies.Entry, _ int) walkForwardOutcome {
		gen, err := strategies.Lookup(e.Kind)
		if err != nil {
			return walkForwardOutcome{entry: e, err: err}
		}
		item, err := internal.EvaluateWalkForward(bars, gen, e.Params, internal.WalkForwardOptions{
			TrainRatio: r.cfg.TrainRatio,
			Capital:    r.cfg.Capital,
			Risk:       r.cfg.Risk,
			Label:      e.Label,
			Logger:     r.log,
			Split:      &split,
		})
		return walkForwardOutcome{entry: e, item: item, err: err}
	})

	items := make([]*internal.WalkForwardItem, 0, len(outcomes))
	for _, o := range outcomes {
		switch {
		case o.err == nil:
			items = append(items, o.item)
		case errors.Is(o.err, internal.ErrNoResult):
			r.log.Info("🔸 strategy skipped", zap.String("strategy", o.entry.Label), zap.Error(o.err))
		case errors.Is(o.err, internal.ErrInvalidSplit), errors.Is(o.err, internal.ErrInvalidParams):
			return nil, o.err
		default:
			r.log.Warn("❌ strategy failed", zap.String("strategy", o.entry.Label), zap.Error(o.err))
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ConfidenceScore > items[j].ConfidenceScore
	})

	result.Items = items
	return r.finishStrategyTest(result, startTime), nil
}

// finishStrategyTest сводит итог по отсортированным результатам и печатает отчёт
func (r *Runner) finishStrategyTest(result *StrategyTestResult, startTime time.Time) *StrategyTestResult {
	items := result.Items
	result.TotalStrategies = len(items)
	result.TimeTakenSeconds = internal.RoundCents(time.Since(startTime).Seconds())
	if len(items) > 0 {
		avg := lo.SumBy(items, func(it *internal.WalkForwardItem) float64 { return it.ConfidenceScore }) / float64(len(items))
		result.AvgConfidence = decimal.NewFromFloat(avg).Round(1).InexactFloat64()
		result.BestStrategy = items[0].Strategy.String()
		result.BestLabel = items[0].Label
	}

	r.log.Info("✅ strategy test done",
		zap.Int("strategies", result.TotalStrategies),
		zap.Float64("avg_confidence", result.AvgConfidence),
		zap.Float64("full_bnh_pct", result.FullBuyHoldPct),
		zap.Float64("elapsed_s", result.TimeTakenSeconds))

	if r.printer != nil {
		r.printer.PrintStrategyTest(result)
	}
	return result
}
