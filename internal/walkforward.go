// walkforward.go — проверка стратегии «обучение → тест»: прогон на ранней
// части ряда, экстраполяция результата и сравнение с поздней частью.
package internal

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrInvalidSplit — некорректное деление на обучающее и тестовое окна
var ErrInvalidSplit = errors.New("invalid train/test split")

const (
	DefaultTrainRatio = 0.8
	DefaultCapital    = 100000.0

	minWalkForwardBars = 40
	minTrainBars       = 20
	minTestBars        = 5
)

type WalkForwardOptions struct {
	TrainRatio float64
	Capital    float64
	// Risk накладывается поверх WalkForwardRiskConfig
	Risk   RiskOverrides
	Label  string
	Logger *zap.Logger
	// Split — общее деление для сравнения нескольких стратегий на одних окнах.
	// nil: деление считается по прогреву самой стратегии и TrainRatio.
	Split *Split
}

// BacktestSummary — сжатые показатели одного окна
type BacktestSummary struct {
	ReturnPct   float64 `json:"return_pct"`
	Sharpe      float64 `json:"sharpe"`
	MaxDrawdown float64 `json:"max_drawdown"`
	WinRate     float64 `json:"win_rate"`
	Trades      int     `json:"trades"`
}

func summarize(r *BacktestResult) BacktestSummary {
	return BacktestSummary{
		ReturnPct:   RoundCents(r.TotalReturnPct),
		Sharpe:      RoundCents(r.SharpeRatio),
		MaxDrawdown: RoundCents(r.MaxDrawdown),
		WinRate:     RoundCents(r.WinRate),
		Trades:      r.TotalTrades,
	}
}

type WalkForwardItem struct {
	Strategy  StrategyKind   `json:"strategy"`
	Label     string         `json:"strategy_label"`
	Params    StrategyParams `json:"params"`
	TrainFrom string         `json:"train_start"`
	TrainTo   string         `json:"train_end"`
	TestFrom  string         `json:"test_start"`
	TestTo    string         `json:"test_end"`
	TrainBars int            `json:"train_bars"`
	TestBars  int            `json:"test_bars"`

	Train BacktestSummary `json:"train"`
	Test  BacktestSummary `json:"test"`

	TrainBuyHoldPct float64 `json:"train_bnh_pct"`
	TestBuyHoldPct  float64 `json:"test_bnh_pct"`

	PredictedReturnPct float64   `json:"predicted_return_pct"`
	PredictedDirection Direction `json:"predicted_direction"`
	ActualReturnPct    float64   `json:"actual_return_pct"`
	ActualDirection    Direction `json:"actual_direction"`
	TrainAlphaPct      float64   `json:"train_alpha_pct"`
	TestAlphaPct       float64   `json:"test_alpha_pct"`
	DirectionCorrect   bool      `json:"direction_correct"`
	ReturnErrorPct     float64   `json:"return_error_pct"`
	ConfidenceScore    float64   `json:"confidence_score"`
	TestHasTrades      bool      `json:"test_has_trades"`

	TrainEquity         []ProjectedPoint `json:"train_equity"`
	TestEquityPredicted []ProjectedPoint `json:"test_equity_predicted"`
	TestEquityActual    []ProjectedPoint `json:"test_equity_actual"`
	TestEquityBuyHold   []ProjectedPoint `json:"test_equity_bnh"`
	FullPriceSeries     []ProjectedPoint `json:"full_price_series"`
}

// Split — результат деления торгуемого диапазона [warmup, n)
type Split struct {
	Warmup int
	At     int
	End    int
}

func (s Split) Train() Window { return Window{From: s.Warmup, To: s.At} }
func (s Split) Test() Window  { return Window{From: s.At, To: s.End} }

// check проверяет заданное снаружи деление для ряда из n свечей
// и стратегии с прогревом warmup
func (s Split) check(n, warmup int) error {
	switch {
	case s.Warmup < warmup:
		return errors.Wrapf(ErrInvalidSplit, "split starts at %d before strategy warmup %d", s.Warmup, warmup)
	case s.End > n || s.At > s.End:
		return errors.Wrapf(ErrInvalidSplit, "split [%d,%d,%d) outside %d bars", s.Warmup, s.At, s.End, n)
	case s.At-s.Warmup < minTrainBars:
		return errors.Wrapf(ErrInvalidSplit, "train window %d bars, need %d", s.At-s.Warmup, minTrainBars)
	case s.End-s.At < minTestBars:
		return errors.Wrapf(ErrInvalidSplit, "test window %d bars, need %d", s.End-s.At, minTestBars)
	}
	return nil
}

// SplitBars делит торгуемый диапазон по доле ratio.
// Короткий ряд даёт ErrNoResult, некорректная доля или слишком малые окна дают ErrInvalidSplit.
func SplitBars(n, warmup int, ratio float64) (Split, error) {
	tradable := n - warmup
	if tradable < minWalkForwardBars {
		return Split{}, errors.Wrapf(ErrNoResult, "%d tradable bars, need %d", max(tradable, 0), minWalkForwardBars)
	}
	if ratio <= 0 || ratio >= 1 {
		return Split{}, errors.Wrapf(ErrInvalidSplit, "train ratio %v outside (0,1)", ratio)
	}

	s := Split{Warmup: warmup, At: warmup + int(float64(tradable)*ratio), End: n}
	if trainBars := s.At - s.Warmup; trainBars < minTrainBars {
		return Split{}, errors.Wrapf(ErrInvalidSplit, "train window %d bars, need %d", trainBars, minTrainBars)
	}
	if testBars := s.End - s.At; testBars < minTestBars {
		return Split{}, errors.Wrapf(ErrInvalidSplit, "test window %d bars, need %d", testBars, minTestBars)
	}
	return s, nil
}

// EvaluateWalkForward прогоняет стратегию на обучающем окне, экстраполирует
// доходность на тестовое и оценивает, насколько прогноз совпал с фактом.
// Стратегия без сделок на обучении даёт ErrNoResult.
func EvaluateWalkForward(bars []Bar, gen SignalGenerator, params StrategyParams, opts WalkForwardOptions) (*WalkForwardItem, error) {
	if gen == nil {
		return nil, ErrUnknownStrategy
	}
	if err := ValidateParams(gen, params); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ratio := opts.TrainRatio
	if ratio == 0 {
		ratio = DefaultTrainRatio
	}
	capital := opts.Capital
	if capital == 0 {
		capital = DefaultCapital
	}
	label := opts.Label
	if label == "" {
		label = gen.Kind().String()
	}
	log = log.With(zap.String("strategy", label))

	var split Split
	if opts.Split != nil {
		split = *opts.Split
		if err := split.check(len(bars), gen.Warmup(params)); err != nil {
			return nil, err
		}
	} else {
		s, err := SplitBars(len(bars), gen.Warmup(params), ratio)
		if err != nil {
			return nil, err
		}
		split = s
	}

	risk := WalkForwardRiskConfig().Merge(opts.Risk)
	train, err := RunBacktest(bars, gen, params, BacktestOptions{Window: split.Train(), Risk: risk, Capital: capital})
	if err != nil {
		return nil, errors.Wrap(err, "train window")
	}
	if train.TotalTrades == 0 {
		log.Info("🔸 no trades in train window, skipping")
		return nil, errors.Wrapf(ErrNoResult, "%s: no trades in train window", label)
	}

	test, err := RunBacktest(bars, gen, params, BacktestOptions{Window: split.Test(), Risk: risk, Capital: capital})
	if err != nil {
		return nil, errors.Wrap(err, "test window")
	}

	trainBars := bars[split.Warmup:split.At]
	testBars := bars[split.At:split.End]
	trainBnH := BuyAndHoldReturn(trainBars)
	testBnH := BuyAndHoldReturn(testBars)

	log.Debug("train window done",
		zap.Float64("return_pct", train.TotalReturnPct),
		zap.Int("trades", train.TotalTrades),
		zap.Float64("bnh_pct", trainBnH))

	testHasTrades := test.TotalTrades > 0
	actual := test.TotalReturnPct
	if !testHasTrades {
		actual = testBnH
		log.Debug("no trades in test window, using buy-and-hold", zap.Float64("bnh_pct", testBnH))
	}

	predicted := PredictReturn(train.TotalReturnPct, len(trainBars), len(testBars))
	predictedDir := ClassifyDirection(predicted)
	actualDir := ClassifyDirection(actual)
	trainAlpha := train.TotalReturnPct - trainBnH
	testAlpha := actual - testBnH
	returnError := predicted - actual
	if returnError < 0 {
		returnError = -returnError
	}

	score := ConfidenceScore(ConfidenceInputs{
		PredictedPct:     predicted,
		ActualPct:        actual,
		DirectionCorrect: predictedDir == actualDir,
		TrainAlphaPct:    trainAlpha,
		TestAlphaPct:     testAlpha,
		TrainSharpe:      train.SharpeRatio,
		TrainWinRate:     train.WinRate,
		TestTrades:       test.TotalTrades,
	})

	lastTrainEquity := RoundCents(train.FinalCapital)
	testStart := testBars[0].Date

	item := &WalkForwardItem{
		Strategy:  gen.Kind(),
		Label:     label,
		Params:    params,
		TrainFrom: formatDate(trainBars[0].Date),
		TrainTo:   formatDate(trainBars[len(trainBars)-1].Date),
		TestFrom:  formatDate(testStart),
		TestTo:    formatDate(testBars[len(testBars)-1].Date),
		TrainBars: len(trainBars),
		TestBars:  len(testBars),

		Train: summarize(train),
		Test:  summarize(test),

		TrainBuyHoldPct:    RoundCents(trainBnH),
		TestBuyHoldPct:     RoundCents(testBnH),
		PredictedReturnPct: RoundCents(predicted),
		PredictedDirection: predictedDir,
		ActualReturnPct:    RoundCents(actual),
		ActualDirection:    actualDir,
		TrainAlphaPct:      RoundCents(trainAlpha),
		TestAlphaPct:       RoundCents(testAlpha),
		DirectionCorrect:   predictedDir == actualDir,
		ReturnErrorPct:     RoundCents(returnError),
		ConfidenceScore:    decimal.NewFromFloat(score).Round(1).InexactFloat64(),
		TestHasTrades:      testHasTrades,

		TrainEquity:         train.EquitySeries,
		TestEquityPredicted: PredictedEquity(lastTrainEquity, predicted, testStart, len(testBars)),
		TestEquityActual:    ShiftSeries(test.EquitySeries, lastTrainEquity-capital),
		TestEquityBuyHold:   BuyAndHoldEquity(testBars, lastTrainEquity),
		FullPriceSeries:     SamplePrices(bars, maxPricePoints),
	}

	log.Info("✅ walk-forward done",
		zap.Float64("predicted_pct", item.PredictedReturnPct),
		zap.Float64("actual_pct", item.ActualReturnPct),
		zap.Bool("direction_correct", item.DirectionCorrect),
		zap.Float64("confidence", item.ConfidenceScore))

	return item, nil
}

func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}
