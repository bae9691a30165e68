// candle.go
package internal

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// DateLayout — формат дат во входных и выходных данных
const DateLayout = "2006-01-02"

type Price float64

// UnmarshalJSON принимает число, число в строке или объект котировки
// {"units": "", "nano": 0}, и преобразует его в float64 на этапе загрузки.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "price")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.Wrapf(err, "price %q", s)
		}
		*p = Price(f)
		return nil
	}
	if len(data) > 0 && data[0] != '{' {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return errors.Wrap(err, "price")
		}
		*p = Price(f)
		return nil
	}

	var temp struct {
		Units string `json:"units"`
		Nano  int32  `json:"nano"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return errors.Wrap(err, "price quotation")
	}
	units, err := strconv.ParseInt(temp.Units, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "price units %q", temp.Units)
	}
	*p = Price(float64(units) + float64(temp.Nano)/1_000_000_000.0)
	return nil
}

// ToFloat64 возвращает значение Price как float64.
func (p Price) ToFloat64() float64 {
	return float64(p)
}

// Bar — одна свеча ряда. Ряд упорядочен по возрастанию даты,
// пропуски не заполняются.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

type barJSON struct {
	Date   string `json:"date"`
	Time   string `json:"time,omitempty"`
	Open   Price  `json:"open"`
	High   Price  `json:"high"`
	Low    Price  `json:"low"`
	Close  Price  `json:"close"`
	Volume Price  `json:"volume"`
}

// UnmarshalJSON разбирает дату один раз при загрузке.
// Поддерживаются "2006-01-02", RFC3339 и RFC3339 без зоны.
func (b *Bar) UnmarshalJSON(data []byte) error {
	var aux barJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := aux.Date
	if raw == "" {
		raw = aux.Time
	}
	t, err := parseBarTime(raw)
	if err != nil {
		return err
	}

	*b = Bar{
		Date:   t,
		Open:   aux.Open.ToFloat64(),
		High:   aux.High.ToFloat64(),
		Low:    aux.Low.ToFloat64(),
		Close:  aux.Close.ToFloat64(),
		Volume: aux.Volume.ToFloat64(),
	}
	return nil
}

func (b Bar) MarshalJSON() ([]byte, error) {
	return json.Marshal(barJSON{
		Date:   b.Date.Format(DateLayout),
		Open:   Price(b.Open),
		High:   Price(b.High),
		Low:    Price(b.Low),
		Close:  Price(b.Close),
		Volume: Price(b.Volume),
	})
}

func parseBarTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("bar without date")
	}
	for _, layout := range []string{DateLayout, time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unsupported bar date %q", raw)
}

// Action — направление сделки или сигнала
type Action int

const (
	BUY Action = iota + 1
	SELL
)

func (a Action) String() string {
	switch a {
	case BUY:
		return "BUY"
	case SELL:
		return "SELL"
	}
	return "HOLD"
}

func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "BUY":
		*a = BUY
	case "SELL":
		*a = SELL
	default:
		return errors.Errorf("unknown action %q", s)
	}
	return nil
}

// Signal — кандидат на сделку. Состояние позиции здесь не проверяется,
// это делает движок исполнения.
type Signal struct {
	Index  int    `json:"index"`
	Action Action `json:"action"`
}
