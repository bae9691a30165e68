package internal

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBar_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantDate  time.Time
		wantClose float64
		wantErr   bool
	}{
		{
			name:      "plain numbers",
			input:     `{"date":"2024-03-01","open":1,"high":2,"low":0.5,"close":1.5,"volume":1000}`,
			wantDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			wantClose: 1.5,
		},
		{
			name:      "quotation object",
			input:     `{"time":"2024-03-01T07:00:00Z","open":{"units":"1","nano":0},"high":{"units":"2","nano":0},"low":{"units":"0","nano":500000000},"close":{"units":"101","nano":250000000},"volume":"1000"}`,
			wantDate:  time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC),
			wantClose: 101.25,
		},
		{
			name:      "numeric strings",
			input:     `{"date":"2024-03-01 10:30:00","open":"1","high":"2","low":"0.5","close":"99.5","volume":"10"}`,
			wantDate:  time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
			wantClose: 99.5,
		},
		{name: "missing date", input: `{"open":1,"high":1,"low":1,"close":1,"volume":1}`, wantErr: true},
		{name: "bad date", input: `{"date":"01.03.2024","open":1,"high":1,"low":1,"close":1,"volume":1}`, wantErr: true},
		{name: "bad price", input: `{"date":"2024-03-01","open":1,"high":1,"low":1,"close":"abc","volume":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Bar
			err := json.Unmarshal([]byte(tt.input), &b)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !b.Date.Equal(tt.wantDate) {
				t.Errorf("Date = %v, want %v", b.Date, tt.wantDate)
			}
			if b.Close != tt.wantClose {
				t.Errorf("Close = %v, want %v", b.Close, tt.wantClose)
			}
		})
	}
}

func TestBar_MarshalJSON(t *testing.T) {
	b := Bar{Date: testStart, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back Bar
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != b {
		t.Errorf("Round trip changed the bar: %+v -> %+v", b, back)
	}
}

func TestAction_JSON(t *testing.T) {
	data, err := json.Marshal([]Action{BUY, SELL})
	if err != nil || string(data) != `["BUY","SELL"]` {
		t.Fatalf("Marshal = %s, %v", data, err)
	}

	var a Action
	if err := json.Unmarshal([]byte(`"HOLD"`), &a); err == nil {
		t.Error("Expected error for unknown action")
	}
}
