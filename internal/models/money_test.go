package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyMarshalJSON(t *testing.T) {
	m := NewMoneyFromDecimal(decimal.RequireFromString("99.9"))
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"99.90"` {
		t.Fatalf("want \"99.90\" got %s", data)
	}
}

func TestMoneyUnmarshalJSON(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{`"99.99"`, "99.99"},
		{`99.99`, "99.99"},
		{`"100"`, "100.00"},
		{`0.005`, "0.01"},
	}
	for _, tc := range cases {
		var m Money
		if err := json.Unmarshal([]byte(tc.input), &m); err != nil {
			t.Fatalf("unmarshal %s failed: %v", tc.input, err)
		}
		if m.String() != tc.want {
			t.Fatalf("input %s: want %s got %s", tc.input, tc.want, m.String())
		}
	}
}

func TestMoneyUnmarshalJSONInvalid(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"abc"`), &m); err == nil {
		t.Fatalf("invalid amount should fail to unmarshal")
	}
}

func TestMoneyRoundsToTwoPlaces(t *testing.T) {
	m := NewMoneyFromFloat(19.999)
	if m.String() != "20.00" {
		t.Fatalf("want 20.00 got %s", m.String())
	}
}
