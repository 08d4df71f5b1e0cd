// Package catalog holds the built-in categories and indicators the dashboard
// starts from before persisted values are layered on top.
package catalog

import "github.com/okian/riskgauge/internal/domain/model"

const (
	scaleMin = 0
	scaleMax = 100
)

type entry struct {
	id       string
	name     string
	value    float64
	weight   float64
	inverted bool
}

type group struct {
	key     string
	name    string
	weight  float64
	color   string
	entries []entry
}

var defaults = []group{
	{key: "onchain", name: "On-Chain", weight: 0.30, color: "bg-blue-500", entries: []entry{
		{id: "mvrv", name: "MVRV Z-Score", value: 41.11, weight: 0.25},
		{id: "puell", name: "Puell Multiple", value: 11.11, weight: 0.20},
		{id: "sopr", name: "SOPR", value: 52.40, weight: 0.20},
		{id: "nupl", name: "NUPL", value: 62.50, weight: 0.20},
		{id: "reserve", name: "Reserve Risk", value: 55.80, weight: 0.15},
	}},
	{key: "price", name: "Price Metrics", weight: 0.25, color: "bg-purple-500", entries: []entry{
		{id: "pi_cycle", name: "Pi Cycle Ratio", value: 37.54, weight: 0.35},
		{id: "mayer", name: "Mayer Multiple", value: 9.39, weight: 0.25},
		{id: "realized_ext", name: "Realized Price Extension", value: 45.34, weight: 0.25},
		{id: "rsi", name: "14 Day RSI", value: 118.33, weight: 0.15},
	}},
	{key: "macro", name: "Macro", weight: 0.20, color: "bg-green-500", entries: []entry{
		{id: "net_liq", name: "Net Liquidity 12M Flow", value: 61.69, weight: 0.40},
		{id: "stable_dom", name: "Stablecoin Dominance", value: 78.18, weight: 0.30, inverted: true},
		{id: "macro_ob", name: "Macro Overbought/Oversold", value: 14.28, weight: 0.30},
	}},
	{key: "sentiment", name: "Sentiment", weight: 0.15, color: "bg-orange-500", entries: []entry{
		{id: "fear_crypto", name: "Fear & Greed (Crypto)", value: 65.00, weight: 0.40},
		{id: "fear_stocks", name: "Fear & Greed (Stocks)", value: 65.00, weight: 0.30},
		{id: "open_interest", name: "Open Interest Risk", value: 63.50, weight: 0.30},
	}},
	{key: "supply", name: "Supply Dynamics", weight: 0.10, color: "bg-cyan-500", entries: []entry{
		{id: "lth_supply", name: "LTH Supply Net Position", value: 33.25, weight: 0.35, inverted: true},
		{id: "sth_risk", name: "STH Sell Side Risk", value: 2.44, weight: 0.35},
		{id: "hodl_waves", name: "1Y+ HODL Waves", value: 58.67, weight: 0.30},
	}},
}

// Default returns a fresh copy of the built-in catalog. Callers may mutate it.
func Default() model.Categories {
	out := make(model.Categories, 0, len(defaults))
	for _, g := range defaults {
		c := model.Category{
			Key:        g.key,
			Name:       g.name,
			Weight:     g.weight,
			Color:      g.color,
			Indicators: make([]model.Indicator, 0, len(g.entries)),
		}
		for _, e := range g.entries {
			c.Indicators = append(c.Indicators, model.Indicator{
				ID:       e.id,
				Name:     e.name,
				Value:    e.value,
				Weight:   e.weight,
				Min:      scaleMin,
				Max:      scaleMax,
				Inverted: e.inverted,
			})
		}
		out = append(out, c)
	}
	return out
}
