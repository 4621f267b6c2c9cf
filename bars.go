package goTrade

import "github.com/shopspring/decimal"

// BuildVolumeBars aggregates trades into volume bars. A new bar starts
// whenever the cumulative base-asset volume of the current bar reaches
// threshold. Any trailing unconsumed trades are discarded; callers that need
// partial bars must handle that at a higher level.
func BuildVolumeBars(trades []Trade, threshold decimal.Decimal) []VolumeBar {
	var bars []VolumeBar
	var bucket []Trade
	cumVolume := decimal.Zero

	for _, trade := range trades {
		bucket = append(bucket, trade)
		cumVolume = cumVolume.Add(trade.Quantity)
		if cumVolume.GreaterThanOrEqual(threshold) {
			bars = append(bars, VolumeBar{
				Bar:             makeBar(bucket),
				VolumeThreshold: threshold,
			})
			bucket = nil
			cumVolume = decimal.Zero
		}
	}

	return bars
}

// BuildTickBars aggregates trades into tick bars, one bar per threshold trades.
func BuildTickBars(trades []Trade, threshold int) []TickBar {
	var bars []TickBar
	var bucket []Trade

	for _, trade := range trades {
		bucket = append(bucket, trade)
		if len(bucket) >= threshold {
			bars = append(bars, TickBar{
				Bar:           makeBar(bucket),
				TickThreshold: threshold,
			})
			bucket = nil
		}
	}

	return bars
}

// BuildDollarBars aggregates trades into dollar bars. A new bar starts
// whenever the cumulative quote-asset value (price × quantity) of the current
// bar reaches threshold.
func BuildDollarBars(trades []Trade, threshold decimal.Decimal) []DollarBar {
	var bars []DollarBar
	var bucket []Trade
	cumDollar := decimal.Zero

	for _, trade := range trades {
		bucket = append(bucket, trade)
		cumDollar = cumDollar.Add(trade.Price.Mul(trade.Quantity))
		if cumDollar.GreaterThanOrEqual(threshold) {
			bars = append(bars, DollarBar{
				Bar:             makeBar(bucket),
				DollarThreshold: threshold,
			})
			bucket = nil
			cumDollar = decimal.Zero
		}
	}

	return bars
}

func makeBar(trades []Trade) Bar {
	high := trades[0].Price
	low := trades[0].Price
	volume := decimal.Zero

	for _, t := range trades {
		if t.Price.GreaterThan(high) {
			high = t.Price
		}
		if t.Price.LessThan(low) {
			low = t.Price
		}
		volume = volume.Add(t.Quantity)
	}

	return Bar{
		Symbol:     trades[0].Symbol,
		Open:       trades[0].Price,
		High:       high,
		Low:        low,
		Close:      trades[len(trades)-1].Price,
		Volume:     volume,
		TradeCount: len(trades),
		OpenTime:   trades[0].Timestamp,
		CloseTime:  trades[len(trades)-1].Timestamp,
	}
}
