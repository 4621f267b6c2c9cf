package binance

import (
	"fmt"
	"time"

	goTrade "github.com/MrEthical07/goTrade"
	"github.com/shopspring/decimal"
)

// toTimeBar converts a raw kline into a canonical [goTrade.TimeBar]. The
// symbol must be supplied by the caller because Binance does not include it
// in the kline payload itself.
func toTimeBar(raw RawKline, symbol string, interval goTrade.Interval) (goTrade.TimeBar, error) {
	var (
		bar goTrade.TimeBar
		err error
	)
	if bar.Open, err = decimal.NewFromString(raw.Open); err != nil {
		return goTrade.TimeBar{}, fmt.Errorf("kline open: %w", err)
	}
	if bar.High, err = decimal.NewFromString(raw.High); err != nil {
		return goTrade.TimeBar{}, fmt.Errorf("kline high: %w", err)
	}
	if bar.Low, err = decimal.NewFromString(raw.Low); err != nil {
		return goTrade.TimeBar{}, fmt.Errorf("kline low: %w", err)
	}
	if bar.Close, err = decimal.NewFromString(raw.Close); err != nil {
		return goTrade.TimeBar{}, fmt.Errorf("kline close: %w", err)
	}
	if bar.Volume, err = decimal.NewFromString(raw.Volume); err != nil {
		return goTrade.TimeBar{}, fmt.Errorf("kline volume: %w", err)
	}

	bar.Symbol = symbol
	bar.TradeCount = raw.TradeCount
	bar.OpenTime = msToUTC(raw.OpenTimeMS)
	bar.CloseTime = msToUTC(raw.CloseTimeMS)
	bar.IntervalSeconds = interval.Seconds()

	return bar, nil
}

// toTrade converts a raw trade into a canonical [goTrade.Trade].
func toTrade(raw RawTrade, symbol string) (goTrade.Trade, error) {
	price, err := decimal.NewFromString(raw.Price)
	if err != nil {
		return goTrade.Trade{}, fmt.Errorf("trade price: %w", err)
	}
	qty, err := decimal.NewFromString(raw.Qty)
	if err != nil {
		return goTrade.Trade{}, fmt.Errorf("trade qty: %w", err)
	}

	return goTrade.Trade{
		Symbol:       symbol,
		Price:        price,
		Quantity:     qty,
		Timestamp:    msToUTC(raw.TimeMS),
		IsBuyerMaker: raw.IsBuyerMaker,
	}, nil
}

func msToUTC(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
