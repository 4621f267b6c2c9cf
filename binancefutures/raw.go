package binancefutures

import (
	"encoding/json"
	"fmt"
)

// RawKline is a futures kline as returned by the Binance REST and WebSocket
// APIs. Prices and volumes stay strings to preserve exchange precision.
type RawKline struct {
	OpenTimeMS          int64
	Open                string
	High                string
	Low                 string
	Close               string
	Volume              string
	CloseTimeMS         int64
	QuoteVolume         string
	TradeCount          int
	TakerBuyVolume      string
	TakerBuyQuoteVolume string
}

// RawTrade is a futures trade as returned by the Binance REST and WebSocket
// APIs.
type RawTrade struct {
	ID           int64
	Price        string
	Qty          string
	QuoteQty     string
	TimeMS       int64
	IsBuyerMaker bool
}

// RawFundingRate is a historical funding record from /fapi/v1/fundingRate.
// One record per 8-hour settlement.
type RawFundingRate struct {
	Symbol        string
	FundingTimeMS int64
	FundingRate   string
	MarkPrice     string
}

// RawMarkPrice is a mark-price snapshot from /fapi/v1/premiumIndex or the
// markPrice stream: the current unsettled funding rate together with the
// live mark and index prices.
type RawMarkPrice struct {
	Symbol            string
	MarkPrice         string
	IndexPrice        string
	LastFundingRate   string
	NextFundingTimeMS int64
	TimeMS            int64
}

type restTrade struct {
	ID           int64  `json:"id"`
	Price        string `json:"price"`
	Qty          string `json:"qty"`
	QuoteQty     string `json:"quoteQty"`
	Time         int64  `json:"time"`
	IsBuyerMaker bool   `json:"isBuyerMaker"`
}

type restFundingRate struct {
	Symbol      string `json:"symbol"`
	FundingTime int64  `json:"fundingTime"`
	FundingRate string `json:"fundingRate"`
	MarkPrice   string `json:"markPrice"`
}

type restMarkPrice struct {
	Symbol          string `json:"symbol"`
	MarkPrice       string `json:"markPrice"`
	IndexPrice      string `json:"indexPrice"`
	LastFundingRate string `json:"lastFundingRate"`
	NextFundingTime int64  `json:"nextFundingTime"`
	Time            int64  `json:"time"`
}

type wsKline struct {
	OpenTimeMS          int64  `json:"t"`
	CloseTimeMS         int64  `json:"T"`
	Open                string `json:"o"`
	High                string `json:"h"`
	Low                 string `json:"l"`
	Close               string `json:"c"`
	Volume              string `json:"v"`
	QuoteVolume         string `json:"q"`
	TradeCount          int    `json:"n"`
	TakerBuyVolume      string `json:"V"`
	TakerBuyQuoteVolume string `json:"Q"`
	Closed              bool   `json:"x"`
}

type wsKlineEvent struct {
	Kline wsKline `json:"k"`
}

type wsTrade struct {
	ID           int64  `json:"t"`
	Price        string `json:"p"`
	Qty          string `json:"q"`
	TimeMS       int64  `json:"T"`
	IsBuyerMaker bool   `json:"m"`
}

// wsMarkPrice field names differ from the REST premiumIndex shape.
type wsMarkPrice struct {
	Symbol          string `json:"s"`
	MarkPrice       string `json:"p"`
	IndexPrice      string `json:"i"`
	LastFundingRate string `json:"r"`
	NextFundingTime int64  `json:"T"`
	EventTime       int64  `json:"E"`
}

func parseRESTKline(row []any) (RawKline, error) {
	if len(row) < 11 {
		return RawKline{}, fmt.Errorf("kline row has %d fields, want 11", len(row))
	}

	openTime, err := asInt64(row[0])
	if err != nil {
		return RawKline{}, fmt.Errorf("kline open time: %w", err)
	}
	closeTime, err := asInt64(row[6])
	if err != nil {
		return RawKline{}, fmt.Errorf("kline close time: %w", err)
	}
	tradeCount, err := asInt64(row[8])
	if err != nil {
		return RawKline{}, fmt.Errorf("kline trade count: %w", err)
	}

	fields := make([]string, 0, 8)
	for _, idx := range []int{1, 2, 3, 4, 5, 7, 9, 10} {
		s, err := asString(row[idx])
		if err != nil {
			return RawKline{}, fmt.Errorf("kline field %d: %w", idx, err)
		}
		fields = append(fields, s)
	}

	return RawKline{
		OpenTimeMS:          openTime,
		Open:                fields[0],
		High:                fields[1],
		Low:                 fields[2],
		Close:               fields[3],
		Volume:              fields[4],
		CloseTimeMS:         closeTime,
		QuoteVolume:         fields[5],
		TradeCount:          int(tradeCount),
		TakerBuyVolume:      fields[6],
		TakerBuyQuoteVolume: fields[7],
	}, nil
}

func rawKlineFromWS(k wsKline) RawKline {
	return RawKline{
		OpenTimeMS:          k.OpenTimeMS,
		Open:                k.Open,
		High:                k.High,
		Low:                 k.Low,
		Close:               k.Close,
		Volume:              k.Volume,
		CloseTimeMS:         k.CloseTimeMS,
		QuoteVolume:         k.QuoteVolume,
		TradeCount:          k.TradeCount,
		TakerBuyVolume:      k.TakerBuyVolume,
		TakerBuyQuoteVolume: k.TakerBuyQuoteVolume,
	}
}

func rawTradeFromREST(t restTrade) RawTrade {
	return RawTrade{
		ID:           t.ID,
		Price:        t.Price,
		Qty:          t.Qty,
		QuoteQty:     t.QuoteQty,
		TimeMS:       t.Time,
		IsBuyerMaker: t.IsBuyerMaker,
	}
}

func rawFundingFromREST(r restFundingRate) RawFundingRate {
	mark := r.MarkPrice
	if mark == "" {
		mark = "0"
	}
	return RawFundingRate{
		Symbol:        r.Symbol,
		FundingTimeMS: r.FundingTime,
		FundingRate:   r.FundingRate,
		MarkPrice:     mark,
	}
}

func rawMarkPriceFromREST(m restMarkPrice) RawMarkPrice {
	return RawMarkPrice{
		Symbol:            m.Symbol,
		MarkPrice:         m.MarkPrice,
		IndexPrice:        m.IndexPrice,
		LastFundingRate:   m.LastFundingRate,
		NextFundingTimeMS: m.NextFundingTime,
		TimeMS:            m.Time,
	}
}

func rawMarkPriceFromWS(m wsMarkPrice) RawMarkPrice {
	return RawMarkPrice{
		Symbol:            m.Symbol,
		MarkPrice:         m.MarkPrice,
		IndexPrice:        m.IndexPrice,
		LastFundingRate:   m.LastFundingRate,
		NextFundingTimeMS: m.NextFundingTime,
		TimeMS:            m.EventTime,
	}
}

func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("got %T, want string", v)
	}
	return s, nil
}

func asInt64(v any) (int64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("got %T, want number", v)
	}
	return n.Int64()
}
