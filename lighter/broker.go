package lighter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	goTrade "github.com/MrEthical07/goTrade"
	"github.com/shopspring/decimal"
)

// Lighter API base URLs.
const (
	URLMainnet = "https://mainnet.zklighter.elliptic.co"
	URLTestnet = "https://testnet.zklighter.elliptic.co"
)

var _ goTrade.Broker = (*Broker)(nil)

var orderTypeCodes = map[goTrade.OrderType]int{
	goTrade.Limit:           orderTypeLimit,
	goTrade.Market:          orderTypeMarket,
	goTrade.StopLoss:        orderTypeStopLoss,
	goTrade.StopLossLimit:   orderTypeStopLossLimit,
	goTrade.TakeProfit:      orderTypeTakeProfit,
	goTrade.TakeProfitLimit: orderTypeTakeProfitLimit,
}

var tifCodes = map[goTrade.TimeInForce]int{
	goTrade.ImmediateOrCancel: tifImmediateOrCancel,
	goTrade.GoodTillTime:      tifGoodTillTime,
	goTrade.PostOnly:          tifPostOnly,
}

var orderTypeNames = map[string]goTrade.OrderType{
	"limit":             goTrade.Limit,
	"market":            goTrade.Market,
	"stop-loss":         goTrade.StopLoss,
	"stop-loss-limit":   goTrade.StopLossLimit,
	"take-profit":       goTrade.TakeProfit,
	"take-profit-limit": goTrade.TakeProfitLimit,
}

var tifNames = map[string]goTrade.TimeInForce{
	"good-till-time":      goTrade.GoodTillTime,
	"immediate-or-cancel": goTrade.ImmediateOrCancel,
	"post-only":           goTrade.PostOnly,
}

// Config defines a public type used by goTrade APIs.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise.
//
// SymbolMap declares the markets the broker may touch upfront, unified
// symbol to Lighter market index:
//
//	SymbolMap: map[string]int64{"BTC-USDC": 0, "ETH-USDC": 1}
//
// PriceDecimals and BaseScale control fixed-point encoding. The defaults
// (2 and 1e8) map a price of 2500.50 to integer 250050 and 0.1 units of the
// base asset to 10_000_000.
type Config struct {
	AccountIndex  int64
	APIKeyIndex   int
	APIPrivateKey string
	SymbolMap     map[string]int64

	// URL selects the API endpoint. Defaults to URLMainnet; use
	// [NewTestnet] or set URLTestnet explicitly for the testnet.
	URL string

	// PriceDecimals defaults to 2.
	PriceDecimals int
	// BaseScale defaults to 1e8.
	BaseScale int64

	// HTTPClient overrides the default client (10 s timeout).
	HTTPClient *http.Client
}

// Broker defines a public type used by goTrade APIs.
//
// Broker executes orders on Lighter.xyz. Construct with [New], [NewMainnet]
// or [NewTestnet]; the zero value is not usable. Safe for concurrent use.
//
// PlaceOrder returns the ZK rollup tx hash as the order id. CancelOrder
// expects an id in "{market}:{index}" format, which OpenOrders populates in
// each order's ClientOrderID.
type Broker struct {
	httpClient *http.Client
	baseURL    string

	accountIndex int64
	apiKeyIndex  int
	signer       *signer

	symbolMap map[string]int64
	indexMap  map[int64]string

	priceScale decimal.Decimal
	baseScale  decimal.Decimal

	nonce atomic.Int64
}

// New creates a Lighter broker from cfg.
func New(cfg Config) (*Broker, error) {
	if len(cfg.SymbolMap) == 0 {
		return nil, fmt.Errorf("lighter: symbol map is empty")
	}

	s, err := newSigner(cfg.AccountIndex, cfg.APIKeyIndex, cfg.APIPrivateKey)
	if err != nil {
		return nil, err
	}

	baseURL := cfg.URL
	if baseURL == "" {
		baseURL = URLMainnet
	}
	priceDecimals := cfg.PriceDecimals
	if priceDecimals == 0 {
		priceDecimals = 2
	}
	baseScale := cfg.BaseScale
	if baseScale == 0 {
		baseScale = 100_000_000
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	indexMap := make(map[int64]string, len(cfg.SymbolMap))
	symbolMap := make(map[string]int64, len(cfg.SymbolMap))
	for sym, idx := range cfg.SymbolMap {
		symbolMap[sym] = idx
		indexMap[idx] = sym
	}

	b := &Broker{
		httpClient:   httpClient,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		accountIndex: cfg.AccountIndex,
		apiKeyIndex:  cfg.APIKeyIndex,
		signer:       s,
		symbolMap:    symbolMap,
		indexMap:     indexMap,
		priceScale:   decimal.New(1, int32(priceDecimals)),
		baseScale:    decimal.NewFromInt(baseScale),
	}
	b.nonce.Store(time.Now().UnixMicro())
	return b, nil
}

// NewMainnet creates a broker pinned to the mainnet endpoint; any URL in cfg
// is ignored.
func NewMainnet(cfg Config) (*Broker, error) {
	cfg.URL = URLMainnet
	return New(cfg)
}

// NewTestnet creates a broker pinned to the testnet endpoint; any URL in cfg
// is ignored.
func NewTestnet(cfg Config) (*Broker, error) {
	cfg.URL = URLTestnet
	return New(cfg)
}

/* ==== TRADING ==== */

// PlaceOrder describes the place order operation and its observable behavior.
//
// The order is signed and submitted to the rollup. On acceptance the result
// carries the tx hash as OrderID; venue rejections come back in result.Err
// with a nil error, transport failures as errors.
func (b *Broker) PlaceOrder(ctx context.Context, order goTrade.PerpOrder) (goTrade.OrderResult, error) {
	marketIndex, err := b.resolve(order.Symbol)
	if err != nil {
		return goTrade.OrderResult{}, err
	}

	typeCode, ok := orderTypeCodes[order.Type]
	if !ok {
		return goTrade.OrderResult{}, fmt.Errorf("lighter: unsupported order type %q: %w", order.Type, goTrade.ErrOrderInvalid)
	}
	tifCode, ok := tifCodes[order.TimeInForce]
	if !ok {
		return goTrade.OrderResult{}, fmt.Errorf("lighter: unsupported time in force %q: %w", order.TimeInForce, goTrade.ErrOrderInvalid)
	}

	var clientIndex int64
	if order.ClientOrderID != "" {
		clientIndex, err = strconv.ParseInt(order.ClientOrderID, 10, 64)
		if err != nil {
			return goTrade.OrderResult{}, fmt.Errorf("lighter: client order id %q is not an integer: %w", order.ClientOrderID, goTrade.ErrOrderInvalid)
		}
	}

	trigger := int64(nilTriggerPrice)
	if order.TriggerPrice != nil {
		trigger = toScaled(*order.TriggerPrice, b.priceScale)
	}

	tx := createOrderTx{
		AccountIndex:     b.accountIndex,
		ApiKeyIndex:      b.apiKeyIndex,
		MarketIndex:      marketIndex,
		ClientOrderIndex: clientIndex,
		BaseAmount:       toScaled(order.Quantity, b.baseScale),
		Price:            toScaled(order.Price, b.priceScale),
		IsAsk:            order.Side == goTrade.Sell,
		Type:             typeCode,
		TimeInForce:      tifCode,
		ReduceOnly:       order.ReduceOnly,
		TriggerPrice:     trigger,
		OrderExpiry:      order.OrderExpiry,
		Nonce:            b.nonce.Add(1),
	}

	resp, err := b.sendTx(ctx, txTypeCreateOrder, tx)
	if err != nil {
		return goTrade.OrderResult{}, err
	}
	if resp.Code != http.StatusOK {
		return goTrade.OrderResult{Order: &order, Err: resp.Message}, nil
	}
	return goTrade.OrderResult{OrderID: resp.TxHash, Order: &order}, nil
}

// CancelOrder describes the cancel order operation and its observable behavior.
//
// orderID must be in "{market}:{index}" format, as populated by OpenOrders.
// A malformed id comes back as a result error, not a Go error, so retry
// logic treats it like any other venue rejection.
func (b *Broker) CancelOrder(ctx context.Context, orderID string) (goTrade.OrderResult, error) {
	marketIndex, orderIndex, err := splitOrderID(orderID)
	if err != nil {
		return goTrade.OrderResult{Err: err.Error()}, nil
	}

	tx := cancelOrderTx{
		AccountIndex: b.accountIndex,
		ApiKeyIndex:  b.apiKeyIndex,
		MarketIndex:  marketIndex,
		OrderIndex:   orderIndex,
		Nonce:        b.nonce.Add(1),
	}

	resp, err := b.sendTx(ctx, txTypeCancelOrder, tx)
	if err != nil {
		return goTrade.OrderResult{}, err
	}
	if resp.Code != http.StatusOK {
		return goTrade.OrderResult{Err: resp.Message}, nil
	}
	return goTrade.OrderResult{OrderID: resp.TxHash}, nil
}

// CancelAllOrders cancels every open order for the account across all
// markets. Lighter has no per-symbol cancellation at the protocol level;
// symbol is accepted for interface compatibility but ignored.
func (b *Broker) CancelAllOrders(ctx context.Context, symbol string) (goTrade.OrderResult, error) {
	tx := cancelAllOrdersTx{
		AccountIndex: b.accountIndex,
		ApiKeyIndex:  b.apiKeyIndex,
		TimeInForce:  cancelAllTIFImmediate,
		Time:         time.Now().UnixMilli(),
		Nonce:        b.nonce.Add(1),
	}

	resp, err := b.sendTx(ctx, txTypeCancelAllOrders, tx)
	if err != nil {
		return goTrade.OrderResult{}, err
	}
	if resp.Code != http.StatusOK {
		return goTrade.OrderResult{Err: resp.Message}, nil
	}
	return goTrade.OrderResult{OrderID: resp.TxHash}, nil
}

/* ==== READ-ONLY ==== */

// OpenOrders returns open orders, optionally filtered to symbol (empty
// string = every market in the symbol map). Each returned order carries
// ClientOrderID in "{market}:{index}" format so it can be passed straight
// to CancelOrder.
func (b *Broker) OpenOrders(ctx context.Context, symbol string) ([]goTrade.PerpOrder, error) {
	auth, err := b.signer.authToken(time.Now())
	if err != nil {
		return nil, err
	}

	type market struct {
		symbol string
		index  int64
	}
	var markets []market
	if symbol != "" {
		idx, err := b.resolve(symbol)
		if err != nil {
			return nil, err
		}
		markets = []market{{symbol, idx}}
	} else {
		for sym, idx := range b.symbolMap {
			markets = append(markets, market{sym, idx})
		}
	}

	var orders []goTrade.PerpOrder
	for _, m := range markets {
		q := url.Values{}
		q.Set("account_index", strconv.FormatInt(b.accountIndex, 10))
		q.Set("market_id", strconv.FormatInt(m.index, 10))

		var resp activeOrdersResponse
		if err := b.getJSON(ctx, "/api/v1/accountActiveOrders", q, auth, &resp); err != nil {
			return nil, err
		}
		for _, raw := range resp.Orders {
			order, err := toPerpOrder(raw, m.symbol)
			if err != nil {
				return nil, err
			}
			orders = append(orders, order)
		}
	}
	return orders, nil
}

// Position returns the current perp position for symbol, or nil when flat.
func (b *Broker) Position(ctx context.Context, symbol string) (*goTrade.PerpPosition, error) {
	marketIndex, err := b.resolve(symbol)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("by", "index")
	q.Set("value", strconv.FormatInt(b.accountIndex, 10))

	var resp accountResponse
	if err := b.getJSON(ctx, "/api/v1/account", q, "", &resp); err != nil {
		return nil, err
	}
	if len(resp.Accounts) == 0 {
		return nil, nil
	}
	for _, raw := range resp.Accounts[0].Positions {
		if raw.MarketID == marketIndex {
			return toPerpPosition(raw, symbol)
		}
	}
	return nil, nil
}

// BestBid returns the current best bid price for symbol.
func (b *Broker) BestBid(ctx context.Context, symbol string) (decimal.Decimal, error) {
	book, err := b.orderBook(ctx, symbol)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if len(book.Bids) == 0 {
		return decimal.Decimal{}, fmt.Errorf("lighter: %s order book has no bids", symbol)
	}
	return decimal.NewFromString(book.Bids[0].Price)
}

// BestAsk returns the current best ask price for symbol.
func (b *Broker) BestAsk(ctx context.Context, symbol string) (decimal.Decimal, error) {
	book, err := b.orderBook(ctx, symbol)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if len(book.Asks) == 0 {
		return decimal.Decimal{}, fmt.Errorf("lighter: %s order book has no asks", symbol)
	}
	return decimal.NewFromString(book.Asks[0].Price)
}

// Close releases idle connections.
func (b *Broker) Close() error {
	b.httpClient.CloseIdleConnections()
	return nil
}

/* ==== INTERNAL ==== */

func (b *Broker) resolve(symbol string) (int64, error) {
	idx, ok := b.symbolMap[symbol]
	if !ok {
		return 0, fmt.Errorf("lighter: %q is not in the symbol map: %w", symbol, goTrade.ErrSymbolUnknown)
	}
	return idx, nil
}

func (b *Broker) orderBook(ctx context.Context, symbol string) (orderBookResponse, error) {
	marketIndex, err := b.resolve(symbol)
	if err != nil {
		return orderBookResponse{}, err
	}

	q := url.Values{}
	q.Set("market_id", strconv.FormatInt(marketIndex, 10))
	q.Set("limit", "1")

	var resp orderBookResponse
	if err := b.getJSON(ctx, "/api/v1/orderBookOrders", q, "", &resp); err != nil {
		return orderBookResponse{}, err
	}
	return resp, nil
}

func (b *Broker) sendTx(ctx context.Context, txType int, tx any) (txResponse, error) {
	payload, err := json.Marshal(tx)
	if err != nil {
		return txResponse{}, fmt.Errorf("lighter: encode tx: %w", err)
	}

	form := url.Values{}
	form.Set("tx_type", strconv.Itoa(txType))
	form.Set("tx_info", string(payload))
	form.Set("signature", b.signer.signPayload(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/api/v1/sendTx", strings.NewReader(form.Encode()))
	if err != nil {
		return txResponse{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return txResponse{}, fmt.Errorf("lighter: send tx: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return txResponse{}, fmt.Errorf("lighter: send tx: status %d: %s", resp.StatusCode, body)
	}

	var out txResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return txResponse{}, fmt.Errorf("lighter: send tx: decode: %w", err)
	}
	return out, nil
}

func (b *Broker) getJSON(ctx context.Context, path string, q url.Values, auth string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("lighter: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("lighter: %s: status %d: %s", path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("lighter: %s: decode: %w", path, err)
	}
	return nil
}

// toScaled converts a human-readable decimal to a Lighter fixed-point
// integer, truncating any precision beyond the scale.
func toScaled(value, scale decimal.Decimal) int64 {
	return value.Mul(scale).IntPart()
}

func splitOrderID(orderID string) (marketIndex, orderIndex int64, err error) {
	marketStr, indexStr, ok := strings.Cut(orderID, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid order id %q, expected \"<market>:<index>\"", orderID)
	}
	marketIndex, err = strconv.ParseInt(marketStr, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid order id %q, expected \"<market>:<index>\"", orderID)
	}
	orderIndex, err = strconv.ParseInt(indexStr, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid order id %q, expected \"<market>:<index>\"", orderID)
	}
	return marketIndex, orderIndex, nil
}

func toPerpOrder(raw wireOrder, symbol string) (goTrade.PerpOrder, error) {
	price, err := decimal.NewFromString(raw.Price)
	if err != nil {
		return goTrade.PerpOrder{}, fmt.Errorf("lighter: order price: %w", err)
	}
	qty, err := decimal.NewFromString(raw.InitialBaseAmount)
	if err != nil {
		return goTrade.PerpOrder{}, fmt.Errorf("lighter: order base amount: %w", err)
	}

	side := goTrade.Buy
	if raw.IsAsk {
		side = goTrade.Sell
	}
	orderType, ok := orderTypeNames[raw.Type]
	if !ok {
		orderType = goTrade.Limit
	}
	tif, ok := tifNames[raw.TimeInForce]
	if !ok {
		tif = goTrade.GoodTillTime
	}

	var trigger *decimal.Decimal
	if raw.TriggerPrice != "" {
		t, err := decimal.NewFromString(raw.TriggerPrice)
		if err != nil {
			return goTrade.PerpOrder{}, fmt.Errorf("lighter: order trigger price: %w", err)
		}
		if !t.IsZero() {
			trigger = &t
		}
	}

	return goTrade.PerpOrder{
		Order: goTrade.Order{
			Symbol:        symbol,
			Side:          side,
			Type:          orderType,
			Quantity:      qty,
			Price:         price,
			TimeInForce:   tif,
			ClientOrderID: fmt.Sprintf("%d:%d", raw.MarketIndex, raw.OrderIndex),
		},
		ReduceOnly:   raw.ReduceOnly,
		TriggerPrice: trigger,
		OrderExpiry:  raw.OrderExpiry,
	}, nil
}

func toPerpPosition(raw wirePosition, symbol string) (*goTrade.PerpPosition, error) {
	qty, err := decimal.NewFromString(raw.Position)
	if err != nil {
		return nil, fmt.Errorf("lighter: position size: %w", err)
	}
	if raw.Sign < 0 {
		qty = qty.Neg()
	}
	entry, err := decimal.NewFromString(raw.AvgEntryPrice)
	if err != nil {
		return nil, fmt.Errorf("lighter: position entry price: %w", err)
	}
	unrealized, err := decimal.NewFromString(raw.UnrealizedPnL)
	if err != nil {
		return nil, fmt.Errorf("lighter: position unrealized pnl: %w", err)
	}
	realized, err := decimal.NewFromString(raw.RealizedPnL)
	if err != nil {
		return nil, fmt.Errorf("lighter: position realized pnl: %w", err)
	}

	pos := &goTrade.PerpPosition{
		Position: goTrade.Position{
			Symbol:        symbol,
			Quantity:      qty,
			AvgEntryPrice: entry,
			UnrealizedPnL: unrealized,
			RealizedPnL:   realized,
		},
	}
	if raw.LiquidationPrice != "" {
		liq, err := decimal.NewFromString(raw.LiquidationPrice)
		if err != nil {
			return nil, fmt.Errorf("lighter: position liquidation price: %w", err)
		}
		if !liq.IsZero() {
			pos.LiquidationPrice = &liq
		}
	}
	if raw.TotalFundingPaidOut != "" {
		funding, err := decimal.NewFromString(raw.TotalFundingPaidOut)
		if err != nil {
			return nil, fmt.Errorf("lighter: position funding paid: %w", err)
		}
		if !funding.IsZero() {
			pos.FundingPaid = &funding
		}
	}
	return pos, nil
}
