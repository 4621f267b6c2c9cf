package lighter

// Lighter integer constants for order fields. Values follow the exchange
// protocol and must not be renumbered.
const (
	orderTypeLimit           = 0
	orderTypeMarket          = 1
	orderTypeStopLoss        = 2
	orderTypeStopLossLimit   = 3
	orderTypeTakeProfit      = 4
	orderTypeTakeProfitLimit = 5

	tifImmediateOrCancel = 0
	tifGoodTillTime      = 1
	tifPostOnly          = 2

	nilTriggerPrice = 0

	cancelAllTIFImmediate = 0
)

// Transaction types accepted by the send-tx endpoint.
const (
	txTypeCreateOrder     = 14
	txTypeCancelOrder     = 15
	txTypeCancelAllOrders = 16
)

type createOrderTx struct {
	AccountIndex     int64 `json:"account_index"`
	ApiKeyIndex      int   `json:"api_key_index"`
	MarketIndex      int64 `json:"market_index"`
	ClientOrderIndex int64 `json:"client_order_index"`
	BaseAmount       int64 `json:"base_amount"`
	Price            int64 `json:"price"`
	IsAsk            bool  `json:"is_ask"`
	Type             int   `json:"type"`
	TimeInForce      int   `json:"time_in_force"`
	ReduceOnly       bool  `json:"reduce_only"`
	TriggerPrice     int64 `json:"trigger_price"`
	OrderExpiry      int64 `json:"order_expiry"`
	Nonce            int64 `json:"nonce"`
}

type cancelOrderTx struct {
	AccountIndex int64 `json:"account_index"`
	ApiKeyIndex  int   `json:"api_key_index"`
	MarketIndex  int64 `json:"market_index"`
	OrderIndex   int64 `json:"order_index"`
	Nonce        int64 `json:"nonce"`
}

type cancelAllOrdersTx struct {
	AccountIndex int64 `json:"account_index"`
	ApiKeyIndex  int   `json:"api_key_index"`
	TimeInForce  int   `json:"time_in_force"`
	Time         int64 `json:"time"`
	Nonce        int64 `json:"nonce"`
}

// txResponse is the send-tx result. Code 200 means the rollup accepted the
// transaction; anything else carries a venue rejection in Message.
type txResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TxHash  string `json:"tx_hash"`
}

type wireOrder struct {
	OrderIndex        int64  `json:"order_index"`
	MarketIndex       int64  `json:"market_index"`
	Price             string `json:"price"`
	InitialBaseAmount string `json:"initial_base_amount"`
	IsAsk             bool   `json:"is_ask"`
	Type              string `json:"type"`
	TimeInForce       string `json:"time_in_force"`
	ReduceOnly        bool   `json:"reduce_only"`
	TriggerPrice      string `json:"trigger_price"`
	OrderExpiry       int64  `json:"order_expiry"`
}

type activeOrdersResponse struct {
	Orders []wireOrder `json:"orders"`
}

type wirePosition struct {
	MarketID            int64  `json:"market_id"`
	Sign                int    `json:"sign"`
	Position            string `json:"position"`
	AvgEntryPrice       string `json:"avg_entry_price"`
	UnrealizedPnL       string `json:"unrealized_pnl"`
	RealizedPnL         string `json:"realized_pnl"`
	LiquidationPrice    string `json:"liquidation_price"`
	TotalFundingPaidOut string `json:"total_funding_paid_out"`
}

type wireAccount struct {
	Positions []wirePosition `json:"positions"`
}

type accountResponse struct {
	Accounts []wireAccount `json:"accounts"`
}

type wireLevel struct {
	Price string `json:"price"`
}

type orderBookResponse struct {
	Bids []wireLevel `json:"bids"`
	Asks []wireLevel `json:"asks"`
}
