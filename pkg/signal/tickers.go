package signal

import "strings"

// tickerNames maps supported tickers to currency names. The extraction prompt
// embeds this list so the model sticks to known symbols.
var tickerNames = map[string]string{
	"BTC":   "Bitcoin",
	"ETH":   "Ethereum",
	"BNB":   "Binance Coin",
	"SOL":   "Solana",
	"XRP":   "XRP",
	"ADA":   "Cardano",
	"DOGE":  "Dogecoin",
	"DOT":   "Polkadot",
	"TRX":   "Tron",
	"AVAX":  "Avalanche",
	"MATIC": "Polygon",
	"LTC":   "Litecoin",
	"LINK":  "Chainlink",
	"ATOM":  "Cosmos",
	"XLM":   "Stellar",
	"UNI":   "Uniswap",
	"BCH":   "Bitcoin Cash",
	"APT":   "Aptos",
	"OP":    "Optimism",
	"ARB":   "Arbitrum",
	"USDT":  "Tether",
	"USDC":  "USD Coin",
	"SUI":   "Sui",
	"NEAR":  "Near Protocol",
	"FTM":   "Fantom",
	"ALGO":  "Algorand",
	"VET":   "VeChain",
	"ICP":   "Internet Computer",
	"FIL":   "Filecoin",
	"SAND":  "The Sandbox",
	"MANA":  "Decentraland",
	"CRO":   "Cronos",
	"LDO":   "Lido DAO",
	"QNT":   "Quant",
}

// TickerName returns the currency name for a ticker, or false when unknown.
func TickerName(ticker string) (string, bool) {
	name, ok := tickerNames[strings.ToUpper(strings.TrimSpace(ticker))]
	return name, ok
}

// KnownTickers returns the supported symbols in no particular order.
func KnownTickers() []string {
	out := make([]string, 0, len(tickerNames))
	for t := range tickerNames {
		out = append(out, t)
	}
	return out
}
