package domain

import "strings"

// Contract represents a tradable futures contract. ID is the gateway contract
// key (e.g. "CON.F.US.MES.U25"); Symbol is the human symbol (e.g. "MES").
type Contract struct {
	ID             string
	Symbol         string
	Name           string
	Description    string
	Exchange       string
	TickSize       float64
	PointValue     float64
	MinQuantity    int
	MaxQuantity    int
	TradingHours   string
	ActiveContract bool
}

// NormalizeSymbol returns the canonical cache key for a contract symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
