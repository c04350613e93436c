package domain

// Account represents a trading account as reported by the gateway.
type Account struct {
	ID        int64
	Name      string
	Balance   float64
	CanTrade  bool
	IsVisible bool
	Simulated bool
}
