package domain

// Position is a net holding in one contract. The gateway exposes no position
// listing endpoint, so positions appear only in close requests and in the
// always-empty listing payloads.
type Position struct {
	AccountID    int64
	ContractID   string
	Size         int
	AveragePrice float64
}
