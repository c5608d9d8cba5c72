package game

// Settlement is the deterministic payout computed from a stake.
// Computed once per terminal transition and never recomputed afterward.
type Settlement struct {
	TotalPot    int `json:"total_pot"`
	PlatformFee int `json:"platform_fee"`
	Winnings    int `json:"winnings"`
}

// Settle computes pot, platform fee and net winnings for a stake.
// The fee is floor(totalPot * feePercent / 100); integer division gives the
// floor for non-negative inputs, so Winnings + PlatformFee == TotalPot holds
// for every stake >= 0.
func Settle(stake, feePercent int) Settlement {
	pot := 2 * stake
	fee := pot * feePercent / 100
	return Settlement{
		TotalPot:    pot,
		PlatformFee: fee,
		Winnings:    pot - fee,
	}
}
