// Package seatmap derives the cosmetic seat grid shown for a show and
// prices a selection of seats on it. Everything here is a pure function of
// its inputs: the same screen type and seed always give the same grid.
package seatmap

// Tier is the seat category. It decides both the row placement and the
// price multiplier of a seat.
type Tier string

const (
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
	TierVIP      Tier = "vip"
)

// Status is the availability shown for a seat. The generator only emits
// Available, Sold and Held; Selected belongs to the client's own selection.
type Status string

const (
	StatusAvailable Status = "available"
	StatusSelected  Status = "selected"
	StatusSold      Status = "sold"
	StatusHeld      Status = "held"
)

var multipliers = map[Tier]float64{
	TierStandard: 1,
	TierPremium:  1.3,
	TierVIP:      1.5,
}

// Multiplier returns the price multiplier of t, or 0 for an unknown tier.
func Multiplier(t Tier) float64 {
	return multipliers[t]
}

// TierInfo describes a tier for display next to the seat grid.
type TierInfo struct {
	Tier        Tier    `json:"type"`
	Label       string  `json:"label"`
	Multiplier  float64 `json:"multiplier"`
	Description string  `json:"desc"`
}

var tierInfos = [...]TierInfo{
	{Tier: TierStandard, Label: "Standard", Multiplier: 1, Description: "Regular comfortable seating"},
	{Tier: TierPremium, Label: "Premium", Multiplier: 1.3, Description: "Better viewing angle, extra legroom"},
	{Tier: TierVIP, Label: "VIP", Multiplier: 1.5, Description: "Best viewing experience, recliner seats"},
}

// TierInfos returns the tiers from cheapest to most expensive. The slice is
// a fresh copy on every call.
func TierInfos() []TierInfo {
	out := make([]TierInfo, len(tierInfos))
	copy(out, tierInfos[:])
	return out
}

// Unavailable reports whether a seat with status s can not be picked.
func (s Status) Unavailable() bool {
	return s == StatusSold || s == StatusHeld
}
