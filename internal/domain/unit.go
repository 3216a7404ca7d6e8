package domain

type UnitKind string

const (
	UnitKindCabin  UnitKind = "CABANA"
	UnitKindHotTub UnitKind = "TINAJA"
)

// Unit is a bookable resource. Cabins are booked by date range, hot tubs by
// individual day. The two kinds are independent allocation pools.
type Unit struct {
	ID            int32    `json:"id"`
	Kind          UnitKind `json:"kind"`
	Name          string   `json:"name"`
	Capacity      int32    `json:"capacity"`       // max guests (cabins only)
	BaseOccupancy int32    `json:"base_occupancy"` // guests included in the nightly rate
	Rooms         int32    `json:"rooms"`
	Baths         int32    `json:"baths"`
	// RateLowCLP/RateHighCLP are nightly rates for cabins and per-day rates
	// for hot tubs, in whole pesos.
	RateLowCLP  int32 `json:"rate_low_clp"`
	RateHighCLP int32 `json:"rate_high_clp"`
	Active      bool  `json:"active"`
}
