package market

import "time"

// Exchange is the timezone authority for every instrument it lists. All
// bucket rounding for an instrument happens in its exchange's location.
type Exchange struct {
	Code     string
	Location *time.Location
}

// NewExchange creates an exchange for the given IANA timezone name.
func NewExchange(code, timezone string) (*Exchange, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &Exchange{Code: code, Location: loc}, nil
}
