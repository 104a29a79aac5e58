package companies

import "time"

// Company is an organizational tenant owning a roster of managed accounts.
type Company struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
