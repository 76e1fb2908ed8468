// Package catalog holds the appointment-type catalog and booking policies.
package catalog

// AppointmentType is immutable reference data describing one bookable lesson
// format. Duration and price are always looked up here, never stored inline.
type AppointmentType struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	DurationMinutes  int    `json:"duration_minutes"`
	RateCents        int    `json:"rate_cents"`
	MonthlyRateCents int    `json:"monthly_rate_cents"`
	Trial            bool   `json:"trial"`
}

// defaultTypes is the built-in lesson catalog. Order is the display order.
var defaultTypes = []AppointmentType{
	{ID: "trial-30", Name: "Trial Lesson (30 min)", DurationMinutes: 30, RateCents: 0, MonthlyRateCents: 0, Trial: true},
	{ID: "lesson-30", Name: "Lesson (30 min)", DurationMinutes: 30, RateCents: 4000, MonthlyRateCents: 14000},
	{ID: "lesson-45", Name: "Lesson (45 min)", DurationMinutes: 45, RateCents: 5500, MonthlyRateCents: 20000},
	{ID: "lesson-60", Name: "Lesson (60 min)", DurationMinutes: 60, RateCents: 7000, MonthlyRateCents: 26000},
}

// Catalog resolves appointment types by id.
type Catalog struct {
	types []AppointmentType
	byID  map[string]AppointmentType
}

// NewCatalog builds a catalog from the built-in types.
func NewCatalog() *Catalog {
	return NewCatalogWithTypes(defaultTypes)
}

// NewCatalogWithTypes builds a catalog from an explicit type list.
func NewCatalogWithTypes(types []AppointmentType) *Catalog {
	byID := make(map[string]AppointmentType, len(types))
	for _, t := range types {
		byID[t.ID] = t
	}
	return &Catalog{types: types, byID: byID}
}

// Lookup returns the type for id.
func (c *Catalog) Lookup(id string) (AppointmentType, error) {
	t, ok := c.byID[id]
	if !ok {
		return AppointmentType{}, ErrUnknownType
	}
	return t, nil
}

// Types returns all types in display order.
func (c *Catalog) Types() []AppointmentType {
	out := make([]AppointmentType, len(c.types))
	copy(out, c.types)
	return out
}
