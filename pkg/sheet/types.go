package sheet

// Sheet is a batch of listings to adjust, as read from YAML.
type Sheet struct {
	Title       string    `yaml:"title" json:"title,omitempty"`
	Coefficient *float64  `yaml:"coefficient" json:"coefficient,omitempty"`
	DefaultArea float64   `yaml:"default_area" json:"default_area,omitempty"`
	Listings    []Listing `yaml:"listings" json:"listings"`
}

// Listing is one source valuation. Exactly one of UnitPrice and
// TotalPrice should be set.
type Listing struct {
	Name       string   `yaml:"name" json:"name"`
	UnitPrice  *float64 `yaml:"unit_price" json:"unit_price,omitempty"`  // yuan/m²
	TotalPrice *float64 `yaml:"total_price" json:"total_price,omitempty"` // yuan
	Area       float64  `yaml:"area" json:"area,omitempty"`               // m²
}

// Mode tells which source valuation a listing carries.
type Mode string

const (
	ModeUnit    Mode = "unit"
	ModeTotal   Mode = "total"
	ModeUnknown Mode = "unknown"
)

// Mode returns ModeUnknown when neither or both prices are set.
func (l Listing) Mode() Mode {
	switch {
	case l.UnitPrice != nil && l.TotalPrice == nil:
		return ModeUnit
	case l.TotalPrice != nil && l.UnitPrice == nil:
		return ModeTotal
	default:
		return ModeUnknown
	}
}

// EffectiveArea returns the listing's area, falling back to defaultArea.
func (l Listing) EffectiveArea(defaultArea float64) float64 {
	if l.Area != 0 {
		return l.Area
	}
	return defaultArea
}
