package catalog

// Category is a top-level service category (Food, Shelter, ...) as served
// by the service-types endpoint. Colors and icons feed the map markers.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	IconName    string `json:"icon_name,omitempty"`
	ColorHex    string `json:"color_hex,omitempty"`
}

// ServiceInfo is one service offered at a location. Notes may carry a raw
// program code (FP, SK, ...) from the upstream feed.
type ServiceInfo struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Notes    string `json:"notes,omitempty"`
	Capacity *int   `json:"capacity,omitempty"`
}

// OperatingHours is one weekday entry of a location's schedule.
type OperatingHours struct {
	DayOfWeek int    `json:"day_of_week"`
	DayName   string `json:"day_name"`
	OpenTime  string `json:"open_time,omitempty"`
	CloseTime string `json:"close_time,omitempty"`
	Is24Hours bool   `json:"is_24_hours"`
	IsClosed  bool   `json:"is_closed"`
	Notes     string `json:"notes,omitempty"`
}

// ServiceRecord is a physical location offering one or more services.
// Identity is ID; every other field may change between fetches, so merges
// must overwrite on ID match rather than skip duplicates.
type ServiceRecord struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	Latitude       float64          `json:"latitude"`
	Longitude      float64          `json:"longitude"`
	DistanceKm     *float64         `json:"distance_km,omitempty"`
	StreetAddress  string           `json:"street_address,omitempty"`
	Borough        string           `json:"borough,omitempty"`
	Phone          string           `json:"phone,omitempty"`
	Services       []ServiceInfo    `json:"services"`
	OperatingHours []OperatingHours `json:"operating_hours,omitempty"`
	IsOpenNow      *bool            `json:"is_open_now,omitempty"`
}

// HasService reports whether the record offers a service of the given
// category slug.
func (r ServiceRecord) HasService(slug string) bool {
	for _, s := range r.Services {
		if s.Type == slug {
			return true
		}
	}
	return false
}

// IssueReport is a user-submitted problem report about a location.
type IssueReport struct {
	IssueType    string `json:"issue_type"`
	LocationName string `json:"location_name"`
	Description  string `json:"description"`
	CaptchaToken string `json:"captcha_token"`
}

// Issue types understood by the report endpoint.
const (
	IssueClosed   = "closed"
	IssueHours    = "hours"
	IssueFull     = "full"
	IssueReferral = "referral"
	IssueOther    = "other"
)

// IssueReceipt is the server's acknowledgement of a report.
type IssueReceipt struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
