// Package beanlog defines the bean log record as seen by API clients, the
// required-field rules, input normalization, the static option lists offered
// to forms, and the pure create/edit form state machine.
//
// Nothing in this package performs I/O against the store. Date and time
// fields are ISO-8601 strings here; conversion to the stored temporal type
// happens in the repo package.
package beanlog

// Field names, as they appear on the wire.
const (
	FieldShopName     = "shop_name"
	FieldCountryName  = "country_name"
	FieldRegionName   = "region_name"
	FieldDistrictName = "district_name"
	FieldFarm         = "farm"
	FieldProductName  = "product_name"
	FieldFlavor       = "flavor"
	FieldGeneration   = "generation"
	FieldRoastLevel   = "roast_level"
	FieldIsBlend      = "is_blend"
	FieldPrice        = "price"
	FieldVolume       = "volume"
	FieldComment      = "comment"
	FieldPurchaseDate = "purchase_date"
	FieldRoastDate    = "roast_date"
	FieldExpDate      = "exp_date"
)

// Record is one user-owned bean log entry.
//
// ID is empty until the store assigns one; its absence is what separates a
// create from an update. Owner is always taken from the session, never from
// client input.
type Record struct {
	ID           string `json:"id,omitempty"`
	Owner        string `json:"owner"`
	ShopName     string `json:"shop_name"`
	CountryName  string `json:"country_name"`
	RegionName   string `json:"region_name"`
	DistrictName string `json:"district_name"`
	Farm         string `json:"farm"`
	ProductName  string `json:"product_name"`
	Flavor       string `json:"flavor"`
	Generation   string `json:"generation"`
	RoastLevel   string `json:"roast_level"`
	IsBlend      bool   `json:"is_blend"`
	Price        int    `json:"price"`
	Volume       int    `json:"volume"`
	Comment      string `json:"comment"`
	PurchaseDate string `json:"purchase_date"`
	RoastDate    string `json:"roast_date"`
	ExpDate      string `json:"exp_date"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// maxRunes caps free-text fields by rune count.
var maxRunes = map[string]int{
	FieldShopName:     30,
	FieldCountryName:  30,
	FieldRegionName:   30,
	FieldDistrictName: 30,
	FieldFarm:         30,
	FieldProductName:  30,
	FieldGeneration:   30,
	FieldRoastLevel:   30,
	FieldFlavor:       50,
	FieldComment:      300,
}

// MaxRunes returns the length cap for a text field, or 0 when uncapped.
func MaxRunes(field string) int { return maxRunes[field] }

// textField returns a pointer to the string backing a text or date field.
func (r *Record) textField(name string) *string {
	switch name {
	case FieldShopName:
		return &r.ShopName
	case FieldCountryName:
		return &r.CountryName
	case FieldRegionName:
		return &r.RegionName
	case FieldDistrictName:
		return &r.DistrictName
	case FieldFarm:
		return &r.Farm
	case FieldProductName:
		return &r.ProductName
	case FieldFlavor:
		return &r.Flavor
	case FieldGeneration:
		return &r.Generation
	case FieldRoastLevel:
		return &r.RoastLevel
	case FieldComment:
		return &r.Comment
	case FieldPurchaseDate:
		return &r.PurchaseDate
	case FieldRoastDate:
		return &r.RoastDate
	case FieldExpDate:
		return &r.ExpDate
	}
	return nil
}

// Text returns the value of a text or date field and whether the field exists.
func (r Record) Text(name string) (string, bool) {
	p := r.textField(name)
	if p == nil {
		return "", false
	}
	return *p, true
}

// textFields lists every string-valued field in schema order.
var textFields = []string{
	FieldShopName, FieldCountryName, FieldRegionName, FieldDistrictName,
	FieldFarm, FieldProductName, FieldFlavor, FieldGeneration, FieldRoastLevel,
	FieldComment, FieldPurchaseDate, FieldRoastDate, FieldExpDate,
}
