package catalog

import "encoding/json"

// Product is the normalized detail record for one catalog item. Raw backend
// fields that normalization does not understand are carried in extra so that
// re-normalizing a marshalled Product loses nothing.
type Product struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Images      []string     `json:"images"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
	Benefits    []string     `json:"benefits"`
	Shipping    *Shipping    `json:"shipping,omitempty"`
	Pickup      *Pickup      `json:"pickup,omitempty"`
	Description string       `json:"description"`
	Specs       *Specs       `json:"specs,omitempty"`

	extra map[string]json.RawMessage
}

type Breadcrumb struct {
	Label string `json:"label"`
	Href  string `json:"href,omitempty"`
}

type Shipping struct {
	Free    bool   `json:"free"`
	Arrives string `json:"arrives,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

type Pickup struct {
	Available bool   `json:"available"`
	Arrives   string `json:"arrives,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

type Specs struct {
	Highlighted   []string       `json:"highlighted"`
	FeatureGroups []FeatureGroup `json:"featureGroups"`
}

type FeatureGroup struct {
	Title    string    `json:"title"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Summary is one row of the product list endpoint.
type Summary struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Offer is the sellable configuration of a product: its variation axes and
// the discrete variants a shopper can pick from. One offer per product.
type Offer struct {
	ProductInfo ProductInfo `json:"productInfo"`
	Axes        []Axis      `json:"axes"`
	Variants    []Variant   `json:"variants"`
	Highlights  []string    `json:"highlights,omitempty"`
}

type ProductInfo struct {
	Condition   string  `json:"condition"`
	SoldCount   int     `json:"soldCount"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
}

// Axis names one dimension of variation and the attribute key each variant
// uses for it, e.g. "Color" -> "color".
type Axis struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// Variant is one purchasable attribute combination. Variants are immutable;
// selection tracks the id, never a copy.
type Variant struct {
	ID          int                `json:"id"`
	Attributes  map[string]string  `json:"attributes"`
	TitleSuffix string             `json:"titleSuffix,omitempty"`
	ImageIndex  int                `json:"imageIndex"`
	Pricing     map[string]Pricing `json:"pricing"`
	Stock       int                `json:"stock"`
}

// Pricing holds the amounts for one currency. OriginalPrice and Installments
// are absent, not zero, when the backend does not supply them.
type Pricing struct {
	Price         float64       `json:"price"`
	OriginalPrice *float64      `json:"originalPrice,omitempty"`
	Installments  *Installments `json:"installments,omitempty"`
}

type Installments struct {
	Months       int     `json:"months"`
	Amount       float64 `json:"amount"`
	InterestFree bool    `json:"interestFree"`
}

// Question is one Q&A entry. Answer nil means the answer is still pending.
// Shopper-submitted questions carry UserGenerated and may be deleted; seeded
// ones may not.
type Question struct {
	ID            string  `json:"id"`
	Question      string  `json:"question"`
	Answer        *string `json:"answer"`
	UserGenerated bool    `json:"isUserGenerated"`
}

type ReviewData struct {
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	Reviews     []Review `json:"reviews"`
}

type Review struct {
	ID            int      `json:"id"`
	Rating        int      `json:"rating"`
	Date          string   `json:"date"`
	OfficialStore bool     `json:"isOfficialStore"`
	Content       string   `json:"content"`
	Likes         int      `json:"likes"`
	Photos        []string `json:"photos,omitempty"`
}

type PaymentMethods struct {
	PromoText string          `json:"promoText,omitempty"`
	Credit    []PaymentMethod `json:"credit"`
	Debit     []PaymentMethod `json:"debit"`
	Cash      []PaymentMethod `json:"cash"`
}

type PaymentMethod struct {
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

type Seller struct {
	Name      string  `json:"name"`
	Official  bool    `json:"isOfficialStore"`
	Followers int     `json:"followers"`
	Products  int     `json:"products"`
	Sales     int     `json:"sales"`
	Rating    float64 `json:"rating"`
	Logo      string  `json:"logo,omitempty"`
}

// Bundle joins the six per-product records the page needs before it can
// render. It is assembled all-or-nothing; a partial bundle never leaves the
// fetch layer.
type Bundle struct {
	Product        Product
	Offer          Offer
	Questions      []Question
	Reviews        ReviewData
	PaymentMethods PaymentMethods
	Seller         Seller
}
