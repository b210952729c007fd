package page

import (
	"html/template"
	"strings"

	"github.com/samber/lo"

	"github.com/jaolave/ml-challenge-frontend/internal/catalog"
	"github.com/jaolave/ml-challenge-frontend/internal/pricing"
	"github.com/jaolave/ml-challenge-frontend/internal/templates"
)

// maxQuantityOptions caps the quantity dropdown, matching marketplace UIs
// that stop enumerating past ten even with deeper stock.
const maxQuantityOptions = 10

type optionView struct {
	Value    string
	Selected bool
}

type axisView struct {
	Name    string
	Key     string
	Options []optionView
}

// productView is everything the product template renders, precomputed so
// the template stays free of selection logic.
type productView struct {
	Product      catalog.Product
	Offer        catalog.Offer
	Variant      catalog.Variant
	Title        string
	MainImage    string
	Axes         []axisView
	Price        *pricing.Display
	Currency     string
	Currencies   []string
	Quantity     int
	QuantityOpts []int
	InStock      bool
	Questions    []catalog.Question

	// PendingAnswer makes the page poll while a generated answer is on
	// its way.
	PendingAnswer bool

	Reviews         catalog.ReviewData
	Payment         catalog.PaymentMethods
	Seller          catalog.Seller
	Related         []catalog.Summary
	Notice          string
	ClarityScript   template.HTML
	GoogleTagScript template.HTML
}

func buildProductView(snap Snapshot) productView {
	b := snap.Bundle
	variant, ok := lo.Find(b.Offer.Variants, func(v catalog.Variant) bool { return v.ID == snap.VariantID })
	if !ok && len(b.Offer.Variants) > 0 {
		variant = b.Offer.Variants[0]
	}

	view := productView{
		Product:       b.Product,
		Offer:         b.Offer,
		Variant:       variant,
		Title:         variantTitle(b.Product.Title, variant),
		MainImage:     mainImage(b.Product.Images, variant.ImageIndex),
		Axes:          buildAxes(b.Offer, variant),
		Currency:      snap.Currency,
		Currencies:    pricing.Codes(variant.Pricing),
		Quantity:      snap.Quantity,
		QuantityOpts:  quantityOptions(variant.Stock),
		InStock:       variant.Stock > 0,
		Questions:     snap.Questions,
		PendingAnswer: lo.SomeBy(snap.Questions, func(q catalog.Question) bool {
			return q.UserGenerated && q.Answer == nil
		}),
		Reviews:         b.Reviews,
		Payment:         b.PaymentMethods,
		Seller:          b.Seller,
		Related:         snap.Products,
		Notice:          snap.Notice,
		ClarityScript:   templates.ClarityScript(),
		GoogleTagScript: templates.GoogleTagScript(),
	}
	if display, ok := pricing.ForCurrency(variant.Pricing, snap.Currency); ok {
		view.Price = &display
	} else if len(view.Currencies) > 0 {
		// The remembered currency can go missing when the shopper moves to a
		// variant priced in fewer currencies. Show what the variant has; the
		// session keeps the shopper's choice for variants that price it.
		if display, ok := pricing.ForCurrency(variant.Pricing, view.Currencies[0]); ok {
			view.Price = &display
			view.Currency = view.Currencies[0]
		}
	}
	return view
}

func variantTitle(title string, variant catalog.Variant) string {
	suffix := strings.TrimSpace(variant.TitleSuffix)
	if suffix == "" {
		return title
	}
	return title + " " + suffix
}

// mainImage picks the variant's image, falling back to the first one when
// the index points outside the gallery.
func mainImage(images []string, index int) string {
	if len(images) == 0 {
		return ""
	}
	if index < 0 || index >= len(images) {
		index = 0
	}
	return images[index]
}

// buildAxes lists each axis with its distinct option values in the order
// variants declare them, marking the selected variant's value.
func buildAxes(offer catalog.Offer, selected catalog.Variant) []axisView {
	axes := make([]axisView, 0, len(offer.Axes))
	for _, axis := range offer.Axes {
		var options []optionView
		for _, variant := range offer.Variants {
			value := variant.Attributes[axis.Key]
			if value == "" {
				continue
			}
			if lo.ContainsBy(options, func(o optionView) bool { return o.Value == value }) {
				continue
			}
			options = append(options, optionView{
				Value:    value,
				Selected: value == selected.Attributes[axis.Key],
			})
		}
		axes = append(axes, axisView{Name: axis.Name, Key: axis.Key, Options: options})
	}
	return axes
}

func quantityOptions(stock int) []int {
	limit := stock
	if limit > maxQuantityOptions {
		limit = maxQuantityOptions
	}
	options := make([]int, 0, limit)
	for i := 1; i <= limit; i++ {
		options = append(options, i)
	}
	return options
}
