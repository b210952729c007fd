// Package pricing turns the per-currency offer numbers into display strings
// for the product page.
package pricing

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jaolave/ml-challenge-frontend/internal/catalog"
)

// Display holds the formatted price block for one currency. OriginalPrice
// and Installments are empty when the offer does not carry them.
type Display struct {
	Price           string
	OriginalPrice   string
	DiscountPercent int
	Installments    string
}

type convention struct {
	symbol string
	tag    language.Tag
	minor  int
}

var conventions = map[string]convention{
	"COP": {symbol: "$", tag: language.MustParse("es-CO"), minor: 0},
	"USD": {symbol: "US$", tag: language.AmericanEnglish, minor: 2},
}

// ForCurrency formats the pricing entry for the given currency code. The
// second return is false when the variant carries no entry for that code.
func ForCurrency(pricing map[string]catalog.Pricing, code string) (Display, bool) {
	p, ok := pricing[code]
	if !ok {
		return Display{}, false
	}

	c, ok := conventions[code]
	if !ok {
		c = convention{symbol: code, tag: language.MustParse("es-CO"), minor: 0}
	}

	d := Display{Price: formatAmount(p.Price, c)}
	if p.OriginalPrice != nil && *p.OriginalPrice > 0 {
		d.OriginalPrice = formatAmount(*p.OriginalPrice, c)
		d.DiscountPercent = int(math.Round((*p.OriginalPrice - p.Price) / *p.OriginalPrice * 100))
	}
	if p.Installments != nil && p.Installments.Months > 0 {
		d.Installments = fmt.Sprintf("%d cuotas de %s", p.Installments.Months, formatAmount(p.Installments.Amount, c))
		if p.Installments.InterestFree {
			d.Installments += " sin interés"
		}
	}
	return d, true
}

// Codes lists the currency codes an offer can be displayed in, COP and USD
// first, the rest alphabetically.
func Codes(pricing map[string]catalog.Pricing) []string {
	codes := make([]string, 0, len(pricing))
	for _, preferred := range []string{"COP", "USD"} {
		if _, ok := pricing[preferred]; ok {
			codes = append(codes, preferred)
		}
	}
	rest := make([]string, 0, len(pricing))
	for code := range pricing {
		if code != "COP" && code != "USD" {
			rest = append(rest, code)
		}
	}
	sort.Strings(rest)
	return append(codes, rest...)
}

func formatAmount(v float64, c convention) string {
	printer := message.NewPrinter(c.tag)
	n := number.Decimal(v,
		number.MaxFractionDigits(c.minor),
		number.MinFractionDigits(c.minor))
	return c.symbol + " " + printer.Sprintf("%v", n)
}
