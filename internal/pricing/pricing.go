// Package pricing converts credit amounts into their display form and
// computes the checkout discount per payment method.
package pricing

import (
	"fmt"
	"math"
	"strings"
)

// CreditRate is the fixed credits→BRL exchange rate used for display.
const CreditRate = 0.18

// Price is the display pair for a credit amount.
type Price struct {
	Credits         int    `json:"credits"`
	Reais           string `json:"reais"`
	FormattedCredit string `json:"formattedCredit"`
	FormattedReal   string `json:"formattedReal"`
}

// Format renders a credit amount with its BRL equivalent. BRL uses the
// comma decimal separator.
func Format(credits int) Price {
	reais := float64(credits) * CreditRate
	value := fmt.Sprintf("%.2f", reais)

	return Price{
		Credits:         credits,
		Reais:           value,
		FormattedCredit: fmt.Sprintf("%d créditos", credits),
		FormattedReal:   "R$ " + strings.Replace(value, ".", ",", 1),
	}
}

// PaymentMethod selects the checkout discount.
type PaymentMethod string

const (
	PIX      PaymentMethod = "pix"
	Card     PaymentMethod = "card"
	Transfer PaymentMethod = "transfer"
)

// Discount returns the fractional discount for the method. Only PIX
// carries one.
func (m PaymentMethod) Discount() float64 {
	if m == PIX {
		return 0.05
	}
	return 0
}

// CheckoutTotal applies the payment-method discount to a cart total,
// rounding to whole credits. Both values are rounded independently, so
// final+discount may differ from total by one credit on .5 boundaries;
// the final total is the authoritative charged amount.
func CheckoutTotal(total int, m PaymentMethod) (final, discount int) {
	d := m.Discount()
	final = int(math.Round(float64(total) * (1 - d)))
	discount = int(math.Round(float64(total) * d))
	return final, discount
}
