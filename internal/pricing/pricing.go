package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrInvalidDiscount = errors.New("discount is out of range")
)

var hundred = decimal.NewFromInt(100)

// Discount is the derived triple stored on a course: setting either the
// discount price or the percentage determines the other.
type Discount struct {
	Price              decimal.Decimal
	DiscountPrice      decimal.NullDecimal
	DiscountPercentage decimal.NullDecimal
}

// DiscountPercentage returns (price - discountPrice) / price * 100 rounded to
// two places.
func DiscountPercentage(price, discountPrice decimal.Decimal) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Zero, ErrInvalidPrice
	}
	if discountPrice.IsNegative() || discountPrice.GreaterThan(price) {
		return decimal.Zero, ErrInvalidDiscount
	}

	return price.Sub(discountPrice).Div(price).Mul(hundred).Round(2), nil
}

// DiscountPrice returns price * (1 - percentage/100) rounded to two places.
func DiscountPrice(price, percentage decimal.Decimal) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Zero, ErrInvalidPrice
	}
	if percentage.IsNegative() || percentage.GreaterThan(hundred) {
		return decimal.Zero, ErrInvalidDiscount
	}

	return price.Mul(hundred.Sub(percentage)).Div(hundred).Round(2), nil
}

// Derive completes a discount from whichever side was edited. The discount
// price wins when both are given; neither means no discount.
func Derive(price decimal.Decimal, discountPrice, percentage decimal.NullDecimal) (Discount, error) {
	if !price.IsPositive() {
		return Discount{}, ErrInvalidPrice
	}

	d := Discount{Price: price.Round(2)}
	switch {
	case discountPrice.Valid:
		pct, err := DiscountPercentage(d.Price, discountPrice.Decimal)
		if err != nil {
			return Discount{}, err
		}
		d.DiscountPrice = decimal.NewNullDecimal(discountPrice.Decimal.Round(2))
		d.DiscountPercentage = decimal.NewNullDecimal(pct)
	case percentage.Valid:
		dp, err := DiscountPrice(d.Price, percentage.Decimal)
		if err != nil {
			return Discount{}, err
		}
		d.DiscountPrice = decimal.NewNullDecimal(dp)
		d.DiscountPercentage = decimal.NewNullDecimal(percentage.Decimal.Round(2))
	}

	return d, nil
}

// AmountDue is the course's discount price when set, else its price, reduced
// by the buyer's flat discount percentage when that is positive.
func AmountDue(price decimal.Decimal, discountPrice decimal.NullDecimal, userPercentage decimal.Decimal) decimal.Decimal {
	amount := price
	if discountPrice.Valid {
		amount = discountPrice.Decimal
	}

	if userPercentage.IsPositive() && !userPercentage.GreaterThan(hundred) {
		amount = amount.Mul(hundred.Sub(userPercentage)).Div(hundred)
	}

	return amount.Round(2)
}

// TotalDuration sums lesson durations in minutes.
func TotalDuration(durations []int) int {
	total := 0
	for _, d := range durations {
		if d > 0 {
			total += d
		}
	}
	return total
}
