package entity

import (
	"math"
	"time"
)

type Promotion struct {
	Base
	Code            string    `db:"code"`
	Description     *string   `db:"description"`
	DiscountPercent int       `db:"discount_percent"`
	MaxDiscount     *float64  `db:"max_discount"`
	StartsAt        time.Time `db:"starts_at"`
	EndsAt          time.Time `db:"ends_at"`
	IsActive        bool      `db:"is_active"`
}

// IsRedeemable reports whether the code can be applied at now.
func (p *Promotion) IsRedeemable(now time.Time) bool {
	return p != nil && p.IsActive && !p.IsDeleted() &&
		!now.Before(p.StartsAt) && now.Before(p.EndsAt)
}

// Discount returns the amount taken off a payment of the given size.
func (p *Promotion) Discount(amount float64) float64 {
	discount := amount * float64(p.DiscountPercent) / 100
	if p.MaxDiscount != nil && discount > *p.MaxDiscount {
		discount = *p.MaxDiscount
	}
	return math.Round(discount*100) / 100
}
