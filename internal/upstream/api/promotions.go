package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/auto88/auto88-ui/internal/upstream"
)

// Promotion mirrors the upstream promotion resource.
type Promotion struct {
	PromotionID      int      `json:"promotionId"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	DiscountType     string   `json:"discountType"`
	DiscountValue    float64  `json:"discountValue"`
	StartAt          string   `json:"startAt"`
	EndAt            string   `json:"endAt"`
	Active           bool     `json:"active"`
	AppliesTo        string   `json:"appliesTo"`
	TargetCategories []string `json:"targetCategories,omitempty"`
	TargetBrands     []string `json:"targetBrands,omitempty"`
	TargetCarIDs     []int    `json:"targetCarIds,omitempty"`
}

// PromotionInput is the writable promotion payload.
type PromotionInput struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	DiscountType     string   `json:"discountType"`
	DiscountValue    float64  `json:"discountValue"`
	StartAt          string   `json:"startAt"`
	EndAt            string   `json:"endAt"`
	Active           bool     `json:"active"`
	AppliesTo        string   `json:"appliesTo"`
	TargetCategories []string `json:"targetCategories,omitempty"`
	TargetBrands     []string `json:"targetBrands,omitempty"`
	TargetCarIDs     []int    `json:"targetCarIds,omitempty"`
}

// Promotions talks to the promotion endpoints.
type Promotions struct {
	c Caller
}

// NewPromotions constructs the promotion endpoint client.
func NewPromotions(c Caller) *Promotions { return &Promotions{c: c} }

// Active returns the promotions currently running.
func (a *Promotions) Active(ctx context.Context) ([]Promotion, error) {
	return call[[]Promotion](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/promotions/active"))
}

// Create starts a new promotion.
func (a *Promotions) Create(ctx context.Context, in PromotionInput) (Promotion, error) {
	d, err := upstream.NewJSONDescriptor(http.MethodPost, "/promotions", in)
	if err != nil {
		return Promotion{}, err
	}
	return call[Promotion](ctx, a.c, d)
}

// Update edits a promotion.
func (a *Promotions) Update(ctx context.Context, promotionID int, in PromotionInput) (Promotion, error) {
	d, err := upstream.NewJSONDescriptor(http.MethodPut, fmt.Sprintf("/promotions/%d", promotionID), in)
	if err != nil {
		return Promotion{}, err
	}
	return call[Promotion](ctx, a.c, d)
}

// Delete ends and removes a promotion.
func (a *Promotions) Delete(ctx context.Context, promotionID int) error {
	d := upstream.NewDescriptor(http.MethodDelete, fmt.Sprintf("/promotions/%d", promotionID))
	return callVoid(ctx, a.c, d)
}
