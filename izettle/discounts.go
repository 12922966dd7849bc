package izettle

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// CreateDiscount creates a new discount.
// A missing UUID is generated and written back to the passed-in discount
func (c *Client) CreateDiscount(discount *Discount) error {
	if discount.UUID == "" {
		discount.UUID = uuid.New().String()
	}

	return c.do(RequestSpec{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("%s/discounts", c.productURL),
		Body:   discount,
	}, nil)
}

// GetDiscount gets a single discount by its UUID
func (c *Client) GetDiscount(discountUUID string) (*Discount, error) {
	discount := Discount{}
	err := c.do(RequestSpec{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/discounts/%s", c.productURL, discountUUID),
	}, &discount)
	if err != nil {
		return nil, err
	}

	return &discount, nil
}

// GetAllDiscounts gets every discount in the library
func (c *Client) GetAllDiscounts() ([]Discount, error) {
	discounts := []Discount{}
	err := c.do(RequestSpec{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/discounts", c.productURL),
	}, &discounts)
	if err != nil {
		return nil, err
	}

	return discounts, nil
}

// UpdateDiscount updates an existing discount
func (c *Client) UpdateDiscount(discountUUID string, discount *Discount) error {
	return c.do(RequestSpec{
		Method: http.MethodPut,
		URL:    fmt.Sprintf("%s/discounts/%s", c.productURL, discountUUID),
		Body:   discount,
	}, nil)
}

// DeleteDiscount deletes a single discount by its UUID
func (c *Client) DeleteDiscount(discountUUID string) error {
	return c.do(RequestSpec{
		Method: http.MethodDelete,
		URL:    fmt.Sprintf("%s/discounts/%s", c.productURL, discountUUID),
	}, nil)
}
