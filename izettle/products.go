package izettle

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// CreateProduct creates a new product in the product library.
// https://github.com/iZettle/api-documentation/blob/master/product-library.adoc
//
// Mirrors the defaulting the platform expects:
// a missing product or variant UUID is generated,
// a product without variants is given a single empty variant,
// and a missing VAT percentage defaults to "0".
// The passed-in product is updated in place with the generated values
func (c *Client) CreateProduct(product *Product) error {
	if product.UUID == "" {
		product.UUID = uuid.New().String()
	}

	if len(product.Variants) == 0 {
		product.Variants = []Variant{{}}
	}
	for i := range product.Variants {
		if product.Variants[i].UUID == "" {
			product.Variants[i].UUID = uuid.New().String()
		}
	}

	if product.VatPercentage == "" {
		product.VatPercentage = "0"
	}

	return c.do(RequestSpec{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("%s/products", c.productURL),
		Body:   product,
	}, nil)
}

// GetProduct gets a single product by its UUID
func (c *Client) GetProduct(productUUID string) (*Product, error) {
	product := Product{}
	err := c.do(RequestSpec{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/products/%s", c.productURL, productUUID),
	}, &product)
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// GetAllProducts gets every product in the product library
func (c *Client) GetAllProducts() ([]Product, error) {
	products := []Product{}
	err := c.do(RequestSpec{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/products", c.productURL),
	}, &products)
	if err != nil {
		return nil, err
	}

	return products, nil
}

// UpdateProduct updates an existing product (full update, API version v2)
func (c *Client) UpdateProduct(productUUID string, product *Product) error {
	return c.do(RequestSpec{
		Method: http.MethodPut,
		URL:    fmt.Sprintf("%s/products/v2/%s", c.productURL, productUUID),
		Body:   product,
	}, nil)
}

// DeleteProduct deletes a single product by its UUID
func (c *Client) DeleteProduct(productUUID string) error {
	return c.do(RequestSpec{
		Method: http.MethodDelete,
		URL:    fmt.Sprintf("%s/products/%s", c.productURL, productUUID),
	}, nil)
}

// DeleteProducts deletes multiple products in a single call
func (c *Client) DeleteProducts(productUUIDs []string) error {
	return c.do(RequestSpec{
		Method: http.MethodDelete,
		URL:    fmt.Sprintf("%s/products", c.productURL),
		Query:  url.Values{"uuid": productUUIDs},
	}, nil)
}

// CreateVariant creates a new variant for an existing product.
// A missing variant UUID is generated
// and written back to the passed-in variant
func (c *Client) CreateVariant(productUUID string, variant *Variant) error {
	if variant.UUID == "" {
		variant.UUID = uuid.New().String()
	}

	return c.do(RequestSpec{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("%s/products/%s/variants", c.productURL, productUUID),
		Body:   variant,
	}, nil)
}

// UpdateVariant updates an existing variant of a product
func (c *Client) UpdateVariant(productUUID string, variantUUID string, variant *Variant) error {
	return c.do(RequestSpec{
		Method: http.MethodPut,
		URL:    fmt.Sprintf("%s/products/%s/variants/%s", c.productURL, productUUID, variantUUID),
		Body:   variant,
	}, nil)
}

// DeleteVariant deletes a variant of a product
func (c *Client) DeleteVariant(productUUID string, variantUUID string) error {
	return c.do(RequestSpec{
		Method: http.MethodDelete,
		URL:    fmt.Sprintf("%s/products/%s/variants/%s", c.productURL, productUUID, variantUUID),
	}, nil)
}
