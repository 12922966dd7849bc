package izettle

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// CreateCategory creates a new product category.
// A missing UUID is generated and written back to the passed-in category
func (c *Client) CreateCategory(category *Category) error {
	if category.UUID == "" {
		category.UUID = uuid.New().String()
	}

	return c.do(RequestSpec{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("%s/categories", c.productURL),
		Body:   category,
	}, nil)
}

// GetCategory gets a single category by its UUID
func (c *Client) GetCategory(categoryUUID string) (*Category, error) {
	category := Category{}
	err := c.do(RequestSpec{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/categories/%s", c.productURL, categoryUUID),
	}, &category)
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// GetAllCategories gets every category in the library
func (c *Client) GetAllCategories() ([]Category, error) {
	categories := []Category{}
	err := c.do(RequestSpec{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/categories", c.productURL),
	}, &categories)
	if err != nil {
		return nil, err
	}

	return categories, nil
}
