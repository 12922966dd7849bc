package izettle

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// GetPurchase gets a single recorded purchase by its UUID.
// https://github.com/iZettle/api-documentation/blob/master/purchase_v2.adoc
func (c *Client) GetPurchase(purchaseUUID string) (*Purchase, error) {
	purchase := Purchase{}
	err := c.do(RequestSpec{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/purchase/v2/%s", c.purchaseURL, purchaseUUID),
	}, &purchase)
	if err != nil {
		return nil, err
	}

	return &purchase, nil
}

// GetPurchases gets multiple recorded purchases,
// optionally filtered and paginated.
// A nil filter returns everything in the default order
func (c *Client) GetPurchases(filter *PurchaseFilter) (*PurchaseList, error) {
	query := url.Values{}
	if filter != nil {
		if filter.Limit > 0 {
			query.Set("limit", strconv.Itoa(filter.Limit))
		}
		if filter.LastPurchaseHash != "" {
			query.Set("lastPurchaseHash", filter.LastPurchaseHash)
		}
		if filter.Descending {
			query.Set("descending", "true")
		}
	}

	list := PurchaseList{}
	err := c.do(RequestSpec{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/purchases/v2", c.purchaseURL),
		Query:  query,
	}, &list)
	if err != nil {
		return nil, err
	}

	return &list, nil
}
