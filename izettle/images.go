package izettle

import (
	"net/http"
)

// CreateImage uploads an image to the iZettle image service,
// either from inline data or from a URL the service fetches itself.
// The returned lookup key can be referenced
// from product create/update payloads.
// https://github.com/iZettle/api-documentation/blob/master/image.adoc
func (c *Client) CreateImage(image *Image) (*ImageResponse, error) {
	response := ImageResponse{}
	err := c.do(RequestSpec{
		Method: http.MethodPost,
		URL:    c.imageURL,
		Body:   image,
	}, &response)
	if err != nil {
		return nil, err
	}

	return &response, nil
}
