package upload

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

// CDNStore uploads images to an external image CDN over HTTP. The CDN is a
// collaborator: the storefront only cares about the returned URL.
type CDNStore struct {
	client    *resty.Client
	uploadURL string
}

// cdnResponse is the subset of the CDN's upload response we use.
type cdnResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

func NewCDNStore(uploadURL, apiKey string) *CDNStore {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetAuthToken(apiKey)

	return &CDNStore{
		client:    client,
		uploadURL: uploadURL,
	}
}

func (c *CDNStore) Save(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*Upload, error) {
	if err := validate(contentType, size); err != nil {
		return nil, err
	}

	var out cdnResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, io.LimitReader(r, MaxSize)).
		SetFormData(map[string]string{"folder": "habbo-store/products"}).
		SetResult(&out).
		Post(c.uploadURL)
	if err != nil {
		return nil, fmt.Errorf("upload: cdn request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("upload: cdn returned %s", resp.Status())
	}

	return &Upload{
		URL:      out.SecureURL,
		Filename: filename,
		Size:     size,
		Type:     contentType,
	}, nil
}
