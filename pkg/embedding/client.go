package embedding

import "context"

// Client is a thin facade that delegates all requests to the underlying Provider.
type Client struct {
	provider Provider
}

// NewClient constructs a Client from an already-instantiated Provider.
func NewClient(p Provider) *Client {
	return &Client{provider: p}
}

// CreateEmbeddings embeds a batch of texts, preserving input order.
func (c *Client) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	return c.provider.CreateEmbeddings(ctx, texts)
}

// CreateEmbedding embeds a single text.
func (c *Client) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.provider.CreateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Dimensions reports the fixed vector size of the underlying provider.
func (c *Client) Dimensions() int {
	return c.provider.Dimensions()
}
