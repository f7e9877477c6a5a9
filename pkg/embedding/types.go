package embedding

import "context"

// Provider contract. Implementations call an external embedding
// capability over the network; bit-for-bit determinism across calls or
// model versions is not guaranteed and callers must not rely on it.
type Provider interface {
	// CreateEmbeddings returns one vector per input text, in input order.
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions reports the fixed dimensionality of produced vectors.
	Dimensions() int
}
