package vectordb

// Distance is the similarity function used to rank vectors during retrieval.
type Distance string

const (
	DistanceCosine Distance = "Cosine"
	DistanceDot    Distance = "Dot"
	DistanceEuclid Distance = "Euclid"
)

// ParseDistance maps a configuration string onto a Distance,
// defaulting to cosine for unknown values.
func ParseDistance(s string) Distance {
	switch Distance(s) {
	case DistanceDot:
		return DistanceDot
	case DistanceEuclid:
		return DistanceEuclid
	default:
		return DistanceCosine
	}
}

// Entry is a persisted index record.
type Entry struct {
	// ID is the index-local identity. Re-upserting an id replaces the
	// stored vector and payload, never merges.
	ID string `json:"id"`

	// Vector is the dense embedding representation. Its length must
	// equal the collection's declared vector size.
	Vector []float32 `json:"vector"`

	// Payload is the metadata stored with the vector.
	Payload map[string]any `json:"payload,omitempty"`
}

// SearchResult represents a single search result with its similarity score.
type SearchResult struct {
	// ID is the unique identifier of the matched entry.
	ID string `json:"id"`

	// Score is the similarity score (higher = more similar for cosine).
	Score float32 `json:"score"`

	// Payload contains the metadata stored with the vector.
	Payload map[string]any `json:"payload"`
}

// Collection contains metadata about a vector collection.
type Collection struct {
	// Name is the unique identifier of the collection.
	Name string `json:"name"`

	// Status indicates the operational state (e.g. "Green", "Yellow").
	Status string `json:"status"`

	// VectorSize is the dimension of vectors in this collection.
	VectorSize uint64 `json:"vectorSize"`

	// Distance is the similarity metric fixed at creation.
	Distance Distance `json:"distance"`

	// PointCount is the number of stored entries.
	PointCount uint64 `json:"pointCount"`
}
