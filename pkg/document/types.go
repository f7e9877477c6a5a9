package document

// Metadata keys shared across the pipeline. Index payloads and node
// metadata use the same keys so retrieved entries can be traced back
// to their source object.
const (
	MetaFilePath = "file_path"
	MetaFileName = "file_name"
)

// Document is a single source unit read from object storage.
// It is immutable once produced by the loader.
type Document struct {
	// ID uniquely identifies the document within an ingestion run.
	ID string

	// Text is the full decoded content of the source object.
	Text string

	// Metadata carries source attributes (file_path, file_name, ...).
	Metadata map[string]string
}

// Node is a bounded-length span of a document used as the retrieval unit.
// A document yields zero or more nodes; nodes inherit the parent's metadata.
type Node struct {
	// ID uniquely identifies the node. The pipeline derives it
	// deterministically from the document ID and the node index, so
	// re-ingesting the same content replaces existing index entries.
	ID string

	// DocumentID references the parent document.
	DocumentID string

	// Index is the zero-based position of this node within the document.
	Index int

	// Text is the chunk content, including any leading overlap context.
	Text string

	// Metadata is inherited from the parent document.
	Metadata map[string]string
}

// NewNode builds a node for the given parent document, copying the
// parent's metadata so later mutation of one node cannot leak into
// siblings.
func NewNode(doc Document, index int, text string) Node {
	meta := make(map[string]string, len(doc.Metadata))
	for k, v := range doc.Metadata {
		meta[k] = v
	}
	return Node{
		DocumentID: doc.ID,
		Index:      index,
		Text:       text,
		Metadata:   meta,
	}
}
