package chunker

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/docuvec/docuvec/pkg/document"
)

// ErrEmptyDocument is returned when a document contains no splittable text.
// Callers should record the failure and continue with the next document.
var ErrEmptyDocument = errors.New("document has no text to chunk")

// Chunker splits documents into overlapping nodes.
//
// Sizes are measured in runes. Each emitted node is at most ChunkSize
// runes long and shares exactly ChunkOverlap runes of context with its
// predecessor. Cut points prefer paragraph breaks, then sentence ends,
// then word boundaries, before falling back to a hard cut, so that
// retrieval units keep semantic boundaries where possible.
//
// Nodes are verbatim slices of the source text: concatenating every
// node's non-overlapping suffix reconstructs the document exactly.
type Chunker struct {
	size    int
	overlap int
}

// New validates the size parameters and returns a Chunker.
func New(chunkSize, chunkOverlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("chunk overlap cannot be negative, got %d", chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", chunkOverlap, chunkSize)
	}
	return &Chunker{size: chunkSize, overlap: chunkOverlap}, nil
}

// Chunk splits a document into ordered nodes.
//
// A document shorter than the chunk size yields exactly one node.
// A document with no text yields no nodes and ErrEmptyDocument.
func (c *Chunker) Chunk(doc document.Document) ([]document.Node, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, ErrEmptyDocument
	}

	runes := []rune(doc.Text)
	var nodes []document.Node

	start := 0
	for index := 0; ; index++ {
		end := start + c.size
		if end >= len(runes) {
			node := document.NewNode(doc, index, string(runes[start:]))
			nodes = append(nodes, node)
			break
		}

		end = c.cutPoint(runes, start, end)
		node := document.NewNode(doc, index, string(runes[start:end]))
		nodes = append(nodes, node)

		start = end - c.overlap
	}

	for i := range nodes {
		nodes[i].ID = NodeID(doc.ID, nodes[i].Index)
	}
	return nodes, nil
}

// cutPoint picks the end of the chunk starting at start, scanning
// backward from the hard limit for the most preferred boundary. The
// returned cut always satisfies cut > start+overlap, so the next chunk
// makes progress.
func (c *Chunker) cutPoint(runes []rune, start, limit int) int {
	minCut := start + c.overlap + 1

	if cut := scanBack(runes, minCut, limit, isParagraphBreak); cut > 0 {
		return cut
	}
	if cut := scanBack(runes, minCut, limit, isSentenceBreak); cut > 0 {
		return cut
	}
	if cut := scanBack(runes, minCut, limit, isWordBreak); cut > 0 {
		return cut
	}
	return limit
}

// scanBack returns the largest cut in [minCut, limit] for which the
// predicate holds, or 0 when none does.
func scanBack(runes []rune, minCut, limit int, ok func([]rune, int) bool) int {
	for cut := limit; cut >= minCut; cut-- {
		if ok(runes, cut) {
			return cut
		}
	}
	return 0
}

func isParagraphBreak(runes []rune, cut int) bool {
	return cut >= 2 && runes[cut-1] == '\n' && runes[cut-2] == '\n'
}

func isSentenceBreak(runes []rune, cut int) bool {
	if cut < 1 || cut >= len(runes) {
		return false
	}
	switch runes[cut-1] {
	case '.', '!', '?':
		return unicode.IsSpace(runes[cut])
	}
	return false
}

func isWordBreak(runes []rune, cut int) bool {
	return cut >= 1 && unicode.IsSpace(runes[cut-1])
}

// NodeID derives the deterministic node identifier used across the
// pipeline: document id plus chunk index.
func NodeID(documentID string, index int) string {
	return fmt.Sprintf("%s#%d", documentID, index)
}
