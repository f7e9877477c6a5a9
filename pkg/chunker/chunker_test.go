package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuvec/docuvec/pkg/document"
)

func testDoc(text string) document.Document {
	return document.Document{
		ID:   "doc-1",
		Text: text,
		Metadata: map[string]string{
			document.MetaFilePath: "documents/doc-1.txt",
			document.MetaFileName: "doc-1.txt",
		},
	}
}

func TestNew_RejectsInvalidParameters(t *testing.T) {
	cases := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -10, 0},
		{"negative overlap", 100, -1},
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.size, tc.overlap)
			require.Error(t, err)
		})
	}
}

func TestChunk_ShortDocumentYieldsSingleNode(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	nodes, err := c.Chunk(testDoc("short text"))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "short text", nodes[0].Text)
	assert.Equal(t, "doc-1#0", nodes[0].ID)
	assert.Equal(t, "doc-1", nodes[0].DocumentID)
	assert.Equal(t, "doc-1.txt", nodes[0].Metadata[document.MetaFileName])
}

func TestChunk_EmptyDocumentFails(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\t\n"} {
		nodes, err := c.Chunk(testDoc(text))
		require.ErrorIs(t, err, ErrEmptyDocument)
		assert.Empty(t, nodes)
	}
}

func TestChunk_SkyIsBlue(t *testing.T) {
	// chunk_size=15, overlap=5 over two sentences must give at least
	// two nodes, each within the size limit, overlapping at the seam.
	c, err := New(15, 5)
	require.NoError(t, err)

	nodes, err := c.Chunk(testDoc("The sky is blue. Water is wet."))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(nodes), 2)

	for _, n := range nodes {
		assert.LessOrEqual(t, len([]rune(n.Text)), 15)
	}
	for i := 1; i < len(nodes); i++ {
		prev := []rune(nodes[i-1].Text)
		curr := []rune(nodes[i].Text)
		shared := string(prev[len(prev)-5:])
		assert.Equal(t, shared, string(curr[:5]),
			"node %d must start with the last 5 runes of node %d", i, i-1)
	}
}

func TestChunk_ReconstructsOriginalText(t *testing.T) {
	texts := []string{
		"The sky is blue. Water is wet.",
		strings.Repeat("All work and no play makes Jack a dull boy. ", 40),
		"First paragraph with several sentences. Another one here.\n\nSecond paragraph follows after a break.\n\nThird paragraph closes the document with a few final words.",
		"nowhitespaceatall" + strings.Repeat("x", 200),
	}

	for _, overlap := range []int{0, 5, 13} {
		c, err := New(40, overlap)
		require.NoError(t, err)

		for _, text := range texts {
			nodes, err := c.Chunk(testDoc(text))
			require.NoError(t, err)

			var rebuilt strings.Builder
			for i, n := range nodes {
				runes := []rune(n.Text)
				if i == 0 {
					rebuilt.WriteString(n.Text)
				} else {
					rebuilt.WriteString(string(runes[overlap:]))
				}
			}
			assert.Equal(t, text, rebuilt.String())
		}
	}
}

func TestChunk_RespectsSizeBound(t *testing.T) {
	c, err := New(64, 16)
	require.NoError(t, err)

	text := strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 30)
	nodes, err := c.Chunk(testDoc(text))
	require.NoError(t, err)
	require.Greater(t, len(nodes), 1)

	for _, n := range nodes {
		assert.LessOrEqual(t, len([]rune(n.Text)), 64)
	}
}

func TestChunk_PrefersParagraphBreaks(t *testing.T) {
	c, err := New(60, 10)
	require.NoError(t, err)

	text := "A short opening paragraph sits here.\n\nThe second paragraph is long enough to force another chunk boundary somewhere later in the text."
	nodes, err := c.Chunk(testDoc(text))
	require.NoError(t, err)
	require.Greater(t, len(nodes), 1)

	// The first cut should land on the paragraph break, not mid-sentence.
	assert.True(t, strings.HasSuffix(nodes[0].Text, "\n\n"),
		"first node %q should end at the paragraph break", nodes[0].Text)
}

func TestChunk_NodeIndexesAreSequential(t *testing.T) {
	c, err := New(30, 5)
	require.NoError(t, err)

	nodes, err := c.Chunk(testDoc(strings.Repeat("Sentences go here. ", 20)))
	require.NoError(t, err)

	for i, n := range nodes {
		assert.Equal(t, i, n.Index)
		assert.Equal(t, NodeID("doc-1", i), n.ID)
	}
}
