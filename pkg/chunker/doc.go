// Package chunker splits documents into overlapping retrieval units.
//
// Splitting is position-based over the source runes: every node is a
// verbatim slice of the original text, chunk boundaries prefer
// paragraph, sentence and word breaks over hard cuts, and consecutive
// nodes share a fixed amount of trailing context so that meaning is not
// lost at cut points during retrieval.
package chunker
