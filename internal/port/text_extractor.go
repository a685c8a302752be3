package port

// TextExtractor turns a document byte stream into plain text, in document
// order, with surrounding whitespace trimmed. The returned text is never
// empty on success.
type TextExtractor interface {
	Extract(documentBytes []byte) (string, error)
}
