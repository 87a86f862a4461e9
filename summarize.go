package docmirror

import "context"

// Summary is the model-produced description of one document.
type Summary struct {
	// Text is a short prose summary, typically two to three sentences.
	Text string `json:"text"`

	// Topics are the key subjects covered by the document.
	Topics []string `json:"topics"`
}

// Summarizer produces a Summary for document content.
type Summarizer interface {
	Summarize(ctx context.Context, content []byte) (*Summary, error)
}

// AnswerDocument is one document handed to an Answerer as context.
type AnswerDocument struct {
	Reference string
	Title     string
	Content   []byte
}

// Answerer answers a question using the supplied documents as its only
// source material.
type Answerer interface {
	Answer(ctx context.Context, question string, docs []*AnswerDocument) (string, error)
}
