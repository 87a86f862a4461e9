package index

import (
	"context"

	"github.com/fwojciec/docmirror"
)

// Asker answers questions against the active source. It resolves the
// question to the best-matching documents, loads their content and
// hands them to the answerer.
type Asker struct {
	State    docmirror.StateService
	Contents docmirror.ContentStore
	Answerer docmirror.Answerer

	// TopK bounds how many documents are used as context. Zero means 5.
	TopK int
}

// Ask answers a question using the active source's documents. The
// returned matches are the documents the answer was grounded on.
func (a *Asker) Ask(ctx context.Context, question string) (string, []docmirror.Match, error) {
	active, err := a.State.Active()
	if err != nil {
		return "", nil, err
	}

	topK := a.TopK
	if topK <= 0 {
		topK = 5
	}

	matches := docmirror.ResolveQuery(active, question, topK)
	if len(matches) == 0 {
		return "", nil, docmirror.Errorf(docmirror.ENOTFOUND, "no documents in %q match %q", active.Name, question)
	}

	var docs []*docmirror.AnswerDocument
	for _, m := range matches {
		desc := active.Descriptor(m.Reference)
		if desc == nil || desc.ContentHash == "" {
			continue
		}
		content, err := a.Contents.Get(ctx, desc.ContentHash)
		if err != nil {
			if docmirror.ErrorCode(err) == docmirror.ENOTFOUND {
				continue
			}
			return "", nil, err
		}
		docs = append(docs, &docmirror.AnswerDocument{
			Reference: m.Reference,
			Title:     m.Title,
			Content:   content,
		})
	}
	if len(docs) == 0 {
		return "", nil, docmirror.Errorf(docmirror.ENOTFOUND, "no stored content for documents matching %q", question)
	}

	answer, err := a.Answerer.Answer(ctx, question, docs)
	if err != nil {
		return "", nil, err
	}
	return answer, matches, nil
}
