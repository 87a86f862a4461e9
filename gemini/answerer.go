package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/docmirror"
	"google.golang.org/genai"
)

// Ensure Answerer implements docmirror.Answerer at compile time.
var _ docmirror.Answerer = (*Answerer)(nil)

// Answerer implements docmirror.Answerer using Google Gemini.
type Answerer struct {
	client *genai.Client
}

// NewAnswerer creates a new Answerer.
func NewAnswerer(client *genai.Client) *Answerer {
	return &Answerer{client: client}
}

// Answer answers a natural language question using the supplied
// documents as its only source material.
func (a *Answerer) Answer(ctx context.Context, question string, docs []*docmirror.AnswerDocument) (string, error) {
	if question == "" {
		return "", docmirror.Errorf(docmirror.EINVALID, "question required")
	}
	if len(docs) == 0 {
		return "", docmirror.Errorf(docmirror.EINVALID, "at least one document required")
	}

	prompt := BuildUserPrompt(docs, question)
	config := BuildConfig()

	result, err := a.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", docmirror.Errorf(docmirror.EUNAVAILABLE, "gemini request failed: %s", err)
	}
	if result == nil {
		return "", docmirror.Errorf(docmirror.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for answer calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant answering questions about software library documentation. Answer based only on the documentation provided. If the answer is not in the documentation, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing documentation and question.
func BuildUserPrompt(docs []*docmirror.AnswerDocument, question string) string {
	var sb strings.Builder
	sb.WriteString("<documents>\n")
	for i, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.Reference
		}
		sb.WriteString("<document>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<title>%s</title>\n", title)
		fmt.Fprintf(&sb, "<source>%s</source>\n", doc.Reference)
		fmt.Fprintf(&sb, "<content>%s</content>\n", doc.Content)
		sb.WriteString("</document>\n")
	}
	sb.WriteString("</documents>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
