// Package gemini provides Google Gemini backed implementations of
// docmirror.Summarizer and docmirror.Answerer.
package gemini

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fwojciec/docmirror"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// maxSummarizeBytes caps how much document content is sent to the
// model per summary request.
const maxSummarizeBytes = 15000

// Ensure Summarizer implements docmirror.Summarizer at compile time.
var _ docmirror.Summarizer = (*Summarizer)(nil)

// Summarizer implements docmirror.Summarizer using Google Gemini.
type Summarizer struct {
	client *genai.Client
}

// NewSummarizer creates a new Summarizer.
func NewSummarizer(client *genai.Client) *Summarizer {
	return &Summarizer{client: client}
}

// summaryResponse is the JSON shape the model is asked to produce.
type summaryResponse struct {
	Summary string   `json:"summary"`
	Topics  []string `json:"topics"`
}

// Summarize produces a short summary and topic list for document
// content. Content beyond maxSummarizeBytes is truncated before it is
// sent to the model.
func (s *Summarizer) Summarize(ctx context.Context, content []byte) (*docmirror.Summary, error) {
	if len(content) == 0 {
		return nil, docmirror.Errorf(docmirror.EINVALID, "content required")
	}

	prompt := BuildSummarizePrompt(content)
	config := BuildSummarizeConfig()

	result, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EUNAVAILABLE, "gemini request failed: %s", err)
	}
	if result == nil {
		return nil, docmirror.Errorf(docmirror.EINTERNAL, "gemini returned nil result")
	}

	return ParseSummaryResponse(result.Text())
}

// BuildSummarizeConfig returns the GenerateContentConfig for summary calls.
func BuildSummarizeConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You summarize software documentation pages. Respond with JSON containing a 2-3 sentence summary of the page and a list of the key topics it covers.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"summary": {Type: genai.TypeString},
				"topics": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"summary", "topics"},
		},
	}
}

// BuildSummarizePrompt builds the user prompt for a summary request.
func BuildSummarizePrompt(content []byte) string {
	if len(content) > maxSummarizeBytes {
		content = content[:maxSummarizeBytes]
	}
	var sb strings.Builder
	sb.WriteString("<document>\n")
	sb.Write(content)
	sb.WriteString("\n</document>\n\nSummarize this documentation page.")
	return sb.String()
}

// ParseSummaryResponse decodes the model's JSON response.
func ParseSummaryResponse(text string) (*docmirror.Summary, error) {
	var resp summaryResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, docmirror.Errorf(docmirror.EINTERNAL, "unexpected summary response: %s", err)
	}
	if resp.Summary == "" {
		return nil, docmirror.Errorf(docmirror.EINTERNAL, "summary response missing summary text")
	}
	return &docmirror.Summary{Text: resp.Summary, Topics: resp.Topics}, nil
}
