package processors

import (
	"context"
	"strings"

	"github.com/athapong/kg-extract/pkg/graph"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const ParserLLM = "llm"

const llmSystemPrompt = `You are a dependency parser. Parse the user's text and answer with one JSON object in the format of spaCy's Doc.to_json():

{"text": "<the input text>",
 "tokens": [{"id": 0, "start": 0, "end": 5, "text": "Tesla", "tag": "NNP", "pos": "PROPN", "dep": "nsubj", "head": 1}, ...],
 "ents": [{"start": 0, "end": 5, "text": "Tesla", "label": "ORG"}, ...]}

Rules:
- "start"/"end" are character offsets into "text"; "head" is the index of the head token; the sentence root is its own head with dep "ROOT".
- Use universal POS tags (VERB, AUX, NOUN, PROPN, PRON, ...) and ClearNLP dependency labels (nsubj, nsubjpass, dobj, attr, prep, pobj, ...).
- Entity labels follow OntoNotes (PERSON, ORG, GPE, DATE, ...).
- Answer with the JSON object only.`

// LLMParser asks an OpenAI-compatible chat model for a dependency parse in
// spaCy's JSON format and decodes it with DecodeSpacyJSON.
type LLMParser struct {
	client *openai.Client
	model  string
	logger *logrus.Logger
}

// NewLLMParser creates a parser that calls model through client
func NewLLMParser(client *openai.Client, model string) *LLMParser {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	return &LLMParser{
		client: client,
		model:  model,
		logger: logger,
	}
}

// WithLogger replaces the parser's logger
func (p *LLMParser) WithLogger(logger *logrus.Logger) *LLMParser {
	p.logger = logger
	return p
}

func (p *LLMParser) Name() string {
	return ParserLLM
}

// Parse implements graph.Parser
func (p *LLMParser) Parse(ctx context.Context, text string) (*graph.Document, error) {
	timer := prometheus.NewTimer(processingDuration.WithLabelValues(ParserLLM))
	defer timer.ObserveDuration()

	if strings.TrimSpace(text) == "" {
		return graph.NewDocument(text, nil, nil), nil
	}

	p.logger.WithFields(logrus.Fields{
		"model":          p.model,
		"content_length": len(text),
	}).Debug("Requesting dependency parse")

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: llmSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "chat completion failed")
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from model")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)
	doc, err := DecodeSpacyJSON([]byte(content))
	if err != nil {
		return nil, errors.Wrap(err, "model returned an unusable parse")
	}
	if doc.Text == "" {
		doc.Text = text
	}
	return doc, nil
}

// stripCodeFence removes a surrounding ```json fence some models add
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
