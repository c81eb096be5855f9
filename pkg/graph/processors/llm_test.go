package processors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/athapong/kg-extract/pkg/graph"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teslaParseJSON = `{"text": "Tesla produces cars.",
 "tokens": [
  {"start": 0, "end": 5, "tag": "NNP", "pos": "PROPN", "dep": "nsubj", "head": 1},
  {"start": 6, "end": 14, "tag": "VBZ", "pos": "VERB", "dep": "ROOT", "head": 1},
  {"start": 15, "end": 19, "tag": "NNS", "pos": "NOUN", "dep": "dobj", "head": 1},
  {"start": 19, "end": 20, "tag": ".", "pos": "PUNCT", "dep": "punct", "head": 1}],
 "ents": [{"start": 0, "end": 5, "label": "ORG"}]}`

func newChatServer(t *testing.T, replies ...string) (*httptest.Server, *[]openai.ChatCompletionRequest) {
	t.Helper()
	var requests []openai.ChatCompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		resp := openai.ChatCompletionResponse{ID: "chatcmpl-test", Object: "chat.completion", Model: req.Model}
		for i, reply := range replies {
			resp.Choices = append(resp.Choices, openai.ChatCompletionChoice{
				Index:        i,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
				FinishReason: openai.FinishReasonStop,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)

	return srv, &requests
}

func newTestLLMParser(srv *httptest.Server) *LLMParser {
	config := openai.DefaultConfig("test-key")
	config.BaseURL = srv.URL + "/v1"
	logger, _ := test.NewNullLogger()
	return NewLLMParser(openai.NewClientWithConfig(config), "test-model").WithLogger(logger)
}

func TestLLMParserParse(t *testing.T) {
	srv, requests := newChatServer(t, teslaParseJSON)
	p := newTestLLMParser(srv)

	doc, err := p.Parse(context.Background(), "Tesla produces cars.")
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "test-model", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Equal(t, "Tesla produces cars.", req.Messages[1].Content)

	relations, _ := graph.ExtractRelations(doc)
	assert.Equal(t, []graph.Triple{{Subject: "Tesla", Verb: "produces", Object: "cars"}}, relations.Triples())
	assert.Equal(t, []graph.Span{{Text: "Tesla", Label: "ORG", Start: 0, End: 5}}, doc.Entities)
}

func TestLLMParserFencedReply(t *testing.T) {
	srv, _ := newChatServer(t, "```json\n"+teslaParseJSON+"\n```")
	p := newTestLLMParser(srv)

	doc, err := p.Parse(context.Background(), "Tesla produces cars.")
	require.NoError(t, err)
	assert.Len(t, doc.Tokens, 4)
}

func TestLLMParserFillsMissingText(t *testing.T) {
	srv, _ := newChatServer(t, `{"tokens": [{"start": 0, "end": 2, "text": "Hi", "dep": "ROOT"}]}`)
	p := newTestLLMParser(srv)

	doc, err := p.Parse(context.Background(), "Hi")
	require.NoError(t, err)
	assert.Equal(t, "Hi", doc.Text)
}

func TestLLMParserErrors(t *testing.T) {
	t.Run("no choices", func(t *testing.T) {
		srv, _ := newChatServer(t)
		_, err := newTestLLMParser(srv).Parse(context.Background(), "Tesla produces cars.")
		assert.ErrorContains(t, err, "no response")
	})

	t.Run("unusable reply", func(t *testing.T) {
		srv, _ := newChatServer(t, "I cannot parse that.")
		_, err := newTestLLMParser(srv).Parse(context.Background(), "Tesla produces cars.")
		assert.ErrorContains(t, err, "unusable parse")
	})
}

func TestLLMParserBlankInput(t *testing.T) {
	srv, requests := newChatServer(t, teslaParseJSON)
	p := newTestLLMParser(srv)

	doc, err := p.Parse(context.Background(), "  \n")
	require.NoError(t, err)
	assert.Empty(t, doc.Tokens)
	assert.Empty(t, *requests)
	assert.Equal(t, ParserLLM, p.Name())
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `{"a": 1}`, want: `{"a": 1}`},
		{in: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{in: "```\n{\"a\": 1}```", want: `{"a": 1}`},
		{in: "  \n{\"a\": 1}\n  ", want: `{"a": 1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeFence(tt.in), tt.in)
	}
}
