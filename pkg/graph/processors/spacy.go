package processors

import (
	"context"

	"github.com/athapong/kg-extract/pkg/graph"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/gjson"
)

const ParserSpacyJSON = "spacy-json"

// SpacyJSONParser reads documents already parsed by spaCy and serialized
// with Doc.to_json(). The text handed to Parse is that JSON.
type SpacyJSONParser struct{}

func NewSpacyJSONParser() *SpacyJSONParser {
	return &SpacyJSONParser{}
}

func (p *SpacyJSONParser) Name() string {
	return ParserSpacyJSON
}

// Parse implements graph.Parser
func (p *SpacyJSONParser) Parse(ctx context.Context, text string) (*graph.Document, error) {
	timer := prometheus.NewTimer(processingDuration.WithLabelValues(ParserSpacyJSON))
	defer timer.ObserveDuration()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DecodeSpacyJSON([]byte(text))
}

// DecodeSpacyJSON converts spaCy's Doc.to_json() output into a Document.
// Offsets in that format count code points, not bytes. Token and entity
// "text" fields are used when present, otherwise the text is sliced from
// the document "text" by offsets.
func DecodeSpacyJSON(data []byte) (*graph.Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid spaCy document JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("spaCy document JSON must be an object")
	}

	text := root.Get("text").String()
	runes := []rune(text)

	slice := func(start, end int64) (string, error) {
		if start < 0 || end < start || end > int64(len(runes)) {
			return "", errors.Errorf("offsets [%d, %d) outside text of length %d", start, end, len(runes))
		}
		return string(runes[start:end]), nil
	}

	tokenResults := root.Get("tokens").Array()
	tokens := make([]graph.Token, len(tokenResults))
	for i, t := range tokenResults {
		start, end := t.Get("start").Int(), t.Get("end").Int()

		tokText := t.Get("text").String()
		if !t.Get("text").Exists() {
			s, err := slice(start, end)
			if err != nil {
				return nil, errors.Wrapf(err, "token %d", i)
			}
			tokText = s
		}

		head := i
		if h := t.Get("head"); h.Exists() {
			head = int(h.Int())
		}
		if head < 0 || head >= len(tokenResults) {
			return nil, errors.Errorf("token %d: head %d out of range", i, head)
		}

		tokens[i] = graph.Token{
			Text:  tokText,
			Tag:   t.Get("tag").String(),
			POS:   t.Get("pos").String(),
			Dep:   t.Get("dep").String(),
			Head:  head,
			Start: int(start),
			End:   int(end),
		}
	}

	entResults := root.Get("ents").Array()
	spans := make([]graph.Span, 0, len(entResults))
	for i, e := range entResults {
		start, end := e.Get("start").Int(), e.Get("end").Int()
		entText := e.Get("text").String()
		if !e.Get("text").Exists() {
			s, err := slice(start, end)
			if err != nil {
				return nil, errors.Wrapf(err, "entity %d", i)
			}
			entText = s
		}
		spans = append(spans, graph.Span{
			Text:  entText,
			Label: e.Get("label").String(),
			Start: int(start),
			End:   int(end),
		})
	}

	return graph.NewDocument(text, tokens, spans), nil
}
