package graph

import (
	"context"
)

// Dependency roles and part-of-speech tags the extractor keys on.
const (
	DepNominalSubject = "nsubj"
	DepDirectObject   = "dobj"
	DepRoot           = "ROOT"

	POSVerb = "VERB"
)

// Token represents a parsed token with its dependency annotation
type Token struct {
	Text string `json:"text"`
	// Tag is the fine-grained (Penn Treebank) tag, POS the coarse universal one.
	Tag string `json:"tag"`
	POS string `json:"pos"`
	Dep string `json:"dep"`
	// Head is the index of the syntactic head; the root is its own head.
	Head int `json:"head"`
	// Children holds child indices in the order the parser exposes them.
	Children []int `json:"children,omitempty"`
	Start    int   `json:"start"`
	End      int   `json:"end"`
}

// Span represents a recognized named entity
type Span struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Document is the output of a Parser: tokens with dependency annotations
// and the entity spans recognized in the text.
type Document struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Tokens   []Token
	Entities []Span
}

// Parser turns raw text into a dependency-annotated Document.
//
// Implementations may carry an expensive one-time initialization (model
// loading); construct them once and reuse them across calls.
type Parser interface {
	Parse(ctx context.Context, text string) (*Document, error)
	Name() string
}

// Relation is one (verb, object) pair recorded under a subject
type Relation struct {
	Verb   string `json:"verb" yaml:"verb"`
	Object string `json:"object" yaml:"object"`
}

// Triple is a (subject, verb, object) relation extracted from one clause
type Triple struct {
	Subject string `json:"subject" yaml:"subject"`
	Verb    string `json:"verb" yaml:"verb"`
	Object  string `json:"object" yaml:"object"`
}

// EntityRecord is one entity text with its category label
type EntityRecord struct {
	Text  string `json:"text" yaml:"text"`
	Label string `json:"label" yaml:"label"`
}
