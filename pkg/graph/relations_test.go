package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// "Musk founded SpaceX. Musk runs SpaceX."
func repeatedPairDoc() *Document {
	return NewDocument("Musk founded SpaceX. Musk runs SpaceX.", []Token{
		tok("Musk", "PROPN", "nsubj", 1),
		tok("founded", "VERB", "ROOT", 1),
		tok("SpaceX", "PROPN", "dobj", 1),
		tok(".", "PUNCT", "punct", 1),
		tok("Musk", "PROPN", "nsubj", 5),
		tok("runs", "VERB", "ROOT", 5),
		tok("SpaceX", "PROPN", "dobj", 5),
		tok(".", "PUNCT", "punct", 5),
	}, nil)
}

func TestExtractRelations(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		want    []Triple
		dropped []candidate
	}{
		{
			name: "subject verb object",
			doc:  teslaProducesDoc(),
			want: []Triple{{Subject: "Tesla", Verb: "produces", Object: "cars"}},
		},
		{
			name: "pronoun subject with prepositional modifier",
			doc:  heFoundedDoc(),
			want: []Triple{{Subject: "He", Verb: "founded", Object: "Tesla"}},
		},
		{
			name: "copula has no verb head",
			doc:  skyIsBlueDoc(),
			want: []Triple{},
		},
		{
			name: "verb without direct object is dropped",
			doc: NewDocument("Prices rose quickly.", []Token{
				tok("Prices", "NOUN", "nsubj", 1),
				tok("rose", "VERB", "ROOT", 1),
				tok("quickly", "ADV", "advmod", 1),
				tok(".", "PUNCT", "punct", 1),
			}, nil),
			want:    []Triple{},
			dropped: []candidate{{Subject: "Prices", Verb: "rose"}},
		},
		{
			name: "direct object without text is dropped",
			doc: NewDocument("Musk bought", []Token{
				tok("Musk", "PROPN", "nsubj", 1),
				tok("bought", "VERB", "ROOT", 1),
				tok("", "NOUN", "dobj", 1),
			}, nil),
			want:    []Triple{},
			dropped: []candidate{{Subject: "Musk", Verb: "bought"}},
		},
		{
			name: "auxiliary head with object is ignored",
			doc: NewDocument("He has a car.", []Token{
				tok("He", "PRON", "nsubj", 1),
				tok("has", "AUX", "ROOT", 1),
				tok("a", "DET", "det", 3),
				tok("car", "NOUN", "dobj", 1),
			}, nil),
			want: []Triple{},
		},
		{
			name: "passive subject is not a nominal subject",
			doc: NewDocument("Tesla was founded", []Token{
				tok("Tesla", "PROPN", "nsubjpass", 2),
				tok("was", "AUX", "auxpass", 2),
				tok("founded", "VERB", "ROOT", 2),
			}, nil),
			want: []Triple{},
		},
		{
			name: "first object in parser child order wins",
			doc: NewDocument("Musk bought Twitter X", []Token{
				tok("Musk", "PROPN", "nsubj", 1),
				{Text: "bought", POS: "VERB", Dep: "ROOT", Head: 1, Children: []int{3, 0, 2}},
				tok("Twitter", "PROPN", "dobj", 1),
				tok("X", "PROPN", "dobj", 1),
			}, nil),
			want: []Triple{{Subject: "Musk", Verb: "bought", Object: "X"}},
		},
		{
			name: "repeated pair keeps every triple",
			doc:  repeatedPairDoc(),
			want: []Triple{
				{Subject: "Musk", Verb: "founded", Object: "SpaceX"},
				{Subject: "Musk", Verb: "runs", Object: "SpaceX"},
			},
		},
		{
			name: "nil document",
			doc:  nil,
			want: []Triple{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := extractRelations(tt.doc)
			assert.Equal(t, tt.want, ex.relations.Triples())
			assert.Equal(t, tt.dropped, ex.dropped)
		})
	}
}

func TestExtractRelationsMultimap(t *testing.T) {
	relations, _ := ExtractRelations(repeatedPairDoc())

	assert.Equal(t, []string{"Musk"}, relations.Subjects())
	assert.Equal(t, 1, relations.Len())
	assert.Equal(t, []Relation{
		{Verb: "founded", Object: "SpaceX"},
		{Verb: "runs", Object: "SpaceX"},
	}, relations.Get("Musk"))
	assert.Nil(t, relations.Get("SpaceX"))
}

func TestExtractRelationsGraph(t *testing.T) {
	_, g := ExtractRelations(teslaProducesDoc())

	assert.Equal(t, []string{"Tesla", "cars"}, g.Nodes())
	label, ok := g.EdgeLabel("Tesla", "cars")
	require.True(t, ok)
	assert.Equal(t, "produces", label)

	_, g = ExtractRelations(skyIsBlueDoc())
	assert.Zero(t, g.NodeCount())
	assert.Zero(t, g.EdgeCount())
}

func TestExtractRelationsLastVerbWins(t *testing.T) {
	ex := extractRelations(repeatedPairDoc())

	assert.Equal(t, 1, ex.graph.EdgeCount())
	assert.Equal(t, 1, ex.overwrites)
	label, ok := ex.graph.EdgeLabel("Musk", "SpaceX")
	require.True(t, ok)
	assert.Equal(t, "runs", label)
}

func TestBuildGraphMatchesInlineGraph(t *testing.T) {
	for _, doc := range []*Document{teslaProducesDoc(), heFoundedDoc(), skyIsBlueDoc(), repeatedPairDoc()} {
		relations, inline := ExtractRelations(doc)
		built := BuildGraph(relations)

		assert.Equal(t, inline.Nodes(), built.Nodes(), doc.Text)
		assert.Equal(t, inline.Edges(), built.Edges(), doc.Text)
	}

	assert.Zero(t, BuildGraph(nil).NodeCount())
}
