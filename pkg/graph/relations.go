package graph

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Relations maps a subject text to the (verb, object) pairs it triggered,
// keeping subjects in first-seen order and pairs in append order.
type Relations struct {
	bySubject *orderedmap.OrderedMap[string, []Relation]
}

// NewRelations creates an empty relationship mapping
func NewRelations() *Relations {
	return &Relations{bySubject: orderedmap.New[string, []Relation]()}
}

// Add appends (verb, object) to the relations of subject
func (r *Relations) Add(subject, verb, object string) {
	rels, _ := r.bySubject.Get(subject)
	r.bySubject.Set(subject, append(rels, Relation{Verb: verb, Object: object}))
}

// Get returns the relations recorded for subject
func (r *Relations) Get(subject string) []Relation {
	rels, _ := r.bySubject.Get(subject)
	return rels
}

// Subjects returns the subject texts in first-seen order
func (r *Relations) Subjects() []string {
	subjects := make([]string, 0, r.bySubject.Len())
	for pair := r.bySubject.Oldest(); pair != nil; pair = pair.Next() {
		subjects = append(subjects, pair.Key)
	}
	return subjects
}

// Len returns the number of distinct subjects
func (r *Relations) Len() int {
	return r.bySubject.Len()
}

// Triples flattens the mapping into (subject, verb, object) triples
func (r *Relations) Triples() []Triple {
	triples := make([]Triple, 0)
	for pair := r.bySubject.Oldest(); pair != nil; pair = pair.Next() {
		for _, rel := range pair.Value {
			triples = append(triples, Triple{Subject: pair.Key, Verb: rel.Verb, Object: rel.Object})
		}
	}
	return triples
}

// candidate is a subject/verb pair whose verb had no direct object
type candidate struct {
	Subject string
	Verb    string
}

// ExtractRelations walks the tokens of doc and records a triple for every
// nominal subject whose head is a verb with a direct object child. The
// graph is built inline, one labelled edge per triple.
func ExtractRelations(doc *Document) (*Relations, *Graph) {
	ex := extractRelations(doc)
	return ex.relations, ex.graph
}

type extraction struct {
	relations  *Relations
	graph      *Graph
	dropped    []candidate
	overwrites int
}

func extractRelations(doc *Document) extraction {
	ex := extraction{
		relations: NewRelations(),
		graph:     NewGraph(),
	}

	if doc == nil {
		return ex
	}

	for i, tok := range doc.Tokens {
		if tok.Dep != DepNominalSubject {
			continue
		}
		head := doc.Head(i)
		if head == nil || head.POS != POSVerb {
			continue
		}

		// First direct object in the parser's child order wins; an empty
		// object text counts as no object.
		object := ""
		found := false
		for _, child := range doc.Children(tok.Head) {
			if child < 0 || child >= len(doc.Tokens) {
				continue
			}
			if doc.Tokens[child].Dep == DepDirectObject {
				object = doc.Tokens[child].Text
				found = true
				break
			}
		}

		if !found || object == "" {
			ex.dropped = append(ex.dropped, candidate{Subject: tok.Text, Verb: head.Text})
			continue
		}

		if ex.graph.AddEdge(tok.Text, object, head.Text) {
			ex.overwrites++
		}
		ex.relations.Add(tok.Text, head.Text, object)
	}

	return ex
}

// BuildGraph inserts one directed edge per triple of relations, labelled
// with the verb. A repeated (subject, object) pair keeps the last verb.
func BuildGraph(relations *Relations) *Graph {
	g := NewGraph()
	if relations == nil {
		return g
	}
	for _, t := range relations.Triples() {
		g.AddEdge(t.Subject, t.Object, t.Verb)
	}
	return g
}
