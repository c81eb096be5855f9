package graph

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Entities maps entity surface text to its category label, in the order
// the texts were first seen. Setting an existing text overwrites its label.
type Entities struct {
	labels *orderedmap.OrderedMap[string, string]
}

// NewEntities creates an empty entity mapping
func NewEntities() *Entities {
	return &Entities{labels: orderedmap.New[string, string]()}
}

// Set records text with label; the last label for a text wins.
func (e *Entities) Set(text, label string) {
	e.labels.Set(text, label)
}

// Get returns the label recorded for text
func (e *Entities) Get(text string) (string, bool) {
	return e.labels.Get(text)
}

func (e *Entities) Len() int {
	return e.labels.Len()
}

// Records returns the mapping as a slice in insertion order
func (e *Entities) Records() []EntityRecord {
	records := make([]EntityRecord, 0, e.labels.Len())
	for pair := e.labels.Oldest(); pair != nil; pair = pair.Next() {
		records = append(records, EntityRecord{Text: pair.Key, Label: pair.Value})
	}
	return records
}

// CollectEntities visits each entity span of doc once and maps its text to
// its label. A document without spans yields an empty mapping.
func CollectEntities(doc *Document) *Entities {
	entities := NewEntities()
	if doc == nil {
		return entities
	}
	for _, span := range doc.Entities {
		entities.Set(span.Text, span.Label)
	}
	return entities
}
