package graph

// NewDocument builds a Document and links each token's Children from the
// Head references, in token order. Tokens that already carry a Children
// list keep it untouched so parsers can expose their own child order.
func NewDocument(text string, tokens []Token, entities []Span) *Document {
	supplied := false
	for _, tok := range tokens {
		if len(tok.Children) > 0 {
			supplied = true
			break
		}
	}

	if !supplied {
		for i := range tokens {
			head := tokens[i].Head
			if head == i || head < 0 || head >= len(tokens) {
				continue
			}
			tokens[head].Children = append(tokens[head].Children, i)
		}
	}

	return &Document{
		Text:     text,
		Tokens:   tokens,
		Entities: entities,
	}
}

// Head returns the syntactic head of token i, or nil when the index or the
// head reference is out of range.
func (d *Document) Head(i int) *Token {
	if i < 0 || i >= len(d.Tokens) {
		return nil
	}
	head := d.Tokens[i].Head
	if head < 0 || head >= len(d.Tokens) {
		return nil
	}
	return &d.Tokens[head]
}

// Children returns the child indices of token i in parser order
func (d *Document) Children(i int) []int {
	if i < 0 || i >= len(d.Tokens) {
		return nil
	}
	return d.Tokens[i].Children
}
