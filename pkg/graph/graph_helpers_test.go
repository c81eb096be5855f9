package graph

func tok(text, pos, dep string, head int) Token {
	return Token{Text: text, POS: pos, Dep: dep, Head: head}
}

// "Tesla produces electric cars."
func teslaProducesDoc() *Document {
	return NewDocument("Tesla produces electric cars.", []Token{
		tok("Tesla", "PROPN", "nsubj", 1),
		tok("produces", "VERB", "ROOT", 1),
		tok("electric", "ADJ", "amod", 3),
		tok("cars", "NOUN", "dobj", 1),
		tok(".", "PUNCT", "punct", 1),
	}, []Span{{Text: "Tesla", Label: "ORG", Start: 0, End: 5}})
}

// "He founded Tesla in 2003."
func heFoundedDoc() *Document {
	return NewDocument("He founded Tesla in 2003.", []Token{
		tok("He", "PRON", "nsubj", 1),
		tok("founded", "VERB", "ROOT", 1),
		tok("Tesla", "PROPN", "dobj", 1),
		tok("in", "ADP", "prep", 1),
		tok("2003", "NUM", "pobj", 3),
		tok(".", "PUNCT", "punct", 1),
	}, []Span{
		{Text: "Tesla", Label: "ORG", Start: 11, End: 16},
		{Text: "2003", Label: "DATE", Start: 20, End: 24},
	})
}

// "The sky is blue."
func skyIsBlueDoc() *Document {
	return NewDocument("The sky is blue.", []Token{
		tok("The", "DET", "det", 1),
		tok("sky", "NOUN", "nsubj", 2),
		tok("is", "AUX", "ROOT", 2),
		tok("blue", "ADJ", "acomp", 2),
		tok(".", "PUNCT", "punct", 2),
	}, nil)
}
