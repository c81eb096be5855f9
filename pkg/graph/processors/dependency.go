package processors

import (
	"strings"

	"github.com/athapong/kg-extract/pkg/graph"
	mapset "github.com/deckarep/golang-set/v2"
)

// Coarse universal part-of-speech tags
const (
	POSAdj   = "ADJ"
	POSAdp   = "ADP"
	POSAdv   = "ADV"
	POSAux   = "AUX"
	POSCConj = "CCONJ"
	POSDet   = "DET"
	POSIntj  = "INTJ"
	POSNoun  = "NOUN"
	POSNum   = "NUM"
	POSPart  = "PART"
	POSPron  = "PRON"
	POSPropn = "PROPN"
	POSPunct = "PUNCT"
	POSSym   = "SYM"
	POSVerb  = graph.POSVerb
	POSOther = "X"
)

// Dependency labels assigned by the shallow parser
const (
	DepAcomp     = "acomp"
	DepAmod      = "amod"
	DepAttr      = "attr"
	DepAux       = "aux"
	DepAuxPass   = "auxpass"
	DepAdvmod    = "advmod"
	DepCase      = "case"
	DepCC        = "cc"
	DepCcomp     = "ccomp"
	DepCompound  = "compound"
	DepConj      = "conj"
	DepDet       = "det"
	DepDobj      = graph.DepDirectObject
	DepGeneric   = "dep"
	DepNeg       = "neg"
	DepNsubj     = graph.DepNominalSubject
	DepNsubjPass = "nsubjpass"
	DepNummod    = "nummod"
	DepPobj      = "pobj"
	DepPoss      = "poss"
	DepPrep      = "prep"
	DepPunct     = "punct"
	DepRoot      = graph.DepRoot
	DepXcomp     = "xcomp"
)

var (
	beForms   = mapset.NewSet[string]("be", "am", "is", "are", "was", "were", "been", "being", "'s", "'re", "'m")
	haveForms = mapset.NewSet[string]("have", "has", "had", "having", "'ve", "'d")
	doForms   = mapset.NewSet[string]("do", "does", "did")
	negations = mapset.NewSet[string]("not", "n't", "never")

	punctTags = mapset.NewSet[string](".", ",", ":", "(", ")", "``", "''", "-LRB-", "-RRB-", "\"", "#", "$")
	pronTags  = mapset.NewSet[string]("PRP", "PRP$", "WP", "WP$", "EX")

	nominalPOS = mapset.NewSet[string](POSNoun, POSPropn, POSPron, POSNum)
	npPOS      = mapset.NewSet[string](POSDet, POSAdj, POSNum, POSNoun, POSPropn, POSPron)
)

// universalPOS maps the Penn tag of tokens[i] to a coarse universal tag.
// Forms of "be", modals, and "have"/"do" followed by another verb become AUX.
func universalPOS(tokens []graph.Token, i int) string {
	tag := tokens[i].Tag
	word := strings.ToLower(tokens[i].Text)

	switch {
	case tag == "MD":
		return POSAux
	case strings.HasPrefix(tag, "VB"):
		if beForms.Contains(word) {
			return POSAux
		}
		if (haveForms.Contains(word) || doForms.Contains(word)) && followedByVerb(tokens, i) {
			return POSAux
		}
		return POSVerb
	case tag == "NN" || tag == "NNS":
		return POSNoun
	case tag == "NNP" || tag == "NNPS":
		return POSPropn
	case pronTags.Contains(tag):
		return POSPron
	case strings.HasPrefix(tag, "JJ"):
		return POSAdj
	case strings.HasPrefix(tag, "RB") || tag == "WRB":
		if negations.Contains(word) {
			return POSPart
		}
		return POSAdv
	case tag == "DT" || tag == "PDT" || tag == "WDT":
		return POSDet
	case tag == "IN" || tag == "RP":
		return POSAdp
	case tag == "TO" || tag == "POS":
		return POSPart
	case tag == "CC":
		return POSCConj
	case tag == "CD":
		return POSNum
	case tag == "UH":
		return POSIntj
	case tag == "SYM":
		return POSSym
	case punctTags.Contains(tag):
		return POSPunct
	}
	return POSOther
}

func followedByVerb(tokens []graph.Token, i int) bool {
	for j := i + 1; j < len(tokens); j++ {
		tag := tokens[j].Tag
		if strings.HasPrefix(tag, "RB") {
			continue
		}
		return strings.HasPrefix(tag, "VB")
	}
	return false
}

// sentenceBounds splits tokens into [start, end) ranges ending after each
// sentence-final punctuation token.
func sentenceBounds(tokens []graph.Token) [][2]int {
	var bounds [][2]int
	start := 0
	for i, tok := range tokens {
		if tok.Tag == "." {
			bounds = append(bounds, [2]int{start, i + 1})
			start = i + 1
		}
	}
	if start < len(tokens) {
		bounds = append(bounds, [2]int{start, len(tokens)})
	}
	return bounds
}

// Annotate fills POS, Dep and Head for tokens that carry Text and a Penn Tag.
// Each sentence gets one ROOT; heads are absolute indices into tokens.
func Annotate(tokens []graph.Token) {
	for i := range tokens {
		tokens[i].POS = universalPOS(tokens, i)
		tokens[i].Dep = ""
		tokens[i].Head = -1
		tokens[i].Children = nil
	}
	for _, b := range sentenceBounds(tokens) {
		attachSentence(tokens, b[0], b[1])
	}
}

type phraseKind int

const (
	kindNominal phraseKind = iota
	kindAdjectival
	kindVerbal
	kindAdposition
	kindCoordinator
	kindPunct
	kindOther
)

type phrase struct {
	kind    phraseKind
	start   int
	end     int
	head    int
	passive bool
}

func setDep(tokens []graph.Token, i int, dep string, head int) {
	tokens[i].Dep = dep
	tokens[i].Head = head
}

// chunk groups tokens[start:end] into phrases and attaches the tokens
// inside each phrase to the phrase head.
func chunk(tokens []graph.Token, start, end int) []phrase {
	var phrases []phrase

	for i := start; i < end; {
		tok := tokens[i]
		switch {
		case tok.POS == POSVerb || tok.POS == POSAux || isInfinitiveTo(tokens, i, end):
			ph := verbGroup(tokens, i, end)
			phrases = append(phrases, ph)
			i = ph.end
		case npPOS.Contains(tok.POS) || tok.Tag == "POS":
			ph := nounPhrase(tokens, i, end)
			phrases = append(phrases, ph)
			i = ph.end
		default:
			kind := kindOther
			switch tok.POS {
			case POSAdp:
				kind = kindAdposition
			case POSCConj:
				kind = kindCoordinator
			case POSPunct:
				kind = kindPunct
			}
			phrases = append(phrases, phrase{kind: kind, start: i, end: i + 1, head: i})
			i++
		}
	}

	return phrases
}

func isInfinitiveTo(tokens []graph.Token, i, end int) bool {
	if tokens[i].Tag != "TO" || i+1 >= end {
		return false
	}
	next := tokens[i+1].POS
	return next == POSVerb || next == POSAux
}

func verbGroup(tokens []graph.Token, start, end int) phrase {
	last := start
	for k := start + 1; k < end; k++ {
		pos := tokens[k].POS
		if pos == POSVerb || pos == POSAux {
			last = k
			continue
		}
		if pos == POSAdv || (pos == POSPart && negations.Contains(strings.ToLower(tokens[k].Text))) {
			continue
		}
		break
	}

	head := -1
	for k := last; k >= start; k-- {
		if tokens[k].POS == POSVerb {
			head = k
			break
		}
	}
	if head < 0 {
		head = last
	}

	ph := phrase{kind: kindVerbal, start: start, end: last + 1, head: head}
	for k := start; k <= last; k++ {
		if k == head {
			continue
		}
		word := strings.ToLower(tokens[k].Text)
		switch {
		case tokens[k].POS == POSAux && beForms.Contains(word) && tokens[head].POS == POSVerb && tokens[head].Tag == "VBN":
			setDep(tokens, k, DepAuxPass, head)
			ph.passive = true
		case tokens[k].POS == POSAux || tokens[k].Tag == "TO":
			setDep(tokens, k, DepAux, head)
		case tokens[k].POS == POSPart:
			setDep(tokens, k, DepNeg, head)
		case tokens[k].POS == POSAdv:
			setDep(tokens, k, DepAdvmod, head)
		default:
			setDep(tokens, k, DepGeneric, head)
		}
	}
	return ph
}

func nounPhrase(tokens []graph.Token, start, end int) phrase {
	j := start
	for j < end {
		tok := tokens[j]
		if !npPOS.Contains(tok.POS) && tok.Tag != "POS" {
			break
		}
		// A personal pronoun stands alone.
		if tok.Tag == "PRP" || tok.Tag == "WP" || tok.Tag == "EX" {
			if j == start {
				j++
			}
			break
		}
		j++
	}

	head := -1
	for k := j - 1; k >= start; k-- {
		if nominalPOS.Contains(tokens[k].POS) && tokens[k].Tag != "PRP$" && tokens[k].Tag != "WP$" {
			head = k
			break
		}
	}

	kind := kindNominal
	if head < 0 {
		head = j - 1
		for k := j - 1; k >= start; k-- {
			if tokens[k].POS == POSAdj {
				head = k
				kind = kindAdjectival
				break
			}
		}
	}
	// Modifiers trailing the head start a new phrase.
	if kind == kindNominal {
		j = head + 1
	}

	for k := start; k < j; k++ {
		if k == head {
			continue
		}
		tok := tokens[k]
		switch {
		case tok.Tag == "POS" && k == start:
			setDep(tokens, k, DepCase, head)
		case tok.Tag == "POS":
			setDep(tokens, k, DepCase, k-1)
		case k+1 < j && tokens[k+1].Tag == "POS":
			setDep(tokens, k, DepPoss, head)
		case tok.Tag == "PRP$" || tok.Tag == "WP$":
			setDep(tokens, k, DepPoss, head)
		case tok.POS == POSDet:
			setDep(tokens, k, DepDet, head)
		case tok.POS == POSAdj:
			setDep(tokens, k, DepAmod, head)
		case tok.POS == POSNum:
			setDep(tokens, k, DepNummod, head)
		case tok.POS == POSNoun || tok.POS == POSPropn:
			setDep(tokens, k, DepCompound, head)
		default:
			setDep(tokens, k, DepGeneric, head)
		}
	}

	return phrase{kind: kind, start: start, end: j, head: head}
}

// attachSentence assigns clause-level roles to the phrase heads of
// tokens[start:end]. Tokens left without a head hang off the sentence root.
func attachSentence(tokens []graph.Token, start, end int) {
	if start >= end {
		return
	}
	phrases := chunk(tokens, start, end)

	root := -1
	lastVerb := -1
	objectOpen := false
	var pendingSubjects []int

	for idx, ph := range phrases {
		var prev *phrase
		if idx > 0 {
			prev = &phrases[idx-1]
		}

		switch ph.kind {
		case kindNominal:
			switch {
			case prev != nil && prev.kind == kindAdposition:
				setDep(tokens, ph.head, DepPobj, prev.head)
			case prev != nil && prev.kind == kindCoordinator && idx > 1 && phrases[idx-2].kind == kindNominal:
				first := phrases[idx-2].head
				setDep(tokens, ph.head, DepConj, first)
				setDep(tokens, prev.head, DepCC, first)
			case lastVerb >= 0 && objectOpen:
				if tokens[lastVerb].POS == POSVerb {
					setDep(tokens, ph.head, DepDobj, lastVerb)
				} else {
					setDep(tokens, ph.head, DepAttr, lastVerb)
				}
				objectOpen = false
			default:
				pendingSubjects = append(pendingSubjects, ph.head)
			}

		case kindAdjectival:
			if lastVerb >= 0 && objectOpen {
				setDep(tokens, ph.head, DepAcomp, lastVerb)
				objectOpen = false
			} else {
				setDep(tokens, ph.head, DepGeneric, -1)
			}

		case kindVerbal:
			v := ph.head
			if n := len(pendingSubjects); n > 0 {
				dep := DepNsubj
				if ph.passive {
					dep = DepNsubjPass
				}
				setDep(tokens, pendingSubjects[n-1], dep, v)
				for _, s := range pendingSubjects[:n-1] {
					setDep(tokens, s, DepGeneric, -1)
				}
				pendingSubjects = nil
			}

			switch {
			case root < 0:
				root = v
				setDep(tokens, v, DepRoot, v)
			case prev != nil && prev.kind == kindCoordinator:
				setDep(tokens, v, DepConj, lastVerb)
				setDep(tokens, prev.head, DepCC, lastVerb)
			case tokens[ph.start].Tag == "TO":
				setDep(tokens, v, DepXcomp, lastVerb)
			default:
				setDep(tokens, v, DepCcomp, root)
			}
			lastVerb = v
			objectOpen = true

		case kindAdposition:
			a := ph.head
			switch {
			case strings.ToLower(tokens[a].Text) == "of" && prev != nil && prev.kind == kindNominal:
				setDep(tokens, a, DepPrep, prev.head)
			case lastVerb >= 0:
				setDep(tokens, a, DepPrep, lastVerb)
			case prev != nil && prev.kind == kindNominal:
				setDep(tokens, a, DepPrep, prev.head)
			default:
				setDep(tokens, a, DepPrep, -1)
			}
			objectOpen = false

		case kindCoordinator:
			if prev != nil {
				setDep(tokens, ph.head, DepCC, prev.head)
			} else {
				setDep(tokens, ph.head, DepCC, -1)
			}
			objectOpen = false

		case kindPunct:
			setDep(tokens, ph.head, DepPunct, -1)
			objectOpen = false

		default:
			if tokens[ph.head].POS == POSAdv && lastVerb >= 0 {
				setDep(tokens, ph.head, DepAdvmod, lastVerb)
			} else {
				setDep(tokens, ph.head, DepGeneric, -1)
			}
		}
	}

	if root < 0 {
		if len(pendingSubjects) > 0 {
			root = pendingSubjects[0]
			pendingSubjects = pendingSubjects[1:]
		} else {
			root = start
		}
		setDep(tokens, root, DepRoot, root)
	}
	for _, s := range pendingSubjects {
		setDep(tokens, s, DepGeneric, root)
	}

	for i := start; i < end; i++ {
		if i == root {
			continue
		}
		if tokens[i].Head < 0 {
			tokens[i].Head = root
		}
		if tokens[i].Dep == "" {
			tokens[i].Dep = DepGeneric
		}
	}
}
