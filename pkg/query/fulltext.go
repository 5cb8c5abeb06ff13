package query

import "strings"

// luceneReserved are the characters with query-syntax meaning in Lucene.
// They are stripped rather than escaped, so entity names taken from model
// output can never change the shape of the query.
const luceneReserved = `+-!(){}[]^"~*?:\/&|`

// FulltextQuery turns an entity name into a fuzzy Lucene query: reserved
// characters removed, every remaining word given an edit distance of two,
// all words required. "Acme Corp." becomes "Acme~2 AND Corp~2".
func FulltextQuery(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(luceneReserved, r) {
			return ' '
		}
		return r
	}, name)

	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return ""
	}

	terms := make([]string, len(words))
	for i, word := range words {
		terms[i] = word + "~2"
	}
	return strings.Join(terms, " AND ")
}
