package knowledge

import "strings"

// stopPhrases are conversational fillers stripped before embedding so that
// "怎么开户" and "开户" land near each other in vector space. Order matters:
// longer phrases that contain shorter ones come first.
var stopPhrases = []string{
	"您好", "请问", "你好", "请", "怎么", "如何", "在哪", "哪里", "是否", "能否",
}

// SplitPhrasings splits newline-separated question text into individual
// phrasings, trimmed, with empty lines dropped.
func SplitPhrasings(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	phrasings := make([]string, 0, len(lines))
	for _, line := range lines {
		if clean := strings.TrimSpace(line); clean != "" {
			phrasings = append(phrasings, clean)
		}
	}
	return phrasings
}

// NormalizeQuestions prepares question text for embedding: each
// newline-separated phrasing has conversational stop-phrases removed and
// whitespace collapsed; phrasings that end up empty are dropped. A nil
// result means the text carries no embeddable signal.
func NormalizeQuestions(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	questions := strings.Split(text, "\n")
	normalized := make([]string, 0, len(questions))
	for _, question := range questions {
		for _, phrase := range stopPhrases {
			question = strings.ReplaceAll(question, phrase, "")
		}
		question = strings.Join(strings.Fields(question), " ")
		if question != "" {
			normalized = append(normalized, question)
		}
	}
	if len(normalized) == 0 {
		return nil
	}
	return normalized
}

// NormalizeQuery applies the same normalization to a user query and returns
// the first surviving phrasing, or "" when the query is all filler.
func NormalizeQuery(query string) string {
	normalized := NormalizeQuestions(query)
	if len(normalized) == 0 {
		return ""
	}
	return normalized[0]
}

// EmbeddingDocument returns the normalized question text stored alongside the
// vector record: all surviving phrasings joined by newlines, or "" when the
// item produces no record.
func EmbeddingDocument(text string) string {
	return strings.Join(NormalizeQuestions(text), "\n")
}
