package summarize

import (
	"strings"

	"github.com/pdiddy/summary-engine/internal/nlp"
	"github.com/pdiddy/summary-engine/pkg/types"
)

// testTokenize splits on whitespace and peels trailing punctuation into
// separate tokens: "mat." -> "mat", ".".
func testTokenize(text string) []string {
	var out []string
	for _, f := range strings.Fields(text) {
		var trail []string
		for len(f) > 1 && strings.ContainsRune(".,!?;:", rune(f[len(f)-1])) {
			trail = append([]string{f[len(f)-1:]}, trail...)
			f = f[:len(f)-1]
		}
		out = append(out, f)
		out = append(out, trail...)
	}
	return out
}

// testSplit ends a sentence at '.', '!' or '?' followed by a space or the
// end of the text.
func testSplit(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if !strings.ContainsRune(".!?", rune(text[i])) {
			continue
		}
		if i+1 == len(text) || text[i+1] == ' ' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func testPreprocessor() *Preprocessor {
	return NewPreprocessor(nlp.SplitterFunc(testSplit), nlp.TokenizerFunc(testTokenize))
}

func mk(text string) Sentence {
	return NewSentence(text, testTokenize(text), 0)
}

func strp(s string) *string { return &s }

func record(title, text string) types.ArticleRecord {
	return types.ArticleRecord{Title: strp(title), Text: strp(text)}
}

func articles(records ...types.ArticleRecord) []Article {
	out, err := testPreprocessor().Process(records)
	if err != nil {
		panic(err)
	}
	return out
}

func settings(maxLen, minTokens int) types.SummarizeSettings {
	return types.SummarizeSettings{
		MaxLen:        maxLen,
		LenType:       types.LengthWords,
		MinSentTokens: minTokens,
		MaxSentTokens: 60,
	}
}

func totalLen(sents []Sentence, unit types.LengthType) int {
	n := 0
	for _, s := range sents {
		n += s.Len(unit)
	}
	return n
}

// floodArticles is a small cluster about one event with distinct sentences.
var floodArticles = []types.ArticleRecord{
	record("Floods hit northern province",
		"Floods hit the northern province after days of heavy rain. Rescue teams evacuated thousands of residents from flooded villages. The local football club postponed its weekend match."),
	record("Province under water",
		"Heavy rain caused severe floods across the northern province on Monday. Officials said thousands of residents were evacuated by rescue teams."),
	record("Government pledges aid",
		"The government pledged emergency funds for flood victims in the province. Weather forecasters expect more heavy rain later this week."),
}
