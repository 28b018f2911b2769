package summarize

import (
	"fmt"

	"github.com/pdiddy/summary-engine/internal/nlp"
	"github.com/pdiddy/summary-engine/pkg/types"
)

// Preprocessor turns raw article records into structured Articles.
type Preprocessor struct {
	splitter  nlp.SentenceSplitter
	tokenizer nlp.Tokenizer
}

// NewPreprocessor returns a preprocessor using the given primitives.
func NewPreprocessor(splitter nlp.SentenceSplitter, tokenizer nlp.Tokenizer) *Preprocessor {
	return &Preprocessor{splitter: splitter, tokenizer: tokenizer}
}

// NewDefaultPreprocessor wires the Punkt splitter and Treebank tokenizer.
func NewDefaultPreprocessor() (*Preprocessor, error) {
	splitter, err := nlp.NewPunktSplitter()
	if err != nil {
		return nil, err
	}
	return NewPreprocessor(splitter, nlp.NewWordTokenizer(splitter)), nil
}

// Tokenize exposes the preprocessor's tokenizer, used for reference summaries.
func (p *Preprocessor) Tokenize(text string) []string {
	return p.tokenizer.Tokenize(text)
}

// Article builds one Article from a title and body text.
func (p *Preprocessor) Article(title, text string) Article {
	a := Article{Title: NewSentence(title, p.tokenizer.Tokenize(title), TitlePosition)}
	for i, s := range p.splitter.Split(text) {
		a.Sentences = append(a.Sentences, NewSentence(s, p.tokenizer.Tokenize(s), i))
	}
	return a
}

// Process converts every record, failing on the first one missing a field.
func (p *Preprocessor) Process(records []types.ArticleRecord) ([]Article, error) {
	articles := make([]Article, 0, len(records))
	for i, r := range records {
		if r.Title == nil || r.Text == nil {
			return nil, &types.InputError{
				Field:  fmt.Sprintf("articles[%d]", i),
				Reason: "article requires title and text",
			}
		}
		articles = append(articles, p.Article(*r.Title, *r.Text))
	}
	return articles, nil
}
