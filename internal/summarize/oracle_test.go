package summarize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/summary-engine/pkg/types"
)

const floodReference = "Thousands of residents were evacuated as heavy rain flooded the northern province."

func oracleRequest(records ...types.ArticleRecord) Request {
	return Request{
		Articles:  articles(records...),
		Reference: testTokenize(floodReference),
		Settings:  settings(40, 7),
	}
}

func TestOracleStopsAtBestPrefix(t *testing.T) {
	req := Request{
		Articles:  articles(record("Cat", "A cat sat on a mat. It was red.")),
		Reference: testTokenize("A cat sat on a mat."),
		Settings:  settings(20, 1),
	}

	got, err := Oracle{RougeN: 1, Metric: types.MetricFScore, EarlyStopping: true}.Summarize(req)
	require.NoError(t, err)
	assert.Equal(t, "A cat sat on a mat.", Join(got))

	got, err = Oracle{RougeN: 1, Metric: types.MetricFScore}.Summarize(req)
	require.NoError(t, err)
	assert.Equal(t, "A cat sat on a mat. It was red.", Join(got))
}

func TestOracleGreedySearch(t *testing.T) {
	o := Oracle{RougeN: 1, Metric: types.MetricFScore, EarlyStopping: true}
	got, err := o.Summarize(oracleRequest(floodArticles...))
	require.NoError(t, err)
	assert.Equal(t,
		"Floods hit the northern province after days of heavy rain. Rescue teams evacuated thousands of residents from flooded villages.",
		Join(got))
}

func TestOracleBeatsBestSingleSentence(t *testing.T) {
	req := oracleRequest(floodArticles...)
	o := Oracle{RougeN: 1, Metric: types.MetricFScore, EarlyStopping: true}
	got, err := o.Summarize(req)
	require.NoError(t, err)
	score := scoreSummary(got, req.Reference, 1, types.MetricFScore)

	limits := LimitsFrom(req.Settings)
	for _, s := range Pool(req.Articles, false) {
		if !limits.Eligible(s) || s.Len(types.LengthWords) > req.Settings.MaxLen {
			continue
		}
		single := scoreSummary([]Sentence{s}, req.Reference, 1, types.MetricFScore)
		assert.GreaterOrEqual(t, score, single, "single sentence %q scores higher", s.Text)
	}
}

func TestOracleIgnoresArticleOrder(t *testing.T) {
	o := Oracle{RougeN: 1, Metric: types.MetricFScore, EarlyStopping: true}
	want, err := o.Summarize(oracleRequest(floodArticles...))
	require.NoError(t, err)
	got, err := o.Summarize(oracleRequest(floodArticles[2], floodArticles[0], floodArticles[1]))
	require.NoError(t, err)
	assert.Equal(t, Join(want), Join(got))
}

func TestOracleRespectsBudget(t *testing.T) {
	req := oracleRequest(floodArticles...)
	req.Settings.MaxLen = 15
	got, err := Oracle{RougeN: 2, Metric: types.MetricRecall}.Summarize(req)
	require.NoError(t, err)
	assert.LessOrEqual(t, totalLen(got, types.LengthWords), 15)
	assert.Len(t, got, 1)
}

func TestOracleRequiresReference(t *testing.T) {
	req := oracleRequest(floodArticles...)
	req.Reference = nil
	for _, s := range []Strategy{
		Oracle{RougeN: 1, Metric: types.MetricFScore},
		SingleOracle{Oracle: Oracle{RougeN: 1, Metric: types.MetricFScore}},
		LeadOracle{RougeN: 1, Metric: types.MetricFScore},
	} {
		_, err := s.Summarize(req)
		assert.ErrorIs(t, err, ErrMissingReference, s.Name())
	}
}

func TestSingleOracleUsesOneArticle(t *testing.T) {
	so := SingleOracle{Oracle: Oracle{RougeN: 1, Metric: types.MetricFScore, EarlyStopping: true}}
	got, err := so.Summarize(oracleRequest(floodArticles[1], floodArticles[2]))
	require.NoError(t, err)
	assert.Equal(t,
		"Officials said thousands of residents were evacuated by rescue teams. Heavy rain caused severe floods across the northern province on Monday.",
		Join(got))
}

func TestLeadOraclePicksBestLead(t *testing.T) {
	got, err := LeadOracle{RougeN: 1, Metric: types.MetricFScore}.Summarize(oracleRequest(floodArticles...))
	require.NoError(t, err)
	assert.Equal(t,
		"Heavy rain caused severe floods across the northern province on Monday. Officials said thousands of residents were evacuated by rescue teams.",
		Join(got))
}

func TestLeadOracleSkipsEmptyArticles(t *testing.T) {
	req := oracleRequest(record("Empty", ""), floodArticles[2])
	got, err := LeadOracle{RougeN: 1, Metric: types.MetricFScore}.Summarize(req)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Position)

	req = oracleRequest(record("Empty", ""))
	got, err = LeadOracle{RougeN: 1, Metric: types.MetricFScore}.Summarize(req)
	require.NoError(t, err)
	assert.Empty(t, got)
}
