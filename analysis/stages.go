package analysis

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/regsight/devaudit/core"
	"github.com/regsight/devaudit/fetch"
	"github.com/regsight/devaudit/pdftext"
	"github.com/regsight/devaudit/scholar"
	"github.com/regsight/devaudit/storage"
)

// supplementScore is assigned to an algorithm reported by the supplemental
// catalog; it outranks anything the model extracts.
const supplementScore = 1.0

// minHTMLPassageLen filters navigation fragments out of HTML fallbacks.
const minHTMLPassageLen = 40

// loadDocument returns the stored document for a submission, fetching and
// extracting it first when it isn't cached.
func (p *Pipeline) loadDocument(ctx context.Context, number string) (*core.Document, error) {
	doc, err := p.documents.GetDocument(ctx, number)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	dl, err := p.fetcher.FetchSummary(ctx, number)
	if err != nil {
		return nil, err
	}

	var passages []string
	switch dl.Kind {
	case core.DocumentKindPDF:
		passages, err = pdftext.Passages(dl.Data)
	case core.DocumentKindHTML:
		passages, err = fetch.MarkdownPassages(string(dl.Data), minHTMLPassageLen)
	}
	if err != nil {
		return nil, err
	}

	doc = &core.Document{
		SubmissionNumber: number,
		SourceURL:        dl.SourceURL,
		Kind:             dl.Kind,
		Passages:         passages,
		FetchedAt:        time.Now().UTC(),
	}
	if err := p.documents.PutDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// answerStage applies the questionnaire to the document passages.
// The three technique questions merge into one deduplicated, score-descending
// finding list; the input-format question fills its own list. The catalog's
// known algorithm, when present, is inserted at the top, and the catalog
// description is answered over alongside the document.
func (p *Pipeline) answerStage(ctx context.Context, sub *core.Submission, doc *core.Document) (algorithms, inputFormats []core.Finding, ok bool) {
	ok = true
	answerer := p.provider.Answerer()

	passages := doc.Passages
	if sub.Description != "" {
		passages = append(append([]string(nil), doc.Passages...), sub.Description)
	}

	var merged []core.Finding
	for _, question := range []string{questionAlgorithms, questionTechniques, questionMLTechniques} {
		answers, err := answerer.AnswerQuestion(ctx, question, passages)
		if err != nil {
			p.logger.Warn("question answering failed",
				"submission", sub.Number, "question", question, "err", err)
			ok = false
			continue
		}
		for _, a := range answers {
			merged = append(merged, core.Finding{Score: a.Score, Text: a.Text})
		}
	}

	if sub.KnownAlgo != "" {
		merged = append(merged, core.Finding{Score: supplementScore, Text: sub.KnownAlgo})
	}

	sortFindings(merged)
	algorithms = dedupeFindings(merged)

	answers, err := answerer.AnswerQuestion(ctx, questionInputFormat, passages)
	if err != nil {
		p.logger.Warn("question answering failed",
			"submission", sub.Number, "question", questionInputFormat, "err", err)
		ok = false
	} else {
		inputFormats = make([]core.Finding, 0, len(answers))
		for _, a := range answers {
			inputFormats = append(inputFormats, core.Finding{Score: a.Score, Text: a.Text})
		}
		sortFindings(inputFormats)
		inputFormats = dedupeFindings(inputFormats)
	}

	return algorithms, inputFormats, ok
}

// maxValidatedKeywords caps how many candidates the web check validates per
// device.
const maxValidatedKeywords = 10

// keywordStage distills the algorithm findings into alternative keywords via
// the model filter and validates each candidate against the web: a keyword
// counts as validated only when a page found by searching for it matches an
// ML relevance pattern. Generic field terms never reach the filter, the web
// check, or the search.
func (p *Pipeline) keywordStage(ctx context.Context, sub *core.Submission, algorithms []core.Finding) (validated []core.Finding, altKeywords []string, ok bool) {
	ok = true

	candidates := make([]core.Finding, 0, len(algorithms))
	for _, f := range algorithms {
		if isGenericTerm(f.Text) {
			continue
		}
		candidates = append(candidates, f)
	}
	if len(candidates) == 0 {
		return nil, nil, true
	}

	texts := make([]string, 0, len(candidates))
	for _, f := range candidates {
		texts = append(texts, f.Text)
	}

	filtered, err := p.provider.KeywordFilter().FilterKeywords(ctx, texts)
	if err != nil {
		p.logger.Warn("keyword filtering failed", "submission", sub.Number, "err", err)
		ok = false
	} else {
		for _, kw := range filtered {
			if !isGenericTerm(kw) {
				altKeywords = append(altKeywords, kw)
			}
		}
	}

	if p.checker == nil {
		// No web checker configured; trust the model filter
		return scoreKeywords(altKeywords, candidates), altKeywords, ok
	}

	for _, f := range candidates {
		if len(validated) >= maxValidatedKeywords {
			break
		}

		relevant, err := p.checker.CheckKeyword(ctx, f.Text)
		if err != nil {
			p.logger.Warn("keyword check failed",
				"submission", sub.Number, "keyword", f.Text, "err", err)
			ok = false
			continue
		}
		if relevant {
			validated = append(validated, f)
		}
	}

	return validated, altKeywords, ok
}

// scoreKeywords maps filtered keywords back to their finding scores.
// Keywords the model reworded get a neutral score.
func scoreKeywords(keywords []string, findings []core.Finding) []core.Finding {
	scores := make(map[string]float64, len(findings))
	for _, f := range findings {
		scores[strings.ToLower(f.Text)] = f.Score
	}

	out := make([]core.Finding, 0, len(keywords))
	for _, kw := range keywords {
		score, found := scores[strings.ToLower(kw)]
		if !found {
			score = 0.5
		}
		out = append(out, core.Finding{Score: score, Text: kw})
	}
	sortFindings(out)
	return out
}

// attackStage searches the literature for attacks on the top validated
// keywords. Surveys and papers matching no attack pattern land in rejected
// with their class left unclassified; everything else is grouped per query.
func (p *Pipeline) attackStage(ctx context.Context, validated []core.Finding) (searches []core.AttackSearch, rejected []core.Paper, ok bool) {
	ok = true
	if p.searcher == nil || len(validated) == 0 {
		return nil, nil, true
	}

	keywords := validated
	if len(keywords) > p.maxKeywords {
		keywords = keywords[:p.maxKeywords]
	}

	for _, kw := range keywords {
		for _, prefix := range attackQueryPrefixes {
			if err := ctx.Err(); err != nil {
				return searches, rejected, false
			}

			query := prefix + kw.Text
			papers, err := p.searcher.SearchPapers(ctx, query)
			if err != nil {
				p.logger.Warn("literature search failed", "query", query, "err", err)
				ok = false
				continue
			}

			search := core.AttackSearch{Query: query, Keyword: kw.Text}
			for _, paper := range papers {
				if scholar.IsSurvey(paper) {
					rejected = append(rejected, paper)
					continue
				}
				paper.Class = ClassifyPaper(paper)
				if paper.Class == core.AttackClassUnclassified {
					rejected = append(rejected, paper)
					continue
				}
				search.Papers = append(search.Papers, paper)
			}
			if len(search.Papers) > 0 {
				searches = append(searches, search)
			}
		}
	}

	return searches, rejected, ok
}

// sortFindings orders findings by score descending, stable.
func sortFindings(findings []core.Finding) {
	slices.SortStableFunc(findings, func(a, b core.Finding) int {
		if a.Score == b.Score {
			return 0
		}
		if a.Score < b.Score {
			return 1
		}
		return -1
	})
}
