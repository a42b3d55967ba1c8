// Copyright 2025 Regsight Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package analysis

import (
	"regexp"
	"strings"

	"github.com/regsight/devaudit/core"
)

// The questionnaire applied to every summary document.
const (
	questionAlgorithms   = "What are the algorithms used?"
	questionTechniques   = "What are the techniques used?"
	questionMLTechniques = "What are machine learning techniques used?"
	questionInputFormat  = "What is the input format to the device?"
)

// Prefixes combined with a technique keyword to form literature queries.
var attackQueryPrefixes = []string{
	"Security Attacks on ",
	"Inference time attacks on ",
	"Training time attacks on ",
}

// genericPatterns name the field, not a technique. A keyword containing any
// of them anywhere must never reach the keyword filter, the web check, or
// the literature search.
var genericPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)machine\s*learning`),
	regexp.MustCompile(`(?i)artificial\s*intelligence`),
	regexp.MustCompile(`(?i)510\s*k`),
	regexp.MustCompile(`(?i)a\.i\.`),
}

// inferencePatterns mark attacks applied to a deployed model.
var inferencePatterns = []string{
	"adversarial example",
	"evasion",
	"privacy attack",
	"membership inference",
	"model inversion",
}

// trainingPatterns mark attacks applied while the model is built.
var trainingPatterns = []string{
	"training time",
	"poisoning",
	"data manipulation",
}

// isGenericTerm reports whether the keyword contains a generic field term.
// Matching is a search, not equality, so "uses machine learning" and "510k"
// are generic too.
func isGenericTerm(keyword string) bool {
	for _, p := range genericPatterns {
		if p.MatchString(keyword) {
			return true
		}
	}
	return false
}

// ClassifyPaper determines whether a paper describes an inference-time or
// training-time attack by scanning its title and abstract. Inference
// patterns win when both match, since most training-time papers also
// discuss deployment impact.
func ClassifyPaper(p core.Paper) core.AttackClass {
	text := strings.ToLower(p.Title + " " + p.Abstract)
	for _, pattern := range inferencePatterns {
		if strings.Contains(text, pattern) {
			return core.AttackClassInference
		}
	}
	for _, pattern := range trainingPatterns {
		if strings.Contains(text, pattern) {
			return core.AttackClassTraining
		}
	}
	return core.AttackClassUnclassified
}

// dedupeFindings removes findings whose text is contained in an
// already-kept finding (or contains one), case-insensitively. Input must be
// sorted by score descending; the higher-scored phrasing survives.
func dedupeFindings(findings []core.Finding) []core.Finding {
	kept := make([]core.Finding, 0, len(findings))
	for _, f := range findings {
		text := strings.ToLower(strings.TrimSpace(f.Text))
		if text == "" {
			continue
		}

		dup := false
		for _, k := range kept {
			kt := strings.ToLower(k.Text)
			if strings.Contains(kt, text) || strings.Contains(text, kt) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, f)
		}
	}
	return kept
}
