package loantype

import (
	"regexp"
	"strings"

	"creditdesk/internal/domain/entity"
)

// pattern pairs a canonical category with its recognition regexp. Table order
// is a tie-break policy: the first matching entry wins, so more specific
// categories (home equity) must precede the generic ones that could swallow
// their tokens.
type pattern struct {
	category entity.LoanCategory
	rx       *regexp.Regexp
}

//nolint:gochecknoglobals // frozen recognition table
var (
	table = []pattern{
		{entity.LoanMortgage, regexp.MustCompile(`(?i)\b(mortgage|home\s*loan)\b`)},
		{entity.LoanHomeEquity, regexp.MustCompile(`(?i)\b(home\s*equity)\b`)},
		{entity.LoanAuto, regexp.MustCompile(`(?i)\b(auto|car|vehicle)\s*loan\b|\b(auto|car)\b`)},
		{entity.LoanStudent, regexp.MustCompile(`(?i)\b(student|education|tuition)\s*loan\b|\bstudent\b`)},
		{entity.LoanPersonal, regexp.MustCompile(`(?i)\b(personal)\s*loan\b|\bpersonal\b`)},
		{entity.LoanDebtConsolidation, regexp.MustCompile(`(?i)\b(debt\s*consol(idation)?)\b|\bconsolidat(e|ion)\b`)},
		{entity.LoanPayday, regexp.MustCompile(`(?i)\b(pay\s*day|payday)\b`)},
		{entity.LoanCreditBuilder, regexp.MustCompile(`(?i)\b(credit[-\s]*builder)\b`)},
	}

	splitRx  = regexp.MustCompile(`(?i),|\band\b`)
	ignoreRx = regexp.MustCompile(`(?i)\b(not\s*specified|unknown|n/?a|none)\b`)
)

// Normalizer maps free-text loan descriptions onto the canonical category
// set. Unrecognized tokens are reported back, never treated as errors; an
// empty result is a valid "no specified loans" outcome.
type Normalizer struct {
	similarity Similarity
}

func NewNormalizer(similarity Similarity) *Normalizer {
	if similarity == nil {
		similarity = ExactOnly{}
	}

	return &Normalizer{similarity: similarity}
}

// Normalize accepts raw description fragments (a single string with commas
// and "and" conjunctions, or a pre-split list) and returns the matched
// category set plus leftover tokens. Normalizing already-canonical names is
// idempotent.
func (n *Normalizer) Normalize(descriptions ...string) entity.CanonicalLoanSet {
	var tokens []string
	for _, d := range descriptions {
		for _, part := range splitRx.Split(d, -1) {
			if part = strings.TrimSpace(part); part != "" {
				tokens = append(tokens, part)
			}
		}
	}

	var set entity.CanonicalLoanSet

	seen := make(map[entity.LoanCategory]struct{}, len(table))

	add := func(category entity.LoanCategory) {
		if _, ok := seen[category]; !ok {
			seen[category] = struct{}{}
			set.Matched = append(set.Matched, category)
		}
	}

	for _, tok := range tokens {
		if ignoreRx.MatchString(tok) {
			continue
		}

		if category, ok := n.match(tok); ok {
			add(category)
			continue
		}

		set.Unmatched = append(set.Unmatched, tok)
	}

	return set
}

func (n *Normalizer) match(token string) (entity.LoanCategory, bool) {
	low := strings.ToLower(token)

	for _, p := range table {
		if p.rx.MatchString(low) {
			return p.category, true
		}
	}

	return n.similarity.BestMatch(token, Categories())
}

// Categories returns the canonical categories in table order.
func Categories() []entity.LoanCategory {
	categories := make([]entity.LoanCategory, len(table))
	for i, p := range table {
		categories[i] = p.category
	}

	return categories
}
