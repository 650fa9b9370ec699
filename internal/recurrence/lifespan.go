// lifespan.go: keyword-based product lifespan estimation
package recurrence

import "strings"

// LifespanEstimator estimates how many days one purchase of a product lasts.
// The analyzer takes any implementation, so alternate locales or product
// taxonomies can be substituted without touching the analysis itself.
type LifespanEstimator interface {
	EstimateDaysSupply(normalizedName string, avgDaysBetween float64) int
}

// lifespanRule ties a keyword set to a supply estimate. Rules are evaluated in
// order and the first keyword match wins.
type lifespanRule struct {
	keywords []string
	estimate func(avgDaysBetween float64) int
}

// KeywordClassifier estimates product lifespan from substrings of the
// normalized product name. The default table covers Norwegian and English
// grocery terms.
type KeywordClassifier struct {
	rules []lifespanRule
}

// NewKeywordClassifier returns a classifier with the default rule table:
// fresh products last at most a week, dairy at most two, household goods are
// consumed slightly faster than they are bought, and everything else is
// assumed to be consumed at exactly the purchase cadence.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		rules: []lifespanRule{
			{
				// Fresh products, short lifespan
				keywords: []string{"melk", "milk", "brød", "bread", "rundstykk", "salat", "lettuce"},
				estimate: func(avg float64) int { return min(7, int(avg)) },
			},
			{
				// Dairy, medium lifespan
				keywords: []string{"yoghurt", "ost", "cheese", "smør", "butter"},
				estimate: func(avg float64) int { return min(14, int(avg)) },
			},
			{
				// Hygiene and household, lasts close to the purchase frequency
				keywords: []string{"såpe", "soap", "shampo", "tannkrem", "toothpaste", "papir", "paper", "oppvask"},
				estimate: func(avg float64) int { return int(avg * 0.9) },
			},
		},
	}
}

// EstimateDaysSupply returns the estimated days one purchase lasts. The
// default assumes consumption rate equals purchase frequency.
func (c *KeywordClassifier) EstimateDaysSupply(normalizedName string, avgDaysBetween float64) int {
	name := strings.ToLower(normalizedName)
	for _, rule := range c.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(name, keyword) {
				return rule.estimate(avgDaysBetween)
			}
		}
	}
	return int(avgDaysBetween)
}
