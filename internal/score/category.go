package score

import (
	"regexp"
	"strings"

	"github.com/ppiankov/verinews/internal/model"
	"golang.org/x/text/cases"
)

type categoryRule struct {
	category model.Category
	pattern  *regexp.Regexp
}

// categoryKeywords is the canonical table; order decides ties
var categoryKeywords = []struct {
	category model.Category
	keywords []string
}{
	{model.CategoryHealth, []string{"covid", "vaccine", "health", "disease", "medical", "hospital", "doctor", "virus", "pandemic"}},
	{model.CategoryPolitics, []string{"election", "government", "president", "senate", "law", "minister", "parliament", "vote", "policy"}},
	{model.CategoryTechnology, []string{"ai", "robot", "tech", "innovation", "computer", "software", "hardware", "internet", "app"}},
	{model.CategoryScience, []string{"mars", "space", "nasa", "discovery", "research", "astronomy", "physics", "biology", "chemistry"}},
	{model.CategoryFinance, []string{"stock", "market", "economy", "dollar", "bank", "crypto", "bitcoin", "investment", "inflation"}},
	{model.CategorySports, []string{"football", "soccer", "basketball", "olympics", "athlete", "tournament", "match", "goal", "score"}},
	{model.CategoryEntertainment, []string{"movie", "music", "celebrity", "tv", "film", "actor", "singer", "show", "award"}},
	{model.CategoryEnvironment, []string{"climate", "environment", "pollution", "global warming", "recycle", "carbon", "emission", "wildlife"}},
}

var categoryRules = compileCategories()

// compileCategories builds one whole-word alternation per category. A keyword
// also matches its simple plural ("vaccines", "elections").
func compileCategories() []categoryRule {
	rules := make([]categoryRule, 0, len(categoryKeywords))
	for _, c := range categoryKeywords {
		alts := make([]string, len(c.keywords))
		for i, k := range c.keywords {
			alts[i] = strings.ReplaceAll(regexp.QuoteMeta(k), " ", `\s+`)
		}
		rules = append(rules, categoryRule{
			category: c.category,
			pattern:  regexp.MustCompile(`\b(?:` + strings.Join(alts, "|") + `)(?:s|es)?\b`),
		})
	}
	return rules
}

// Classify assigns the first category whose keywords appear in the claim
func Classify(claim string) model.Category {
	text := cases.Fold().String(claim)
	for _, r := range categoryRules {
		if r.pattern.MatchString(text) {
			return r.category
		}
	}
	return model.CategoryGeneral
}
