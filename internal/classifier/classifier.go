package classifier

import (
	"strings"

	"github.com/schemaforge/schemaforge/internal/models"
)

// minTextForDefault is the text length above which an unmatched page
// still defaults to BlogPosting.
const minTextForDefault = 200

// maxCandidates caps the returned type list.
const maxCandidates = 3

type category struct {
	keywords []string
	types    []string
	// earlyExit categories are confident enough to stop the scan and cap
	// the result at two types.
	earlyExit bool
}

// priorityOrder fixes the evaluation order independently of the table
// below. More specific categories outrank generic ones; do not reorder —
// the early-exit behavior makes results order-dependent.
var priorityOrder = []string{
	"testimonial",
	"product",
	"recipe",
	"faq",
	"howto",
	"event",
	"localbusiness",
	"review",
	"article",
}

var categories = map[string]category{
	"testimonial": {
		keywords: []string{"testimonial", "what our clients say", "customer stories", "client feedback", "success stories", "happy customers"},
		types:    []string{models.TypeTestimonial},
	},
	"product": {
		keywords:  []string{"add to cart", "buy now", "free shipping", "in stock", "out of stock", "sku", "checkout"},
		types:     []string{models.TypeProduct},
		earlyExit: true,
	},
	"recipe": {
		keywords: []string{"ingredients", "recipe", "prep time", "cook time", "servings", "tablespoon", "teaspoon"},
		types:    []string{models.TypeRecipe},
	},
	"faq": {
		keywords: []string{"frequently asked questions", "faq", "q&a", "common questions"},
		types:    []string{models.TypeFAQPage},
	},
	"howto": {
		keywords: []string{"how to", "step-by-step", "step 1", "tutorial", "diy", "walkthrough"},
		types:    []string{models.TypeHowTo},
	},
	"event": {
		keywords: []string{"tickets", "venue", "rsvp", "register now", "event date", "upcoming events", "doors open"},
		types:    []string{models.TypeEvent},
	},
	"localbusiness": {
		keywords: []string{"opening hours", "business hours", "visit us", "our location", "locally owned", "book an appointment"},
		types:    []string{models.TypeLocalBusiness},
	},
	"review": {
		keywords: []string{"review", "rating", "verdict", "pros and cons", "stars"},
		types:    []string{models.TypeReview},
	},
	"article": {
		keywords:  []string{"blog", "article", "posted on", "published", "author", "min read", "opinion"},
		types:     []string{models.TypeBlogPosting, models.TypeArticle},
		earlyExit: true,
	},
}

// strongArticleKeywords exclude generic overlap terms ("review",
// "opinion") so a testimonial page is not promoted to an article by them.
var strongArticleKeywords = []string{"blog", "posted on", "published", "author", "article"}

// Classify maps page text and URL onto an ordered, de-duplicated list of
// candidate schema.org types, most confident first. It is deterministic
// and side-effect free: the generator relies on it to constrain and grade
// provider output.
func Classify(text, url string) []string {
	haystack := strings.ToLower(text + " " + url)

	var result []string
	seen := make(map[string]bool)
	testimonialFound := false

	add := func(types ...string) {
		for _, t := range types {
			if !seen[t] {
				seen[t] = true
				result = append(result, t)
			}
		}
	}

	for _, name := range priorityOrder {
		cat := categories[name]
		if !matchesAny(haystack, cat.keywords) {
			continue
		}

		if name == "testimonial" {
			testimonialFound = true
			add(cat.types...)
			continue
		}

		if testimonialFound {
			// Testimonial pages stay testimonial-only unless a strong
			// article signal exists beyond the overlap terms.
			if name == "review" {
				continue
			}
			if name == "article" && !matchesAny(haystack, strongArticleKeywords) {
				continue
			}
		}

		add(cat.types...)

		if cat.earlyExit {
			if len(result) > 2 {
				result = result[:2]
			}
			return result
		}
		if len(result) >= 2 {
			break
		}
	}

	if len(result) == 0 && len(strings.TrimSpace(text)) > minTextForDefault {
		return []string{models.TypeBlogPosting}
	}

	if len(result) > maxCandidates {
		result = result[:maxCandidates]
	}
	return result
}

func matchesAny(haystack string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}
