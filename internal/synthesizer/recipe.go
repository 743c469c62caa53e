package synthesizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ingredientHeaderRe  = regexp.MustCompile(`(?i)^\s*ingredients?\s*:?\s*(.*)$`)
	instructionHeaderRe = regexp.MustCompile(`(?i)^\s*(?:method|instructions?|directions?|steps?|preparation)\s*:?\s*$`)
	numberedStepRe      = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s*(.+)$`)

	prepTimeRe  = regexp.MustCompile(`(?i)prep(?:aration)?\s*time\s*:?\s*(\d+)\s*(min(?:ute)?s?|h(?:ou)?rs?)`)
	cookTimeRe  = regexp.MustCompile(`(?i)cook(?:ing)?\s*time\s*:?\s*(\d+)\s*(min(?:ute)?s?|h(?:ou)?rs?)`)
	totalTimeRe = regexp.MustCompile(`(?i)total\s*time\s*:?\s*(\d+)\s*(min(?:ute)?s?|h(?:ou)?rs?)`)
	servingsRe  = regexp.MustCompile(`(?i)(?:serves|servings?|yield)\s*:?\s*(\d+)`)
	caloriesRe  = regexp.MustCompile(`(?i)(\d+)\s*(?:k?cal(?:orie)?s?)\b`)

	imageURLRe = regexp.MustCompile(`https?://\S+\.(?:jpe?g|png|webp|gif)`)
	videoURLRe = regexp.MustCompile(`https?://(?:\S*(?:youtube\.com/watch\S+|youtu\.be/\S+)|\S+\.(?:mp4|webm|mov))`)
)

// cuisineKeywords maps text signals to a recipeCuisine value. First
// match wins, checked in this order.
var cuisineKeywords = []struct {
	cuisine  string
	keywords []string
}{
	{"Italian", []string{"pasta", "risotto", "pizza", "parmesan", "mozzarella"}},
	{"Mexican", []string{"taco", "salsa", "tortilla", "burrito", "guacamole"}},
	{"Indian", []string{"curry", "masala", "tikka", "paneer", "dal"}},
	{"Chinese", []string{"soy sauce", "stir-fry", "stir fry", "wok", "dumpling"}},
	{"Japanese", []string{"sushi", "miso", "ramen", "teriyaki"}},
	{"Thai", []string{"pad thai", "lemongrass", "fish sauce", "coconut milk"}},
	{"French", []string{"baguette", "béchamel", "ratatouille", "crème"}},
}

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Dessert", []string{"dessert", "cake", "cookie", "chocolate", "pudding", "ice cream"}},
	{"Breakfast", []string{"breakfast", "pancake", "oatmeal", "granola", "omelette"}},
	{"Appetizer", []string{"appetizer", "starter", "dip", "finger food"}},
	{"Salad", []string{"salad", "vinaigrette"}},
	{"Soup", []string{"soup", "broth", "chowder"}},
}

// recipeDocument performs full structured extraction for Recipe: the
// ingredient list, numbered instructions, ISO-8601 durations, servings,
// cuisine and category inference, nutrition figures, and media URLs.
func (s *Synthesizer) recipeDocument(text, url string, doc map[string]interface{}) map[string]interface{} {
	name := firstNonBlankLine(text)
	if name == "" {
		name = "Recipe"
	}
	description := descriptionFromText(text)
	if description == "" {
		description = "A recipe extracted from " + url
	}
	doc["name"] = name
	doc["description"] = description

	if ingredients := extractIngredients(text); len(ingredients) > 0 {
		doc["recipeIngredient"] = ingredients
	}
	if steps := extractInstructions(text); len(steps) > 0 {
		instructions := make([]map[string]interface{}, 0, len(steps))
		for _, step := range steps {
			instructions = append(instructions, map[string]interface{}{
				"@type": "HowToStep",
				"text":  step,
			})
		}
		doc["recipeInstructions"] = instructions
	}

	if d := extractDuration(text, prepTimeRe); d != "" {
		doc["prepTime"] = d
	}
	if d := extractDuration(text, cookTimeRe); d != "" {
		doc["cookTime"] = d
	}
	if d := extractDuration(text, totalTimeRe); d != "" {
		doc["totalTime"] = d
	}
	if m := servingsRe.FindStringSubmatch(text); len(m) > 1 {
		doc["recipeYield"] = m[1] + " servings"
	}
	if m := caloriesRe.FindStringSubmatch(text); len(m) > 1 {
		doc["nutrition"] = map[string]interface{}{
			"@type":    "NutritionInformation",
			"calories": m[1] + " calories",
		}
	}

	lower := strings.ToLower(text)
	if cuisine := inferCuisine(lower); cuisine != "" {
		doc["recipeCuisine"] = cuisine
	}
	if category := inferCategory(lower); category != "" {
		doc["recipeCategory"] = category
	}

	if img := imageURLRe.FindString(text); img != "" {
		doc["image"] = img
	}
	if video := videoURLRe.FindString(text); video != "" {
		doc["video"] = map[string]interface{}{
			"@type":      "VideoObject",
			"name":       name,
			"contentUrl": video,
		}
	}

	return doc
}

// extractIngredients collects the lines between the ingredients header
// and the next section header or blank line. Inline text after the
// header's colon counts as the first ingredient.
func extractIngredients(text string) []string {
	var ingredients []string
	inSection := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !inSection {
			if m := ingredientHeaderRe.FindStringSubmatch(trimmed); m != nil {
				inSection = true
				if inline := strings.TrimSpace(m[1]); inline != "" {
					ingredients = append(ingredients, inline)
				}
			}
			continue
		}
		if trimmed == "" || instructionHeaderRe.MatchString(trimmed) {
			break
		}
		if m := numberedStepRe.FindStringSubmatch(trimmed); m != nil {
			trimmed = strings.TrimSpace(m[1])
		}
		ingredients = append(ingredients, trimmed)
	}
	return ingredients
}

// extractInstructions collects numbered or bulleted lines after the
// instructions header. Without a header, any numbered lines past the
// ingredient section are used.
func extractInstructions(text string) []string {
	var steps []string
	inSection := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if instructionHeaderRe.MatchString(trimmed) {
			inSection = true
			steps = steps[:0]
			continue
		}
		m := numberedStepRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		if inSection {
			steps = append(steps, strings.TrimSpace(m[1]))
		}
	}
	if inSection {
		return steps
	}
	return nil
}

// extractDuration converts a "30 minutes" / "2 hours" match into an
// ISO-8601 duration like PT30M or PT2H.
func extractDuration(text string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 3 {
		return ""
	}
	value, err := strconv.Atoi(m[1])
	if err != nil || value <= 0 {
		return ""
	}
	unit := strings.ToLower(m[2])
	if strings.HasPrefix(unit, "h") {
		return fmt.Sprintf("PT%dH", value)
	}
	return fmt.Sprintf("PT%dM", value)
}

func inferCuisine(lower string) string {
	for _, entry := range cuisineKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.cuisine
			}
		}
	}
	return ""
}

func inferCategory(lower string) string {
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.category
			}
		}
	}
	return ""
}
