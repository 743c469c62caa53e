package synthesizer

import (
	"regexp"
	"strings"
)

var (
	questionLineRe = regexp.MustCompile(`(?i)^\s*(?:q(?:uestion)?\s*\d*\s*[:.)]\s*)?(.+\?)\s*$`)
	answerPrefixRe = regexp.MustCompile(`(?i)^\s*a(?:nswer)?\s*\d*\s*[:.)]\s*`)
)

type qaPair struct {
	question string
	answer   string
}

// faqDocument segments raw text into question/answer pairs. A question
// is any line ending in "?" (optionally prefixed with "Q:"); its answer
// is the text that follows up to the next question.
func (s *Synthesizer) faqDocument(text string, doc map[string]interface{}) map[string]interface{} {
	pairs := segmentQA(text)

	name := firstNonBlankLine(text)
	if name != "" && !strings.HasSuffix(name, "?") {
		doc["name"] = name
	}

	entities := make([]map[string]interface{}, 0, len(pairs))
	for _, pair := range pairs {
		answer := pair.answer
		if answer == "" {
			continue
		}
		entities = append(entities, map[string]interface{}{
			"@type": "Question",
			"name":  pair.question,
			"acceptedAnswer": map[string]interface{}{
				"@type": "Answer",
				"text":  answer,
			},
		})
	}
	if len(entities) == 0 {
		// Keep the document structurally valid even if segmentation
		// found nothing usable.
		entities = append(entities, map[string]interface{}{
			"@type": "Question",
			"name":  fallbackQuestion(name),
			"acceptedAnswer": map[string]interface{}{
				"@type": "Answer",
				"text":  truncate(strings.TrimSpace(text), descriptionMaxLen),
			},
		})
	}
	doc["mainEntity"] = entities
	return doc
}

func segmentQA(text string) []qaPair {
	var pairs []qaPair
	var current *qaPair
	var answerLines []string

	flush := func() {
		if current != nil {
			current.answer = truncate(strings.TrimSpace(strings.Join(answerLines, " ")), 500)
			pairs = append(pairs, *current)
		}
		current = nil
		answerLines = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if m := questionLineRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			current = &qaPair{question: strings.TrimSpace(m[1])}
			continue
		}
		if current != nil {
			answerLines = append(answerLines, answerPrefixRe.ReplaceAllString(trimmed, ""))
		}
	}
	flush()
	return pairs
}

func fallbackQuestion(name string) string {
	if name == "" {
		return "What is this page about?"
	}
	return "What is " + name + "?"
}

// howToDocument builds a HowTo from numbered or bulleted step lines.
func (s *Synthesizer) howToDocument(text string, doc map[string]interface{}) map[string]interface{} {
	name := firstNonBlankLine(text)
	if name == "" {
		name = "How-To Guide"
	}
	doc["name"] = name
	setIfPresent(doc, "description", descriptionFromText(text))

	var steps []map[string]interface{}
	position := 1
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		m := numberedStepRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		stepText := strings.TrimSpace(m[1])
		if stepText == "" {
			continue
		}
		steps = append(steps, map[string]interface{}{
			"@type":    "HowToStep",
			"position": position,
			"text":     stepText,
		})
		position++
	}
	if len(steps) == 0 {
		steps = append(steps, map[string]interface{}{
			"@type":    "HowToStep",
			"position": 1,
			"text":     truncate(strings.TrimSpace(text), descriptionMaxLen),
		})
	}
	doc["step"] = steps

	if d := extractDuration(text, totalTimeRe); d != "" {
		doc["totalTime"] = d
	}
	return doc
}
