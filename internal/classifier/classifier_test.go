package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schemaforge/schemaforge/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		url      string
		expected []string
	}{
		{
			name:     "recipe page",
			text:     "Ingredients: 2 cups rice\n1 tbsp oil\nMethod:\n1. Boil rice\n2. Add oil",
			url:      "https://example.com/rice",
			expected: []string{models.TypeRecipe},
		},
		{
			name:     "product page early exit",
			text:     "Wireless Headphones. Add to cart today, free shipping on all orders.",
			url:      "https://shop.example.com/headphones",
			expected: []string{models.TypeProduct},
		},
		{
			name:     "article page early exit caps at two",
			text:     "Posted on March 3 by our author. This blog covers the latest industry news in depth.",
			url:      "https://example.com/blog/news",
			expected: []string{models.TypeBlogPosting, models.TypeArticle},
		},
		{
			name:     "testimonial stays testimonial without strong article signal",
			text:     "What our clients say. A five star review of our service. Amazing results.",
			url:      "https://example.com/testimonials",
			expected: []string{models.TypeTestimonial},
		},
		{
			name:     "testimonial with strong article signal",
			text:     "Customer stories from our blog, published by the team.",
			url:      "https://example.com/stories",
			expected: []string{models.TypeTestimonial, models.TypeBlogPosting},
		},
		{
			name:     "faq page",
			text:     "Frequently Asked Questions\nHow do I reset my password?\nGo to settings.",
			url:      "https://example.com/faq",
			expected: []string{models.TypeFAQPage},
		},
		{
			name:     "event page",
			text:     "Buy tickets now. Doors open at 7pm at the main venue downtown.",
			url:      "https://example.com/show",
			expected: []string{models.TypeEvent},
		},
		{
			name:     "long unmatched text defaults to blog posting",
			text:     strings.Repeat("lorem ipsum dolor sit amet consectetur ", 10),
			url:      "https://example.com/misc",
			expected: []string{models.TypeBlogPosting},
		},
		{
			name:     "short unmatched text yields nothing",
			text:     "hello world",
			url:      "https://example.com/tiny",
			expected: nil,
		},
		{
			name:     "empty text yields nothing",
			text:     "",
			url:      "https://example.com/empty",
			expected: nil,
		},
		{
			name:     "url contributes signals",
			text:     "short text",
			url:      "https://example.com/faq",
			expected: []string{models.TypeFAQPage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.text, tt.url))
		})
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	text := "Frequently asked questions about our recipe collection. Prep time: 20 minutes."
	url := "https://example.com/kitchen-faq"

	first := Classify(text, url)
	second := Classify(text, url)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestClassifyCapsAtThree(t *testing.T) {
	text := "Ingredients for the big day: tickets at the venue, frequently asked questions, " +
		"opening hours and a five star review of the event."

	result := Classify(text, "https://example.com/everything")

	assert.LessOrEqual(t, len(result), 3)
}
