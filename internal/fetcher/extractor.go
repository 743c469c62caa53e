package fetcher

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/models"
)

// breadcrumbSelectors is evaluated in priority order; the first selector
// producing a non-empty anchor list wins and later matches are ignored.
var breadcrumbSelectors = []string{
	`nav[aria-label="breadcrumb"] a`,
	`nav[aria-label="Breadcrumb"] a`,
	`[itemtype*="BreadcrumbList"] a`,
	`ol.breadcrumb a`,
	`ul.breadcrumbs a`,
	`.breadcrumb a`,
	`.breadcrumbs a`,
	`.woocommerce-breadcrumb a`,
}

// chromeSelectors mark non-content regions stripped before text collection.
var chromeSelectors = []string{
	"script", "style", "noscript", "template", "iframe", "svg",
	"header", "footer", "nav", "aside", "form", "button",
	`[role="navigation"]`, `[role="banner"]`, `[role="contentinfo"]`,
	`[role="complementary"]`, `[role="search"]`, `[aria-hidden="true"]`,
	".nav", ".navbar", ".menu", ".sidebar", ".footer", ".header",
	".ad", ".ads", ".advert", ".advertisement", ".cookie-banner",
	".popup", ".modal", ".comments", "#comments", ".comment-section",
	".share-buttons", ".social-share",
}

var (
	// mediaMetaClassRe matches class names that suggest image/photo/banner
	// metadata blocks rather than content.
	mediaMetaClassRe = regexp.MustCompile(`(?i)(image|photo|banner|thumbnail)[-_]?(meta|caption|credit|overlay|wrap(per)?)`)

	// genericAltRe matches alt text that carries no content value.
	genericAltRe = regexp.MustCompile(`(?i)^(image|img|photo|picture|logo|icon|banner|thumbnail|graphic)s?$`)

	whitespaceRe = regexp.MustCompile(`\s+`)

	// boilerplateRes remove fixed navigational/engagement fragments that
	// survive element-level stripping.
	boilerplateRes = []*regexp.Regexp{
		regexp.MustCompile(`Read More\s*»?`),
		regexp.MustCompile(`(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}\s+No Comments`),
		regexp.MustCompile(`(?i)skip to (main )?content`),
		regexp.MustCompile(`(?i)share (this|on)\b[^.]{0,40}`),
	}
)

// Extractor turns raw HTML into a normalized PageContent.
type Extractor struct {
	cfg    config.FetcherConfig
	logger zerolog.Logger
}

// NewExtractor creates a page content extractor.
func NewExtractor(cfg config.FetcherConfig, logger zerolog.Logger) *Extractor {
	return &Extractor{
		cfg:    cfg,
		logger: logger.With().Str("component", "Extractor").Logger(),
	}
}

// Extract parses the HTML and produces the PageContent for pageURL.
func (e *Extractor) Extract(pageURL, rawHTML string) (*models.PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	content := &models.PageContent{
		URL:                    pageURL,
		PageTitle:              e.extractTitle(doc, pageURL),
		ExistingStructuredData: e.extractStructuredData(doc),
		Breadcrumbs:            e.extractBreadcrumbs(doc),
	}

	// Structured data and breadcrumbs are read before chrome stripping
	// mutates the document.
	content.MainText = e.extractMainText(doc)

	return content, nil
}

func (e *Extractor) extractTitle(doc *goquery.Document, pageURL string) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return pageURL
	}
	return title
}

// extractStructuredData collects every JSON-LD script on the page.
// Parseable payloads are re-serialized pretty; malformed ones are kept
// raw rather than dropped.
func (e *Extractor) extractStructuredData(doc *goquery.Document) []string {
	var blocks []string
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(raw), "", "  "); err == nil {
			blocks = append(blocks, buf.String())
		} else {
			blocks = append(blocks, raw)
		}
	})
	return blocks
}

func (e *Extractor) extractBreadcrumbs(doc *goquery.Document) []models.Breadcrumb {
	for _, selector := range breadcrumbSelectors {
		var crumbs []models.Breadcrumb
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			name := strings.TrimSpace(sel.Text())
			if name == "" {
				return
			}
			href, _ := sel.Attr("href")
			crumbs = append(crumbs, models.Breadcrumb{Name: name, URL: href})
		})
		if len(crumbs) > 0 {
			return crumbs
		}
	}
	return nil
}

// extractMainText strips chrome and metadata regions, then collects the
// remaining text with whitespace collapsed and boilerplate removed.
func (e *Extractor) extractMainText(doc *goquery.Document) string {
	for _, selector := range chromeSelectors {
		doc.Find(selector).Remove()
	}

	// Secondary denoising: metadata blocks identified by class wording.
	doc.Find("[class]").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		if mediaMetaClassRe.MatchString(class) {
			sel.Remove()
		}
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		return ""
	}

	var sb strings.Builder
	for _, node := range body.Nodes {
		collectText(node, &sb)
	}

	text := sb.String()
	for _, re := range boilerplateRes {
		text = re.ReplaceAllString(text, " ")
	}
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

	if e.cfg.MainTextMaxChars > 0 && len(text) > e.cfg.MainTextMaxChars {
		cut := e.cfg.MainTextMaxChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}

// collectText walks the node tree, emitting text nodes and descriptive
// image alt text. Short or generic alts are dropped.
func collectText(node *html.Node, sb *strings.Builder) {
	if node.Type == html.TextNode {
		if trimmed := strings.TrimSpace(node.Data); trimmed != "" {
			sb.WriteString(trimmed)
			sb.WriteByte(' ')
		}
		return
	}

	if node.Type == html.ElementNode && node.Data == "img" {
		for _, attr := range node.Attr {
			if attr.Key != "alt" {
				continue
			}
			alt := strings.TrimSpace(attr.Val)
			if len(alt) > 25 && !genericAltRe.MatchString(alt) {
				sb.WriteString(alt)
				sb.WriteByte(' ')
			}
		}
		return
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, sb)
	}
}
