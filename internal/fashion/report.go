package fashion

import (
	"net/url"
	"strings"
	"unicode"

	"style-finder/internal/analysis"
)

const productSearchBase = "https://www.nordstrom.com/s/"

type section int

const (
	sectionUnknown section = iota
	sectionDescription
	sectionColors
	sectionApparel
	sectionAccessories
	sectionTips
	sectionItems
)

// ParseReport turns the markdown answer of a vision model into a Result.
// Sections are introduced by "###" headings; unknown sections are ignored.
func ParseReport(text string) analysis.Result {
	res := analysis.Result{SuggestedItems: []analysis.Item{}}

	for _, chunk := range strings.Split(text, "###") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		title, body, _ := strings.Cut(chunk, "\n")
		body = cleanMarkdown(body)

		switch classify(strings.ToLower(strings.TrimSpace(title))) {
		case sectionDescription:
			res.Analysis.Description = body
		case sectionColors:
			res.Analysis.ColorTones = body
		case sectionApparel:
			res.Analysis.CoreApparel = body
		case sectionAccessories:
			res.Analysis.Accessories = body
		case sectionTips:
			res.FashionTips = strings.Join(parseTips(body), "\n")
		case sectionItems:
			res.SuggestedItems = parseItems(body)
		}
	}
	return res
}

func cleanMarkdown(body string) string {
	body = strings.ReplaceAll(body, "*", "")
	body = strings.ReplaceAll(body, "---", "")
	return strings.TrimSpace(body)
}

// classify matches headings like "1. Description" or "Color Tones".
// The order of the checks matters.
func classify(title string) section {
	switch {
	case strings.Contains(title, "description") || strings.Contains(title, "1."):
		return sectionDescription
	case strings.Contains(title, "color") || strings.Contains(title, "2."):
		return sectionColors
	case strings.Contains(title, "core") || strings.Contains(title, "apparel") || strings.Contains(title, "3."):
		return sectionApparel
	case strings.Contains(title, "accessories") || strings.Contains(title, "4."):
		return sectionAccessories
	case strings.Contains(title, "fashion tips") || strings.Contains(title, "5."):
		return sectionTips
	case strings.Contains(title, "similar items") || strings.Contains(title, "6."):
		return sectionItems
	default:
		return sectionUnknown
	}
}

func parseTips(body string) []string {
	var tips []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") {
			continue
		}
		if tip := trimBullet(line); tip != "" {
			tips = append(tips, tip)
		}
	}
	return tips
}

func parseItems(body string) []analysis.Item {
	items := []analysis.Item{}
	var current *analysis.Item

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if name, ok := numberedName(line); ok {
			if current != nil {
				items = append(items, *current)
			}
			link := productLink(name)
			current = &analysis.Item{Name: name, ImageURL: link, ProductURL: link}
			continue
		}
		if !strings.HasPrefix(line, "-") || current == nil {
			continue
		}
		line = trimBullet(line)
		if isPriceLine(line) {
			continue
		}
		if _, desc, ok := strings.Cut(line, "Description:"); ok {
			current.Description = strings.TrimSpace(desc)
		} else {
			current.Description = line
		}
	}
	if current != nil {
		items = append(items, *current)
	}

	named := items[:0]
	for _, item := range items {
		if item.Name != "" {
			named = append(named, item)
		}
	}
	return named
}

// numberedName extracts the name from "2. Leather Belt". Text after a second
// period is dropped.
func numberedName(line string) (string, bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || line[i] != '.' {
		return "", false
	}
	name := line[i+1:]
	if head, _, ok := strings.Cut(name, "."); ok {
		name = head
	}
	name = strings.TrimSpace(name)
	name = strings.TrimRightFunc(name, func(r rune) bool { return r == ':' || unicode.IsSpace(r) })
	return name, true
}

func trimBullet(line string) string {
	return strings.TrimSpace(strings.Trim(line, "- "))
}

func isPriceLine(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "price range") || strings.Contains(lower, "estimated price")
}

func productLink(name string) string {
	slug := strings.ReplaceAll(strings.ToLower(name), " ", "-")
	return productSearchBase + url.PathEscape(slug)
}
