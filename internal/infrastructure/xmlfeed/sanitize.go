package xmlfeed

import (
	"regexp"
	"strings"
)

// DescriptionLimit is the maximum description length in characters
const DescriptionLimit = 500

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// entity replacements, applied in order; &amp; must come after &gt; and &lt;
var entityReplacements = [][2]string{
	{"&gt;", ">"},
	{"&lt;", "<"},
	{"&amp;", "&"},
	{"&nbsp;", " "},
	{"&quot;", `"`},
}

// CleanHTML strips markup, decodes a fixed set of entities and collapses whitespace.
// Unmatched angle brackets are kept as literal text.
func CleanHTML(text string) string {
	if text == "" {
		return ""
	}
	text = tagPattern.ReplaceAllString(text, "")
	for _, r := range entityReplacements {
		text = strings.ReplaceAll(text, r[0], r[1])
	}
	return strings.Join(strings.Fields(text), " ")
}

// truncate cuts s to at most limit characters
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
