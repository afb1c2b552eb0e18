package domain

import (
	"regexp"
	"strings"
)

var (
	// scriptRe and styleRe remove whole <script>/<style> regions, content
	// included, so executable or styling text never reaches classification.
	scriptRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)

	// lineBreakRe matches <br> and the closing tags of block-level elements;
	// both become newlines so paragraph and table-row structure survives as
	// line breaks in the plain text.
	lineBreakRe = regexp.MustCompile(`(?i)<(?:br\s*/?|/(?:p|div|li|h[1-6]|tr|td|th))\s*>`)

	// tagRe strips any remaining tag. Replaced with a space, not the empty
	// string, so words on either side of a tag boundary don't concatenate.
	tagRe = regexp.MustCompile(`<[^>]*>`)

	spaceRunRe = regexp.MustCompile(`[ \t]+`)
	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// entityReplacer decodes the entity set the district page actually emits.
// &amp; is decoded last so double-encoded sequences like &amp;nbsp; come out
// as the literal "&nbsp;" instead of being decoded twice.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&quot;", `"`,
	"&#39;", "'",
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
)

// Normalize converts an HTML document into clean, line-oriented plain text.
// Script and style regions are dropped entirely, block-level boundaries
// become newlines, remaining tags are stripped, entities are decoded, and
// whitespace is collapsed. Entity decoding happens only after tag stripping:
// decoding &lt;/&gt; first would let encoded markup leak through as tags.
// Pure and deterministic for identical input.
func Normalize(html string) string {
	text := scriptRe.ReplaceAllString(html, "")
	text = styleRe.ReplaceAllString(text, "")
	text = lineBreakRe.ReplaceAllString(text, "\n")
	text = tagRe.ReplaceAllString(text, " ")
	text = entityReplacer.Replace(text)

	text = spaceRunRe.ReplaceAllString(text, " ")
	text = blankRunRe.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
