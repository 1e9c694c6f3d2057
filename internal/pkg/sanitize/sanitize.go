package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// Text strips all markup and returns plain text. Used for submission text,
// comments and reasons, which are later quoted inside generated feed posts.
// The strict policy escapes entities, so they are decoded again.
func Text(input string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(input)))
}

// Post keeps the safe subset of HTML allowed in user-authored feed posts.
func Post(input string) string {
	return strings.TrimSpace(ugc.Sanitize(input))
}
