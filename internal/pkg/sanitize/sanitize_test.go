package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "ran 5k this morning", "ran 5k this morning"},
		{"strips tags", "<b>done</b> <script>alert(1)</script>", "done"},
		{"trims", "   hi  ", "hi"},
		{"empty", "", ""},
		{"apostrophe", "I'm done", "I'm done"},
		{"ampersand", "5k & 10k", "5k & 10k"},
		{"quotes", `he said "nice"`, `he said "nice"`},
		{"tags around entities", "<i>fish &amp; chips</i>", "fish & chips"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.input))
		})
	}
}

func TestPost(t *testing.T) {
	assert.Equal(t, "<b>bold</b>", Post("<b>bold</b>"))
	assert.Equal(t, "hello", Post("hello<script>alert(1)</script>"))
}
