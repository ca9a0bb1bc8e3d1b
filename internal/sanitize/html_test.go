package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "script tag", input: `Standup <script>alert('xss')</script>`, expected: "Standup"},
		{name: "inline handler", input: `<div onclick="alert('xss')">Dentist</div>`, expected: "Dentist"},
		{name: "ampersand survives", input: "Lunch & learn", expected: "Lunch & learn"},
		{name: "color untouched", input: "  #ff8800 ", expected: "#ff8800"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Text(tt.input))
		})
	}
}

func TestHTML(t *testing.T) {
	got := HTML(`<p>Bring <strong>slides</strong></p><script>alert(1)</script>`)
	assert.Equal(t, "<p>Bring <strong>slides</strong></p>", got)

	got = HTML(`<a href="javascript:alert(1)" onclick="x()">link</a>`)
	assert.NotContains(t, got, "javascript:")
	assert.NotContains(t, got, "onclick")
}
