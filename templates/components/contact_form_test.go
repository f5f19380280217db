package components

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactForm(t *testing.T) {
	var buf bytes.Buffer
	err := ContactForm(ContactFormProps{ID: `x"y`, Heading: "Hi", ShowTerms: true}).Render(context.Background(), &buf)
	assert.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `id="x&#34;y"`)
	assert.Contains(t, html, `name="terms_accepted"`)
	assert.Contains(t, html, ">Submit Request</button>")
}

func TestJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, JSON(map[string]int{"a": 1}))
	assert.Equal(t, "{}", JSON(make(chan int)))
}
