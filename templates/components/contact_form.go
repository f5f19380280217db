package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// ContactFormProps configures one contact form instance on a page
type ContactFormProps struct {
	// ID must be unique on the page; it keys the form's challenge widget
	ID          string
	Heading     string
	ShowTerms   bool
	Checkbox    bool
	SiteKey     string
	ButtonLabel string
}

// ContactForm renders a contact form with its own status region. Checkbox
// challenges get a widget container bound to the form id.
func ContactForm(p ContactFormProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		label := p.ButtonLabel
		if label == "" {
			label = "Submit Request"
		}

		if _, err := fmt.Fprintf(w, `<form id="%s" class="js-contact-form" novalidate>`, templ.EscapeString(p.ID)); err != nil {
			return err
		}
		if p.Heading != "" {
			if _, err := fmt.Fprintf(w, `<h2>%s</h2>`, templ.EscapeString(p.Heading)); err != nil {
				return err
			}
		}

		fields := `<input type="text" name="name" placeholder="Full name" required>` +
			`<input type="email" name="email" placeholder="Email" required>` +
			`<input type="tel" name="phone" placeholder="(555) 555-5555" required>` +
			`<textarea name="project_description" placeholder="Tell us about your project"></textarea>`
		if _, err := io.WriteString(w, fields); err != nil {
			return err
		}

		if p.ShowTerms {
			if _, err := io.WriteString(w, `<label><input type="checkbox" name="terms_accepted"> I agree to be contacted</label>`); err != nil {
				return err
			}
		}
		if p.Checkbox {
			if _, err := fmt.Fprintf(w, `<div class="js-recaptcha-widget" data-sitekey="%s"></div>`, templ.EscapeString(p.SiteKey)); err != nil {
				return err
			}
		}

		_, err := fmt.Fprintf(w, `<button type="submit">%s</button><div class="form-status hidden" role="status"></div></form>`, templ.EscapeString(label))
		return err
	})
}
