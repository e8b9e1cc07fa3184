// Package badge maps item visibility to the label shown on a permission badge
package badge

import "fmt"

// Visibility values
const (
	Open          = "open"
	Authenticated = "authenticated" // visible to anyone registered with the institution
	Restricted    = "restricted"
)

// Translator looks up a localized string by key
type Translator interface {
	Translate(key string) string
}

// TranslatorFunc is a function that can be used to satisfy the Translator interface
type TranslatorFunc func(key string) string

// Translate a key
func (f TranslatorFunc) Translate(key string) string {
	return f(key)
}

// Badge is the label and CSS class describing a visibility
type Badge struct {
	Visibility string
	Text       string
	Class      string
}

// TextKey is the translation key for a visibility's label text
func TextKey(visibility string) string {
	return fmt.Sprintf("hyrax.visibility.%s.text", visibility)
}

// ClassKey is the translation key for a visibility's CSS class
func ClassKey(visibility string) string {
	return fmt.Sprintf("hyrax.visibility.%s.class", visibility)
}

// New creates the badge for a visibility.  Items visible to registered users are labelled
// with the institution's name rather than the generic translation.
func New(visibility string, t Translator, institution string) Badge {
	text := institution
	if visibility != Authenticated {
		text = t.Translate(TextKey(visibility))
	}

	return Badge{
		Visibility: visibility,
		Text:       text,
		Class:      "label " + t.Translate(ClassKey(visibility)),
	}
}
