// Package i18n localises chart titles and labels.
//
// Message keys are the English texts; translations are registered in a
// private catalog so nothing leaks into the x/text default catalog.
// Arguments are always strings: the printer would otherwise digit-group
// years ("2,013").
package i18n

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/okian/unirank/internal/domain/model"
)

// Supported locales.
const (
	English = "en"
	Russian = "ru"
)

// Translator formats localised texts for one locale.
type Translator struct {
	locale  string
	tag     language.Tag
	printer *message.Printer
	title   cases.Caser
}

var dictionary = catalog.NewBuilder(catalog.Fallback(language.English))

func init() {
	for key, ru := range russian {
		if err := dictionary.SetString(language.Russian, key, ru); err != nil {
			panic("i18n: " + err.Error())
		}
	}
}

// New returns a Translator for locale. Unsupported locales fall back to
// English.
func New(locale string) *Translator {
	tag := language.English
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == Russian {
		tag = language.Russian
	} else {
		locale = English
	}
	return &Translator{
		locale:  locale,
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(dictionary)),
		title:   cases.Title(tag),
	}
}

// Supported reports whether locale has a catalog.
func Supported(locale string) bool {
	l := strings.ToLower(strings.TrimSpace(locale))
	return l == English || l == Russian
}

// Locale returns the resolved locale code.
func (t *Translator) Locale() string { return t.locale }

// T formats the message registered under key.
func (t *Translator) T(key string, args ...string) string {
	vals := make([]interface{}, len(args))
	for i, a := range args {
		vals[i] = a
	}
	return t.printer.Sprintf(key, vals...)
}

// Field returns the display label of a numeric field.
func (t *Translator) Field(f model.Field) string {
	if key, ok := fieldKeys[f]; ok {
		return t.T(key)
	}
	return t.title.String(strings.ReplaceAll(string(f), "_", " "))
}

var fieldKeys = map[model.Field]string{
	model.WorldRank:             "World rank",
	model.Teaching:              "Teaching",
	model.Research:              "Research",
	model.Citations:             "Citations",
	model.Income:                "Industry income",
	model.NumStudents:           "Number of students",
	model.StudentStaffRatio:     "Student/staff ratio",
	model.InternationalStudents: "Share of international students",
}
