package numfmt

import (
	"os"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a named Format drawn from CLDR number conventions.
type Locale struct {
	CustomFormat
	name string
}

// Name returns the BCP 47 name of the locale, or "posix".
func (l Locale) Name() string { return l.name }

func newLocale(name, dec, sep, min string, grp Grouping) Locale {
	return Locale{name: name, CustomFormat: CustomFormat{dec: dec, grp: grp, min: min, sep: sep}}
}

var (
	English       = newLocale("en", ".", ",", "-", Standard)
	IndianEnglish = newLocale("en-IN", ".", ",", "-", Indian)
	French        = newLocale("fr", ",", "\u202f", "-", Standard)
	German        = newLocale("de", ",", ".", "-", Standard)
	SwissGerman   = newLocale("de-CH", ".", "\u2019", "-", Standard)
	Swedish       = newLocale("sv", ",", "\u00a0", "\u2212", Standard)
	PosixLocale   = newLocale("posix", ".", "", "-", Posix)
)

var locales = map[string]Locale{
	"en":    English,
	"en-IN": IndianEnglish,
	"hi":    newLocale("hi", ".", ",", "-", Indian),
	"fr":    French,
	"de":    German,
	"de-CH": SwissGerman,
	"it":    newLocale("it", ",", ".", "-", Standard),
	"es":    newLocale("es", ",", ".", "-", Standard),
	"pt":    newLocale("pt", ",", ".", "-", Standard),
	"ru":    newLocale("ru", ",", "\u00a0", "-", Standard),
	"sv":    Swedish,
	"ja":    newLocale("ja", ".", ",", "-", Standard),
	"zh":    newLocale("zh", ".", ",", "-", Standard),
}

var (
	localeNames []string
	localeTags  []language.Tag
	matcher     language.Matcher
)

func init() {
	localeNames = make([]string, 0, len(locales))
	for name := range locales {
		if name != "en" {
			localeNames = append(localeNames, name)
		}
	}
	sort.Strings(localeNames)
	// The first supported tag is the matcher's fallback.
	localeNames = append([]string{"en"}, localeNames...)

	localeTags = make([]language.Tag, len(localeNames))
	for i, name := range localeNames {
		localeTags[i] = language.MustParse(name)
	}
	matcher = language.NewMatcher(localeTags)
}

// Locales returns the names of all built-in locales, plus "posix".
func Locales() []string {
	names := append([]string(nil), localeNames...)
	return append(names, PosixLocale.name)
}

// LocaleByName resolves a locale name such as "en", "en_US.UTF-8" or "hi-IN"
// to the closest built-in locale. "C" and "POSIX" resolve to PosixLocale.
func LocaleByName(name string) (Locale, error) {
	raw := name
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	name = strings.ReplaceAll(strings.TrimSpace(name), "_", "-")

	switch strings.ToLower(name) {
	case "c", "posix":
		return PosixLocale, nil
	case "":
		return Locale{}, &Error{Kind: KindParseLocale, Msg: raw}
	}

	tag, err := language.Parse(name)
	if err != nil {
		return Locale{}, &Error{Kind: KindParseLocale, Msg: raw}
	}
	if l, ok := locales[tag.String()]; ok {
		return l, nil
	}
	// The matcher falls back to "en" for languages it has no entry for, so
	// a match only counts when the base language agrees.
	_, idx, conf := matcher.Match(tag)
	if conf == language.No || !sameBase(tag, localeTags[idx]) {
		return Locale{}, &Error{Kind: KindParseLocale, Msg: raw}
	}
	return locales[localeNames[idx]], nil
}

func sameBase(a, b language.Tag) bool {
	ab, _ := a.Base()
	bb, _ := b.Base()
	return ab == bb
}

// FromEnv picks the locale named by LC_ALL, LC_NUMERIC or LANG, in that
// order, falling back to PosixLocale when none is set. A nil getenv reads the
// process environment.
func FromEnv(getenv func(string) string) (Locale, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, key := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		if v := getenv(key); v != "" {
			return LocaleByName(v)
		}
	}
	return PosixLocale, nil
}
