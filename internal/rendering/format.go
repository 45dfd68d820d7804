package rendering

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Supported lists the display languages, the first being the fallback.
var Supported = []language.Tag{
	language.English,
	language.German,
	language.French,
	language.Spanish,
	language.Portuguese,
}

var matcher = language.NewMatcher(Supported)

// LanguageFor picks the display language from an Accept-Language header.
func LanguageFor(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Supported[0]
	}
	_, idx, _ := matcher.Match(tags...)
	return Supported[idx]
}

// FormatPrice formats amount in the ISO 4217 currency iso for tag, with the
// currency's standard number of decimals. Unknown currencies fall back to
// the code after the number.
func FormatPrice(tag language.Tag, amount float64, iso string) string {
	p := message.NewPrinter(tag)
	unit, err := currency.ParseISO(iso)
	if err != nil {
		return p.Sprintf("%v %s", number.Decimal(amount, number.Scale(2)), iso)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return p.Sprintf("%v %v", currency.Symbol(unit), number.Decimal(amount, number.Scale(scale)))
}

// FormatArea formats a floor area in square metres.
func FormatArea(tag language.Tag, sqm float64) string {
	return message.NewPrinter(tag).Sprintf("%v m²", number.Decimal(sqm, number.MaxFractionDigits(0)))
}
