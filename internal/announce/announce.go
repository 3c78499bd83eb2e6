// Package announce renders the operator-facing texts pushed to scoreboard
// viewers as server messages.
package announce

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	keyOrdinal          = "ordinal %d"
	keyFirstStarted     = "first quarter started"
	keyPeriodStarted    = "%s quarter started"
	keyPeriodAdvanced   = "advancing to the %s quarter (%d/%d)"
	keyPeriodSet        = "set to the %s quarter"
	keyOvertimeStarted  = "overtime %d started"
	keyPeriodRestarted  = "%s quarter restarted"
	keyOvertimeRestart  = "overtime %d restarted"
	keyPeriodFinished   = "end of the %s quarter"
	keyOvertimeFinished = "end of overtime %d"
	keyHalftime         = "halftime"
	keyBreak            = "break"
	keyNoActivePeriod   = "no quarter in progress"
	keyCannotGoBack     = "cannot go back"
	keyMatchFinalized   = "match %s finalized"
)

type translation struct {
	en, es string
}

var entries = map[string]translation{
	keyOrdinal:          {en: "%dth", es: "%d°"},
	keyFirstStarted:     {en: "First quarter started.", es: "Inicia el primer cuarto."},
	keyPeriodStarted:    {en: "%s quarter started.", es: "Inicia el %s cuarto."},
	keyPeriodAdvanced:   {en: "Advancing to the %s quarter (%d/%d).", es: "Avanzamos al %s cuarto (%d/%d)."},
	keyPeriodSet:        {en: "Set to the %s quarter.", es: "Se estableció el %s cuarto."},
	keyOvertimeStarted:  {en: "Overtime %d started.", es: "Inicia la prórroga %d."},
	keyPeriodRestarted:  {en: "%s quarter restarted.", es: "Se reinicia el %s cuarto."},
	keyOvertimeRestart:  {en: "Overtime %d restarted.", es: "Se reinicia la prórroga %d."},
	keyPeriodFinished:   {en: "End of the %s quarter.", es: "Termina el %s cuarto."},
	keyOvertimeFinished: {en: "End of overtime %d.", es: "Termina la prórroga %d."},
	keyHalftime:         {en: "Halftime.", es: "Medio tiempo."},
	keyBreak:            {en: "Break.", es: "Descanso."},
	keyNoActivePeriod:   {en: "No quarter is in progress.", es: "No hay un cuarto en curso."},
	keyCannotGoBack:     {en: "Cannot go back to a previous quarter.", es: "No se puede regresar a un cuarto anterior."},
	keyMatchFinalized:   {en: "Match #%s finalized.", es: "Partido #%s finalizado."},
}

// Named ordinals; anything past the fourth quarter falls back to keyOrdinal.
var ordinals = map[language.Tag][]string{
	language.English: {"first", "second", "third", "fourth"},
	language.Spanish: {"primer", "segundo", "tercer", "cuarto"},
}

var (
	supported = []language.Tag{language.English, language.Spanish}
	matcher   = language.NewMatcher(supported)
	messages  = buildCatalog()
)

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, tr := range entries {
		_ = b.SetString(language.English, key, tr.en)
		_ = b.SetString(language.Spanish, key, tr.es)
	}
	return b
}

// Messages prints announcements in a single language.
type Messages struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns Messages for the closest supported language. Unknown or empty
// values resolve to English.
func New(lang string) *Messages {
	tag := language.English
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			_, idx, conf := matcher.Match(parsed)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}
	return &Messages{tag: tag, printer: message.NewPrinter(tag, message.Catalog(messages))}
}

// Supported reports whether lang maps to a known catalog.
func Supported(lang string) bool {
	parsed, err := language.Parse(lang)
	if err != nil {
		return false
	}
	_, _, conf := matcher.Match(parsed)
	return conf != language.No
}

// Language returns the resolved language tag.
func (m *Messages) Language() language.Tag {
	return m.tag
}

// Ordinal renders a quarter number as an ordinal adjective.
func (m *Messages) Ordinal(n int) string {
	if names := ordinals[m.tag]; n >= 1 && n <= len(names) {
		return names[n-1]
	}
	return m.printer.Sprintf(keyOrdinal, n)
}

func (m *Messages) PeriodStarted(number, total int, overtime bool) string {
	switch {
	case overtime:
		return m.printer.Sprintf(keyOvertimeStarted, overtimeIndex(number, total))
	case number == 1:
		return m.printer.Sprintf(keyFirstStarted)
	default:
		return capitalize(m.printer.Sprintf(keyPeriodStarted, m.Ordinal(number)))
	}
}

func (m *Messages) PeriodAdvanced(number, total int) string {
	if number == 1 {
		return m.printer.Sprintf(keyFirstStarted)
	}
	return m.printer.Sprintf(keyPeriodAdvanced, m.Ordinal(number), number, total)
}

// PeriodSet announces an operator jumping straight to a regulation quarter.
func (m *Messages) PeriodSet(number int) string {
	return m.printer.Sprintf(keyPeriodSet, m.Ordinal(number))
}

func (m *Messages) PeriodRestarted(number, total int, overtime bool) string {
	if overtime {
		return m.printer.Sprintf(keyOvertimeRestart, overtimeIndex(number, total))
	}
	return capitalize(m.printer.Sprintf(keyPeriodRestarted, m.Ordinal(number)))
}

// PeriodFinished announces the end of a quarter, followed by the break label
// when one applies ("halftime" or "break").
func (m *Messages) PeriodFinished(number, total int, overtime bool, label string) string {
	var text string
	if overtime {
		text = m.printer.Sprintf(keyOvertimeFinished, overtimeIndex(number, total))
	} else {
		text = m.printer.Sprintf(keyPeriodFinished, m.Ordinal(number))
	}
	switch label {
	case "halftime":
		text += " " + m.printer.Sprintf(keyHalftime)
	case "break":
		text += " " + m.printer.Sprintf(keyBreak)
	}
	return text
}

func (m *Messages) NoActivePeriod() string {
	return m.printer.Sprintf(keyNoActivePeriod)
}

func (m *Messages) CannotGoBack() string {
	return m.printer.Sprintf(keyCannotGoBack)
}

// MatchFinalized prints the id verbatim; the printer would otherwise group
// its digits.
func (m *Messages) MatchFinalized(matchID int64) string {
	return m.printer.Sprintf(keyMatchFinalized, strconv.FormatInt(matchID, 10))
}

// overtimeIndex numbers overtime periods from one.
func overtimeIndex(number, total int) int {
	if idx := number - total; idx > 0 {
		return idx
	}
	return 1
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
