package lang

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// dateLayouts are tried in order by [ParseDate].
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateTime,
	"2006-01-02 15:04",
	time.DateOnly,
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.RFC822Z,
	time.RFC822,
	time.ANSIC,
	time.UnixDate,
}

// localizedLayouts are tried with the scope locale's month and day names.
var localizedLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"Monday, January 2, 2006",
	"January 2006",
}

var relativeDate = regexp.MustCompile(
	`^([+-]?\d+)\s*(sec|second|min|minute|hour|day|week|month|year)s?(\s+ago)?$`,
)

// ParseDate interprets text as a point in time the way strtotime does for the
// common cases: absolute layouts, "@<unix>", "now", "today", "tomorrow",
// "yesterday" and relative offsets such as "+3 days" or "2 weeks ago".
// Relative forms are anchored to the scope's current time.
func ParseDate(s *Scope, text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	now := time.Now()
	if s != nil {
		now = s.Now()
	}

	loc := now.Location()

	lower := strings.ToLower(text)

	switch lower {
	case "now":
		return now, true
	case "today", "midnight":
		return midnight(now), true
	case "tomorrow":
		return midnight(now).AddDate(0, 0, 1), true
	case "yesterday":
		return midnight(now).AddDate(0, 0, -1), true
	}

	if rest, ok := strings.CutPrefix(lower, "@"); ok {
		sec, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return time.Time{}, false
		}

		return time.Unix(sec, 0).In(loc), true
	}

	if m := relativeDate.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}

		if m[3] != "" {
			n = -n
		}

		return addUnits(now, n, m[2]), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, true
		}
	}

	var locale monday.Locale = monday.LocaleEnUS
	if s != nil {
		locale = mondayLocale(s.Locale())
	}

	for _, layout := range localizedLayouts {
		if t, err := monday.ParseInLocation(layout, text, loc, locale); err == nil {
			return t, true
		}

		if locale != monday.LocaleEnUS {
			if t, err := time.ParseInLocation(layout, text, loc); err == nil {
				return t, true
			}
		}
	}

	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func addUnits(t time.Time, n int, unit string) time.Time {
	switch unit {
	case "sec", "second":
		return t.Add(time.Duration(n) * time.Second)
	case "min", "minute":
		return t.Add(time.Duration(n) * time.Minute)
	case "hour":
		return t.Add(time.Duration(n) * time.Hour)
	case "day":
		return t.AddDate(0, 0, n)
	case "week":
		return t.AddDate(0, 0, 7*n)
	case "month":
		return t.AddDate(0, n, 0)
	case "year":
		return t.AddDate(n, 0, 0)
	default:
		return t
	}
}

// mondayLocales maps "language" and "language_REGION" to supported locales.
var mondayLocales = map[string]monday.Locale{
	"en":    monday.LocaleEnUS,
	"en_us": monday.LocaleEnUS,
	"en_gb": monday.LocaleEnGB,
	"de":    monday.LocaleDeDE,
	"de_de": monday.LocaleDeDE,
	"de_at": monday.LocaleDeDE,
	"de_ch": monday.LocaleDeDE,
	"fr":    monday.LocaleFrFR,
	"fr_fr": monday.LocaleFrFR,
	"fr_ca": monday.LocaleFrCA,
	"es":    monday.LocaleEsES,
	"es_es": monday.LocaleEsES,
	"it":    monday.LocaleItIT,
	"it_it": monday.LocaleItIT,
	"pt":    monday.LocalePtPT,
	"pt_pt": monday.LocalePtPT,
	"pt_br": monday.LocalePtBR,
	"nl":    monday.LocaleNlNL,
	"nl_nl": monday.LocaleNlNL,
	"nl_be": monday.LocaleNlBE,
	"ru":    monday.LocaleRuRU,
	"pl":    monday.LocalePlPL,
	"cs":    monday.LocaleCsCZ,
	"da":    monday.LocaleDaDK,
	"fi":    monday.LocaleFiFI,
	"sv":    monday.LocaleSvSE,
	"nb":    monday.LocaleNbNO,
	"ja":    monday.LocaleJaJP,
	"zh":    monday.LocaleZhCN,
	"zh_tw": monday.LocaleZhTW,
	"ko":    monday.LocaleKoKR,
	"tr":    monday.LocaleTrTR,
	"uk":    monday.LocaleUkUA,
	"el":    monday.LocaleElGR,
	"ro":    monday.LocaleRoRO,
	"hu":    monday.LocaleHuHU,
	"bg":    monday.LocaleBgBG,
}

// mondayLocale maps a BCP 47 tag to the closest supported monday locale,
// defaulting to US English.
func mondayLocale(locale string) monday.Locale {
	tag, err := language.Parse(locale)
	if err != nil {
		return monday.LocaleEnUS
	}

	base, _ := tag.Base()
	region, _ := tag.Region()

	key := strings.ToLower(base.String())
	if l, ok := mondayLocales[key+"_"+strings.ToLower(region.String())]; ok {
		return l
	}

	if l, ok := mondayLocales[key]; ok {
		return l
	}

	return monday.LocaleEnUS
}

// phpLayout maps PHP date format characters to Go layout fragments.
var phpLayout = map[rune]string{
	'd': "02",
	'D': "Mon",
	'j': "2",
	'l': "Monday",
	'F': "January",
	'M': "Jan",
	'm': "01",
	'n': "1",
	'Y': "2006",
	'y': "06",
	'a': "pm",
	'A': "PM",
	'g': "3",
	'h': "03",
	'H': "15",
	'i': "04",
	's': "05",
	'T': "MST",
	'e': "MST",
	'O': "-0700",
	'P': "-07:00",
	'c': time.RFC3339,
	'r': time.RFC1123Z,
}

// FormatDate formats t using PHP date format characters, with month and day
// names in the given locale. Each format character is rendered on its own so
// literal text is never mistaken for a Go layout token. A backslash escapes
// the next character.
func FormatDate(t time.Time, format, locale string) string {
	ml := mondayLocale(locale)

	var sb strings.Builder

	escaped := false

	for _, r := range format {
		if escaped {
			sb.WriteRune(r)

			escaped = false

			continue
		}

		switch r {
		case '\\':
			escaped = true

		case 'G':
			sb.WriteString(strconv.Itoa(t.Hour()))

		case 'N':
			wd := int(t.Weekday())
			if wd == 0 {
				wd = 7
			}

			sb.WriteString(strconv.Itoa(wd))

		case 'w':
			sb.WriteString(strconv.Itoa(int(t.Weekday())))

		case 'z':
			sb.WriteString(strconv.Itoa(t.YearDay() - 1))

		case 'S':
			sb.WriteString(ordinalSuffix(t.Day()))

		case 'U':
			sb.WriteString(strconv.FormatInt(t.Unix(), 10))

		case 't':
			sb.WriteString(strconv.Itoa(daysIn(t)))

		default:
			if layout, ok := phpLayout[r]; ok {
				sb.WriteString(monday.Format(t, layout, ml))
			} else {
				sb.WriteRune(r)
			}
		}
	}

	return sb.String()
}

func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}

	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// TimeDiff describes the distance between t and now in words, such as
// "3 days ago" or "in 2 hours".
func TimeDiff(t, now time.Time) string {
	d := now.Sub(t)

	future := d < 0
	if future {
		d = -d
	}

	var (
		n    int64
		unit string
	)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		n, unit = int64(d/time.Minute), "minute"
	case d < 24*time.Hour:
		n, unit = int64(d/time.Hour), "hour"
	case d < 7*24*time.Hour:
		n, unit = int64(d/(24*time.Hour)), "day"
	case d < 30*24*time.Hour:
		n, unit = int64(d/(7*24*time.Hour)), "week"
	case d < 365*24*time.Hour:
		n, unit = int64(d/(30*24*time.Hour)), "month"
	default:
		n, unit = int64(d/(365*24*time.Hour)), "year"
	}

	if n != 1 {
		unit += "s"
	}

	phrase := strconv.FormatInt(n, 10) + " " + unit
	if future {
		return "in " + phrase
	}

	return phrase + " ago"
}

// Age returns the number of whole years between t and now.
func Age(t, now time.Time) int {
	years := now.Year() - t.Year()
	if now.Month() < t.Month() || (now.Month() == t.Month() && now.Day() < t.Day()) {
		years--
	}

	if years < 0 {
		return 0
	}

	return years
}
