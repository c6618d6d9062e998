package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)

// Secondary formats seen in exported sheets. The M/D/YYYY fast path above
// covers both ledgers' native format.
var dateFormats = []string{
	"2006-01-02",
	"01-02-2006",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
}

// DOB rewrites a date-of-birth string to canonical M/D/YYYY form with
// leading zeros stripped. Unparseable input is returned trimmed as-is, so an
// exact lookup can still succeed when both systems share the oddity.
func DOB(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if m := slashDate.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s/%s/%s",
			strings.TrimLeft(m[1], "0"), strings.TrimLeft(m[2], "0"), m[3])
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return fmt.Sprintf("%d/%d/%d", t.Month(), t.Day(), t.Year())
		}
	}
	return s
}

// ServiceDate canonicalizes a date of service the same way as DOB. Both
// ledgers must agree on this form for match keys to join.
func ServiceDate(s string) string {
	return DOB(s)
}
