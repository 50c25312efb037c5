package render

import (
	"strings"
	"unicode"

	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

const MaxLabelRunes = 24

// Label makes a team name safe to draw: non-printable runes are dropped and
// long names are cut with an ellipsis.
func Label(name string) string {
	var b strings.Builder
	n := 0
	for _, r := range name {
		if !unicode.IsPrint(r) {
			continue
		}
		if n == MaxLabelRunes {
			return strings.TrimSpace(b.String()) + "…"
		}
		b.WriteRune(r)
		n++
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return types.UnknownName
	}
	return out
}
