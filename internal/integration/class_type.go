package integration

import "strings"

// Canonical class types.
const (
	ClassSalsaOn1 = "salsa_on1"
	ClassSalsaOn2 = "salsa_on2"
	ClassSalsa    = "salsa"
	ClassBachata  = "bachata"
	ClassCasino   = "casino"
	ClassPachanga = "pachanga"
	ClassPrivate  = "private"
	ClassOther    = "other"
)

var classTypeAliases = map[string]string{
	"salsa_on1":         ClassSalsaOn1,
	"salsa_on_1":        ClassSalsaOn1,
	"salsa_on_one":      ClassSalsaOn1,
	"on1":               ClassSalsaOn1,
	"salsa_on2":         ClassSalsaOn2,
	"salsa_on_2":        ClassSalsaOn2,
	"salsa_on_two":      ClassSalsaOn2,
	"on2":               ClassSalsaOn2,
	"salsa":             ClassSalsa,
	"bachata":           ClassBachata,
	"bachata_sensual":   ClassBachata,
	"sensual_bachata":   ClassBachata,
	"bachata_dominican": ClassBachata,
	"casino":            ClassCasino,
	"rueda":             ClassCasino,
	"rueda_de_casino":   ClassCasino,
	"cuban_salsa":       ClassCasino,
	"timba":             ClassCasino,
	"pachanga":          ClassPachanga,
	"private":           ClassPrivate,
	"private_lesson":    ClassPrivate,
	"private_lessons":   ClassPrivate,
	"other":             ClassOther,
}

// NormalizeClassType maps free-form class type strings onto the canonical set.
// Unknown values become "other".
func NormalizeClassType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '/', '\t':
			return '_'
		}
		return r
	}, s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "_")
	if v, ok := classTypeAliases[s]; ok {
		return v
	}
	return ClassOther
}
