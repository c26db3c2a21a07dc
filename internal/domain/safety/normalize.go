package safety

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldKey strips diacritics, upper-cases and collapses whitespace so that
// "Função", "FUNCAO" and " funcao " compare equal.
func FoldKey(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(strings.Join(strings.Fields(folded), " "))
}

// AllRoles is the reserved role filter meaning every role. It matches only
// this exact spelling, so an employee role named "All" can still be selected.
const AllRoles = "all"

// RoleFilter trims a role filter and maps AllRoles to "", the dashboard's
// unfiltered value.
func RoleFilter(raw string) string {
	role := strings.TrimSpace(raw)
	if role == AllRoles {
		return ""
	}
	return role
}

var enumSeparators = strings.NewReplacer("_", " ", "-", " ")

func enumKey(s string) string {
	return FoldKey(enumSeparators.Replace(s))
}
