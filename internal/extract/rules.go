package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/scout/internal/model"
)

// Building blocks shared by the rule tables. Keywords are matched
// case-insensitively via (?i:...) groups; names stay case-sensitive so that a
// "name" is always a run of capitalized words on one line. placeExpr captures
// a place in two groups; its ", Region" part only counts when it ends the clause.
const (
	nameExpr     = `[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)+`
	roleAbbrExpr = `CEO|CTO|CFO|CIO|CISO|COO|CMO|CPO|CSO|CRO`
	companyExpr  = `[A-Z][A-Za-z\s&]+?`
	placeWord    = `[A-Z][A-Za-z]*(?:[ \t]+[A-Z][A-Za-z]*)*`
	placeExpr    = `(` + placeWord + `)(?:(,[ \t]*` + placeWord + `)(?:[.,;:!?\n]|$))?`
	maxNameLen   = 50
	maxTitleLen  = 50
)

// PersonRule is one named people-extraction pattern
type PersonRule struct {
	Name       string
	Pattern    *regexp.Regexp
	NameGroup  int
	TitleGroup int
	MaxTitle   int // titles longer than this are truncated; 0 keeps them whole
}

// Match returns every valid candidate the rule finds, in text order.
// Candidates whose name fails ValidName are dropped.
func (r PersonRule) Match(content string) []model.DetectedPerson {
	var people []model.DetectedPerson
	for _, m := range r.Pattern.FindAllStringSubmatch(content, -1) {
		name := strings.TrimSpace(m[r.NameGroup])
		if !ValidName(name) {
			continue
		}
		title := strings.TrimSpace(m[r.TitleGroup])
		if r.MaxTitle > 0 && len(title) > r.MaxTitle {
			title = title[:r.MaxTitle]
		}
		people = append(people, model.DetectedPerson{Name: name, Title: title})
	}
	return people
}

// PeopleRules are applied in order; earlier rules win on duplicate names
var PeopleRules = []PersonRule{
	// "Jane Doe, VP of Sales" / "Jane Doe - CTO" / "Jane Doe (CFO)"
	{
		Name:       "name-then-title",
		Pattern:    regexp.MustCompile(`(` + nameExpr + `)(?:,\s*|\s*-\s*|\s*\()((?:` + roleAbbrExpr + `|VP|Vice President|Director|Head|Chief|President|Senior|Executive|General Manager)[\w\s]*?)(?:\)|,|\.|\s|$)`),
		NameGroup:  1,
		TitleGroup: 2,
	},
	// "CEO Jane Doe"
	{
		Name:       "title-then-name",
		Pattern:    regexp.MustCompile(`\b(` + roleAbbrExpr + `)\s+(` + nameExpr + `)`),
		NameGroup:  2,
		TitleGroup: 1,
	},
	// "Jane Doe was appointed as the new Chief Revenue Officer."
	{
		Name:       "appointment",
		Pattern:    regexp.MustCompile(`(` + nameExpr + `)\s+(?:(?i:was)\s+)?(?i:appointed|named|promoted|hired)\s+(?:(?i:as)\s+)?(?:(?i:the)\s+)?(?:(?i:new)\s+)?([\w\s]+?)(?:\.|,|$)`),
		NameGroup:  1,
		TitleGroup: 2,
		MaxTitle:   maxTitleLen,
	},
	// "the new CTO Jane Doe"
	{
		Name:       "new-title-name",
		Pattern:    regexp.MustCompile(`\b(?i:new)\s+((?i:` + roleAbbrExpr + `|VP[\w\s]*?|Vice President[\w\s]*?|Director[\w\s]*?|Head[\w\s]*?))\s+(` + nameExpr + `)`),
		NameGroup:  2,
		TitleGroup: 1,
	},
}

// Field identifies the DetectedStructure field a structure rule feeds
type Field string

const (
	FieldParentCompany Field = "parent_company"
	FieldSubsidiaries  Field = "subsidiaries"
	FieldOwnership     Field = "ownership_type"
	FieldStockSymbol   Field = "stock_symbol"
	FieldHeadquarters  Field = "headquarters"
	FieldCEO           Field = "ceo"
	FieldFoundedYear   Field = "founded_year"
)

// StructureRule is one named corporate-structure pattern.
// Rules with capture groups yield their groups joined; marker rules yield Value.
type StructureRule struct {
	Name    string
	Field   Field
	Pattern *regexp.Regexp
	Value   string
}

// Find returns the rule's value for the leftmost match in content
func (r StructureRule) Find(content string) (string, bool) {
	m := r.Pattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	if len(m) < 2 {
		return r.Value, true
	}
	return strings.TrimSpace(strings.Join(m[1:], "")), true
}

// StructureRules are grouped by field; within a field the first accepted match wins
var StructureRules = []StructureRule{
	{Name: "subsidiary-of", Field: FieldParentCompany, Pattern: regexp.MustCompile(`(?i:subsidiary|division|unit)\s+(?i:of)\s+(` + companyExpr + `)(?:\.|,|$)`)},
	{Name: "owned-by", Field: FieldParentCompany, Pattern: regexp.MustCompile(`(?i:owned|acquired)\s+(?i:by)\s+(` + companyExpr + `)(?:\.|,|\s+in\b|\s+for\b|$)`)},
	{Name: "parent-company", Field: FieldParentCompany, Pattern: regexp.MustCompile(`(?i:parent\s+company)\s+(?:(?i:is)\s+)?(` + companyExpr + `)(?:\.|,|$)`)},
	{Name: "part-of", Field: FieldParentCompany, Pattern: regexp.MustCompile(`(?i:part\s+of|belongs?\s+to)\s+(` + companyExpr + `)(?:\.|,|$)`)},

	{Name: "subsidiaries-include", Field: FieldSubsidiaries, Pattern: regexp.MustCompile(`(?i:subsidiaries|subsidiary)(?:\s+(?i:include|are)|\s*:)\s*([A-Z][A-Za-z\s,&]+?)(?:\.|$)`)},
	{Name: "owns", Field: FieldSubsidiaries, Pattern: regexp.MustCompile(`\b(?i:owns?)\s+([A-Z][A-Za-z\s,&]+?)(?:\.|,|\s+and\b)`)},
	{Name: "acquired", Field: FieldSubsidiaries, Pattern: regexp.MustCompile(`\b(?i:acquired)\s+(` + companyExpr + `)(?:\s+(?i:in)\s+\d{4}|\.|,)`)},

	{Name: "public-marker", Field: FieldOwnership, Value: string(model.OwnershipPublic), Pattern: regexp.MustCompile(`(?i)\b(?:publicly\s+traded|public\s+company|NYSE|NASDAQ|stock\s+exchange)\b`)},
	{Name: "private-marker", Field: FieldOwnership, Value: string(model.OwnershipPrivate), Pattern: regexp.MustCompile(`(?i)\b(?:privately\s+(?:held|owned)|private)\b`)},

	// one pattern so the leftmost ticker mention wins
	{Name: "ticker", Field: FieldStockSymbol, Pattern: regexp.MustCompile(`(?:(?i:trades?\s+(?:as|under))\s+|\b(?i:ticker(?:\s+symbol)?)[:\s]+|\b(?i:NYSE|NASDAQ)[:\s]+)([A-Z]{1,5})\b`)},

	{Name: "headquartered-in", Field: FieldHeadquarters, Pattern: regexp.MustCompile(`(?i:headquartered)\s+(?i:in)\s+` + placeExpr)},
	{Name: "based-in", Field: FieldHeadquarters, Pattern: regexp.MustCompile(`\b(?i:based|located)\s+(?i:in)\s+` + placeExpr)},
	{Name: "headquarters", Field: FieldHeadquarters, Pattern: regexp.MustCompile(`\b(?i:headquarters?)(?:\s+(?i:in)\s+|\s*:\s*)` + placeExpr)},

	{Name: "ceo-name", Field: FieldCEO, Pattern: regexp.MustCompile(`\b(?i:CEO|Chief\s+Executive\s+Officer)\s+(` + nameExpr + `)`)},

	{Name: "founded-in", Field: FieldFoundedYear, Pattern: regexp.MustCompile(`\b(?i:founded|established|started)\s+(?:(?i:in)\s+)?(\d{4})\b`)},
}

// ValidName reports whether s looks like a person's full name:
// at least two whitespace-separated tokens and shorter than 50 characters.
func ValidName(s string) bool {
	return len(strings.Fields(s)) >= 2 && len(s) < maxNameLen
}

// listSplitter separates "A, B and C" / "A, B, and C"
var listSplitter = regexp.MustCompile(`,\s*(?:and\s+)?|\s+and\s+`)

// splitNameList splits an enumeration of names, keeping items longer than 2 characters
func splitNameList(s string) []string {
	var out []string
	for _, part := range listSplitter.Split(s, -1) {
		part = strings.TrimSpace(part)
		if len(part) > 2 {
			out = append(out, part)
		}
	}
	return out
}
