package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/scout/internal/model"
)

func personRule(t *testing.T, name string) PersonRule {
	t.Helper()
	for _, r := range PeopleRules {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no people rule %q", name)
	return PersonRule{}
}

func structureRule(t *testing.T, name string) StructureRule {
	t.Helper()
	for _, r := range StructureRules {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no structure rule %q", name)
	return StructureRule{}
}

func TestPersonRules(t *testing.T) {
	tests := []struct {
		rule    string
		content string
		want    []model.DetectedPerson
	}{
		{
			rule:    "name-then-title",
			content: "Maria Garcia (CFO) said revenue grew.",
			want:    []model.DetectedPerson{{Name: "Maria Garcia", Title: "CFO"}},
		},
		{
			rule:    "name-then-title",
			content: "Tom Baker - Director.",
			want:    []model.DetectedPerson{{Name: "Tom Baker", Title: "Director"}},
		},
		{
			rule:    "name-then-title",
			content: "Jane Smith, CEO of Acme, spoke first.",
			want:    []model.DetectedPerson{{Name: "Jane Smith", Title: "CEO"}},
		},
		{
			rule:    "title-then-name",
			content: "Our CTO Alan Turing presented the roadmap.",
			want:    []model.DetectedPerson{{Name: "Alan Turing", Title: "CTO"}},
		},
		{
			rule:    "appointment",
			content: "Sarah Connor was appointed as the new Chief Revenue Officer.",
			want:    []model.DetectedPerson{{Name: "Sarah Connor", Title: "Chief Revenue Officer"}},
		},
		{
			rule:    "appointment",
			content: "Last week Kyle Reese was hired as Head of Security, the company said.",
			want:    []model.DetectedPerson{{Name: "Kyle Reese", Title: "Head of Security"}},
		},
		{
			rule:    "new-title-name",
			content: "They announced a new Director Grace Hopper today.",
			want:    []model.DetectedPerson{{Name: "Grace Hopper", Title: "Director"}},
		},
		{
			rule:    "title-then-name",
			content: "The CEO spoke about growth.",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			got := personRule(t, tt.rule).Match(tt.content)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPersonRules_AppointmentTitleTruncated(t *testing.T) {
	content := "Bob Stone was named Senior Vice President of Global Strategic Partnerships and Enterprise Alliances."

	got := personRule(t, "appointment").Match(content)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob Stone", got[0].Name)
	assert.Len(t, got[0].Title, maxTitleLen)
	assert.True(t, strings.HasPrefix(got[0].Title, "Senior Vice President of Global"))
}

func TestPersonRules_DropsOverlongNames(t *testing.T) {
	content := "Aaaaaaaaaa Bbbbbbbbbb Cccccccccc Dddddddddd Eeeeeeeeee, CEO of nothing."
	assert.Empty(t, personRule(t, "name-then-title").Match(content))
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Jane Doe"))
	assert.True(t, ValidName("Mary Anne Smith"))
	assert.False(t, ValidName("Jane"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("   "))
	assert.False(t, ValidName(strings.Repeat("Abcdefghij ", 5)))
}

func TestStructureRule_Find(t *testing.T) {
	tests := []struct {
		rule    string
		content string
		want    string
		found   bool
	}{
		{"subsidiary-of", "Acme is a subsidiary of Global Holdings.", "Global Holdings", true},
		{"owned-by", "Beta Labs is owned by Omega Group in part.", "Omega Group", true},
		{"owned-by", "Beta was acquired by Oracle for a large sum.", "Oracle", true},
		{"parent-company", "Its parent company is Alphabet.", "Alphabet", true},
		{"part-of", "The lab is part of Siemens Healthineers, based in Erlangen.", "Siemens Healthineers", true},
		{"subsidiaries-include", "Its subsidiaries include Alpha Inc, Beta LLC and Gamma Co.", "Alpha Inc, Beta LLC and Gamma Co", true},
		{"owns", "Acme owns Widgets Ltd and Gizmo Corp.", "Widgets Ltd", true},
		{"acquired", "Acme acquired Nimbus Data in 2019.", "Nimbus Data", true},
		{"ticker", "The company trades under XYZ today.", "XYZ", true},
		{"ticker", "Ticker symbol: MSFT", "MSFT", true},
		{"ticker", "Listed as NYSE: IBM since 1915.", "IBM", true},
		{"ticker", "Listed on NYSE: ABC, it later trades as XYZ.", "ABC", true},
		{"headquartered-in", "It is headquartered in San Jose, California.", "San Jose, California", true},
		{"based-in", "The firm is based in Berlin and London.", "Berlin", true},
		{"based-in", "Based in Austin, Acme sells widgets.", "Austin", true},
		{"based-in", "Based in Austin, Texas, Acme sells widgets.", "Austin, Texas", true},
		{"headquarters", "Headquarters: Redmond, Washington", "Redmond, Washington", true},
		{"ceo-name", "Chief Executive Officer Satya Nadella said so.", "Satya Nadella", true},
		{"founded-in", "It was established 1875 in Basel.", "1875", true},
		{"public-marker", "Shares are publicly traded.", string(model.OwnershipPublic), true},
		{"private-marker", "The firm is privately held.", string(model.OwnershipPrivate), true},
		{"subsidiary-of", "Nothing to see here.", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			got, found := structureRule(t, tt.rule).Find(tt.content)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitNameList(t *testing.T) {
	assert.Equal(t, []string{"Alpha Inc", "Beta LLC", "Gamma Co"}, splitNameList("Alpha Inc, Beta LLC and Gamma Co"))
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, splitNameList("Alpha, Beta, and Gamma"))
	assert.Equal(t, []string{"Cortex Systems"}, splitNameList("AB, Cortex Systems"))
	assert.Empty(t, splitNameList(""))
}
