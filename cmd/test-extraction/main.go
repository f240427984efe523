// Test program to demonstrate people and structure extraction on sample
// research text, and the aggregate built from several accepted findings.
package main

import (
	"fmt"
	"strings"

	"github.com/ppiankov/scout/internal/aggregate"
	"github.com/ppiankov/scout/internal/extract"
	"github.com/ppiankov/scout/internal/model"
)

func main() {
	fmt.Println("=== Research Extraction Test ===")
	fmt.Println()

	findings := []string{
		"Acme Corp is a subsidiary of Global Holdings. The company trades as ACME on NASDAQ. " +
			"It is headquartered in Austin, Texas. CEO Jane Smith leads the company. Acme was founded in 1998.",
		"Jane Doe was appointed as the new Chief Revenue Officer. Maria Garcia, VP of Sales, joined in May.",
		"<p>Its subsidiaries include <b>Alpha Inc</b>, Beta LLC and Gamma Co.</p>",
		"The weather was nice today.",
	}
	roster := []model.Stakeholder{{FullName: "maria garcia"}}
	divisions := []model.Division{{ID: "d1", Name: "Beta LLC"}}

	var structures []*model.DetectedStructure
	for i, text := range findings {
		fmt.Printf("Finding %d\n", i+1)
		fmt.Println(strings.Repeat("-", 60))

		res := extract.NewExtractor().Extract(text)
		people := aggregate.DedupePeopleAgainstRoster(res.People, roster)
		if len(people) == 0 {
			fmt.Println("  No new people")
		}
		for _, p := range people {
			fmt.Printf("  Person: %s (%s)\n", p.Name, p.Title)
		}

		if res.Structure == nil {
			fmt.Println("  No structure detected")
		} else {
			printStructure("  ", res.Structure)
		}
		structures = append(structures, res.Structure)
		fmt.Println()
	}

	agg := aggregate.Fold(structures...)
	fmt.Println("Aggregate (acceptance order)")
	fmt.Println(strings.Repeat("-", 60))
	if agg == nil {
		fmt.Println("  Nothing detected")
		return
	}
	printStructure("  ", agg)

	fmt.Println()
	for _, c := range aggregate.SubsidiariesToDivisionCandidates(agg.Subsidiaries, model.DivisionNames(divisions)) {
		fmt.Printf("  New division candidate: %s (%s)\n", c.Name, c.DivisionType)
	}

	fmt.Println("\n=== Test Complete ===")
}

func printStructure(indent string, s *model.DetectedStructure) {
	field := func(name, value string) {
		if value != "" {
			fmt.Printf("%s%-14s %s\n", indent, name+":", value)
		}
	}
	field("Parent", s.ParentCompany)
	field("Subsidiaries", strings.Join(s.Subsidiaries, ", "))
	field("Ownership", string(s.OwnershipType))
	field("Ticker", s.StockSymbol)
	field("Headquarters", s.Headquarters)
	field("CEO", s.CEO)
	if s.FoundedYear != 0 {
		field("Founded", fmt.Sprint(s.FoundedYear))
	}
}
