// Package directory holds the static registry of city hall departments
// citizens can be routed to. The registry is compiled in; departments change
// rarely enough that a code change is the edit path.
package directory

import "strings"

// Department describes one administrative unit and its physical counter.
type Department struct {
	ID          string
	Name        string
	Description string
	Keywords    []string
	Floor       string
	Counter     string
}

var departments = []Department{
	{
		ID:          "resident",
		Name:        "Resident Affairs",
		Description: "Resident records, family registry, seal registration and ID card procedures",
		Keywords:    []string{"resident record", "family registry", "seal registration", "moving", "move-in", "move-out", "id card", "identity document", "birth", "death", "marriage", "divorce"},
		Floor:       "1F",
		Counter:     "Counter 1",
	},
	{
		ID:          "tax",
		Name:        "Tax Affairs",
		Description: "Resident tax, property tax, vehicle tax and other tax procedures",
		Keywords:    []string{"tax", "resident tax", "property tax", "vehicle tax", "tax payment certificate", "tax return", "income certificate", "tax assessment", "payment"},
		Floor:       "1F",
		Counter:     "Counter 2",
	},
	{
		ID:          "insurance",
		Name:        "Insurance and Pension",
		Description: "National health insurance, national pension and elderly medical care procedures",
		Keywords:    []string{"health insurance", "insurance", "pension", "national pension", "elderly care", "medical expenses", "insurance card", "premium", "dependent"},
		Floor:       "1F",
		Counter:     "Counter 3",
	},
	{
		ID:          "welfare",
		Name:        "Welfare",
		Description: "Disability support, elderly welfare and public assistance consultations",
		Keywords:    []string{"welfare", "disability", "disability certificate", "nursing care", "long-term care insurance", "public assistance", "livelihood support"},
		Floor:       "2F",
		Counter:     "Counter 1",
	},
	{
		ID:          "childcare",
		Name:        "Childcare Support",
		Description: "Child allowance, nursery schools, childcare consultations and single-parent support",
		Keywords:    []string{"childcare", "child allowance", "nursery", "kindergarten", "children", "parenting", "single parent", "infant checkup", "vaccination"},
		Floor:       "2F",
		Counter:     "Counter 2",
	},
	{
		ID:          "environment",
		Name:        "Environment",
		Description: "Garbage collection, recycling and environmental consultations",
		Keywords:    []string{"garbage", "trash", "bulky waste", "recycling", "environment", "waste separation", "collection day", "illegal dumping"},
		Floor:       "2F",
		Counter:     "Counter 3",
	},
	{
		ID:          "construction",
		Name:        "Construction",
		Description: "Roads, parks, building certification and development permit procedures",
		Keywords:    []string{"road", "park", "building", "building certification", "development", "land", "water supply", "sewage", "construction work"},
		Floor:       "3F",
		Counter:     "Counter 1",
	},
	{
		ID:          "general",
		Name:        "General Affairs",
		Description: "General city hall inquiries, information disclosure and other consultations",
		Keywords:    []string{"inquiry", "other", "information disclosure", "election", "voting", "public relations", "consultation"},
		Floor:       "3F",
		Counter:     "Information Desk",
	},
}

// All returns every registered department in display order.
func All() []Department {
	out := make([]Department, len(departments))
	copy(out, departments)
	return out
}

// Lookup finds a department by id.
func Lookup(id string) (Department, bool) {
	for _, d := range departments {
		if d.ID == id {
			return d, true
		}
	}
	return Department{}, false
}

// Exists reports whether the id names a registered department.
func Exists(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// Match returns departments whose keywords appear in the given text,
// case-insensitively. Used as a local fallback for guide routing.
func Match(text string) []Department {
	lowered := strings.ToLower(text)
	var matched []Department
	for _, d := range departments {
		for _, kw := range d.Keywords {
			if strings.Contains(lowered, kw) {
				matched = append(matched, d)
				break
			}
		}
	}
	return matched
}
