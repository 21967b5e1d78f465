package main

import (
	"fmt"
	"math/rand"

	"rostersearch/internal/record"
)

var firstNames = []string{
	"Alice", "Bob", "Carol", "Dan", "Emma", "Frank", "Grace", "Henry",
	"Irene", "Jack", "Karen", "Liam", "Maria", "Noah", "Olivia", "Paul",
	"Quinn", "Rosa", "Sam", "Tina", "Uma", "Victor", "Wendy", "Xavier",
	"Yusuf", "Zoe",
}

var lastNames = []string{
	"Anderson", "Brown", "Carter", "Davis", "Evans", "Foster", "Garcia",
	"Harris", "Iverson", "Johnson", "King", "Lopez", "Miller", "Nguyen",
	"O'Brien", "Price", "Quinn", "Rodriguez", "Smith", "Taylor", "Underwood",
	"Vance", "Williams", "Young", "Zhang", "Smyth", "Johnsen", "Andersen",
}

var orgs = []string{
	"OSU - Medical Center",
	"OSU - Wexner Medical Center",
	"Athletics",
	"COM - Physics",
	"COM - Internal Medicine",
	"Arts & Sciences - History",
	"Arts & Sciences - Chemistry",
	"University Libraries",
	"Student Life - Dining",
	"Facilities Operations",
	"Office of Research",
	"Engineering - Computer Science",
}

var roles = []string{
	"Research Assistant",
	"Assistant Professor",
	"Associate Professor",
	"Professor",
	"Nurse",
	"Staff Nurse",
	"Administrative Associate",
	"Assistant Coach",
	"Custodial Worker",
	"Program Manager",
	"Systems Developer",
	"Archivist",
}

// generateRecords builds a deterministic synthetic roster. Names combine a
// first/last pair with a numeric suffix so every record stays unique.
func generateRecords(n int) []record.Raw {
	rng := rand.New(rand.NewSource(42))

	raws := make([]record.Raw, n)
	for i := range raws {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]

		recRoles := []string{roles[rng.Intn(len(roles))]}
		if rng.Intn(5) == 0 {
			recRoles = append(recRoles, roles[rng.Intn(len(roles))])
		}

		raw := record.Raw{
			Name:           fmt.Sprintf("%s %s %d", first, last, i),
			HomeOrg:        orgs[rng.Intn(len(orgs))],
			Roles:          recRoles,
			TotalPay:       20000 + rng.Float64()*180000,
			FirstHiredYear: 1990 + rng.Intn(36),
			LastDate:       fmt.Sprintf("2026-%02d-%02d", 1+rng.Intn(2), 1+rng.Intn(28)),
			IsActive:       rng.Intn(10) != 0,
			IsFullTime:     rng.Intn(4) != 0,
			IsUnclassified: rng.Intn(8) == 0,
		}
		if rng.Intn(3) == 0 {
			raw.LastOrg = orgs[rng.Intn(len(orgs))]
		}
		if rng.Intn(20) == 0 {
			raw.WasExcluded = true
			raw.ExclusionDate = fmt.Sprintf("202%d-06-15", 3+rng.Intn(3))
		}
		if rng.Intn(50) == 0 {
			raw.HasDataFlags = true
		}
		raws[i] = raw
	}
	return raws
}
