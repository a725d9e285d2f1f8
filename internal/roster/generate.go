package roster

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
)

var clubSuffixes = []string{"FC", "United", "City", "Athletic", "Rovers", "Wanderers", "Sporting"}

// Generate returns n distinct club names. The same seed always yields the
// same names; seed 0 picks a random one.
func Generate(n int, seed uint64) []string {
	faker := gofakeit.New(seed)
	seen := make(map[string]bool, n)
	names := make([]string, 0, n)

	for attempts := 0; len(names) < n; attempts++ {
		name := faker.City() + " " + faker.RandomString(clubSuffixes)
		if seen[name] {
			// Small city pools run dry on large brackets.
			if attempts < n*20 {
				continue
			}
			name = fmt.Sprintf("%s %d", name, len(names)+1)
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
