package kbo

import "fmt"

// DefaultTeams lists the ten KBO franchises with the option values the
// site's team selector uses. Doosan is "OB", SSG "SK" and KIA "HT"
// for historical reasons. Passed into the orchestrator through config
// so tests can substitute a smaller fixture list.
func DefaultTeams() []Team {
	return []Team{
		{Name: "Doosan", Code: "OB", Korean: "두산"},
		{Name: "LG", Code: "LG", Korean: "LG"},
		{Name: "KT", Code: "KT", Korean: "KT"},
		{Name: "Samsung", Code: "SS", Korean: "삼성"},
		{Name: "Kiwoom", Code: "WO", Korean: "키움"},
		{Name: "SSG", Code: "SK", Korean: "SSG"},
		{Name: "Lotte", Code: "LT", Korean: "롯데"},
		{Name: "NC", Code: "NC", Korean: "NC"},
		{Name: "Hanwha", Code: "HH", Korean: "한화"},
		{Name: "KIA", Code: "HT", Korean: "KIA"},
	}
}

// DefaultSeasons covers the 2021 through 2025 seasons.
func DefaultSeasons() []int {
	return []int{2021, 2022, 2023, 2024, 2025}
}

// LookupTeam resolves an english team name against a configured list.
func LookupTeam(teams []Team, name string) (Team, error) {
	for _, t := range teams {
		if t.Name == name {
			return t, nil
		}
	}
	return Team{}, fmt.Errorf("%w: %q", ErrUnknownTeam, name)
}
