package listing

import "github.com/tapri-app/tapri-api/internal/models"

// ProjectMatcher searches title, tagline and description. Category is a
// structured filter and never matches the search term.
var ProjectMatcher = MatchAnyField(func(p models.Project) []string {
	fields := []string{p.Title, p.Description}
	if p.Tagline != nil {
		fields = append(fields, *p.Tagline)
	}
	return fields
})

// TalentMatcher searches name, bio, role and skills.
var TalentMatcher = MatchAnyField(func(p models.Profile) []string {
	return append([]string{p.FullName, p.Bio, p.Role}, p.Skills...)
})
