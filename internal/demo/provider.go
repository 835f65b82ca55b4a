// Package demo serves a fixed showcase dataset when the live store is
// unreachable. It only backs read-only listings.
package demo

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/query"
)

type Provider struct {
	projects []models.Project
	talent   []models.Profile
}

func NewProvider() *Provider {
	return NewProviderWith(seedProjects(), seedTalent())
}

// NewProviderWith builds a provider over the given data. Projects that are
// not approved are never listed.
func NewProviderWith(projects []models.Project, talent []models.Profile) *Provider {
	p := &Provider{
		projects: append([]models.Project(nil), projects...),
		talent:   append([]models.Profile(nil), talent...),
	}
	sort.SliceStable(p.projects, func(i, j int) bool {
		return p.projects[i].CreatedAt.After(p.projects[j].CreatedAt)
	})
	sort.SliceStable(p.talent, func(i, j int) bool {
		return p.talent[i].RewardPoints > p.talent[j].RewardPoints
	})
	return p
}

// Projects is the listing source for approved demo projects.
func (p *Provider) Projects() ProjectSource { return ProjectSource{p} }

// Talent is the listing source for discoverable demo profiles.
func (p *Provider) Talent() TalentSource { return TalentSource{p} }

// GetBySlug ignores the viewer: demo data holds approved projects only.
func (p *Provider) GetBySlug(_ context.Context, slug string, _ *models.Identity) (*models.Project, error) {
	for i := range p.projects {
		if p.projects[i].Slug == slug && p.projects[i].IsPublic() {
			project := p.projects[i]
			return &project, nil
		}
	}
	return nil, apperr.NotFound("project")
}

type ProjectSource struct{ p *Provider }

func (s ProjectSource) Fetch(ctx context.Context, f query.Filters, limit, offset int) ([]models.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f = f.Normalize()
	var matched []models.Project
	for _, pr := range s.p.projects {
		if !pr.IsPublic() ||
			!equalFold(f.Category, pr.Category) ||
			!equalFold(f.Stage, pr.Stage) ||
			!contains(pr.Location, f.Location) {
			continue
		}
		matched = append(matched, pr)
	}
	return window(matched, limit, offset), nil
}

type TalentSource struct{ p *Provider }

func (s TalentSource) Fetch(ctx context.Context, f query.Filters, limit, offset int) ([]models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f = f.Normalize()
	var matched []models.Profile
	for _, pr := range s.p.talent {
		if !pr.IsDiscoverable ||
			!equalFold(f.Availability, pr.Availability) ||
			!hasSkill(pr.Skills, f.Skill) ||
			!contains(pr.Location, f.Location) {
			continue
		}
		matched = append(matched, pr)
	}
	return window(matched, limit, offset), nil
}

func equalFold(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}

func contains(field, want string) bool {
	return want == "" || strings.Contains(strings.ToLower(field), strings.ToLower(want))
}

func hasSkill(skills []string, want string) bool {
	if want == "" {
		return true
	}
	for _, s := range skills {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

var demoCreator = uuid.MustParse("00000000-0000-4000-8000-000000000001")

func seedProjects() []models.Project {
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	mk := func(i int, slug, title, tagline, category, stage, location string, team, open int, views int64) models.Project {
		created := base.Add(time.Duration(i) * 72 * time.Hour)
		tl := tagline
		return models.Project{
			ID:            uuid.NewSHA1(uuid.NameSpaceURL, []byte("tapri-demo-project/"+slug)),
			Slug:          slug,
			Title:         title,
			Tagline:       &tl,
			Description:   tagline + ". " + title + " is looking for collaborators.",
			Category:      category,
			Stage:         stage,
			Location:      location,
			TeamSize:      team,
			OpenPositions: open,
			Status:        models.StatusApproved,
			CreatorID:     demoCreator,
			PublishedAt:   &created,
			ViewCount:     views,
			CreatedAt:     created,
			UpdatedAt:     created,
		}
	}
	return []models.Project{
		mk(0, "ecotech-startup-k2d9x", "EcoTech Startup", "Carbon tracking for small manufacturers", "Climate", "MVP", "Bengaluru", 4, 2, 312),
		mk(1, "finwave-p8q1z", "FinWave", "UPI-first budgeting for students", "Fintech", "Prototype", "Mumbai", 3, 1, 201),
		mk(2, "ecosystem-builder-m4n7c", "Ecosystem Builder", "Matching campus founders with mentors", "Community", "Idea", "Pune", 2, 3, 97),
		mk(3, "chai-route-a1b2c", "Chai Route", "Logistics for tea-stall suppliers", "Logistics", "Scaling", "Kolkata", 9, 2, 544),
		mk(4, "krishi-lens-r5t6y", "Krishi Lens", "Crop disease detection from phone photos", "AgriTech", "MVP", "Nashik", 5, 2, 430),
		mk(5, "shiksha-loop-h3j8k", "Shiksha Loop", "Peer tutoring marketplace for tier-2 cities", "EdTech", "Prototype", "Indore", 3, 2, 158),
		mk(6, "swasth-ping-w9e2r", "Swasth Ping", "Medicine reminders over WhatsApp", "HealthTech", "Idea", "Remote", 1, 2, 66),
	}
}

func seedTalent() []models.Profile {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	mk := func(i int, name, role, location, availability string, points int, skills ...string) models.Profile {
		created := base.Add(time.Duration(i) * 24 * time.Hour)
		return models.Profile{
			ID:             uuid.NewSHA1(uuid.NameSpaceURL, []byte("tapri-demo-profile/"+name)),
			FullName:       name,
			Bio:            role + " based in " + location,
			Role:           role,
			Location:       location,
			Skills:         skills,
			Availability:   availability,
			IsDiscoverable: true,
			RewardPoints:   points,
			CreatedAt:      created,
			UpdatedAt:      created,
		}
	}
	return []models.Profile{
		mk(0, "Aarav Mehta", "Backend Engineer", "Bengaluru", models.AvailabilityOpen, 420, "Go", "Postgres", "Kubernetes"),
		mk(1, "Diya Sharma", "Product Designer", "Mumbai", models.AvailabilityExploring, 380, "Figma", "User Research"),
		mk(2, "Kabir Rao", "Mobile Developer", "Hyderabad", models.AvailabilityOpen, 275, "Flutter", "Kotlin"),
		mk(3, "Ananya Iyer", "Data Scientist", "Chennai", models.AvailabilityNotAvailable, 510, "Python", "PyTorch", "SQL"),
		mk(4, "Rohan Das", "Growth Marketer", "Kolkata", models.AvailabilityExploring, 190, "SEO", "Content"),
		mk(5, "Meera Nair", "Full-stack Developer", "Remote", models.AvailabilityOpen, 305, "TypeScript", "React", "Go"),
	}
}
