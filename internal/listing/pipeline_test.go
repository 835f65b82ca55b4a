package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/query"
)

// memorySource applies the structured filters the way the SQL source does.
type memorySource struct {
	projects []models.Project
	calls    []call
}

type call struct {
	filters query.Filters
	limit   int
	offset  int
}

func (s *memorySource) Fetch(_ context.Context, f query.Filters, limit, offset int) ([]models.Project, error) {
	s.calls = append(s.calls, call{f, limit, offset})

	var matched []models.Project
	for _, p := range s.projects {
		if p.Status != models.StatusApproved {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.Stage != "" && !strings.EqualFold(p.Stage, f.Stage) {
			continue
		}
		matched = append(matched, p)
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func project(title, category, stage string) models.Project {
	return models.Project{
		ID:          uuid.New(),
		Title:       title,
		Description: title + " description",
		Category:    category,
		Stage:       stage,
		Status:      models.StatusApproved,
	}
}

// searchable checks the free-text fields directly, independent of ProjectMatcher.
func searchable(p models.Project, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(p.Title), term) || strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	return p.Tagline != nil && strings.Contains(strings.ToLower(*p.Tagline), term)
}

func titles(items []models.Project) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.Title
	}
	return out
}

func TestFetchPage_SearchNarrowsFetchedPage(t *testing.T) {
	src := &memorySource{projects: []models.Project{
		project("EcoTech Startup", "Climate", "MVP"),
		project("FinWave", "Fintech", "Idea"),
		project("Ecosystem Builder", "Community", "Scaling"),
	}}
	p := NewPipeline[models.Project](src, ProjectMatcher)

	page, err := p.FetchPage(context.Background(), query.Filters{Search: "eco"}, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"EcoTech Startup", "Ecosystem Builder"}, titles(page.Items))
	assert.False(t, page.HasMore)
}

func TestFetchPage_SearchIsOrAcrossFields(t *testing.T) {
	tagline := "Green payments"
	withTagline := project("FinWave", "Fintech", "Idea")
	withTagline.Tagline = &tagline
	ledger := project("Ledger", "Accounting", "Idea")
	ledger.Description = "Books for greenhouse co-ops"
	src := &memorySource{projects: []models.Project{
		withTagline,
		ledger,
		project("Other", "Games", "Idea"),
		project("Orchard", "Green", "Idea"),
	}}
	p := NewPipeline[models.Project](src, ProjectMatcher)

	page, err := p.FetchPage(context.Background(), query.Filters{Search: "GREEN"}, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"FinWave", "Ledger"}, titles(page.Items))
}

func TestFetchPage_SearchIgnoresCategory(t *testing.T) {
	tagline := "UPI-first budgeting for students"
	finwave := project("FinWave", "Fintech", "MVP")
	finwave.Description = "Budgeting app"
	finwave.Tagline = &tagline
	src := &memorySource{projects: []models.Project{finwave}}
	p := NewPipeline[models.Project](src, ProjectMatcher)

	page, err := p.FetchPage(context.Background(), query.Filters{Search: "fintech"}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = p.FetchPage(context.Background(), query.Filters{Category: "fintech"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"FinWave"}, titles(page.Items))
}

func TestFetchPage_RequestsOneExtraRowForHasMore(t *testing.T) {
	var all []models.Project
	for i := 0; i < 25; i++ {
		all = append(all, project(fmt.Sprintf("Project %02d", i), "Climate", "MVP"))
	}
	src := &memorySource{projects: all}
	p := NewPipeline[models.Project](src, ProjectMatcher)

	page, err := p.FetchPage(context.Background(), query.Filters{}, 2, 10)
	require.NoError(t, err)

	require.Len(t, src.calls, 1)
	assert.Equal(t, 11, src.calls[0].limit)
	assert.Equal(t, 10, src.calls[0].offset)
	assert.Len(t, page.Items, 10)
	assert.True(t, page.HasMore)
	assert.Equal(t, "Project 10", page.Items[0].Title)

	page, err = p.FetchPage(context.Background(), query.Filters{}, 3, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.False(t, page.HasMore)
}

func TestFetchPage_ClampsPageAndSize(t *testing.T) {
	src := &memorySource{}
	p := NewPipeline[models.Project](src, ProjectMatcher, WithPageSizes(12, 50))

	page, err := p.FetchPage(context.Background(), query.Filters{}, 0, 1000)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 50, page.PageSize)
	assert.Equal(t, 51, src.calls[0].limit)
	assert.Equal(t, 0, src.calls[0].offset)
	assert.NotNil(t, page.Items)
}

func TestFetchPage_ResultIsSubsetSatisfyingEveryFilter(t *testing.T) {
	src := &memorySource{projects: []models.Project{
		project("EcoTech Startup", "Climate", "MVP"),
		project("Eco Farm", "Agriculture", "Idea"),
		project("FinWave", "Fintech", "MVP"),
		project("Ecosystem Builder", "Climate", "Scaling"),
		project("Solar Grid", "Climate", "MVP"),
		project("Harvest", "Ecology", "MVP"),
	}}
	pending := project("Eco Pending", "Climate", "MVP")
	pending.Status = models.StatusPending
	src.projects = append(src.projects, pending)

	p := NewPipeline[models.Project](src, ProjectMatcher)
	full, err := p.FetchPage(context.Background(), query.Filters{}, 1, 50)
	require.NoError(t, err)
	universe := map[uuid.UUID]bool{}
	for _, it := range full.Items {
		universe[it.ID] = true
	}

	for _, search := range []string{"", "all", "eco", "grid", "zzz"} {
		for _, category := range []string{"all", "Climate", "climate", "Fintech", "None"} {
			for _, stage := range []string{"all", "MVP", "Idea"} {
				f := query.Filters{Search: search, Category: category, Stage: stage}
				page, err := p.FetchPage(context.Background(), f, 1, 50)
				require.NoError(t, err)

				for _, it := range page.Items {
					assert.True(t, universe[it.ID], "item outside unfiltered set for %+v", f)
					if category != "all" {
						assert.True(t, strings.EqualFold(it.Category, category))
					}
					if stage != "all" {
						assert.True(t, strings.EqualFold(it.Stage, stage))
					}
					if search != "" && search != "all" {
						assert.True(t, searchable(it, search), "%q not in title, tagline or description of %q", search, it.Title)
					}
					assert.NotEqual(t, models.StatusPending, it.Status)
				}
			}
		}
	}
}

func TestFetchPage_NoMatchYieldsEmptyNotEverything(t *testing.T) {
	src := &memorySource{projects: []models.Project{project("EcoTech", "Climate", "MVP")}}
	p := NewPipeline[models.Project](src, ProjectMatcher)

	page, err := p.FetchPage(context.Background(), query.Filters{Category: "Nonexistent"}, 1, 10)

	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestFetchPage_InvalidFilter(t *testing.T) {
	src := &memorySource{}
	p := NewPipeline[models.Project](src, ProjectMatcher)

	_, err := p.FetchPage(context.Background(), query.Filters{Search: strings.Repeat("a", 200)}, 1, 10)

	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, src.calls)
}

func TestFetchPage_SourceErrorIsTyped(t *testing.T) {
	failing := SourceFunc[models.Project](func(context.Context, query.Filters, int, int) ([]models.Project, error) {
		return nil, apperr.StoreUnavailable(errors.New("dial tcp: refused"))
	})
	p := NewPipeline[models.Project](failing, ProjectMatcher)

	page, err := p.FetchPage(context.Background(), query.Filters{}, 1, 10)

	assert.Nil(t, page)
	assert.True(t, apperr.IsStoreUnavailable(err))
}

func TestFetchPage_DemoFlag(t *testing.T) {
	p := NewPipeline[models.Project](&memorySource{}, ProjectMatcher, WithDemo(true))

	page, err := p.FetchPage(context.Background(), query.Filters{}, 1, 10)

	require.NoError(t, err)
	assert.True(t, page.Demo)
	assert.True(t, p.Demo())
}

func TestTalentMatcher(t *testing.T) {
	prof := models.Profile{FullName: "Asha Rao", Role: "Designer", Skills: []string{"Figma", "Go"}}

	assert.True(t, TalentMatcher(prof, "figma"))
	assert.True(t, TalentMatcher(prof, "asha"))
	assert.False(t, TalentMatcher(prof, "rust"))
}
