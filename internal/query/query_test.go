package query

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tapri-app/tapri-api/internal/apperr"
)

func TestBuilder_Empty(t *testing.T) {
	b := NewBuilder()
	assert.Equal(t, "", b.WhereClause())
	assert.Empty(t, b.Args())
	assert.Equal(t, 1, b.NextArgNum())
}

func TestBuilder_NumbersPlaceholdersInOrder(t *testing.T) {
	b := NewBuilder()
	b.AddCondition("status", "approved")
	b.AddEqualFold("category", "Climate")
	b.AddILike("location", "berlin")
	b.AddArrayContains("skills", "Go")

	assert.Equal(t,
		"WHERE status = $1 AND LOWER(category) = LOWER($2) AND location ILIKE $3 AND "+
			"EXISTS (SELECT 1 FROM unnest(skills) AS elem WHERE LOWER(elem) = LOWER($4))",
		b.WhereClause())
	assert.Equal(t, []any{"approved", "Climate", "%berlin%", "Go"}, b.Args())
	assert.Equal(t, 5, b.NextArgNum())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\x`, EscapeLike(`c:\x`))
}

func TestFilters_NormalizeDropsAllSentinel(t *testing.T) {
	f := Filters{Category: "ALL", Stage: " all ", Location: " Berlin ", Search: "eco"}.Normalize()

	assert.Equal(t, "", f.Category)
	assert.Equal(t, "", f.Stage)
	assert.Equal(t, "Berlin", f.Location)
	assert.Equal(t, "eco", f.Search)
}

func TestFilters_Validate(t *testing.T) {
	assert.NoError(t, Filters{Search: "eco", Category: "Climate"}.Validate())

	err := Filters{Search: strings.Repeat("x", 101)}.Validate()
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, "search", apperr.FieldOf(err))

	err = Filters{Category: "clim\x00ate"}.Validate()
	require.Error(t, err)
	assert.Equal(t, "category", apperr.FieldOf(err))

	assert.NoError(t, Filters{Location: strings.Repeat("ü", 100)}.Validate())
}

func TestProjects_PublicScope(t *testing.T) {
	stmt := Projects(Filters{Category: "all", Stage: "MVP"}, Public(), 13, 24)

	assert.Contains(t, stmt.SQL, "WHERE status = 'approved' AND LOWER(stage) = LOWER($1)")
	assert.Contains(t, stmt.SQL, "ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3")
	assert.NotContains(t, stmt.SQL, "category")
	assert.Equal(t, []any{"MVP", 13, 24}, stmt.Args)
}

func TestProjects_OwnerScopeIgnoresStatus(t *testing.T) {
	owner := uuid.New()
	stmt := Projects(Filters{}, Owner(owner), 10, 0)

	assert.Contains(t, stmt.SQL, "WHERE creator_id = $1")
	assert.NotContains(t, stmt.SQL, "'approved'")
	assert.Equal(t, []any{owner, 10, 0}, stmt.Args)
}

func TestProjects_ReviewScope(t *testing.T) {
	stmt := Projects(Filters{}, Review("pending"), 10, 0)
	assert.Contains(t, stmt.SQL, "WHERE status = $1")
	assert.Equal(t, []any{"pending", 10, 0}, stmt.Args)

	stmt = Projects(Filters{}, Review("all"), 10, 0)
	assert.NotContains(t, stmt.SQL, "WHERE")
	assert.Equal(t, []any{10, 0}, stmt.Args)
}

func TestProjects_SearchIsNotPushedDown(t *testing.T) {
	stmt := Projects(Filters{Search: "eco"}, Public(), 10, 0)
	for _, a := range stmt.Args {
		assert.NotEqual(t, "eco", a)
	}
}

func TestTalent(t *testing.T) {
	stmt := Talent(Filters{Availability: "Open to Work", Skill: "go", Category: "ignored"}, 12, 0)

	assert.Contains(t, stmt.SQL, "FROM profiles WHERE is_discoverable = TRUE AND LOWER(availability) = LOWER($1)")
	assert.Contains(t, stmt.SQL, "unnest(skills)")
	assert.Contains(t, stmt.SQL, "ORDER BY reward_points DESC, created_at DESC")
	assert.Equal(t, []any{"Open to Work", "go", 12, 0}, stmt.Args)
}

func TestValidateLimitAndOffset(t *testing.T) {
	assert.Equal(t, 12, ValidateLimit(0, 12, 50))
	assert.Equal(t, 50, ValidateLimit(500, 12, 50))
	assert.Equal(t, 7, ValidateLimit(7, 12, 50))
	assert.Equal(t, 0, ValidateOffset(-3))
	assert.Equal(t, 9, ValidateOffset(9))
}
