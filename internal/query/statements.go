package query

import (
	"fmt"

	"github.com/google/uuid"
)

// ProjectColumns is the column order every project scan relies on.
const ProjectColumns = `id, slug, title, tagline, description, category, stage, location,
	team_size, open_positions, website, banner_url, logo_url, status, creator_id,
	published_at, reviewed_by, reviewed_at, rejection_reason, view_count,
	application_count, created_at, updated_at`

// ProfileColumns is the column order every profile scan relies on.
const ProfileColumns = `id, email, full_name, avatar_url, bio, role, location, is_admin, skills,
	availability, is_discoverable, reward_points, provider, provider_id, created_at, updated_at`

type Statement struct {
	SQL  string
	Args []any
}

type scopeKind int

const (
	scopePublic scopeKind = iota
	scopeOwner
	scopeReview
)

// Scope decides which moderation states a project listing may return.
type Scope struct {
	kind    scopeKind
	ownerID uuid.UUID
	status  string
}

// Public only returns approved projects.
func Public() Scope { return Scope{kind: scopePublic} }

// Owner returns every project created by the given profile, in any state.
func Owner(id uuid.UUID) Scope { return Scope{kind: scopeOwner, ownerID: id} }

// Review is the admin queue. An empty status returns every state.
func Review(status string) Scope { return Scope{kind: scopeReview, status: status} }

// Projects builds the server-side half of a project listing. The free-text
// search term is applied afterwards by the listing pipeline.
func Projects(f Filters, scope Scope, limit, offset int) Statement {
	f = f.Normalize()
	b := NewBuilder()

	switch scope.kind {
	case scopeOwner:
		b.AddCondition("creator_id", scope.ownerID)
	case scopeReview:
		if s := active(scope.status); s != "" {
			b.AddCondition("status", s)
		}
	default:
		b.AddRaw("status = 'approved'")
	}

	if f.Category != "" {
		b.AddEqualFold("category", f.Category)
	}
	if f.Stage != "" {
		b.AddEqualFold("stage", f.Stage)
	}
	if f.Location != "" {
		b.AddILike("location", f.Location)
	}

	n := b.NextArgNum()
	sql := fmt.Sprintf(`SELECT %s FROM projects %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		ProjectColumns, b.WhereClause(), n, n+1)

	return Statement{SQL: sql, Args: append(b.Args(), limit, offset)}
}

// Talent builds the server-side half of a talent listing over discoverable
// profiles, highest reward first.
func Talent(f Filters, limit, offset int) Statement {
	f = f.Normalize()
	b := NewBuilder()
	b.AddRaw("is_discoverable = TRUE")

	if f.Availability != "" {
		b.AddEqualFold("availability", f.Availability)
	}
	if f.Skill != "" {
		b.AddArrayContains("skills", f.Skill)
	}
	if f.Location != "" {
		b.AddILike("location", f.Location)
	}

	n := b.NextArgNum()
	sql := fmt.Sprintf(`SELECT %s FROM profiles %s ORDER BY reward_points DESC, created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		ProfileColumns, b.WhereClause(), n, n+1)

	return Statement{SQL: sql, Args: append(b.Args(), limit, offset)}
}

func ValidateLimit(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func ValidateOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
