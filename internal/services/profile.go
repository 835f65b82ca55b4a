package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/database"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/oauth"
	"github.com/tapri-app/tapri-api/internal/query"
)

const (
	maxSkills      = 30
	maxSkillLength = 50
	maxBioLength   = 2000
)

type ProfileService struct {
	db *database.DB
}

func NewProfileService(db *database.DB) *ProfileService {
	return &ProfileService{db: db}
}

// FindOrCreateFromOAuth returns the profile linked to the provider identity,
// creating it on first sign-in and refreshing the email, name and avatar when
// the provider reports new values.
func (s *ProfileService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.Profile, error) {
	profile, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		SELECT `+query.ProfileColumns+`
		FROM profiles
		WHERE provider = $1 AND provider_id = $2
	`, info.Provider, info.ID))

	if err == nil {
		if profile.Email != info.Email || profile.FullName != info.Name || (profile.AvatarURL == nil && info.AvatarURL != "") {
			_, _ = s.db.Pool.Exec(ctx, `
				UPDATE profiles SET email = $1, full_name = $2, avatar_url = COALESCE(avatar_url, $3), updated_at = NOW()
				WHERE id = $4
			`, info.Email, info.Name, nullableString(info.AvatarURL), profile.ID)
			profile.Email = info.Email
			profile.FullName = info.Name
			if profile.AvatarURL == nil && info.AvatarURL != "" {
				profile.AvatarURL = &info.AvatarURL
			}
		}
		return profile, nil
	}
	if !apperr.IsNotFound(database.MapError(err, "profile")) {
		return nil, database.MapError(err, "profile")
	}

	profile, err = scanProfile(s.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (email, full_name, avatar_url, provider, provider_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+query.ProfileColumns,
		info.Email, info.Name, nullableString(info.AvatarURL), info.Provider, info.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", database.MapError(err, "profile"))
	}
	return profile, nil
}

func (s *ProfileService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := scanProfile(s.db.Pool.QueryRow(ctx,
		`SELECT `+query.ProfileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		return nil, database.MapError(err, "profile")
	}
	return profile, nil
}

func (s *ProfileService) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	profile, err := scanProfile(s.db.Pool.QueryRow(ctx,
		`SELECT `+query.ProfileColumns+` FROM profiles WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		return nil, database.MapError(err, "profile")
	}
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, u models.ProfileUpdate) (*models.Profile, error) {
	if err := validateProfileUpdate(&u); err != nil {
		return nil, err
	}

	profile, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		UPDATE profiles SET
			full_name = COALESCE($2, full_name),
			bio = COALESCE($3, bio),
			role = COALESCE($4, role),
			location = COALESCE($5, location),
			skills = COALESCE($6, skills),
			availability = COALESCE($7, availability),
			is_discoverable = COALESCE($8, is_discoverable),
			avatar_url = COALESCE($9, avatar_url),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+query.ProfileColumns,
		id, u.FullName, u.Bio, u.Role, u.Location, u.Skills, u.Availability, u.IsDiscoverable, u.AvatarURL))
	if err != nil {
		return nil, database.MapError(err, "profile")
	}
	return profile, nil
}

// SetAdmin grants or revokes the admin flag for the profile with the given
// email.
func (s *ProfileService) SetAdmin(ctx context.Context, email string, admin bool) (*models.Profile, error) {
	profile, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		UPDATE profiles SET is_admin = $2, updated_at = NOW()
		WHERE LOWER(email) = LOWER($1)
		RETURNING `+query.ProfileColumns, email, admin))
	if err != nil {
		return nil, database.MapError(err, "profile")
	}
	return profile, nil
}

// Fetch is the server phase of the talent listing.
func (s *ProfileService) Fetch(ctx context.Context, f query.Filters, limit, offset int) ([]models.Profile, error) {
	stmt := query.Talent(f, limit, offset)
	rows, err := s.db.Pool.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, database.MapError(err, "profile")
	}
	profiles, err := collect(rows, scanProfile)
	if err != nil {
		return nil, database.MapError(err, "profile")
	}
	return profiles, nil
}

func validateProfileUpdate(u *models.ProfileUpdate) error {
	if u.FullName != nil {
		name := strings.TrimSpace(*u.FullName)
		if name == "" {
			return apperr.Validation("full_name", "full name is required")
		}
		u.FullName = &name
	}
	if u.Bio != nil && utf8.RuneCountInString(*u.Bio) > maxBioLength {
		return apperr.Validation("bio", fmt.Sprintf("bio must be at most %d characters", maxBioLength))
	}
	if u.Availability != nil && !models.ValidAvailability(*u.Availability) {
		return apperr.Validation("availability", "availability must be one of Open to Work, Exploring, Not Available")
	}
	if u.Skills != nil {
		if len(u.Skills) > maxSkills {
			return apperr.Validation("skills", fmt.Sprintf("at most %d skills", maxSkills))
		}
		skills := make([]string, 0, len(u.Skills))
		for _, sk := range u.Skills {
			sk = strings.TrimSpace(sk)
			if sk == "" {
				continue
			}
			if utf8.RuneCountInString(sk) > maxSkillLength {
				return apperr.Validation("skills", fmt.Sprintf("skills must be at most %d characters", maxSkillLength))
			}
			skills = append(skills, sk)
		}
		u.Skills = skills
	}
	if u.AvatarURL != nil && *u.AvatarURL != "" && !isHTTPURL(*u.AvatarURL) {
		return apperr.Validation("avatar_url", "avatar_url must be an http(s) URL")
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
