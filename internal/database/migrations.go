package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		full_name VARCHAR(255) NOT NULL DEFAULT '',
		avatar_url VARCHAR(500),
		bio TEXT NOT NULL DEFAULT '',
		role VARCHAR(120) NOT NULL DEFAULT '',
		location VARCHAR(200) NOT NULL DEFAULT '',
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		skills TEXT[] NOT NULL DEFAULT '{}',
		availability VARCHAR(32) NOT NULL DEFAULT 'Exploring'
			CHECK (availability IN ('Open to Work', 'Exploring', 'Not Available')),
		is_discoverable BOOLEAN NOT NULL DEFAULT FALSE,
		reward_points INTEGER NOT NULL DEFAULT 0,
		provider VARCHAR(50) NOT NULL,
		provider_id VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(provider, provider_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_profiles_talent ON profiles(reward_points DESC, created_at DESC) WHERE is_discoverable`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) UNIQUE NOT NULL,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_profile ON refresh_tokens(profile_id)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		slug VARCHAR(160) UNIQUE NOT NULL,
		title VARCHAR(200) NOT NULL,
		tagline VARCHAR(300),
		description TEXT NOT NULL,
		category VARCHAR(100) NOT NULL DEFAULT '',
		stage VARCHAR(100) NOT NULL DEFAULT '',
		location VARCHAR(200) NOT NULL DEFAULT '',
		team_size INTEGER NOT NULL DEFAULT 1 CHECK (team_size >= 1),
		open_positions INTEGER NOT NULL DEFAULT 0 CHECK (open_positions >= 0),
		website VARCHAR(500),
		banner_url VARCHAR(500),
		logo_url VARCHAR(500),
		status VARCHAR(16) NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'approved', 'rejected')),
		creator_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		published_at TIMESTAMP WITH TIME ZONE,
		reviewed_by UUID REFERENCES profiles(id) ON DELETE SET NULL,
		reviewed_at TIMESTAMP WITH TIME ZONE,
		rejection_reason TEXT,
		view_count BIGINT NOT NULL DEFAULT 0,
		application_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_status_created ON projects(status, created_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_creator ON projects(creator_id)`,

	`CREATE TABLE IF NOT EXISTS applications (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		applicant_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		status VARCHAR(16) NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'accepted', 'rejected')),
		cover_letter TEXT NOT NULL DEFAULT '',
		motivation TEXT NOT NULL DEFAULT '',
		experience TEXT NOT NULL DEFAULT '',
		decided_by UUID REFERENCES profiles(id) ON DELETE SET NULL,
		decided_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		CONSTRAINT applications_project_applicant_key UNIQUE(project_id, applicant_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_applications_applicant ON applications(applicant_id)`,

	`CREATE TABLE IF NOT EXISTS invitations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		invitee_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		inviter_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		status VARCHAR(16) NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'accepted', 'declined')),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		responded_at TIMESTAMP WITH TIME ZONE
	)`,

	// At most one non-declined invitation per (project, invitee).
	`CREATE UNIQUE INDEX IF NOT EXISTS invitations_active_pair
		ON invitations(project_id, invitee_id) WHERE status <> 'declined'`,

	`CREATE INDEX IF NOT EXISTS idx_invitations_invitee ON invitations(invitee_id, status)`,

	`CREATE TABLE IF NOT EXISTS conversations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS conversation_participants (
		conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		joined_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		PRIMARY KEY (conversation_id, profile_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_participants_profile ON conversation_participants(profile_id)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		sender_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		edited_at TIMESTAMP WITH TIME ZONE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
