package handlers

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/tapri-app/tapri-api/internal/listing"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/moderation"
	"github.com/tapri-app/tapri-api/internal/oauth"
	"github.com/tapri-app/tapri-api/internal/query"
	"github.com/tapri-app/tapri-api/internal/services"
	"github.com/tapri-app/tapri-api/internal/sse"
	"github.com/tapri-app/tapri-api/internal/storage"
)

// ProfileServiceInterface defines the methods used by handlers from ProfileService
type ProfileServiceInterface interface {
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, id uuid.UUID, u models.ProfileUpdate) (*models.Profile, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, profileID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllProfileTokens(ctx context.Context, profileID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(profileID uuid.UUID, email string, isAdmin bool) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// ProjectServiceInterface defines the methods used by handlers from ProjectService
type ProjectServiceInterface interface {
	Create(ctx context.Context, creatorID uuid.UUID, in models.NewProject) (*models.Project, error)
	Update(ctx context.Context, id uuid.UUID, caller models.Identity, u models.ProjectUpdate) (*models.Project, error)
	Source(scope query.Scope) listing.Source[models.Project]
}

// ProjectLookup resolves a project by slug for a viewer. Both the live
// ProjectService and the demo provider satisfy it.
type ProjectLookup interface {
	GetBySlug(ctx context.Context, slug string, viewer *models.Identity) (*models.Project, error)
}

type ModerationServiceInterface interface {
	Review(ctx context.Context, projectID uuid.UUID, reviewer models.Identity, action moderation.Action, reason string) (*models.Project, error)
}

type ApplicationServiceInterface interface {
	Submit(ctx context.Context, projectID, applicantID uuid.UUID, in models.NewApplication) (*models.Application, error)
	ListForProject(ctx context.Context, projectID uuid.UUID, caller models.Identity) ([]models.Application, error)
	ListMine(ctx context.Context, applicantID uuid.UUID) ([]models.Application, error)
	Decide(ctx context.Context, applicationID uuid.UUID, caller models.Identity, action moderation.Action) (*models.Application, error)
}

type InvitationServiceInterface interface {
	Invite(ctx context.Context, projectID uuid.UUID, inviter models.Identity, inviteeID uuid.UUID) (*models.Invitation, error)
	Accept(ctx context.Context, invitationID, inviteeID uuid.UUID) (*models.Invitation, error)
	Decline(ctx context.Context, invitationID, inviteeID uuid.UUID) (*models.Invitation, error)
	ListForInvitee(ctx context.Context, inviteeID uuid.UUID) ([]models.Invitation, error)
	ListForProject(ctx context.Context, projectID uuid.UUID, caller models.Identity) ([]models.Invitation, error)
	Cancel(ctx context.Context, invitationID uuid.UUID, caller models.Identity) error
}

type ConversationServiceInterface interface {
	StartDirect(ctx context.Context, me, other uuid.UUID) (*models.Conversation, error)
	List(ctx context.Context, me uuid.UUID) ([]models.Conversation, error)
	Messages(ctx context.Context, conversationID, me uuid.UUID, after time.Time, limit int) ([]models.Message, error)
	Send(ctx context.Context, conversationID, me uuid.UUID, content string) (*models.Message, error)
	Edit(ctx context.Context, messageID, me uuid.UUID, content string) (*models.Message, error)
}

// AssetStore is satisfied by storage.S3.
type AssetStore interface {
	Put(ctx context.Context, kind storage.Kind, owner uuid.UUID, body io.Reader) (*storage.Object, error)
	MaxBytes() int64
}

// ViewRecorder is satisfied by analytics.Tracker.
type ViewRecorder interface {
	RecordView(projectID uuid.UUID)
}

// EventHub is satisfied by sse.Hub.
type EventHub interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
}
