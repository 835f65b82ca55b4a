// Package testutil holds testify mocks, HTTP helpers and a throwaway
// PostgreSQL for the handler and integration tests.
package testutil

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tapri-app/tapri-api/internal/listing"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/moderation"
	"github.com/tapri-app/tapri-api/internal/oauth"
	"github.com/tapri-app/tapri-api/internal/query"
	"github.com/tapri-app/tapri-api/internal/services"
	"github.com/tapri-app/tapri-api/internal/storage"
)

// MockProfileService mocks the ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.Profile, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) Update(ctx context.Context, id uuid.UUID, u models.ProfileUpdate) (*models.Profile, error) {
	args := m.Called(ctx, id, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, profileID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	return m.Called(ctx, profileID, tokenHash, expiresAt).Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *MockTokenService) RevokeAllProfileTokens(ctx context.Context, profileID uuid.UUID) error {
	return m.Called(ctx, profileID).Error(0)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(profileID uuid.UUID, email string, isAdmin bool) (*services.TokenPair, error) {
	args := m.Called(profileID, email, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

// MockProjectService mocks the ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, creatorID uuid.UUID, in models.NewProject) (*models.Project, error) {
	args := m.Called(ctx, creatorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, id uuid.UUID, caller models.Identity, u models.ProjectUpdate) (*models.Project, error) {
	args := m.Called(ctx, id, caller, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) Source(scope query.Scope) listing.Source[models.Project] {
	return m.Called(scope).Get(0).(listing.Source[models.Project])
}

func (m *MockProjectService) GetBySlug(ctx context.Context, slug string, viewer *models.Identity) (*models.Project, error) {
	args := m.Called(ctx, slug, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

// MockModerationService mocks the ModerationService
type MockModerationService struct {
	mock.Mock
}

func (m *MockModerationService) Review(ctx context.Context, projectID uuid.UUID, reviewer models.Identity, action moderation.Action, reason string) (*models.Project, error) {
	args := m.Called(ctx, projectID, reviewer, action, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

// MockApplicationService mocks the ApplicationService
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) Submit(ctx context.Context, projectID, applicantID uuid.UUID, in models.NewApplication) (*models.Application, error) {
	args := m.Called(ctx, projectID, applicantID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationService) ListForProject(ctx context.Context, projectID uuid.UUID, caller models.Identity) ([]models.Application, error) {
	args := m.Called(ctx, projectID, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Application), args.Error(1)
}

func (m *MockApplicationService) ListMine(ctx context.Context, applicantID uuid.UUID) ([]models.Application, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Application), args.Error(1)
}

func (m *MockApplicationService) Decide(ctx context.Context, applicationID uuid.UUID, caller models.Identity, action moderation.Action) (*models.Application, error) {
	args := m.Called(ctx, applicationID, caller, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

// MockInvitationService mocks the InvitationService
type MockInvitationService struct {
	mock.Mock
}

func (m *MockInvitationService) Invite(ctx context.Context, projectID uuid.UUID, inviter models.Identity, inviteeID uuid.UUID) (*models.Invitation, error) {
	args := m.Called(ctx, projectID, inviter, inviteeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockInvitationService) Accept(ctx context.Context, invitationID, inviteeID uuid.UUID) (*models.Invitation, error) {
	args := m.Called(ctx, invitationID, inviteeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockInvitationService) Decline(ctx context.Context, invitationID, inviteeID uuid.UUID) (*models.Invitation, error) {
	args := m.Called(ctx, invitationID, inviteeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockInvitationService) ListForInvitee(ctx context.Context, inviteeID uuid.UUID) ([]models.Invitation, error) {
	args := m.Called(ctx, inviteeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockInvitationService) ListForProject(ctx context.Context, projectID uuid.UUID, caller models.Identity) ([]models.Invitation, error) {
	args := m.Called(ctx, projectID, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockInvitationService) Cancel(ctx context.Context, invitationID uuid.UUID, caller models.Identity) error {
	return m.Called(ctx, invitationID, caller).Error(0)
}

// MockConversationService mocks the ConversationService
type MockConversationService struct {
	mock.Mock
}

func (m *MockConversationService) StartDirect(ctx context.Context, me, other uuid.UUID) (*models.Conversation, error) {
	args := m.Called(ctx, me, other)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockConversationService) List(ctx context.Context, me uuid.UUID) ([]models.Conversation, error) {
	args := m.Called(ctx, me)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Conversation), args.Error(1)
}

func (m *MockConversationService) Messages(ctx context.Context, conversationID, me uuid.UUID, after time.Time, limit int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, me, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockConversationService) Send(ctx context.Context, conversationID, me uuid.UUID, content string) (*models.Message, error) {
	args := m.Called(ctx, conversationID, me, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockConversationService) Edit(ctx context.Context, messageID, me uuid.UUID, content string) (*models.Message, error) {
	args := m.Called(ctx, messageID, me, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// MockAssetStore mocks storage.S3. Put drains the body so the mock sees the
// uploaded bytes.
type MockAssetStore struct {
	mock.Mock
	Limit int64
}

func (m *MockAssetStore) Put(ctx context.Context, kind storage.Kind, owner uuid.UUID, body io.Reader) (*storage.Object, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	args := m.Called(ctx, kind, owner, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Object), args.Error(1)
}

func (m *MockAssetStore) MaxBytes() int64 {
	if m.Limit == 0 {
		return 5 << 20
	}
	return m.Limit
}

// MockViewRecorder mocks analytics.Tracker
type MockViewRecorder struct {
	mock.Mock
}

func (m *MockViewRecorder) RecordView(projectID uuid.UUID) {
	m.Called(projectID)
}
