package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/database"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/notify"
	"github.com/tapri-app/tapri-api/internal/query"
	"github.com/tapri-app/tapri-api/internal/sse"
)

const (
	MaxMessageLength    = 4000
	DefaultMessagePage  = 50
	MaxMessagePage      = 200
	messageColumns      = `id, conversation_id, sender_id, content, created_at, edited_at`
	participantIDsQuery = `ARRAY(SELECT profile_id FROM conversation_participants WHERE conversation_id = c.id ORDER BY joined_at, profile_id)`
)

// ConversationService stores direct conversations between profiles. Reads
// work by polling; pushes through the dispatcher are a bonus for connected
// clients.
type ConversationService struct {
	db       *database.DB
	profiles *ProfileService
	events   Dispatcher
}

func NewConversationService(db *database.DB, events Dispatcher) *ConversationService {
	return &ConversationService{db: db, profiles: NewProfileService(db), events: events}
}

func scanMessage(row scanner) (*models.Message, error) {
	var m models.Message
	if err := row.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt, &m.EditedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// StartDirect returns the conversation between the two profiles, creating it
// if none exists yet.
func (s *ConversationService) StartDirect(ctx context.Context, me, other uuid.UUID) (*models.Conversation, error) {
	if me == other {
		return nil, apperr.Validation("participant_id", "you cannot start a conversation with yourself")
	}
	if _, err := s.profiles.GetByID(ctx, other); err != nil {
		return nil, err
	}

	var existing uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT a.conversation_id
		FROM conversation_participants a
		JOIN conversation_participants b ON b.conversation_id = a.conversation_id AND b.profile_id = $2
		WHERE a.profile_id = $1
			AND (SELECT COUNT(*) FROM conversation_participants p WHERE p.conversation_id = a.conversation_id) = 2
		LIMIT 1
	`, me, other).Scan(&existing)
	if err == nil {
		return s.get(ctx, existing)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, database.MapError(err, "conversation")
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, database.MapError(err, "conversation")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	conv := &models.Conversation{ParticipantIDs: []uuid.UUID{me, other}}
	err = tx.QueryRow(ctx, `
		INSERT INTO conversations DEFAULT VALUES
		RETURNING id, created_at, updated_at
	`).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return nil, database.MapError(err, "conversation")
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO conversation_participants (conversation_id, profile_id)
		VALUES ($1, $2), ($1, $3)
	`, conv.ID, me, other); err != nil {
		return nil, database.MapError(err, "conversation")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, database.MapError(err, "conversation")
	}
	return conv, nil
}

// List returns the caller's conversations, most recently active first, each
// with its latest message.
func (s *ConversationService) List(ctx context.Context, me uuid.UUID) ([]models.Conversation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT c.id, c.created_at, c.updated_at, `+participantIDsQuery+`,
			lm.id, lm.sender_id, lm.content, lm.created_at, lm.edited_at
		FROM conversations c
		JOIN conversation_participants me ON me.conversation_id = c.id AND me.profile_id = $1
		LEFT JOIN LATERAL (
			SELECT id, sender_id, content, created_at, edited_at
			FROM messages m
			WHERE m.conversation_id = c.id
			ORDER BY m.created_at DESC
			LIMIT 1
		) lm ON TRUE
		ORDER BY c.updated_at DESC
	`, me)
	if err != nil {
		return nil, database.MapError(err, "conversation")
	}
	defer rows.Close()

	convs := []models.Conversation{}
	for rows.Next() {
		var c models.Conversation
		var msgID, senderID *uuid.UUID
		var content *string
		var createdAt, editedAt *time.Time
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.ParticipantIDs,
			&msgID, &senderID, &content, &createdAt, &editedAt); err != nil {
			return nil, database.MapError(err, "conversation")
		}
		if msgID != nil {
			c.LastMessage = &models.Message{
				ID: *msgID, ConversationID: c.ID, SenderID: *senderID,
				Content: *content, CreatedAt: *createdAt, EditedAt: editedAt,
			}
		}
		convs = append(convs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapError(err, "conversation")
	}
	return convs, nil
}

// Messages returns messages created after the given time in chronological
// order. A zero time starts from the beginning.
func (s *ConversationService) Messages(ctx context.Context, conversationID, me uuid.UUID, after time.Time, limit int) ([]models.Message, error) {
	if _, err := s.participantOf(ctx, conversationID, me); err != nil {
		return nil, err
	}
	limit = query.ValidateLimit(limit, DefaultMessagePage, MaxMessagePage)

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE conversation_id = $1 AND created_at > $2
		ORDER BY created_at ASC, id ASC
		LIMIT $3
	`, conversationID, after, limit)
	if err != nil {
		return nil, database.MapError(err, "message")
	}
	msgs, err := collect(rows, scanMessage)
	if err != nil {
		return nil, database.MapError(err, "message")
	}
	return msgs, nil
}

func (s *ConversationService) Send(ctx context.Context, conversationID, me uuid.UUID, content string) (*models.Message, error) {
	content, err := validateMessage(content)
	if err != nil {
		return nil, err
	}
	conv, err := s.participantOf(ctx, conversationID, me)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, database.MapError(err, "message")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	msg, err := scanMessage(tx.QueryRow(ctx, `
		INSERT INTO messages (conversation_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING `+messageColumns, conversationID, me, content))
	if err != nil {
		return nil, database.MapError(err, "message")
	}
	if _, err := tx.Exec(ctx, `UPDATE conversations SET updated_at = NOW() WHERE id = $1`, conversationID); err != nil {
		return nil, database.MapError(err, "conversation")
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, database.MapError(err, "message")
	}

	s.events.Dispatch(notify.MessageEvent(sse.EventMessageCreated, msg, participants(conv)))
	return msg, nil
}

// Edit changes the content of a message. Only its sender may do so.
func (s *ConversationService) Edit(ctx context.Context, messageID, me uuid.UUID, content string) (*models.Message, error) {
	content, err := validateMessage(content)
	if err != nil {
		return nil, err
	}

	msg, err := scanMessage(s.db.Pool.QueryRow(ctx, `
		UPDATE messages SET content = $3, edited_at = NOW()
		WHERE id = $1 AND sender_id = $2
		RETURNING `+messageColumns, messageID, me, content))
	if errors.Is(err, pgx.ErrNoRows) {
		var sender uuid.UUID
		probe := s.db.Pool.QueryRow(ctx, `SELECT sender_id FROM messages WHERE id = $1`, messageID).Scan(&sender)
		if errors.Is(probe, pgx.ErrNoRows) {
			return nil, apperr.NotFound("message")
		}
		if probe != nil {
			return nil, database.MapError(probe, "message")
		}
		return nil, apperr.Permission("only the sender can edit a message")
	}
	if err != nil {
		return nil, database.MapError(err, "message")
	}

	if conv, err := s.get(ctx, msg.ConversationID); err == nil {
		s.events.Dispatch(notify.MessageEvent(sse.EventMessageEdited, msg, participants(conv)))
	}
	return msg, nil
}

func (s *ConversationService) get(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var c models.Conversation
	err := s.db.Pool.QueryRow(ctx, `
		SELECT c.id, c.created_at, c.updated_at, `+participantIDsQuery+`
		FROM conversations c WHERE c.id = $1
	`, id).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.ParticipantIDs)
	if err != nil {
		return nil, database.MapError(err, "conversation")
	}
	return &c, nil
}

// participantOf loads a conversation the caller belongs to. Conversations
// of others look missing.
func (s *ConversationService) participantOf(ctx context.Context, id, me uuid.UUID) (*models.Conversation, error) {
	conv, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(me) {
		return nil, apperr.NotFound("conversation")
	}
	return conv, nil
}

func participants(c *models.Conversation) []notify.Recipient {
	out := make([]notify.Recipient, 0, len(c.ParticipantIDs))
	for _, id := range c.ParticipantIDs {
		out = append(out, notify.Recipient{ProfileID: id})
	}
	return out
}

func validateMessage(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", apperr.Validation("content", "message cannot be empty")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return "", apperr.Validation("content", fmt.Sprintf("message must be at most %d characters", MaxMessageLength))
	}
	return content, nil
}
