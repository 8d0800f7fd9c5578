package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

func scanChat(row scannable) (models.Chat, error) {
	var c models.Chat
	err := row.Scan(&c.ID, &c.CompanyID, &c.CreatedBy, &c.CreatedAt, &c.ParticipantIDs)
	return c, err
}

func (s *Store) ListChats(ctx context.Context, companyID, userID string) ([]models.Chat, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.company_id, c.created_by, c.created_at,
		       ARRAY(SELECT cp.user_id::text FROM chat_participants cp WHERE cp.chat_id = c.id ORDER BY cp.user_id)
		FROM chats c
		WHERE c.company_id = $1
		  AND EXISTS (SELECT 1 FROM chat_participants me WHERE me.chat_id = c.id AND me.user_id = $2)
		ORDER BY c.created_at DESC
	`, companyID, userID)
	if err != nil {
		return nil, wrap(err, "list chats")
	}
	items, err := collect(rows, scanChat)
	return items, wrap(err, "list chats")
}

func (s *Store) CreateChat(ctx context.Context, companyID, userID string, participantIDs []string) (models.Chat, error) {
	participants := uniqueWith(userID, participantIDs)

	var chat models.Chat
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var known int
		if err := tx.QueryRow(ctx, `
			SELECT COUNT(1)
			FROM users
			WHERE company_id = $1 AND id::text = ANY($2::text[])
		`, companyID, participants).Scan(&known); err != nil {
			return wrap(err, "check participants")
		}
		if known != len(participants) {
			return fmt.Errorf("create chat: %w", store.ErrUnknownParticipant)
		}

		chat = models.Chat{ID: uuid.NewString(), CompanyID: companyID, CreatedBy: userID, ParticipantIDs: participants}
		if err := tx.QueryRow(ctx, `
			INSERT INTO chats (id, company_id, created_by)
			VALUES ($1, $2, $3)
			RETURNING created_at
		`, chat.ID, companyID, userID).Scan(&chat.CreatedAt); err != nil {
			return wrap(err, "create chat")
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat_participants (chat_id, user_id)
			SELECT $1, p::uuid FROM unnest($2::text[]) AS p
		`, chat.ID, participants); err != nil {
			return wrap(err, "add participants")
		}
		return nil
	})
	if err != nil {
		return models.Chat{}, err
	}
	return chat, nil
}

// uniqueWith returns ids with first prepended, dropping repeats and keeping
// first-seen order.
func uniqueWith(first string, ids []string) []string {
	seen := map[string]bool{first: true}
	out := []string{first}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// checkParticipant distinguishes a chat that does not exist in the company
// (ErrNotFound) from one the user is not part of (ErrNotParticipant).
func checkParticipant(ctx context.Context, q interface {
	QueryRow(context.Context, string, ...any) pgx.Row
}, companyID, chatID, userID string) error {
	var member bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM chat_participants cp WHERE cp.chat_id = c.id AND cp.user_id = $3)
		FROM chats c
		WHERE c.id = $1 AND c.company_id = $2
	`, chatID, companyID, userID).Scan(&member)
	if err != nil {
		return wrap(err, "get chat")
	}
	if !member {
		return fmt.Errorf("chat %s: %w", chatID, store.ErrNotParticipant)
	}
	return nil
}

func scanMessage(row scannable) (models.Message, error) {
	var m models.Message
	err := row.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.SentAt)
	return m, err
}

func (s *Store) ListMessages(ctx context.Context, companyID, chatID, userID string) ([]models.Message, error) {
	if err := checkParticipant(ctx, s.db, companyID, chatID, userID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, chat_id, sender_id, content, sent_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY sent_at ASC
	`, chatID)
	if err != nil {
		return nil, wrap(err, "list messages")
	}
	items, err := collect(rows, scanMessage)
	return items, wrap(err, "list messages")
}

func (s *Store) SendMessage(ctx context.Context, companyID, chatID, userID, content string) (models.Message, error) {
	var msg models.Message
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if err := checkParticipant(ctx, tx, companyID, chatID, userID); err != nil {
			return err
		}
		m, err := scanMessage(tx.QueryRow(ctx, `
			INSERT INTO messages (id, chat_id, sender_id, content)
			VALUES ($1, $2, $3, $4)
			RETURNING id, chat_id, sender_id, content, sent_at
		`, uuid.NewString(), chatID, userID, content))
		if err != nil {
			return wrap(err, "send message")
		}
		msg = m
		return nil
	})
	if err != nil {
		return models.Message{}, err
	}
	return msg, nil
}
