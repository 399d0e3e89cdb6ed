package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"

	"serenity-backend/internal/models"
)

// ErrChatBadUser is returned when a chat insert references a user id that
// does not exist.
var ErrChatBadUser = errors.New("chat references missing user")

type ChatRepo struct {
	db *sql.DB
}

func NewChatRepo(db *sql.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

func (r *ChatRepo) Create(ctx context.Context, chat *models.Chat) error {
	query := `
		INSERT INTO chats (user_id, title, message, response)
		VALUES (?, ?, ?, ?)
		RETURNING id, timestamp`

	err := r.db.QueryRowContext(ctx, query,
		chat.UserID, chat.Title, chat.Message, chat.Response,
	).Scan(&chat.ID, &chat.Timestamp)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return ErrChatBadUser
		}
		return err
	}
	return nil
}

// ListByUser returns the user's full history in insertion order.
func (r *ChatRepo) ListByUser(ctx context.Context, userID int64) ([]models.Chat, error) {
	query := `
		SELECT id, user_id, title, message, response, timestamp
		FROM chats
		WHERE user_id = ?
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := make([]models.Chat, 0)
	for rows.Next() {
		var c models.Chat
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Message, &c.Response, &c.Timestamp); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

func (r *ChatRepo) GetByID(ctx context.Context, id int64) (*models.Chat, error) {
	c := &models.Chat{}
	query := `SELECT id, user_id, title, message, response, timestamp FROM chats WHERE id = ?`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Title, &c.Message, &c.Response, &c.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ChatRepo) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM chats WHERE id = ?", id)
	return err
}

func (r *ChatRepo) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM chats WHERE user_id = ?", userID)
	return err
}
