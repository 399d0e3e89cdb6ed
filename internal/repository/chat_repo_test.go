package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"serenity-backend/internal/models"
)

func createTestChat(t *testing.T, chats *ChatRepo, userID int64, message, response string) *models.Chat {
	t.Helper()

	chat := &models.Chat{UserID: userID, Title: message, Message: message, Response: response}
	require.NoError(t, chats.Create(context.Background(), chat))
	require.NotZero(t, chat.ID)
	require.False(t, chat.Timestamp.IsZero())

	return chat
}

func TestChatRepoCreate_MissingUser(t *testing.T) {
	chats := NewChatRepo(newTestDB(t))

	chat := &models.Chat{UserID: 999, Title: "hi", Message: "hi", Response: "hello"}
	err := chats.Create(context.Background(), chat)
	require.ErrorIs(t, err, ErrChatBadUser)
}

func TestChatRepoListByUser_InsertionOrderAndIsolation(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	chats := NewChatRepo(db)

	alice := createTestUser(t, users, "alice@x.com")
	bob := createTestUser(t, users, "bob@x.com")

	createTestChat(t, chats, alice.ID, "first", "1")
	createTestChat(t, chats, alice.ID, "second", "2")
	createTestChat(t, chats, bob.ID, "bobs", "3")

	got, err := chats.ListByUser(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "first", got[0].Message)
	require.Equal(t, "second", got[1].Message)
	for _, c := range got {
		require.Equal(t, alice.ID, c.UserID)
	}
}

func TestChatRepoListByUser_Empty(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	chats := NewChatRepo(db)

	alice := createTestUser(t, users, "alice@x.com")

	got, err := chats.ListByUser(context.Background(), alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestChatRepoDeleteByID(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	chats := NewChatRepo(db)

	alice := createTestUser(t, users, "alice@x.com")
	keep := createTestChat(t, chats, alice.ID, "keep", "1")
	gone := createTestChat(t, chats, alice.ID, "gone", "2")

	require.NoError(t, chats.DeleteByID(context.Background(), gone.ID))

	_, err := chats.GetByID(context.Background(), gone.ID)
	require.ErrorIs(t, err, sql.ErrNoRows)

	got, err := chats.GetByID(context.Background(), keep.ID)
	require.NoError(t, err)
	require.Equal(t, "keep", got.Message)
}

func TestChatRepoDeleteByUser_LeavesOtherUsers(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	chats := NewChatRepo(db)

	alice := createTestUser(t, users, "alice@x.com")
	bob := createTestUser(t, users, "bob@x.com")

	createTestChat(t, chats, alice.ID, "a1", "1")
	createTestChat(t, chats, alice.ID, "a2", "2")
	bobs := createTestChat(t, chats, bob.ID, "b1", "3")

	require.NoError(t, chats.DeleteByUser(context.Background(), alice.ID))

	gotAlice, err := chats.ListByUser(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Empty(t, gotAlice)

	gotBob, err := chats.ListByUser(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, gotBob, 1)
	require.Equal(t, bobs.ID, gotBob[0].ID)
}
