package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"social-lens-go/pkg/llm"
	"social-lens-go/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatStore holds one profile with data and a set of conversations
type fakeChatStore struct {
	profile       *models.Profile
	data          *models.ProfileData
	conversations map[uuid.UUID]*models.Conversation
	messages      []models.Message
}

func (f *fakeChatStore) GetProfileByID(_ context.Context, profileID, userID uuid.UUID) (*models.Profile, error) {
	if f.profile == nil || f.profile.ID != profileID || f.profile.UserID != userID {
		return nil, fmt.Errorf("profile not found")
	}
	return f.profile, nil
}

func (f *fakeChatStore) GetProfileData(_ context.Context, profileID uuid.UUID) (*models.ProfileData, error) {
	if f.data == nil {
		return nil, fmt.Errorf("profile data not found")
	}
	return f.data, nil
}

func (f *fakeChatStore) GetConversation(_ context.Context, conversationID, userID uuid.UUID) (*models.Conversation, error) {
	conv, ok := f.conversations[conversationID]
	if !ok || conv.UserID != userID {
		return nil, fmt.Errorf("conversation not found")
	}
	return conv, nil
}

func (f *fakeChatStore) CreateConversation(_ context.Context, userID uuid.UUID, create models.ConversationCreate) (*models.Conversation, error) {
	conv := &models.Conversation{
		ID:        uuid.New(),
		ProfileID: create.ProfileID,
		UserID:    userID,
		Title:     create.Title,
	}
	if f.conversations == nil {
		f.conversations = make(map[uuid.UUID]*models.Conversation)
	}
	f.conversations[conv.ID] = conv
	return conv, nil
}

func (f *fakeChatStore) CreateMessage(_ context.Context, conversationID uuid.UUID, role models.MessageRole, content string) (*models.Message, error) {
	msg := models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}
	f.messages = append(f.messages, msg)
	return &msg, nil
}

// cannedLLM returns a fixed reply and records the prompt it saw
type cannedLLM struct {
	reply  string
	prompt string
}

func (l *cannedLLM) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	l.prompt = prompt
	return l.reply, nil
}

func newChatFixture(userID uuid.UUID) (*fakeChatStore, *cannedLLM, *ChatService) {
	store := &fakeChatStore{
		profile: &models.Profile{
			ID:           uuid.New(),
			UserID:       userID,
			Platform:     models.PlatformInstagram,
			Handle:       "sample_user",
			ScrapeStatus: models.StatusCompleted,
		},
		data: &models.ProfileData{
			PlatformSpecificData: json.RawMessage(`{"username":"sample_user","followers":100}`),
		},
		conversations: make(map[uuid.UUID]*models.Conversation),
	}

	model := &cannedLLM{reply: "An active account."}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return store, model, NewChatService(store, model, logger)
}

func TestChat_CreatesConversationAndPersistsTurns(t *testing.T) {
	userID := uuid.New()
	store, model, service := newChatFixture(userID)

	reply, err := service.Chat(context.Background(), store.profile.ID, userID, ChatRequest{
		Question: "How active is this account?",
	})
	require.NoError(t, err)

	assert.Equal(t, "An active account.", reply.Reply)
	assert.Contains(t, model.prompt, "sample_user")
	assert.Contains(t, model.prompt, "How active is this account?")

	// One conversation, user turn then assistant turn
	require.Len(t, store.conversations, 1)
	require.Len(t, store.messages, 2)
	assert.Equal(t, models.RoleUser, store.messages[0].Role)
	assert.Equal(t, models.RoleAssistant, store.messages[1].Role)
	assert.Equal(t, reply.ConversationID, store.messages[0].ConversationID)
}

func TestChat_RequiresCompletedScrape(t *testing.T) {
	userID := uuid.New()
	store, _, service := newChatFixture(userID)
	store.profile.ScrapeStatus = models.StatusFetching

	_, err := service.Chat(context.Background(), store.profile.ID, userID, ChatRequest{
		Question: "Anything?",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no completed scrape data")
}

func TestChat_ContinuesExistingConversation(t *testing.T) {
	userID := uuid.New()
	store, _, service := newChatFixture(userID)

	conv, err := store.CreateConversation(context.Background(), userID, models.ConversationCreate{
		ProfileID: store.profile.ID,
	})
	require.NoError(t, err)

	reply, err := service.Chat(context.Background(), store.profile.ID, userID, ChatRequest{
		ConversationID: &conv.ID,
		Question:       "Follow-up question",
	})
	require.NoError(t, err)

	assert.Equal(t, conv.ID, reply.ConversationID)
	require.Len(t, store.conversations, 1)
}

func TestChat_RejectsConversationFromAnotherProfile(t *testing.T) {
	userID := uuid.New()
	store, _, service := newChatFixture(userID)

	// Same user, but the conversation was started about a different profile
	otherConv, err := store.CreateConversation(context.Background(), userID, models.ConversationCreate{
		ProfileID: uuid.New(),
	})
	require.NoError(t, err)

	_, err = service.Chat(context.Background(), store.profile.ID, userID, ChatRequest{
		ConversationID: &otherConv.ID,
		Question:       "Cross-profile question",
	})
	require.Error(t, err)
	assert.Equal(t, "conversation not found", err.Error())

	// Nothing was appended to the foreign conversation
	assert.Empty(t, store.messages)
}
