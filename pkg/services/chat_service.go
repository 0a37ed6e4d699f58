package services

import (
	"context"
	"fmt"

	"social-lens-go/pkg/llm"
	"social-lens-go/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ChatStore is the persistence surface chat reads and writes through.
// *db.DB satisfies it; tests substitute a fake.
type ChatStore interface {
	GetProfileByID(ctx context.Context, profileID, userID uuid.UUID) (*models.Profile, error)
	GetProfileData(ctx context.Context, profileID uuid.UUID) (*models.ProfileData, error)
	GetConversation(ctx context.Context, conversationID, userID uuid.UUID) (*models.Conversation, error)
	CreateConversation(ctx context.Context, userID uuid.UUID, create models.ConversationCreate) (*models.Conversation, error)
	CreateMessage(ctx context.Context, conversationID uuid.UUID, role models.MessageRole, content string) (*models.Message, error)
}

// ChatService answers questions about a profile using its scraped snapshot as
// LLM context. The LLM call itself is a stateless request/response.
type ChatService struct {
	db     ChatStore
	llm    llm.LLM
	logger *logrus.Logger
}

// NewChatService creates a new chat service
func NewChatService(store ChatStore, model llm.LLM, logger *logrus.Logger) *ChatService {
	return &ChatService{
		db:     store,
		llm:    model,
		logger: logger,
	}
}

// ChatRequest is a single user turn in a conversation
type ChatRequest struct {
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
	Question       string     `json:"question" binding:"required"`
}

// ChatReply is the assistant's answer plus the conversation it belongs to
type ChatReply struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	Reply          string    `json:"reply"`
}

// Chat answers a question about a profile. It requires a completed snapshot,
// persists both the user and assistant messages, and creates a conversation
// on first use if the request names none.
func (s *ChatService) Chat(ctx context.Context, profileID, userID uuid.UUID, req ChatRequest) (*ChatReply, error) {
	profile, err := s.db.GetProfileByID(ctx, profileID, userID)
	if err != nil {
		return nil, err
	}
	if profile.ScrapeStatus != models.StatusCompleted {
		return nil, fmt.Errorf("profile has no completed scrape data yet (status: %s)", profile.ScrapeStatus)
	}

	data, err := s.db.GetProfileData(ctx, profileID)
	if err != nil {
		return nil, err
	}

	var conversationID uuid.UUID
	if req.ConversationID != nil {
		conv, err := s.db.GetConversation(ctx, *req.ConversationID, userID)
		if err != nil {
			return nil, err
		}
		// The named conversation must belong to the profile being asked about
		if conv.ProfileID != profileID {
			return nil, fmt.Errorf("conversation not found")
		}
		conversationID = conv.ID
	} else {
		title := fmt.Sprintf("Chat about %s", profile.Handle)
		conv, err := s.db.CreateConversation(ctx, userID, models.ConversationCreate{
			ProfileID: profileID,
			Title:     &title,
		})
		if err != nil {
			return nil, err
		}
		conversationID = conv.ID
	}

	if _, err := s.db.CreateMessage(ctx, conversationID, models.RoleUser, req.Question); err != nil {
		return nil, err
	}

	prompt := buildProfilePrompt(profile, data, req.Question)

	reply, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reply: %w", err)
	}

	if _, err := s.db.CreateMessage(ctx, conversationID, models.RoleAssistant, reply); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"profile_id":      profileID,
		"conversation_id": conversationID,
	}).Debug("Chat reply generated")

	return &ChatReply{
		ConversationID: conversationID,
		Reply:          reply,
	}, nil
}

// buildProfilePrompt assembles the completion prompt from the snapshot's
// representative record and the user's question
func buildProfilePrompt(profile *models.Profile, data *models.ProfileData, question string) string {
	return fmt.Sprintf(
		"You are an analyst reviewing a %s profile (%s).\n"+
			"Profile data:\n%s\n\n"+
			"Answer the following question about this profile:\n%s",
		profile.Platform, profile.Handle,
		string(data.PlatformSpecificData),
		question,
	)
}
