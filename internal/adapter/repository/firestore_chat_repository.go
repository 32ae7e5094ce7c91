package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"evenapp/internal/domain/entity"
	"evenapp/internal/domain/repository"
	"evenapp/pkg/errors"
	"evenapp/pkg/logger"
)

// firestoreChatRepository reads the chat service's collections:
// chats/{chatId} with a participants array, and chats/{chatId}/messages.
type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) GetMessagesBetweenUsers(ctx context.Context, uidA, uidB string) ([]*entity.Message, error) {
	chats, err := r.listChatsFor(ctx, uidA)
	if err != nil {
		return nil, err
	}

	var messages []*entity.Message
	for _, chat := range directChatsBetween(chats, uidA, uidB) {
		msgs, err := r.listMessages(ctx, chat.ID)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msgs...)
	}

	sortByCreatedAt(messages)
	return messages, nil
}

func (r *firestoreChatRepository) listChatsFor(ctx context.Context, uid string) ([]*entity.Chat, error) {
	iter := r.client.Collection("chats").Where("participants", "array-contains", uid).Documents(ctx)
	defer iter.Stop()

	var chats []*entity.Chat
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, chatError("Failed to fetch chats", err)
		}

		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			logger.Warn("skipping unreadable chat %s: %v", doc.Ref.ID, err)
			continue
		}
		if chat.ID == "" {
			chat.ID = doc.Ref.ID
		}
		chats = append(chats, &chat)
	}
	return chats, nil
}

func (r *firestoreChatRepository) listMessages(ctx context.Context, chatID string) ([]*entity.Message, error) {
	iter := r.client.Collection("chats").Doc(chatID).Collection("messages").
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var messages []*entity.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, chatError("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		messages = append(messages, &message)
	}
	return messages, nil
}

func chatError(message string, err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		logger.Warn("chat store unavailable: %v", err)
	default:
		logger.Error("chat store error: %v", err)
	}
	return errors.Internal(message, err)
}

// directChatsBetween keeps the two-party threads shared by a and b. Group
// chats do not count toward review eligibility.
func directChatsBetween(chats []*entity.Chat, a, b string) []*entity.Chat {
	var out []*entity.Chat
	for _, c := range chats {
		if c.IsBetween(a, b) {
			out = append(out, c)
		}
	}
	return out
}

func sortByCreatedAt(messages []*entity.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
}
