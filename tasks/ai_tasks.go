package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tutorhub/helpers"
	"tutorhub/models"
	"tutorhub/services"
)

// SummaryTask summarizes the last 20 messages of a chat. When the chat still
// carries the default title, the first message is promoted into a real one.
func SummaryTask(store *services.Store, ai *services.AI, chatID string) TaskFunc {
	return func(ctx context.Context) (interface{}, error) {
		chat, err := store.FindChatByID(ctx, chatID)
		if err != nil {
			return nil, errors.New("Chat not found")
		}

		messages, err := store.LatestMessages(ctx, chat.ID, 20)
		if err != nil {
			return nil, err
		}
		if len(messages) == 0 {
			return nil, errors.New("No messages to summarize")
		}

		var conversation strings.Builder
		for _, msg := range messages {
			sender := "AI Tutor"
			if msg.Sender == models.SenderUser {
				sender = "Student"
			}
			fmt.Fprintf(&conversation, "%s: %s\n", sender, msg.Text)
		}

		summary, err := ai.Summarize(ctx, conversation.String())
		if err != nil {
			return nil, fmt.Errorf("Failed to generate summary: %w", err)
		}

		if chat.Title == models.DefaultChatTitle {
			newTitle := helpers.GenerateChatTitle(messages[0].Text, 50)
			if err := store.UpdateChatTitle(ctx, chat.ID, newTitle); err != nil {
				log.Printf("Failed to update chat title: %v", err)
			}
		}

		return map[string]interface{}{
			"summary": summary,
			"chat_id": chatID,
		}, nil
	}
}

// QuizTask builds quiz questions from the AI-sent messages of a chat,
// optionally focused on a topic.
func QuizTask(store *services.Store, ai *services.AI, chatID, topic string) TaskFunc {
	return func(ctx context.Context) (interface{}, error) {
		chat, err := store.FindChatByID(ctx, chatID)
		if err != nil {
			return nil, errors.New("Chat not found")
		}

		messages, err := store.LatestMessages(ctx, chat.ID, 10)
		if err != nil {
			return nil, err
		}

		var content []string
		for _, msg := range messages {
			if msg.Sender == models.SenderAI {
				content = append(content, msg.Text)
			}
		}
		if len(content) == 0 {
			return nil, errors.New("No educational content found")
		}

		quiz, err := ai.GenerateQuiz(ctx, strings.Join(content, "\n"), topic)
		if err != nil {
			return nil, fmt.Errorf("Failed to generate quiz: %w", err)
		}

		result := map[string]interface{}{
			"quiz":    quiz,
			"chat_id": chatID,
		}
		if topic != "" {
			result["topic"] = topic
		}
		return result, nil
	}
}

// CleanupTask deletes chats that are both inactive past the retention window
// and nearly empty. Each qualifying chat cascades to its messages and
// ratings.
func CleanupTask(store *services.Store, retention time.Duration, minMessages int) TaskFunc {
	return func(ctx context.Context) (interface{}, error) {
		cutoff := time.Now().UTC().Add(-retention)

		stale, err := store.FindStaleChats(ctx, cutoff, minMessages)
		if err != nil {
			return nil, err
		}

		deleted := 0
		for _, chat := range stale {
			ok, err := store.DeleteChat(ctx, chat.ID.Hex(), chat.UserID)
			if err != nil {
				log.Printf("Cleanup: failed to delete chat %s: %v", chat.ID.Hex(), err)
				continue
			}
			if ok {
				deleted++
			}
		}

		return map[string]interface{}{
			"deleted_chats": deleted,
			"message":       fmt.Sprintf("Cleaned up %d old chats", deleted),
		}, nil
	}
}

// StartMaintenance runs the cleanup task on a fixed interval until ctx is
// cancelled.
func StartMaintenance(ctx context.Context, runner *Runner, store *services.Store, interval, retention time.Duration, minMessages int) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				id := runner.Submit("cleanup_old_chats", CleanupTask(store, retention, minMessages))
				log.Printf("Scheduled maintenance cleanup, task %s", id)
			}
		}
	}()
}
