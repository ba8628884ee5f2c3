package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tutorhub/helpers"
	"tutorhub/middleware"
	"tutorhub/models"
	"tutorhub/services"
	"tutorhub/tasks"
)

const chatContextMessages = 10

type AIController struct {
	Store  *services.Store
	AI     *services.AI
	Runner *tasks.Runner
}

// Chat handles one conversational turn: persist the student's message, build
// the recent-history context, ask the model, persist the reply.
func (ac *AIController) Chat() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerObjectID(c)
		if !ok {
			return
		}

		data := middleware.JSONData(c)
		text := strings.TrimSpace(stringField(data, "message"))
		if text == "" {
			middleware.Fail(c, http.StatusBadRequest, "Message cannot be empty")
			return
		}
		if !ac.AI.Available() {
			middleware.Fail(c, http.StatusBadRequest, "AI service temporarily unavailable")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var chat *models.Chat
		if chatID := stringField(data, "chat_id"); chatID != "" {
			found, err := ac.Store.FindChatByID(ctx, chatID)
			if err != nil || found.UserID != userID {
				middleware.Fail(c, http.StatusNotFound, "Chat not found or access denied")
				return
			}
			chat = found
		} else {
			chat = &models.Chat{
				UserID:      userID,
				Title:       helpers.GenerateChatTitle(text, 50),
				IsAISession: true,
				AIModel:     ac.AI.Model(),
			}
			if _, err := ac.Store.CreateChat(ctx, chat); err != nil {
				middleware.Fail(c, http.StatusInternalServerError, "Failed to create chat")
				return
			}
		}

		history, err := ac.Store.LatestMessages(ctx, chat.ID, chatContextMessages)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to load chat context")
			return
		}

		userMessage := &models.Message{
			ChatID:     chat.ID,
			Sender:     models.SenderUser,
			Text:       text,
			TokensUsed: helpers.EstimateTokens(text),
		}
		userMessageID, err := ac.Store.CreateMessage(ctx, userMessage)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to save message")
			return
		}
		if err := ac.Store.TouchChat(ctx, chat.ID, userMessage.TokensUsed); err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to update chat")
			return
		}

		turns := make([]services.Turn, 0, len(history))
		for _, msg := range history {
			turns = append(turns, services.Turn{
				FromUser: msg.Sender != models.SenderAI,
				Text:     msg.Text,
			})
		}

		reply, err := ac.AI.GenerateReply(ctx, turns, text)
		if err != nil {
			middleware.Fail(c, http.StatusBadRequest, "AI service temporarily unavailable")
			return
		}

		aiMessage := &models.Message{
			ChatID:     chat.ID,
			Sender:     models.SenderAI,
			Text:       reply,
			TokensUsed: helpers.EstimateTokens(reply),
			Metadata: map[string]interface{}{
				"model": ac.AI.Model(),
			},
		}
		aiMessageID, err := ac.Store.CreateMessage(ctx, aiMessage)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to save message")
			return
		}
		if err := ac.Store.TouchChat(ctx, chat.ID, aiMessage.TokensUsed); err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to update chat")
			return
		}

		response := gin.H{
			"success": true,
			"chat_id": chat.ID.Hex(),
			"message": gin.H{
				"id":          userMessageID,
				"text":        text,
				"sender":      models.SenderUser,
				"tokens_used": userMessage.TokensUsed,
			},
			"reply": gin.H{
				"id":          aiMessageID,
				"text":        reply,
				"sender":      models.SenderAI,
				"tokens_used": aiMessage.TokensUsed,
				"model":       ac.AI.Model(),
			},
		}

		if suggestion := ac.suggestTutors(ctx, text, reply); suggestion != nil {
			response["tutor_suggestion"] = suggestion
		}

		c.JSON(http.StatusOK, response)
	}
}

// suggestTutors recommends tutors when the exchange signals the student is
// struggling with a topic. Returns nil when no suggestion applies.
func (ac *AIController) suggestTutors(ctx context.Context, message, reply string) gin.H {
	if !services.SignalsDifficulty(message) && !services.IsLongResponse(reply) {
		return nil
	}
	subjects := services.ExtractSubjects(message + " " + reply)
	tutors, err := ac.Store.RecommendTutors(ctx, subjects, 3)
	if err != nil || len(tutors) == 0 {
		return nil
	}
	return gin.H{
		"reason":   "This topic looks challenging. A tutor might help!",
		"subjects": subjects,
		"tutors":   tutorList(tutors),
	}
}

// Chats lists the caller's AI chat sessions.
func (ac *AIController) Chats() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerObjectID(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		chats, err := ac.Store.FindChatsByUser(ctx, userID, 50)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get chats")
			return
		}

		list := make([]gin.H, 0, len(chats))
		for _, chat := range chats {
			list = append(list, gin.H{
				"id":            chat.ID.Hex(),
				"title":         chat.Title,
				"created_at":    chat.CreatedAt,
				"last_activity": chat.LastActivity,
				"time_ago":      helpers.TimeAgo(&chat.LastActivity),
				"message_count": chat.MessageCount,
				"total_tokens":  chat.TotalTokens,
				"ai_model":      chat.AIModel,
			})
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "chats": list})
	}
}

// CreateChat opens an empty AI session.
func (ac *AIController) CreateChat() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerObjectID(c)
		if !ok {
			return
		}

		title := strings.TrimSpace(stringField(middleware.JSONData(c), "title"))
		if title == "" {
			title = models.DefaultChatTitle
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		chat := &models.Chat{
			UserID:      userID,
			Title:       title,
			IsAISession: true,
			AIModel:     ac.AI.Model(),
		}
		id, err := ac.Store.CreateChat(ctx, chat)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to create chat")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"chat": gin.H{
				"id":    id,
				"title": title,
			},
		})
	}
}

// Summarize queues a background summary of the chat and returns the task id.
func (ac *AIController) Summarize() gin.HandlerFunc {
	return ac.dispatchChatTask("chat_summary", func(chatID string) tasks.TaskFunc {
		return tasks.SummaryTask(ac.Store, ac.AI, chatID)
	})
}

// Quiz queues background quiz generation from the chat's AI explanations.
func (ac *AIController) Quiz() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerObjectID(c)
		if !ok {
			return
		}
		if !ac.AI.Available() {
			middleware.Fail(c, http.StatusBadRequest, "AI service temporarily unavailable")
			return
		}

		data := middleware.JSONData(c)
		chatID := stringField(data, "chat_id")
		topic := strings.TrimSpace(stringField(data, "topic"))

		ctx, cancel := requestContext(c)
		defer cancel()

		chat, err := ac.Store.FindChatByID(ctx, chatID)
		if err != nil || chat.UserID != userID {
			middleware.Fail(c, http.StatusNotFound, "Chat not found or access denied")
			return
		}

		taskID := ac.Runner.Submit("quiz_generation", tasks.QuizTask(ac.Store, ac.AI, chatID, topic))
		c.JSON(http.StatusAccepted, gin.H{
			"success": true,
			"message": "Quiz generation started",
			"task_id": taskID,
		})
	}
}

func (ac *AIController) dispatchChatTask(name string, build func(chatID string) tasks.TaskFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerObjectID(c)
		if !ok {
			return
		}
		if !ac.AI.Available() {
			middleware.Fail(c, http.StatusBadRequest, "AI service temporarily unavailable")
			return
		}

		chatID := stringField(middleware.JSONData(c), "chat_id")

		ctx, cancel := requestContext(c)
		defer cancel()

		chat, err := ac.Store.FindChatByID(ctx, chatID)
		if err != nil || chat.UserID != userID {
			middleware.Fail(c, http.StatusNotFound, "Chat not found or access denied")
			return
		}

		taskID := ac.Runner.Submit(name, build(chatID))
		c.JSON(http.StatusAccepted, gin.H{
			"success": true,
			"message": "Summary generation started",
			"task_id": taskID,
		})
	}
}

// TaskStatus polls a background task by id.
func (ac *AIController) TaskStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := callerObjectID(c); !ok {
			return
		}

		task, found := ac.Runner.Get(c.Param("task_id"))
		if !found {
			middleware.Fail(c, http.StatusNotFound, "Task not found")
			return
		}

		response := gin.H{
			"success": true,
			"task_id": task.ID,
			"status":  string(task.Status),
		}
		switch task.Status {
		case tasks.StatusSuccess:
			response["result"] = task.Result
		case tasks.StatusFailure:
			response["error"] = task.Error
		}

		c.JSON(http.StatusOK, response)
	}
}

// RateMessage stores or replaces the caller's 1-5 star rating of an AI reply.
func (ac *AIController) RateMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerObjectID(c)
		if !ok {
			return
		}

		data := middleware.JSONData(c)
		ratingValue, ok := numberField(data, "rating")
		if !ok || !helpers.ValidateRating(ratingValue) {
			middleware.Fail(c, http.StatusBadRequest, "Rating must be an integer between 1 and 5")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		message, err := ac.Store.FindMessageByID(ctx, stringField(data, "message_id"))
		if err != nil {
			middleware.Fail(c, http.StatusNotFound, "Message not found")
			return
		}
		if message.Sender != models.SenderAI {
			middleware.Fail(c, http.StatusBadRequest, "Only AI messages can be rated")
			return
		}

		chat, err := ac.Store.FindChatByID(ctx, message.ChatID.Hex())
		if err != nil || chat.UserID != userID {
			middleware.Fail(c, http.StatusNotFound, "Chat not found or access denied")
			return
		}

		rating := &models.Rating{
			ChatID:    message.ChatID,
			MessageID: message.ID,
			UserID:    userID,
			Rating:    ratingValue,
			Feedback:  strings.TrimSpace(stringField(data, "feedback")),
			CreatedAt: time.Now().UTC(),
		}
		ratingID, err := ac.Store.UpsertRating(ctx, rating)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to save rating")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Rating saved",
			"rating_id": ratingID,
		})
	}
}
