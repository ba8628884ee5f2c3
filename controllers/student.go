package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tutorhub/helpers"
	"tutorhub/middleware"
	"tutorhub/models"
	"tutorhub/services"
)

type StudentController struct {
	Store *services.Store
}

func callerObjectID(c *gin.Context) (primitive.ObjectID, bool) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		middleware.Fail(c, http.StatusUnauthorized, "Authentication required")
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(identity.UserID)
	if err != nil {
		middleware.Fail(c, http.StatusUnauthorized, "Invalid token identity")
		return primitive.NilObjectID, false
	}
	return oid, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// Profile returns the student account together with chat and rating
// statistics.
func (sc *StudentController) Profile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerObjectID(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := sc.Store.FindUserByID(ctx, userID.Hex())
		if err != nil {
			middleware.Fail(c, http.StatusNotFound, "User not found")
			return
		}

		chatStats, err := sc.Store.ChatStatsByUser(ctx, userID)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get profile")
			return
		}
		ratingStats, err := sc.Store.RatingStatsByUser(ctx, userID)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get profile")
			return
		}

		profile := user.PublicInfo()
		profile["statistics"] = gin.H{
			"chats":   chatStats,
			"ratings": ratingStats,
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"profile": profile,
		})
	}
}

// ChatHistory returns either the caller's chat list, or one chat with its
// paginated messages when chat_id is supplied.
func (sc *StudentController) ChatHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerObjectID(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		chatID := c.Query("chat_id")
		if chatID == "" {
			chats, err := sc.Store.FindChatsByUser(ctx, userID, 50)
			if err != nil {
				middleware.Fail(c, http.StatusInternalServerError, "Failed to get chat history")
				return
			}

			chatList := make([]gin.H, 0, len(chats))
			for _, chat := range chats {
				chatList = append(chatList, gin.H{
					"id":            chat.ID.Hex(),
					"title":         chat.Title,
					"created_at":    chat.CreatedAt,
					"last_activity": chat.LastActivity,
					"message_count": chat.MessageCount,
					"total_tokens":  chat.TotalTokens,
					"is_ai_session": chat.IsAISession,
				})
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "chats": chatList})
			return
		}

		chat, err := sc.Store.FindChatByID(ctx, chatID)
		if err != nil || chat.UserID != userID {
			middleware.Fail(c, http.StatusNotFound, "Chat not found or access denied")
			return
		}

		page := queryInt(c, "page", 1)
		perPage := queryInt(c, "per_page", 50)

		messages, err := sc.Store.FindMessagesByChat(ctx, chat.ID, int64(perPage), int64((page-1)*perPage))
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get chat history")
			return
		}
		total, err := sc.Store.CountMessagesByChat(ctx, chat.ID)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get chat history")
			return
		}

		messageList := make([]gin.H, 0, len(messages))
		for _, msg := range messages {
			item := gin.H{
				"id":         msg.ID.Hex(),
				"sender":     msg.Sender,
				"text":       msg.Text,
				"created_at": msg.CreatedAt,
				"is_edited":  msg.IsEdited,
			}
			if msg.Sender == models.SenderAI {
				if rating, err := sc.Store.FindRatingByMessage(ctx, msg.ID); err == nil {
					item["rating"] = gin.H{
						"rating":   rating.Rating,
						"feedback": rating.Feedback,
					}
				}
			}
			messageList = append(messageList, item)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"chat": gin.H{
				"id":            chat.ID.Hex(),
				"title":         chat.Title,
				"created_at":    chat.CreatedAt,
				"last_activity": chat.LastActivity,
				"message_count": chat.MessageCount,
				"total_tokens":  chat.TotalTokens,
			},
			"messages":   messageList,
			"pagination": helpers.Paginate(page, perPage, total),
		})
	}
}

// DeleteChat removes a chat and cascades to its messages and ratings.
func (sc *StudentController) DeleteChat() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerObjectID(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		deleted, err := sc.Store.DeleteChat(ctx, c.Param("chat_id"), userID)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to delete chat")
			return
		}
		if !deleted {
			middleware.Fail(c, http.StatusNotFound, "Chat not found or access denied")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Chat deleted successfully",
		})
	}
}

// UpdateChatTitle renames a chat owned by the caller.
func (sc *StudentController) UpdateChatTitle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerObjectID(c)
		if !ok {
			return
		}

		title := stringField(middleware.JSONData(c), "title")
		if title == "" {
			middleware.Fail(c, http.StatusBadRequest, "Title cannot be empty")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		chat, err := sc.Store.FindChatByID(ctx, c.Param("chat_id"))
		if err != nil || chat.UserID != userID {
			middleware.Fail(c, http.StatusNotFound, "Chat not found or access denied")
			return
		}

		if err := sc.Store.UpdateChatTitle(ctx, chat.ID, title); err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to update chat title")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Chat title updated successfully",
		})
	}
}

// SearchMessages searches the caller's own messages.
func (sc *StudentController) SearchMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerObjectID(c)
		if !ok {
			return
		}

		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			middleware.Fail(c, http.StatusBadRequest, "Search query cannot be empty")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		messages, err := sc.Store.SearchMessages(ctx, userID, query, 20)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Search failed")
			return
		}

		results := make([]gin.H, 0, len(messages))
		for _, msg := range messages {
			chatTitle := "Unknown Chat"
			if chat, err := sc.Store.FindChatByID(ctx, msg.ChatID.Hex()); err == nil {
				chatTitle = chat.Title
			}
			results = append(results, gin.H{
				"id":         msg.ID.Hex(),
				"text":       msg.Text,
				"sender":     msg.Sender,
				"created_at": msg.CreatedAt,
				"chat": gin.H{
					"id":    msg.ChatID.Hex(),
					"title": chatTitle,
				},
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"results":       results,
			"query":         query,
			"total_results": len(results),
		})
	}
}

// RecommendedTutors suggests tutors for the subjects passed in the query, or
// top-rated tutors when none are given.
func (sc *StudentController) RecommendedTutors() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := callerObjectID(c); !ok {
			return
		}

		var subjects []string
		if raw := c.Query("subjects"); raw != "" {
			subjects = strings.Split(raw, ",")
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		tutors, err := sc.Store.RecommendTutors(ctx, subjects, 5)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get tutor recommendations")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":           true,
			"tutors":            tutorList(tutors),
			"subjects_searched": helpers.NormalizeSubjects(subjects),
		})
	}
}

// RecordSession logs a completed tutoring session, folding an optional 1-5
// rating into the tutor's running average.
func (sc *StudentController) RecordSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := callerObjectID(c); !ok {
			return
		}

		data := middleware.JSONData(c)
		var rating *float64
		if value, ok := numberField(data, "rating"); ok {
			if !helpers.ValidateRating(value) {
				middleware.Fail(c, http.StatusBadRequest, "Rating must be an integer between 1 and 5")
				return
			}
			f := float64(value)
			rating = &f
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		tutor, err := sc.Store.FindTutorByID(ctx, c.Param("tutor_id"))
		if err != nil || !tutor.IsActive {
			middleware.Fail(c, http.StatusNotFound, "Tutor not found")
			return
		}

		if err := sc.Store.UpdateTutorStats(ctx, tutor.ID, rating); err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to record session")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Session recorded",
		})
	}
}

// UpdateProfile applies the allow-listed profile fields.
func (sc *StudentController) UpdateProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerObjectID(c)
		if !ok {
			return
		}

		data := middleware.JSONData(c)
		fields := bson.M{}
		for _, key := range []string{"name", "email", "school"} {
			if value := stringField(data, key); value != "" {
				fields[key] = value
			}
		}
		if len(fields) == 0 {
			middleware.Fail(c, http.StatusBadRequest, "No valid fields to update")
			return
		}
		if email, ok := fields["email"].(string); ok && !helpers.ValidateEmail(email) {
			middleware.Fail(c, http.StatusBadRequest, "Invalid email format")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		matched, err := sc.Store.UpdateUserProfile(ctx, userID, models.RoleStudent, fields)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		if !matched {
			middleware.Fail(c, http.StatusNotFound, "User not found")
			return
		}

		user, err := sc.Store.FindUserByID(ctx, userID.Hex())
		if err != nil {
			middleware.Fail(c, http.StatusNotFound, "User not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"user":    user.PublicInfo(),
		})
	}
}
