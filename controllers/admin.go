package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"

	"tutorhub/helpers"
	"tutorhub/middleware"
	"tutorhub/models"
	"tutorhub/services"
	"tutorhub/tasks"
)

type AdminController struct {
	Store    *services.Store
	Runner   *tasks.Runner
	Validate *validator.Validate

	ChatRetention      time.Duration
	CleanupMinMessages int
}

func userList(users []models.User) []map[string]interface{} {
	list := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		info := users[i].PublicInfo()
		info["last_login_ago"] = helpers.TimeAgo(users[i].LastLogin)
		list = append(list, info)
	}
	return list
}

// PendingStudents lists student accounts awaiting verification.
func (ad *AdminController) PendingStudents() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		students, err := ad.Store.FindPendingStudents(ctx)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get pending students")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"students": userList(students),
			"total":    len(students),
		})
	}
}

// VerifyStudent marks a pending student account as verified.
func (ad *AdminController) VerifyStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		verified, err := ad.Store.VerifyStudent(ctx, c.Param("student_id"))
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to verify student")
			return
		}
		if !verified {
			middleware.Fail(c, http.StatusNotFound, "Student not found or already verified")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Student verified successfully",
		})
	}
}

// Users returns the paginated user roster.
func (ad *AdminController) Users() gin.HandlerFunc {
	return func(c *gin.Context) {
		page := queryInt(c, "page", 1)
		perPage := queryInt(c, "per_page", 20)
		if perPage > 100 {
			perPage = 100
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		users, total, err := ad.Store.ListUsers(ctx, page, perPage)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get users")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"users":      userList(users),
			"pagination": helpers.Paginate(page, perPage, total),
		})
	}
}

// Tutors lists every tutor, active or not.
func (ad *AdminController) Tutors() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		tutors, err := ad.Store.FindTutors(ctx, false)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get tutors")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"tutors":  tutorList(tutors),
			"total":   len(tutors),
		})
	}
}

// AddTutor creates a tutor directory entry from the validated payload.
func (ad *AdminController) AddTutor() gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, ok := callerObjectID(c)
		if !ok {
			return
		}

		var payload models.TutorPayload
		raw, err := json.Marshal(middleware.JSONData(c))
		if err == nil {
			err = json.Unmarshal(raw, &payload)
		}
		if err != nil {
			middleware.Fail(c, http.StatusBadRequest, "Invalid or missing JSON data")
			return
		}
		if err := ad.Validate.Struct(&payload); err != nil {
			middleware.Fail(c, http.StatusBadRequest, tutorValidationMessage(err))
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		tutor := &models.Tutor{
			Name:           strings.TrimSpace(payload.Name),
			Subjects:       payload.Subjects,
			HourlyRate:     payload.HourlyRate,
			School:         strings.TrimSpace(payload.School),
			GPA:            payload.GPA,
			ContactInfo:    payload.ContactInfo,
			CreatedByAdmin: adminID,
			IsActive:       true,
		}
		id, err := ad.Store.CreateTutor(ctx, tutor)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to add tutor")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success":  true,
			"message":  "Tutor added successfully",
			"tutor_id": id,
		})
	}
}

// tutorValidationMessage turns the first validator error into a readable
// field-level message.
func tutorValidationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return "Invalid tutor data"
	}
	fe := fieldErrors[0]
	switch fe.Tag() {
	case "required", "min":
		return fmt.Sprintf("Missing required field: %s", fieldName(fe))
	case "gt", "gte":
		return fmt.Sprintf("Field %s must be at least %s", fieldName(fe), fe.Param())
	case "lte":
		return fmt.Sprintf("Field %s must be at most %s", fieldName(fe), fe.Param())
	case "max":
		return fmt.Sprintf("Field %s exceeds maximum length %s", fieldName(fe), fe.Param())
	case "email":
		return "Invalid contact email format"
	default:
		return fmt.Sprintf("Invalid value for field: %s", fieldName(fe))
	}
}

func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}

// SetTutorActive toggles a tutor in or out of the public directory.
func (ad *AdminController) SetTutorActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		matched, err := ad.Store.SetTutorActive(ctx, c.Param("tutor_id"), active)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to update tutor")
			return
		}
		if !matched {
			middleware.Fail(c, http.StatusNotFound, "Tutor not found")
			return
		}

		message := "Tutor deactivated successfully"
		if active {
			message = "Tutor activated successfully"
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
	}
}

// Stats reports platform-wide totals for the admin dashboard.
func (ad *AdminController) Stats() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		verified, err := ad.Store.FindStudents(ctx, true)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get stats")
			return
		}
		pending, err := ad.Store.FindPendingStudents(ctx)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get stats")
			return
		}
		tutors, err := ad.Store.FindTutors(ctx, false)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get stats")
			return
		}
		activeTutors := 0
		for _, t := range tutors {
			if t.IsActive {
				activeTutors++
			}
		}

		usage, err := ad.Store.TokenUsageStats(ctx, time.Now().UTC().AddDate(0, 0, -30))
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get stats")
			return
		}
		avgRating, err := ad.Store.AverageRating(ctx)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get stats")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"stats": gin.H{
				"students": gin.H{
					"verified": len(verified),
					"pending":  len(pending),
					"total":    len(verified) + len(pending),
				},
				"tutors": gin.H{
					"total":  len(tutors),
					"active": activeTutors,
				},
				"ai_usage_30d": usage,
				"avg_rating":   avgRating,
				"generated_at": time.Now().UTC(),
			},
		})
	}
}

// RecentActivity surfaces the latest registrations and rating feedback.
func (ad *AdminController) RecentActivity() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		users, _, err := ad.Store.ListUsers(ctx, 1, 10)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get recent activity")
			return
		}
		feedback, err := ad.Store.RecentFeedback(ctx, 10)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get recent activity")
			return
		}

		registrations := make([]gin.H, 0, len(users))
		for i := range users {
			registrations = append(registrations, gin.H{
				"id":         users[i].ID.Hex(),
				"name":       users[i].Name,
				"email":      users[i].Email,
				"role":       users[i].Role,
				"created_at": users[i].CreatedAt,
				"time_ago":   helpers.TimeAgo(&users[i].CreatedAt),
			})
		}
		feedbackList := make([]gin.H, 0, len(feedback))
		for _, r := range feedback {
			feedbackList = append(feedbackList, gin.H{
				"rating":     r.Rating,
				"feedback":   r.Feedback,
				"created_at": r.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"success":              true,
			"recent_registrations": registrations,
			"recent_feedback":      feedbackList,
		})
	}
}

// Profile returns the admin's own account.
func (ad *AdminController) Profile() gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, ok := callerObjectID(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := ad.Store.FindUserByID(ctx, adminID.Hex())
		if err != nil {
			middleware.Fail(c, http.StatusNotFound, "User not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"profile": user.PublicInfo(),
		})
	}
}

// UpdateProfile applies the admin allow-listed fields.
func (ad *AdminController) UpdateProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, ok := callerObjectID(c)
		if !ok {
			return
		}

		data := middleware.JSONData(c)
		fields := bson.M{}
		for _, key := range []string{"name", "email"} {
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

		matched, err := ad.Store.UpdateUserProfile(ctx, adminID, models.RoleAdmin, fields)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		if !matched {
			middleware.Fail(c, http.StatusNotFound, "User not found")
			return
		}

		user, err := ad.Store.FindUserByID(ctx, adminID.Hex())
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

// Cleanup queues the inactive-chat purge and returns the task id.
func (ad *AdminController) Cleanup() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID := ad.Runner.Submit("chat_cleanup",
			tasks.CleanupTask(ad.Store, ad.ChatRetention, ad.CleanupMinMessages))

		c.JSON(http.StatusAccepted, gin.H{
			"success": true,
			"message": "Cleanup started",
			"task_id": taskID,
		})
	}
}
