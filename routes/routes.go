package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"tutorhub/controllers"
	"tutorhub/helpers"
	"tutorhub/middleware"
	"tutorhub/models"
)

// Controllers bundles the handler sets the router mounts.
type Controllers struct {
	Auth    *controllers.AuthController
	Student *controllers.StudentController
	Tutor   *controllers.TutorController
	Admin   *controllers.AdminController
	AI      *controllers.AIController
}

// Register mounts every API group on the engine. Group-level auth gates run
// first, then per-route rate limit, body validation, action log, handler;
// request ids are minted engine-wide before any of it.
func Register(r *gin.Engine, ctl Controllers, issuer *helpers.TokenIssuer, limiter *middleware.RateLimiter) {
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.NoRoute(middleware.NotFound())

	auth := r.Group("/api/auth")
	{
		auth.POST("/register",
			limiter.Limit("register", 5, time.Minute),
			middleware.ValidateJSON("email", "password", "name", "school", "student_id"),
			middleware.ActionLog("register"),
			ctl.Auth.Register())
		auth.POST("/login",
			limiter.Limit("login", 10, time.Minute),
			middleware.ValidateJSON("email", "password"),
			middleware.ActionLog("login"),
			ctl.Auth.Login())
		auth.POST("/refresh",
			limiter.Limit("refresh", 20, time.Minute),
			ctl.Auth.Refresh())
		auth.GET("/me",
			middleware.RequireAuth(issuer),
			ctl.Auth.Me())
		auth.POST("/logout",
			middleware.RequireAuth(issuer),
			middleware.ActionLog("logout"),
			ctl.Auth.Logout())
		auth.POST("/check-email",
			limiter.Limit("check_email", 20, time.Minute),
			middleware.ValidateJSON("email"),
			ctl.Auth.CheckEmail())
	}

	students := r.Group("/api/students")
	students.Use(middleware.RequireVerifiedStudent(issuer))
	{
		students.GET("/profile", ctl.Student.Profile())
		students.PUT("/profile",
			middleware.ValidateJSON(),
			middleware.ActionLog("update_profile"),
			ctl.Student.UpdateProfile())
		students.GET("/chat-history", ctl.Student.ChatHistory())
		students.DELETE("/chats/:chat_id",
			middleware.ActionLog("delete_chat"),
			ctl.Student.DeleteChat())
		students.PUT("/chats/:chat_id/title",
			middleware.ValidateJSON("title"),
			ctl.Student.UpdateChatTitle())
		students.GET("/messages/search",
			limiter.Limit("message_search", 30, time.Minute),
			ctl.Student.SearchMessages())
		students.GET("/recommended-tutors", ctl.Student.RecommendedTutors())
		students.POST("/tutors/:tutor_id/sessions",
			middleware.ValidateJSON(),
			middleware.ActionLog("record_session"),
			ctl.Student.RecordSession())
	}

	tutors := r.Group("/api/tutors")
	tutors.Use(middleware.OptionalAuth(issuer))
	{
		tutors.GET("", ctl.Tutor.List())
		tutors.GET("/search", ctl.Tutor.Search())
		tutors.GET("/by-subjects", ctl.Tutor.BySubjects())
		tutors.GET("/top", ctl.Tutor.Top())
		tutors.GET("/subjects", ctl.Tutor.Subjects())
		tutors.GET("/:tutor_id", ctl.Tutor.Detail())
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireRole(issuer, models.RoleAdmin))
	{
		admin.GET("/pending-students", ctl.Admin.PendingStudents())
		admin.POST("/verify-student/:student_id",
			middleware.ActionLog("verify_student"),
			ctl.Admin.VerifyStudent())
		admin.GET("/users", ctl.Admin.Users())
		admin.GET("/tutors", ctl.Admin.Tutors())
		admin.POST("/tutors",
			middleware.ValidateJSON("name", "subjects", "hourly_rate", "school", "contact_info"),
			middleware.ActionLog("add_tutor"),
			ctl.Admin.AddTutor())
		admin.POST("/tutors/:tutor_id/activate",
			middleware.ActionLog("activate_tutor"),
			ctl.Admin.SetTutorActive(true))
		admin.POST("/tutors/:tutor_id/deactivate",
			middleware.ActionLog("deactivate_tutor"),
			ctl.Admin.SetTutorActive(false))
		admin.GET("/stats", ctl.Admin.Stats())
		admin.GET("/recent-activity", ctl.Admin.RecentActivity())
		admin.GET("/profile", ctl.Admin.Profile())
		admin.PUT("/profile",
			middleware.ValidateJSON(),
			middleware.ActionLog("update_profile"),
			ctl.Admin.UpdateProfile())
		admin.POST("/cleanup",
			limiter.Limit("cleanup", 1, time.Hour),
			middleware.ActionLog("cleanup"),
			ctl.Admin.Cleanup())
	}

	ai := r.Group("/api/ai")
	ai.Use(middleware.RequireVerifiedStudent(issuer))
	{
		ai.POST("/chat",
			limiter.Limit("ai_chat", 50, time.Hour),
			middleware.ValidateJSON("message"),
			middleware.ActionLog("ai_chat"),
			ctl.AI.Chat())
		ai.GET("/chats", ctl.AI.Chats())
		ai.POST("/chats",
			middleware.ValidateJSON(),
			ctl.AI.CreateChat())
		ai.POST("/summarize",
			limiter.Limit("summary", 10, time.Hour),
			middleware.ValidateJSON("chat_id"),
			middleware.ActionLog("chat_summary"),
			ctl.AI.Summarize())
		ai.POST("/quiz",
			limiter.Limit("quiz", 5, time.Hour),
			middleware.ValidateJSON("chat_id"),
			middleware.ActionLog("quiz_generation"),
			ctl.AI.Quiz())
		ai.GET("/tasks/:task_id", ctl.AI.TaskStatus())
		ai.POST("/rate",
			middleware.ValidateJSON("message_id", "rating"),
			middleware.ActionLog("rate_message"),
			ctl.AI.RateMessage())
	}
}
