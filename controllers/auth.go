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
)

const dbTimeout = 10 * time.Second

type AuthController struct {
	Store  *services.Store
	Tokens *helpers.TokenIssuer
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), dbTimeout)
}

// stringField pulls a trimmed string out of the validated JSON map.
func stringField(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// numberField pulls an integer out of the validated JSON map. JSON numbers
// decode as float64; reject anything with a fractional part.
func numberField(data map[string]interface{}, key string) (int, bool) {
	v, ok := data[key].(float64)
	if !ok || v != float64(int(v)) {
		return 0, false
	}
	return int(v), true
}

// Register creates an unverified student account.
func (ac *AuthController) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		data := middleware.JSONData(c)

		email := strings.ToLower(stringField(data, "email"))
		password, _ := data["password"].(string)
		name := stringField(data, "name")
		school := stringField(data, "school")
		studentID := stringField(data, "student_id")

		if email == "" || password == "" || name == "" || school == "" || studentID == "" {
			middleware.Fail(c, http.StatusBadRequest, "All fields are required")
			return
		}
		if !helpers.ValidateEmail(email) {
			middleware.Fail(c, http.StatusBadRequest, "Invalid email format")
			return
		}
		if !helpers.IsSchoolEmail(email) {
			middleware.Fail(c, http.StatusBadRequest, "Please use your school email address")
			return
		}
		if ok, msg := helpers.ValidatePassword(password); !ok {
			middleware.Fail(c, http.StatusBadRequest, msg)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		exists, err := ac.Store.EmailExists(ctx, email)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Registration failed")
			return
		}
		if exists {
			middleware.Fail(c, http.StatusBadRequest, "Email already registered")
			return
		}

		hash, err := helpers.HashPassword(password)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Registration failed")
			return
		}

		user := &models.User{
			Email:        email,
			PasswordHash: hash,
			Name:         name,
			Role:         models.RoleStudent,
			School:       school,
			StudentID:    studentID,
			IsVerified:   false, // requires admin verification
		}
		userID, err := ac.Store.CreateUser(ctx, user)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Registration failed")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Registration successful. Please wait for admin verification.",
			"user_id": userID,
		})
	}
}

// Login authenticates a user and mints the token pair. Unknown email and
// wrong password share one message on purpose.
func (ac *AuthController) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		data := middleware.JSONData(c)

		email := strings.ToLower(stringField(data, "email"))
		password, _ := data["password"].(string)
		if email == "" || password == "" {
			middleware.Fail(c, http.StatusBadRequest, "Email and password are required")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := ac.Store.FindUserByEmail(ctx, email)
		if err != nil {
			middleware.Fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		if !helpers.VerifyPassword(user.PasswordHash, password) {
			middleware.Fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		if user.Role == models.RoleStudent && !user.IsVerified {
			middleware.Fail(c, http.StatusUnauthorized, "Account pending admin verification")
			return
		}

		if err := ac.Store.UpdateLastLogin(ctx, user.ID); err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Login failed")
			return
		}

		accessToken, refreshToken, err := ac.Tokens.GenerateTokens(user.ID.Hex(), user.Email, user.Role)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Login failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"message":       "Login successful",
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"user":          user.PublicInfo(),
		})
	}
}

// Refresh mints a new access token from a refresh token, re-checking that the
// account still exists and students are still verified.
func (ac *AuthController) Refresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		var token string
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		if !ac.Tokens.IsRefreshToken(token) {
			middleware.Fail(c, http.StatusUnauthorized, "Refresh token required")
			return
		}

		identity, err := ac.Tokens.IdentityFromToken(token)
		if err != nil {
			middleware.Fail(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := ac.Store.FindUserByID(ctx, identity.UserID)
		if err != nil {
			middleware.Fail(c, http.StatusUnauthorized, "User not found")
			return
		}
		if user.Role == models.RoleStudent && !user.IsVerified {
			middleware.Fail(c, http.StatusUnauthorized, "Account no longer verified")
			return
		}

		accessToken, err := ac.Tokens.GenerateAccessToken(user.ID.Hex(), user.Email, user.Role)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Token refresh failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"access_token": accessToken,
		})
	}
}

// Me returns the authenticated caller's account.
func (ac *AuthController) Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := middleware.CurrentIdentity(c)

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := ac.Store.FindUserByID(ctx, identity.UserID)
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

// Logout acknowledges the logout; clients discard their tokens.
func (ac *AuthController) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Logged out successfully",
		})
	}
}

// CheckEmail reports whether an email is already registered.
func (ac *AuthController) CheckEmail() gin.HandlerFunc {
	return func(c *gin.Context) {
		data := middleware.JSONData(c)
		email := stringField(data, "email")

		ctx, cancel := requestContext(c)
		defer cancel()

		exists, err := ac.Store.EmailExists(ctx, email)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Email check failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"email_exists": exists,
		})
	}
}
