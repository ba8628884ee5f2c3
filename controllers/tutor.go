package controllers

import (
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tutorhub/helpers"
	"tutorhub/middleware"
	"tutorhub/models"
	"tutorhub/services"
)

type TutorController struct {
	Store *services.Store
}

func tutorView(tutor models.Tutor) gin.H {
	return gin.H{
		"id":             tutor.ID.Hex(),
		"name":           tutor.Name,
		"subjects":       tutor.Subjects,
		"hourly_rate":    tutor.HourlyRate,
		"school":         tutor.School,
		"gpa":            tutor.GPA,
		"contact_info":   tutor.ContactInfo,
		"rating_average": tutor.RatingAverage,
		"total_sessions": tutor.TotalSessions,
		"is_active":      tutor.IsActive,
		"created_at":     tutor.CreatedAt,
	}
}

func sortTutors(tutors []models.Tutor, sortBy string) {
	sort.SliceStable(tutors, func(i, j int) bool {
		switch sortBy {
		case "gpa":
			return tutors[i].GPA > tutors[j].GPA
		case "sessions":
			return tutors[i].TotalSessions > tutors[j].TotalSessions
		default:
			return tutors[i].RatingAverage > tutors[j].RatingAverage
		}
	})
}

func tutorList(tutors []models.Tutor) []gin.H {
	list := make([]gin.H, 0, len(tutors))
	for _, tutor := range tutors {
		list = append(list, tutorView(tutor))
	}
	return list
}

// List returns all active tutors in the public directory.
func (tc *TutorController) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		tutors, err := tc.Store.FindTutors(ctx, true)
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

// Detail returns one tutor by id.
func (tc *TutorController) Detail() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		tutor, err := tc.Store.FindTutorByID(ctx, c.Param("tutor_id"))
		if err != nil || !tutor.IsActive {
			middleware.Fail(c, http.StatusNotFound, "Tutor not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"tutor":   tutorView(*tutor),
		})
	}
}

// Search filters the directory by school, minimum GPA, subjects, and maximum
// hourly rate query parameters.
func (tc *TutorController) Search() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := services.TutorSearchFilter{
			School: strings.TrimSpace(c.Query("school")),
		}
		if raw := c.Query("min_gpa"); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
				filter.MinGPA = v
			}
		}
		if raw := c.Query("max_rate"); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
				filter.MaxRate = v
			}
		}
		if raw := c.Query("subjects"); raw != "" {
			filter.Subjects = helpers.NormalizeSubjects(strings.Split(raw, ","))
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		tutors, err := tc.Store.SearchTutors(ctx, filter)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Tutor search failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"tutors":  tutorList(tutors),
			"total":   len(tutors),
		})
	}
}

// BySubjects matches tutors against a subject list, annotating each result
// with the matching subjects and a match percentage.
func (tc *TutorController) BySubjects() gin.HandlerFunc {
	return func(c *gin.Context) {
		requested := helpers.NormalizeSubjects(strings.Split(c.Query("subjects"), ","))
		if len(requested) == 0 {
			middleware.Fail(c, http.StatusBadRequest, "At least one subject is required")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		tutors, err := tc.Store.FindTutorsBySubjects(ctx, requested, 20)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get tutors")
			return
		}

		wanted := make(map[string]bool, len(requested))
		for _, s := range requested {
			wanted[s] = true
		}

		results := make([]gin.H, 0, len(tutors))
		for _, tutor := range tutors {
			var matching []string
			for _, s := range tutor.Subjects {
				if wanted[s] {
					matching = append(matching, s)
				}
			}
			view := tutorView(tutor)
			view["matching_subjects"] = matching
			view["match_percentage"] = math.Round(float64(len(matching)) / float64(len(requested)) * 100)
			results = append(results, view)
		}

		c.JSON(http.StatusOK, gin.H{
			"success":            true,
			"tutors":             results,
			"subjects_requested": requested,
			"total":              len(results),
		})
	}
}

// Top ranks active tutors by gpa, rating, or sessions.
func (tc *TutorController) Top() gin.HandlerFunc {
	return func(c *gin.Context) {
		sortBy := c.DefaultQuery("sort_by", "rating")
		switch sortBy {
		case "gpa", "rating", "sessions":
		default:
			middleware.Fail(c, http.StatusBadRequest, "sort_by must be one of: gpa, rating, sessions")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		tutors, err := tc.Store.FindTutors(ctx, true)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get tutors")
			return
		}

		sortTutors(tutors, sortBy)
		limit := queryInt(c, "limit", 10)
		if limit > len(tutors) {
			limit = len(tutors)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"tutors":  tutorList(tutors[:limit]),
			"sort_by": sortBy,
		})
	}
}

// Subjects returns the unique subjects offered across the directory.
func (tc *TutorController) Subjects() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		subjects, err := tc.Store.ListSubjects(ctx)
		if err != nil {
			middleware.Fail(c, http.StatusInternalServerError, "Failed to get subjects")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"subjects": subjects,
			"total":    len(subjects),
		})
	}
}
