package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aadeshp/coursehub/internal/config"
	"github.com/aadeshp/coursehub/internal/domain/course"
)

type CourseStore interface {
	Create(ctx context.Context, req course.CreateCourseRequest) (course.Course, error)
	List(ctx context.Context) ([]course.Course, error)
	GetByID(ctx context.Context, id string) (course.Course, error)
	Update(ctx context.Context, id string, req course.UpdateCourseRequest) (course.Course, error)
	Delete(ctx context.Context, id string) error
	Enroll(ctx context.Context, id string, s course.Student) error
	UpdateStudent(ctx context.Context, id, studentID string, req course.UpdateStudentRequest) error
	RemoveStudent(ctx context.Context, id, studentID string) error
}

type CoursesHandler struct {
	repo CourseStore
	log  *slog.Logger
}

func NewCoursesHandler(repo CourseStore, log *slog.Logger) *CoursesHandler {
	return &CoursesHandler{repo: repo, log: log}
}

func (h *CoursesHandler) CreateCourse(ctx *gin.Context) {
	var req course.CreateCourseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	c, err := h.repo.Create(cctx, req)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "create course failed", "err", err)
		RespondInternal(ctx, "Could not create course")
		return
	}

	ctx.JSON(http.StatusCreated, c)
}

func (h *CoursesHandler) ListCourses(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	courses, err := h.repo.List(cctx)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "list courses failed", "err", err)
		RespondInternal(ctx, "Could not list courses")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": courses,
		"count": len(courses),
	})
}

func (h *CoursesHandler) GetCourseByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	c, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			RespondNotFound(ctx, "Course not found")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "get course failed", "err", err)
		RespondInternal(ctx, "Could not fetch course")
		return
	}

	ctx.JSON(http.StatusOK, c)
}

func (h *CoursesHandler) UpdateCourse(ctx *gin.Context) {
	id := ctx.Param("id")

	var req course.UpdateCourseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	updated, err := h.repo.Update(cctx, id, req)

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			RespondNotFound(ctx, "Course not found")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "update course failed", "err", err)
		RespondInternal(ctx, "Could not update course")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Course updated",
		"course":  updated,
	})
}

func (h *CoursesHandler) DeleteCourse(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			RespondNotFound(ctx, "Course not found")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "delete course failed", "err", err)
		RespondInternal(ctx, "Could not delete course")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
}

// Enroll adds the caller-supplied roster entry to a course. The
// student-role gate sits on the route.
func (h *CoursesHandler) Enroll(ctx *gin.Context) {
	id := ctx.Param("id")

	var req course.EnrollRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	err := h.repo.Enroll(cctx, id, course.Student{
		StudentID:   uuid.NewString(),
		StudentName: req.StudentName,
		Email:       req.Email,
	})

	if err != nil {
		switch {
		case errors.Is(err, course.ErrNotFound):
			RespondNotFound(ctx, "Course not found")
		case errors.Is(err, course.ErrAlreadyEnrolled):
			RespondConflict(ctx, "already_enrolled", "Student already enrolled")
		default:
			h.log.ErrorContext(ctx.Request.Context(), "enroll failed", "err", err)
			RespondInternal(ctx, "Enrollment failed")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Enrollment successful"})
}

func (h *CoursesHandler) UpdateStudent(ctx *gin.Context) {
	id := ctx.Param("id")
	studentID := ctx.Param("studentId")

	var req course.UpdateStudentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	err := h.repo.UpdateStudent(cctx, id, studentID, req)

	if err != nil {
		switch {
		case errors.Is(err, course.ErrNotFound):
			RespondNotFound(ctx, "Course not found")
		case errors.Is(err, course.ErrStudentNotFound):
			RespondNotFound(ctx, "Student not found")
		default:
			h.log.ErrorContext(ctx.Request.Context(), "update student failed", "err", err)
			RespondInternal(ctx, "Could not update student")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Student updated successfully"})
}

func (h *CoursesHandler) RemoveStudent(ctx *gin.Context) {
	id := ctx.Param("id")
	studentID := ctx.Param("studentId")

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	err := h.repo.RemoveStudent(cctx, id, studentID)

	if err != nil {
		switch {
		case errors.Is(err, course.ErrNotFound):
			RespondNotFound(ctx, "Course not found")
		case errors.Is(err, course.ErrStudentNotFound):
			RespondNotFound(ctx, "Student not found")
		default:
			h.log.ErrorContext(ctx.Request.Context(), "remove student failed", "err", err)
			RespondInternal(ctx, "Could not remove student")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Student removed successfully"})
}
