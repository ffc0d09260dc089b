package course

import "errors"

// Student is a roster entry embedded in its course document. Entries
// have no identity outside the course they belong to.
type Student struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	Email       string `json:"email"`
}

type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Instructor  string    `json:"instructor"`
	Logo        string    `json:"logo,omitempty"`
	Students    []Student `json:"students"`
}

var (
	ErrNotFound        = errors.New("course not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrAlreadyEnrolled = errors.New("student already enrolled")
)

type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,min=2,max=160"`
	Description string `json:"description" binding:"required,max=2000"`
	Instructor  string `json:"instructor" binding:"required,min=2,max=120"`
	Logo        string `json:"logo" binding:"omitempty,max=500"`
}

// a full update payload, same shape as create.
type UpdateCourseRequest struct {
	Title       string `json:"title" binding:"required,min=2,max=160"`
	Description string `json:"description" binding:"required,max=2000"`
	Instructor  string `json:"instructor" binding:"required,min=2,max=120"`
	Logo        string `json:"logo" binding:"omitempty,max=500"`
}

type EnrollRequest struct {
	StudentName string `json:"studentName" binding:"required,min=2,max=120"`
	Email       string `json:"email" binding:"required,email"`
}

type UpdateStudentRequest struct {
	StudentName string `json:"studentName" binding:"required,min=2,max=120"`
	Email       string `json:"email" binding:"required,email"`
}
