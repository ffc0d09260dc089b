package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/aadeshp/coursehub/internal/domain/course"
)

type CoursesRepo struct {
	mu    sync.RWMutex
	items map[string]course.Course
}

func NewCoursesRepo() *CoursesRepo {
	return &CoursesRepo{
		items: make(map[string]course.Course),
	}
}

func (r *CoursesRepo) Create(ctx context.Context, req course.CreateCourseRequest) (course.Course, error) {
	c := course.Course{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Instructor:  req.Instructor,
		Logo:        req.Logo,
		Students:    []course.Student{},
	}

	r.mu.Lock()
	r.items[c.ID] = c
	r.mu.Unlock()

	return c, nil
}

func (r *CoursesRepo) List(ctx context.Context) ([]course.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]course.Course, 0, len(r.items))

	for _, c := range r.items {
		out = append(out, c)
	}

	return out, nil
}

func (r *CoursesRepo) GetByID(ctx context.Context, id string) (course.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]

	if !ok {
		return course.Course{}, course.ErrNotFound
	}

	return c, nil
}

func (r *CoursesRepo) Update(ctx context.Context, id string, req course.UpdateCourseRequest) (course.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]

	if !ok {
		return course.Course{}, course.ErrNotFound
	}

	c.Title = req.Title
	c.Description = req.Description
	c.Instructor = req.Instructor
	c.Logo = req.Logo

	r.items[id] = c

	return c, nil
}

func (r *CoursesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[id]

	if !ok {
		return course.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

func (r *CoursesRepo) Enroll(ctx context.Context, id string, s course.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]

	if !ok {
		return course.ErrNotFound
	}

	for _, existing := range c.Students {
		if existing.StudentName == s.StudentName && existing.Email == s.Email {
			return course.ErrAlreadyEnrolled
		}
	}

	c.Students = append(c.Students, s)
	r.items[id] = c

	return nil
}

func (r *CoursesRepo) UpdateStudent(ctx context.Context, id, studentID string, req course.UpdateStudentRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]

	if !ok {
		return course.ErrNotFound
	}

	for i, existing := range c.Students {
		if existing.StudentID == studentID {
			c.Students[i].StudentName = req.StudentName
			c.Students[i].Email = req.Email
			r.items[id] = c

			return nil
		}
	}

	return course.ErrStudentNotFound
}

func (r *CoursesRepo) RemoveStudent(ctx context.Context, id, studentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]

	if !ok {
		return course.ErrNotFound
	}

	for i, existing := range c.Students {
		if existing.StudentID == studentID {
			c.Students = append(c.Students[:i], c.Students[i+1:]...)
			r.items[id] = c

			return nil
		}
	}

	return course.ErrStudentNotFound
}
