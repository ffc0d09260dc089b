package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/aadeshp/coursehub/internal/domain/course"
)

func newCourse(t *testing.T, r *CoursesRepo) course.Course {
	t.Helper()

	c, err := r.Create(context.Background(), course.CreateCourseRequest{
		Title:       "Go 101",
		Description: "Intro",
		Instructor:  "Ada",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	return c
}

func TestCoursesCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewCoursesRepo()

	c := newCourse(t, r)

	if c.ID == "" {
		t.Fatal("expected a generated course id")
	}
	if c.Students == nil || len(c.Students) != 0 {
		t.Fatalf("expected empty roster, got %v", c.Students)
	}

	got, err := r.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != "Go 101" {
		t.Fatalf("got title %q", got.Title)
	}

	if _, err := r.GetByID(ctx, "missing"); !errors.Is(err, course.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	updated, err := r.Update(ctx, c.ID, course.UpdateCourseRequest{
		Title:       "Go 102",
		Description: "Updated",
		Instructor:  "Ada",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "Go 102" || updated.Description != "Updated" {
		t.Fatalf("update not applied: %+v", updated)
	}

	items, err := r.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d courses, want 1", len(items))
	}

	if err := r.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := r.Delete(ctx, c.ID); !errors.Is(err, course.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound on second delete", err)
	}
}

func TestEnrollAndRoster(t *testing.T) {
	ctx := context.Background()
	r := NewCoursesRepo()
	c := newCourse(t, r)

	entry := course.Student{StudentID: "s-1", StudentName: "Sam", Email: "sam@x.com"}

	if err := r.Enroll(ctx, c.ID, entry); err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	// the same (name, email) pair may only appear once
	dup := course.Student{StudentID: "s-2", StudentName: "Sam", Email: "sam@x.com"}
	if err := r.Enroll(ctx, c.ID, dup); !errors.Is(err, course.ErrAlreadyEnrolled) {
		t.Fatalf("got %v, want ErrAlreadyEnrolled", err)
	}

	// a different email is a different student
	other := course.Student{StudentID: "s-3", StudentName: "Sam", Email: "sam2@x.com"}
	if err := r.Enroll(ctx, c.ID, other); err != nil {
		t.Fatalf("enroll of distinct entry failed: %v", err)
	}

	if err := r.Enroll(ctx, "missing", entry); !errors.Is(err, course.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	got, _ := r.GetByID(ctx, c.ID)
	if len(got.Students) != 2 {
		t.Fatalf("got %d roster entries, want 2", len(got.Students))
	}

	err := r.UpdateStudent(ctx, c.ID, "s-1", course.UpdateStudentRequest{
		StudentName: "Samuel",
		Email:       "samuel@x.com",
	})
	if err != nil {
		t.Fatalf("update student failed: %v", err)
	}

	got, _ = r.GetByID(ctx, c.ID)
	if got.Students[0].StudentName != "Samuel" || got.Students[0].Email != "samuel@x.com" {
		t.Fatalf("student not updated: %+v", got.Students[0])
	}

	err = r.UpdateStudent(ctx, c.ID, "nope", course.UpdateStudentRequest{
		StudentName: "X",
		Email:       "x@x.com",
	})
	if !errors.Is(err, course.ErrStudentNotFound) {
		t.Fatalf("got %v, want ErrStudentNotFound", err)
	}

	if err := r.RemoveStudent(ctx, c.ID, "s-1"); err != nil {
		t.Fatalf("remove student failed: %v", err)
	}
	if err := r.RemoveStudent(ctx, c.ID, "s-1"); !errors.Is(err, course.ErrStudentNotFound) {
		t.Fatalf("got %v, want ErrStudentNotFound on second remove", err)
	}

	got, _ = r.GetByID(ctx, c.ID)
	if len(got.Students) != 1 || got.Students[0].StudentID != "s-3" {
		t.Fatalf("unexpected roster after removal: %+v", got.Students)
	}
}
