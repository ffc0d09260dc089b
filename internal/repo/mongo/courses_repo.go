package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/aadeshp/coursehub/internal/domain/course"
	"github.com/aadeshp/coursehub/internal/observability"
)

const coursesCollection = "courses"

type studentDoc struct {
	StudentID   string `bson:"student_id"`
	StudentName string `bson:"student_name"`
	Email       string `bson:"email"`
}

type courseDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Title       string        `bson:"title"`
	Description string        `bson:"description"`
	Instructor  string        `bson:"instructor"`
	Logo        string        `bson:"logo,omitempty"`
	Students    []studentDoc  `bson:"students"`
}

func (d courseDoc) toDomain() course.Course {
	students := make([]course.Student, 0, len(d.Students))

	for _, s := range d.Students {
		students = append(students, course.Student{
			StudentID:   s.StudentID,
			StudentName: s.StudentName,
			Email:       s.Email,
		})
	}

	return course.Course{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Instructor:  d.Instructor,
		Logo:        d.Logo,
		Students:    students,
	}
}

type CoursesRepo struct {
	coll *mongo.Collection
	obs  *observability.Prom
}

func NewCoursesRepo(db *mongo.Database, obs *observability.Prom) *CoursesRepo {
	return &CoursesRepo{coll: db.Collection(coursesCollection), obs: obs}
}

func (r *CoursesRepo) Create(ctx context.Context, req course.CreateCourseRequest) (course.Course, error) {
	doc := courseDoc{
		Title:       req.Title,
		Description: req.Description,
		Instructor:  req.Instructor,
		Logo:        req.Logo,
		Students:    []studentDoc{},
	}

	var inserted *mongo.InsertOneResult

	err := r.obs.ObserveStore("courses.create", func() error {
		var err error
		inserted, err = r.coll.InsertOne(ctx, doc)
		return err
	})

	if err != nil {
		return course.Course{}, err
	}

	id, ok := inserted.InsertedID.(bson.ObjectID)

	if !ok {
		return course.Course{}, errors.New("unexpected inserted id type")
	}

	doc.ID = id

	return doc.toDomain(), nil
}

func (r *CoursesRepo) List(ctx context.Context) ([]course.Course, error) {
	var docs []courseDoc

	err := r.obs.ObserveStore("courses.list", func() error {
		cur, err := r.coll.Find(ctx, bson.D{})

		if err != nil {
			return err
		}

		return cur.All(ctx, &docs)
	})

	if err != nil {
		return nil, err
	}

	courses := make([]course.Course, 0, len(docs))

	for _, d := range docs {
		courses = append(courses, d.toDomain())
	}

	return courses, nil
}

func (r *CoursesRepo) GetByID(ctx context.Context, id string) (course.Course, error) {
	oid, err := bson.ObjectIDFromHex(id)

	if err != nil {
		return course.Course{}, course.ErrNotFound
	}

	var doc courseDoc

	err = r.obs.ObserveStore("courses.get_by_id", func() error {
		return r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	})

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return course.Course{}, course.ErrNotFound
		}

		return course.Course{}, err
	}

	return doc.toDomain(), nil
}

func (r *CoursesRepo) Update(ctx context.Context, id string, req course.UpdateCourseRequest) (course.Course, error) {
	oid, err := bson.ObjectIDFromHex(id)

	if err != nil {
		return course.Course{}, course.ErrNotFound
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: req.Title},
		{Key: "description", Value: req.Description},
		{Key: "instructor", Value: req.Instructor},
		{Key: "logo", Value: req.Logo},
	}}}

	var doc courseDoc

	err = r.obs.ObserveStore("courses.update", func() error {
		return r.coll.FindOneAndUpdate(
			ctx,
			bson.D{{Key: "_id", Value: oid}},
			update,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&doc)
	})

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return course.Course{}, course.ErrNotFound
		}

		return course.Course{}, err
	}

	return doc.toDomain(), nil
}

func (r *CoursesRepo) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)

	if err != nil {
		return course.ErrNotFound
	}

	var res *mongo.DeleteResult

	err = r.obs.ObserveStore("courses.delete", func() error {
		var err error
		res, err = r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
		return err
	})

	if err != nil {
		return err
	}

	if res.DeletedCount == 0 {
		return course.ErrNotFound
	}

	return nil
}

// Enroll appends a roster entry in a single guarded update: the filter
// only matches when no entry with the same (studentName, email) pair is
// present, so a concurrent duplicate loses cleanly.
func (r *CoursesRepo) Enroll(ctx context.Context, id string, s course.Student) error {
	oid, err := bson.ObjectIDFromHex(id)

	if err != nil {
		return course.ErrNotFound
	}

	filter := bson.D{
		{Key: "_id", Value: oid},
		{Key: "students", Value: bson.D{{Key: "$not", Value: bson.D{{Key: "$elemMatch", Value: bson.D{
			{Key: "student_name", Value: s.StudentName},
			{Key: "email", Value: s.Email},
		}}}}}},
	}

	push := bson.D{{Key: "$push", Value: bson.D{{Key: "students", Value: studentDoc{
		StudentID:   s.StudentID,
		StudentName: s.StudentName,
		Email:       s.Email,
	}}}}}

	var res *mongo.UpdateResult

	err = r.obs.ObserveStore("courses.enroll", func() error {
		var err error
		res, err = r.coll.UpdateOne(ctx, filter, push)
		return err
	})

	if err != nil {
		return err
	}

	if res.MatchedCount == 1 {
		return nil
	}

	// filter missed: either the course is gone or the pair is already
	// on the roster
	_, err = r.GetByID(ctx, id)

	if err != nil {
		return err
	}

	return course.ErrAlreadyEnrolled
}

func (r *CoursesRepo) UpdateStudent(ctx context.Context, id, studentID string, req course.UpdateStudentRequest) error {
	oid, err := bson.ObjectIDFromHex(id)

	if err != nil {
		return course.ErrNotFound
	}

	filter := bson.D{
		{Key: "_id", Value: oid},
		{Key: "students.student_id", Value: studentID},
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "students.$.student_name", Value: req.StudentName},
		{Key: "students.$.email", Value: req.Email},
	}}}

	var res *mongo.UpdateResult

	err = r.obs.ObserveStore("courses.update_student", func() error {
		var err error
		res, err = r.coll.UpdateOne(ctx, filter, update)
		return err
	})

	if err != nil {
		return err
	}

	if res.MatchedCount == 1 {
		return nil
	}

	_, err = r.GetByID(ctx, id)

	if err != nil {
		return err
	}

	return course.ErrStudentNotFound
}

func (r *CoursesRepo) RemoveStudent(ctx context.Context, id, studentID string) error {
	oid, err := bson.ObjectIDFromHex(id)

	if err != nil {
		return course.ErrNotFound
	}

	pull := bson.D{{Key: "$pull", Value: bson.D{{Key: "students", Value: bson.D{
		{Key: "student_id", Value: studentID},
	}}}}}

	var res *mongo.UpdateResult

	err = r.obs.ObserveStore("courses.remove_student", func() error {
		var err error
		res, err = r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, pull)
		return err
	})

	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return course.ErrNotFound
	}

	if res.ModifiedCount == 0 {
		return course.ErrStudentNotFound
	}

	return nil
}
