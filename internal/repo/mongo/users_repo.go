package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/aadeshp/coursehub/internal/domain/user"
	"github.com/aadeshp/coursehub/internal/observability"
	"github.com/aadeshp/coursehub/internal/security"
)

const usersCollection = "users"

type userDoc struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Name         string        `bson:"name"`
	Phone        string        `bson:"phone"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"password"`
	Role         string        `bson:"role"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}

func (d userDoc) toDomain() user.User {
	return user.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Phone:        d.Phone,
		Email:        d.Email,
		PasswordHash: security.HashFromStored(d.PasswordHash),
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type UsersRepo struct {
	coll *mongo.Collection
	obs  *observability.Prom
}

func NewUsersRepo(db *mongo.Database, obs *observability.Prom) *UsersRepo {
	return &UsersRepo{coll: db.Collection(usersCollection), obs: obs}
}

// Create inserts a new user. The unique index on email turns a
// concurrent duplicate into ErrDuplicateEmail rather than a second
// record.
func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	now := time.Now().UTC()

	doc := userDoc{
		Name:         u.Name,
		Phone:        u.Phone,
		Email:        user.NormalizeEmail(u.Email),
		PasswordHash: u.PasswordHash.String(),
		Role:         u.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var inserted *mongo.InsertOneResult

	err := r.obs.ObserveStore("users.create", func() error {
		var err error
		inserted, err = r.coll.InsertOne(ctx, doc)
		return err
	})

	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrDuplicateEmail
		}

		return user.User{}, err
	}

	id, ok := inserted.InsertedID.(bson.ObjectID)

	if !ok {
		return user.User{}, errors.New("unexpected inserted id type")
	}

	doc.ID = id

	return doc.toDomain(), nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_email", bson.D{{Key: "email", Value: user.NormalizeEmail(email)}})
}

func (r *UsersRepo) GetByPhone(ctx context.Context, phone string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_phone", bson.D{{Key: "phone", Value: phone}})
}

func (r *UsersRepo) getOne(ctx context.Context, op string, filter bson.D) (user.User, error) {
	var doc userDoc

	err := r.obs.ObserveStore(op, func() error {
		return r.coll.FindOne(ctx, filter).Decode(&doc)
	})

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return doc.toDomain(), nil
}
