package accounts

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aadeshp/coursehub/internal/domain/user"
	"github.com/aadeshp/coursehub/internal/identity"
	"github.com/aadeshp/coursehub/internal/security"
)

// ErrIncompleteClaim is returned when a verified claim carries no
// identifier the resolver could key an account on.
var ErrIncompleteClaim = errors.New("identity claim carries no usable identifier")

// UserStore is the slice of the users repository the resolver needs.
type UserStore interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByPhone(ctx context.Context, phone string) (user.User, error)
}

// Resolver maps credentials and verified external claims to local user
// records. It is the only place where identity-to-account logic lives.
type Resolver struct {
	users UserStore
	log   *slog.Logger
}

func NewResolver(users UserStore, log *slog.Logger) *Resolver {
	return &Resolver{users: users, log: log}
}

type RegisterParams struct {
	Name     string
	Phone    string
	Email    string
	Password string
	Role     string
}

func (r *Resolver) Register(ctx context.Context, p RegisterParams) (user.User, error) {
	role := p.Role

	if role == "" {
		role = user.RoleStudent
	} else if !user.ValidRole(role) {
		// the HTTP layer rejects this earlier; keep the rule here too so
		// every caller gets it
		return user.User{}, user.ErrInvalidRole
	}

	hash, err := security.HashPassword(p.Password)

	if err != nil {
		return user.User{}, err
	}

	return r.users.Create(ctx, user.User{
		Name:         p.Name,
		Phone:        p.Phone,
		Email:        user.NormalizeEmail(p.Email),
		PasswordHash: hash,
		Role:         role,
	})
}

// ResolveByPassword authenticates a password login. Unknown email and
// wrong password collapse into the same error; the distinction only
// reaches the log.
func (r *Resolver) ResolveByPassword(ctx context.Context, email, password string) (user.User, error) {
	email = user.NormalizeEmail(email)

	u, err := r.users.GetByEmail(ctx, email)

	if err != nil {
		r.log.DebugContext(ctx, "password login failed", "reason", "unknown_email", "email", email)
		return user.User{}, user.ErrInvalidCredentials
	}

	err = u.PasswordHash.Compare(password)

	if err != nil {
		r.log.DebugContext(ctx, "password login failed", "reason", "password_mismatch", "email", email)
		return user.User{}, user.ErrInvalidCredentials
	}

	return u, nil
}

// ResolveOrCreateByEmailClaim returns the account a verified email
// claim belongs to, provisioning a student account on first sight.
func (r *Resolver) ResolveOrCreateByEmailClaim(ctx context.Context, claim identity.Claim) (user.User, error) {
	if claim.Email == "" {
		return user.User{}, ErrIncompleteClaim
	}

	email := user.NormalizeEmail(claim.Email)

	u, err := r.users.GetByEmail(ctx, email)

	if err == nil {
		return u, nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, err
	}

	name := claim.Name

	if name == "" {
		name = email
	}

	created, err := r.provision(ctx, user.User{
		Name:  name,
		Phone: claim.Phone,
		Email: email,
	})

	if errors.Is(err, user.ErrDuplicateEmail) {
		// lost a concurrent first-login race; the winner's record is
		// the account
		return r.users.GetByEmail(ctx, email)
	}

	return created, err
}

// ResolveOrCreateByPhoneClaim is the phone-keyed variant. Claims
// without an email get a placeholder one so the record satisfies the
// unique email constraint.
func (r *Resolver) ResolveOrCreateByPhoneClaim(ctx context.Context, claim identity.Claim) (user.User, error) {
	if claim.Phone == "" {
		return user.User{}, ErrIncompleteClaim
	}

	u, err := r.users.GetByPhone(ctx, claim.Phone)

	if err == nil {
		return u, nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, err
	}

	email := user.NormalizeEmail(claim.Email)

	if email == "" {
		email = claim.Phone + "@example.com"
	}

	name := claim.Name

	if name == "" {
		name = claim.Phone
	}

	created, err := r.provision(ctx, user.User{
		Name:  name,
		Phone: claim.Phone,
		Email: email,
	})

	if errors.Is(err, user.ErrDuplicateEmail) {
		return r.users.GetByEmail(ctx, email)
	}

	return created, err
}

// provision creates a federated account: role student, random password
// that no one is ever expected to log in with.
func (r *Resolver) provision(ctx context.Context, u user.User) (user.User, error) {
	plain, err := security.RandomPassword()

	if err != nil {
		return user.User{}, err
	}

	hash, err := security.HashPassword(plain)

	if err != nil {
		return user.User{}, err
	}

	u.PasswordHash = hash
	u.Role = user.RoleStudent

	created, err := r.users.Create(ctx, u)

	if err == nil {
		r.log.InfoContext(ctx, "provisioned federated account", "user_id", created.ID, "role", created.Role)
	}

	return created, err
}
