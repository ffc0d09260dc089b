package accounts_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aadeshp/coursehub/internal/accounts"
	"github.com/aadeshp/coursehub/internal/domain/user"
	"github.com/aadeshp/coursehub/internal/identity"
	"github.com/aadeshp/coursehub/internal/repo/memory"
)

func newResolver() (*accounts.Resolver, *memory.UsersRepo) {
	users := memory.NewUsersRepo()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return accounts.NewResolver(users, log), users
}

func TestRegisterAndPasswordLogin(t *testing.T) {
	r, _ := newResolver()
	ctx := context.Background()

	created, err := r.Register(ctx, accounts.RegisterParams{
		Name:     "A",
		Phone:    "1",
		Email:    "A@X.com",
		Password: "pw123456",
		Role:     user.RoleStudent,
	})

	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if created.Email != "a@x.com" {
		t.Fatalf("email not normalized: %q", created.Email)
	}

	// login works with a differently-cased email
	u, err := r.ResolveByPassword(ctx, "a@X.COM", "pw123456")

	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if u.ID != created.ID || u.Role != user.RoleStudent {
		t.Fatalf("resolved wrong user: %+v", u)
	}
}

func TestResolveByPasswordCollapsesFailures(t *testing.T) {
	r, _ := newResolver()
	ctx := context.Background()

	_, err := r.Register(ctx, accounts.RegisterParams{
		Name: "A", Phone: "1", Email: "a@x.com", Password: "pw123456",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// wrong password and unknown user surface the same error
	_, errWrongPw := r.ResolveByPassword(ctx, "a@x.com", "nope")
	_, errUnknown := r.ResolveByPassword(ctx, "ghost@x.com", "nope")

	if !errors.Is(errWrongPw, user.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", errWrongPw)
	}
	if !errors.Is(errUnknown, user.ErrInvalidCredentials) {
		t.Fatalf("unknown user: got %v", errUnknown)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, users := newResolver()
	ctx := context.Background()

	first, err := r.Register(ctx, accounts.RegisterParams{
		Name: "A", Phone: "1", Email: "a@x.com", Password: "pw123456", Role: user.RoleInstructor,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err = r.Register(ctx, accounts.RegisterParams{
		Name: "B", Phone: "2", Email: "a@x.com", Password: "other-pw",
	})

	if !errors.Is(err, user.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email error, got %v", err)
	}

	if users.Count() != 1 {
		t.Fatalf("expected 1 user, got %d", users.Count())
	}

	// first record untouched
	u, err := users.GetByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if u.ID != first.ID || u.Role != user.RoleInstructor {
		t.Fatalf("first user mutated: %+v", u)
	}
}

func TestRegisterDefaultsToStudent(t *testing.T) {
	r, _ := newResolver()

	u, err := r.Register(context.Background(), accounts.RegisterParams{
		Name: "A", Phone: "1", Email: "a@x.com", Password: "pw123456",
	})

	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if u.Role != user.RoleStudent {
		t.Fatalf("got role %q, want student", u.Role)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	r, users := newResolver()

	_, err := r.Register(context.Background(), accounts.RegisterParams{
		Name: "A", Phone: "1", Email: "a@x.com", Password: "pw", Role: "admin",
	})

	if !errors.Is(err, user.ErrInvalidRole) {
		t.Fatalf("got %v, want ErrInvalidRole", err)
	}
	if users.Count() != 0 {
		t.Fatalf("got %d stored users, want none", users.Count())
	}
}

func TestEmailClaimProvisionsOnce(t *testing.T) {
	r, users := newResolver()
	ctx := context.Background()

	claim := identity.Claim{Email: "New@X.com", Name: "New User"}

	first, err := r.ResolveOrCreateByEmailClaim(ctx, claim)

	if err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}

	if first.Role != user.RoleStudent {
		t.Fatalf("provisioned role %q, want student", first.Role)
	}
	if first.Email != "new@x.com" {
		t.Fatalf("email not normalized: %q", first.Email)
	}
	if first.Name != "New User" {
		t.Fatalf("got name %q", first.Name)
	}

	second, err := r.ResolveOrCreateByEmailClaim(ctx, claim)

	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("second resolve created a new account: %q vs %q", second.ID, first.ID)
	}
	if users.Count() != 1 {
		t.Fatalf("expected exactly 1 user, got %d", users.Count())
	}
}

func TestEmailClaimNameFallsBackToEmail(t *testing.T) {
	r, _ := newResolver()

	u, err := r.ResolveOrCreateByEmailClaim(context.Background(), identity.Claim{Email: "a@x.com"})

	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if u.Name != "a@x.com" {
		t.Fatalf("got name %q, want email fallback", u.Name)
	}
}

func TestPhoneClaimPlaceholderEmail(t *testing.T) {
	r, users := newResolver()
	ctx := context.Background()

	claim := identity.Claim{Phone: "+15550001234"}

	u, err := r.ResolveOrCreateByPhoneClaim(ctx, claim)

	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if u.Email != "+15550001234@example.com" {
		t.Fatalf("got email %q, want placeholder", u.Email)
	}
	if u.Name != "+15550001234" {
		t.Fatalf("got name %q, want phone fallback", u.Name)
	}

	// same claim again reuses the record
	again, err := r.ResolveOrCreateByPhoneClaim(ctx, claim)
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if again.ID != u.ID || users.Count() != 1 {
		t.Fatalf("phone claim should be idempotent")
	}
}

func TestIncompleteClaims(t *testing.T) {
	r, _ := newResolver()
	ctx := context.Background()

	_, err := r.ResolveOrCreateByEmailClaim(ctx, identity.Claim{Phone: "+1555"})

	if !errors.Is(err, accounts.ErrIncompleteClaim) {
		t.Fatalf("email claim without email: got %v", err)
	}

	_, err = r.ResolveOrCreateByPhoneClaim(ctx, identity.Claim{Email: "a@x.com"})

	if !errors.Is(err, accounts.ErrIncompleteClaim) {
		t.Fatalf("phone claim without phone: got %v", err)
	}
}

func TestProvisionedPasswordIsUnusable(t *testing.T) {
	r, _ := newResolver()
	ctx := context.Background()

	u, err := r.ResolveOrCreateByEmailClaim(ctx, identity.Claim{Email: "a@x.com"})

	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	// no plaintext a caller could guess maps onto the random hash
	_, err = r.ResolveByPassword(ctx, u.Email, "")

	if !errors.Is(err, user.ErrInvalidCredentials) {
		t.Fatalf("empty password should not log in: %v", err)
	}
}
