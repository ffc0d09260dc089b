package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aadeshp/coursehub/internal/accounts"
	"github.com/aadeshp/coursehub/internal/config"
	"github.com/aadeshp/coursehub/internal/domain/user"
	"github.com/aadeshp/coursehub/internal/identity"
)

// AccountResolver is the slice of the accounts resolver the handlers
// need; tests fake it.
type AccountResolver interface {
	Register(ctx context.Context, p accounts.RegisterParams) (user.User, error)
	ResolveByPassword(ctx context.Context, email, password string) (user.User, error)
	ResolveOrCreateByEmailClaim(ctx context.Context, claim identity.Claim) (user.User, error)
	ResolveOrCreateByPhoneClaim(ctx context.Context, claim identity.Claim) (user.User, error)
}

type TokenIssuer interface {
	Issue(u user.User) (string, error)
}

type AuthHandler struct {
	resolver AccountResolver
	jwt      TokenIssuer
	idp      identity.Verifier
	log      *slog.Logger
}

func NewAuthHandler(resolver AccountResolver, jwt TokenIssuer, idp identity.Verifier, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		resolver: resolver,
		jwt:      jwt,
		idp:      idp,
		log:      log,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Phone    string `json:"phone" binding:"required,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=student instructor"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type IdentityTokenRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	_, err := h.resolver.Register(cctx, accounts.RegisterParams{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})

	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			RespondConflict(ctx, "email_taken", "User already exists")
			return
		}

		if errors.Is(err, user.ErrInvalidRole) {
			RespondBadRequest(ctx, err.Error(), nil)
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "register failed", "err", err)
		RespondInternal(ctx, "Could not register user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	u, err := h.resolver.ResolveByPassword(cctx, req.Email, req.Password)

	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "login failed", "err", err)
		RespondInternal(ctx, "Could not log in")
		return
	}

	h.respondWithToken(ctx, u)
}

// GoogleLogin exchanges a provider-issued ID token for a session,
// provisioning a student account on first sight of the email.
func (h *AuthHandler) GoogleLogin(ctx *gin.Context) {
	h.identityLogin(ctx, h.resolver.ResolveOrCreateByEmailClaim)
}

// PhoneLogin is the phone-number variant of the same exchange.
func (h *AuthHandler) PhoneLogin(ctx *gin.Context) {
	h.identityLogin(ctx, h.resolver.ResolveOrCreateByPhoneClaim)
}

func (h *AuthHandler) identityLogin(ctx *gin.Context, resolve func(context.Context, identity.Claim) (user.User, error)) {
	var req IdentityTokenRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)

	defer cancel()

	claim, err := h.idp.VerifyIdentityToken(cctx, req.IDToken)

	if err != nil {
		if errors.Is(err, identity.ErrUnavailable) {
			RespondUnavailable(ctx, "Identity provider is not configured")
			return
		}

		h.log.DebugContext(ctx.Request.Context(), "identity token rejected", "err", err)
		RespondUnAuthorized(ctx, "invalid_identity_token", "Identity token could not be verified")
		return
	}

	u, err := resolve(cctx, claim)

	if err != nil {
		if errors.Is(err, accounts.ErrIncompleteClaim) {
			RespondUnAuthorized(ctx, "invalid_identity_token", "Identity token could not be verified")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "claim resolution failed", "err", err)
		RespondInternal(ctx, "Could not log in")
		return
	}

	h.respondWithToken(ctx, u)
}

func (h *AuthHandler) respondWithToken(ctx *gin.Context, u user.User) {
	token, err := h.jwt.Issue(u)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "token issue failed", "err", err)
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    u,
	})
}
