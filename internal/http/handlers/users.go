package handlers

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/repo/postgres"
	"github.com/geocoder89/taskhub/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserStore interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	UpdateProfile(ctx context.Context, id string, p user.ProfilePatch) (user.User, error)
	Delete(ctx context.Context, id string) (user.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, row postgres.SessionRow) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type UsersHandler struct {
	users    UserStore
	sessions SessionStore
	jwt      *auth.Manager
}

func NewUsersHandler(users UserStore, sessions SessionStore, jwtManager *auth.Manager) *UsersHandler {
	return &UsersHandler{
		users:    users,
		sessions: sessions,
		jwt:      jwtManager,
	}
}

func (h *UsersHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	now := time.Now().UTC()

	u, err := h.users.Create(cctx, user.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Age:          req.Age,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondBadRequest(ctx, "Email is already in use")
			return
		}
		RespondInternal(ctx, "Could not create user")
		return
	}

	RespondCreated(ctx, "User created successfully", u)
}

// Login answers identically for an unknown email and a wrong password so the
// endpoint cannot be used to enumerate accounts.
func (h *UsersHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		RespondBadRequest(ctx, "Unable to login")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondBadRequest(ctx, "Unable to login")
		return
	}

	raw, jti, err := h.jwt.GenerateSessionToken(foundUser.ID)

	if err != nil {
		RespondInternal(ctx, "Could not generate session token")
		return
	}

	err = h.sessions.Create(cctx, postgres.SessionRow{
		ID:        jti,
		UserID:    foundUser.ID,
		TokenHash: h.jwt.HashSessionToken(raw),
		CreatedAt: time.Now().UTC(),
	})

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.setSessionCookie(ctx, raw)

	RespondOK(ctx, "Logged in successfully", gin.H{
		"user":  foundUser,
		"token": raw,
	})
}

// Logout clears the session cookie. The token itself stays in the active
// session set, matching the system this replaces: a captured token keeps
// working until the account is deleted.
func (h *UsersHandler) Logout(ctx *gin.Context) {
	h.clearSessionCookie(ctx)

	RespondOK(ctx, "Logged out successfully", nil)
}

func (h *UsersHandler) MyProfile(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate")
		return
	}

	RespondOK(ctx, "Profile fetched successfully", u)
}

func (h *UsersHandler) UpdateMyProfile(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate")
		return
	}

	body, err := io.ReadAll(ctx.Request.Body)

	if err != nil {
		RespondBadRequest(ctx, "Invalid request body")
		return
	}

	patch, err := user.ParseProfilePatch(body)

	if err != nil {
		if errors.Is(err, user.ErrEmailImmutable) {
			RespondBadRequest(ctx, "Email cannot be updated")
			return
		}
		RespondBadRequest(ctx, "Invalid update fields")
		return
	}

	if patch.Empty() {
		RespondBadRequest(ctx, "Nothing to update")
		return
	}

	if patch.Password != nil {
		if len(*patch.Password) < 8 {
			RespondBadRequest(ctx, "Password must be at least 8 characters")
			return
		}

		hash, err := security.HashPassword(*patch.Password)

		if err != nil {
			RespondInternal(ctx, "Could not update profile")
			return
		}

		patch.Password = &hash
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	updated, err := h.users.UpdateProfile(cctx, u.ID, patch)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not update profile")
		return
	}

	RespondOK(ctx, "Profile updated successfully", updated)
}

// DeleteMyProfile removes the account and revokes every live session for it.
// Tasks owned by the account are left in place.
func (h *UsersHandler) DeleteMyProfile(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	deleted, err := h.users.Delete(cctx, u.ID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not delete user")
		return
	}

	if err := h.sessions.RevokeAllForUser(cctx, u.ID); err != nil {
		RespondInternal(ctx, "Could not revoke sessions")
		return
	}

	h.clearSessionCookie(ctx)

	RespondOK(ctx, "User deleted successfully", deleted)
}

func (h *UsersHandler) setSessionCookie(ctx *gin.Context, raw string) {
	// session cookie, no explicit expiry; validity lives server-side
	ctx.SetCookie("token", raw, 0, "/", "", false, true)
}

func (h *UsersHandler) clearSessionCookie(ctx *gin.Context) {
	ctx.SetCookie("token", "", -1, "/", "", false, true)
}
