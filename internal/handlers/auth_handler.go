package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/encuentro-api/internal/apperror"
	"github.com/gravadigital/encuentro-api/internal/auth"
	"github.com/gravadigital/encuentro-api/internal/domain/user"
	"github.com/gravadigital/encuentro-api/internal/logger"
	"github.com/gravadigital/encuentro-api/internal/response"
	"github.com/gravadigital/encuentro-api/internal/storage/postgres"
	"github.com/gravadigital/encuentro-api/internal/validation"
)

// AuthHandler owns the credential exchange endpoints: local login and
// registration plus federated login. These are the only paths that touch the
// identity verifier; everything else relies on the token alone.
type AuthHandler struct {
	verifier *auth.IdentityVerifier
	tokens   *auth.TokenService
	userRepo postgres.UserRepository
	log      *log.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(verifier *auth.IdentityVerifier, tokens *auth.TokenService, userRepo postgres.UserRepository) *AuthHandler {
	return &AuthHandler{
		verifier: verifier,
		tokens:   tokens,
		userRepo: userRepo,
		log:      logger.Handler("auth"),
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token             string     `json:"token"`
	User              *user.User `json:"user"`
	IsProfileComplete bool       `json:"is_profile_complete"`
}

// Login handles POST /api/v1/users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email and password are required")
		return
	}

	u, err := h.verifier.VerifyLocal(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		kind := apperror.KindOf(err)
		// NotFound and BadCredentials collapse into one message so the
		// endpoint cannot be used to enumerate registered emails.
		if kind == apperror.KindNotFound || kind == apperror.KindBadCredentials {
			response.Unauthorized(c, string(apperror.KindBadCredentials), "invalid email or password")
			return
		}
		response.FromError(c, err)
		return
	}

	h.respondWithToken(c, u)
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/v1/users/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name, email and password are required")
		return
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	digest, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.Error("failed to hash password", "error", err)
		response.Internal(c, "internal server error")
		return
	}

	u := user.New(req.Name, req.Email, digest)
	if err := h.userRepo.Create(c.Request.Context(), u); err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			response.Error(c, http.StatusConflict, "email_exists", "an account with this email already exists")
			return
		}
		h.log.Error("failed to create user", "error", err)
		response.Internal(c, "internal server error")
		return
	}

	h.respondWithToken(c, u)
}

type googleLoginRequest struct {
	TokenID string `json:"token_id" binding:"required"`
}

// GoogleLogin handles POST /api/v1/users/google_login
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "token_id is required")
		return
	}

	u, err := h.verifier.VerifyFederated(c.Request.Context(), req.TokenID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.respondWithToken(c, u)
}

// Me handles GET /api/v1/users/me
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		response.Unauthorized(c, string(apperror.KindMissingCredentials), "authorization token is required")
		return
	}

	u, err := h.userRepo.GetByID(c.Request.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.Internal(c, "internal server error")
		return
	}

	response.Success(c, http.StatusOK, "", u)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, u *user.User) {
	token, err := h.tokens.Issue(auth.Principal{ID: u.ID, IsAdmin: u.IsAdmin})
	if err != nil {
		h.log.Error("failed to issue token", "user_id", u.ID, "error", err)
		response.Internal(c, "internal server error")
		return
	}

	response.Success(c, http.StatusOK, "login successful", loginResponse{
		Token:             token,
		User:              u,
		IsProfileComplete: u.IsProfileComplete(),
	})
}
