// Package auth provides the login and register endpoints and JWT issuance.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Berserk-Vl/TaskManagement/internal/model"
	"github.com/Berserk-Vl/TaskManagement/internal/pkg/metrics"
	"github.com/Berserk-Vl/TaskManagement/internal/pkg/ratelimit"
	"github.com/Berserk-Vl/TaskManagement/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "taskmanagement"

// How long a login request may wait for a rate limit token before it is
// rejected with 429.
const loginWaitBudget = 250 * time.Millisecond

// Users is the user directory surface the handlers need.
type Users interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// Handler serves credential endpoints. Tokens are HS256 JWTs whose subject
// is the user email, the identity every core operation keys on.
type Handler struct {
	users         Users
	limiter       *ratelimit.RateLimiter
	jwtSecret     []byte
	tokenLifetime time.Duration
	logger        *slog.Logger
}

func NewHandler(users Users, limiter *ratelimit.RateLimiter, jwtSecret string, tokenLifetime time.Duration, logger *slog.Logger) *Handler {
	if tokenLifetime <= 0 {
		tokenLifetime = 24 * time.Hour
	}
	return &Handler{
		users:         users,
		limiter:       limiter,
		jwtSecret:     []byte(jwtSecret),
		tokenLifetime: tokenLifetime,
		logger:        logger,
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login checks the credentials and returns a JWT. Requests are throttled
// per client IP through the redis token bucket; a request that cannot get
// a token within the wait budget is rejected.
func (h *Handler) Login(c *gin.Context) {
	waitCtx, cancel := context.WithTimeout(c.Request.Context(), loginWaitBudget)
	defer cancel()
	if err := h.limiter.Acquire(waitCtx, c.ClientIP()); err != nil {
		if errors.Is(err, ratelimit.ErrRateLimitTimeout) {
			respondError(c, &service.Error{Code: http.StatusTooManyRequests, Message: "Too many login attempts."})
			return
		}
		h.logger.Warn("login rate limit check failed", slog.String("error", err.Error()))
	}

	var body service.Fields
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, service.ErrMissingCredentials())
		return
	}
	if body.State("email") != service.FieldPresent || body.State("password") != service.FieldPresent {
		respondError(c, service.ErrMissingCredentials())
		return
	}
	email := strings.TrimSpace(strings.ToLower(body.Value("email")))

	user, err := h.users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("query user failed", slog.String("email", email), slog.String("error", err.Error()))
		respondError(c, service.ErrAuthenticationFailed())
		return
	}
	if user == nil {
		metrics.LoginFailureTotal.Inc()
		respondError(c, service.ErrAuthenticationFailed())
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Value("password"))); err != nil {
		metrics.LoginFailureTotal.Inc()
		respondError(c, service.ErrAuthenticationFailed())
		return
	}

	token, err := h.issueToken(email)
	if err != nil {
		h.logger.Error("sign token failed", slog.String("email", email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign token failed"})
		return
	}

	metrics.LoginSuccessTotal.Inc()
	h.logger.Info("user logged in", slog.String("email", email))
	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email,max=30"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register creates a new user account.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	existing, err := h.users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("query user failed", slog.String("email", email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query user failed"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}

	user := &model.User{Email: email, Password: string(hash)}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		h.logger.Error("create user failed", slog.String("email", email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create user failed"})
		return
	}

	h.logger.Info("user registered", slog.String("email", email))
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *Handler) issueToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenLifetime)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

func respondError(c *gin.Context, err *service.Error) {
	c.JSON(err.Code, gin.H{"error message": err.Wire()})
}
