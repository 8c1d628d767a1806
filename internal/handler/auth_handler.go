package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/bankpoc/banking-ui/internal/query"
	"github.com/bankpoc/banking-ui/shared/cqrs"
	"github.com/bankpoc/banking-ui/shared/middleware"
	"github.com/bankpoc/banking-ui/shared/models"
	"github.com/gin-gonic/gin"
)

// InvalidLoginMessage is shown for an unknown user and a wrong password alike.
const InvalidLoginMessage = "Invalid username or password"

// Authenticator verifies credentials.
type Authenticator interface {
	Login(ctx context.Context, cmd cqrs.LoginCommand) (*models.User, error)
}

// SessionLifecycle creates and revokes browser sessions.
type SessionLifecycle interface {
	Start(ctx context.Context, user models.User) (string, error)
	End(ctx context.Context, cmd cqrs.LogoutCommand)
	TokenTTL() int
}

type AuthHandler struct {
	auth     Authenticator
	sessions SessionLifecycle
	secure   bool
}

type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// NewAuthHandler builds the login handler. secure marks cookies HTTPS-only.
func NewAuthHandler(auth Authenticator, sessions SessionLifecycle, secure bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, secure: secure}
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, "", "")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, "", "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		h.renderLogin(c, http.StatusBadRequest, req.Username, middleware.FirstMessage(validationErrors))
		return
	}

	user, err := h.auth.Login(c.Request.Context(), cqrs.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if errors.Is(err, query.ErrInvalidCredentials) {
		h.renderLogin(c, http.StatusUnauthorized, req.Username, InvalidLoginMessage)
		return
	}
	if err != nil {
		log.Printf("Login failed for %s: %v", req.Username, err)
		h.renderLogin(c, http.StatusServiceUnavailable, req.Username, "Login is temporarily unavailable")
		return
	}

	token, err := h.sessions.Start(c.Request.Context(), *user)
	if err != nil {
		log.Printf("Failed to start session for %s: %v", user.Username, err)
		h.renderLogin(c, http.StatusInternalServerError, req.Username, "Failed to create session")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, h.sessions.TokenTTL(), "/", "", h.secure, true)
	log.Printf("User %s logged in as %s", user.Username, user.Role)
	c.Redirect(http.StatusSeeOther, homeFor(user.Role))
}

// Logout is safe to call without a session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID, ok := middleware.GetSessionID(c); ok {
		cmd := cqrs.LogoutCommand{SessionID: sessionID}
		if user, ok := middleware.GetUser(c); ok {
			cmd.Username = user.Username
		}
		h.sessions.End(c.Request.Context(), cmd)
		log.Printf("User %s logged out", cmd.Username)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secure, true)
	c.Redirect(http.StatusSeeOther, LoginPath)
}

func (h *AuthHandler) renderLogin(c *gin.Context, code int, username, message string) {
	c.HTML(code, "login.html", loginPage{
		page:     page{Title: "Login"},
		Username: username,
		Error:    message,
	})
}
