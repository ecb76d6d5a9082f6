package handler

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appidentity "github.com/acadtrack/backend/internal/application/identity"
	"github.com/acadtrack/backend/internal/domain/identity"
	"github.com/acadtrack/backend/internal/infrastructure/config"
	"github.com/acadtrack/backend/internal/infrastructure/logger"
	"github.com/acadtrack/backend/internal/interfaces/http/middleware"
)

// OAuthStateCookie carries the Google sign in state between the two legs.
const OAuthStateCookie = "acad_oauth_state"

const (
	oauthStateMaxAge = 600 // seconds
	oauthCookiePath  = "/api/v1/auth/google"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
	frontend    config.FrontendConfig
	cookie      config.CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService, frontend config.FrontendConfig, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		frontend:    frontend,
		cookie:      cookie,
	}
}

// Signup godoc
// @Summary      Sign up with email and password
// @Description  Creates an account and returns an access token. A username is generated from the name unless one is supplied.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup details"
// @Success      201 {object} dto.Response{data=AuthResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo} "Email already in use"
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), appidentity.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toAuthResponse(result))
}

// Login godoc
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} dto.Response{data=AuthResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo} "Invalid credentials"
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), appidentity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAuthResponse(result))
}

// GoogleLogin godoc
// @Summary      Start Google sign in
// @Description  Redirects to the Google consent page. A CSRF state is kept in an HttpOnly cookie.
// @Tags         auth
// @Success      302
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo} "Google sign in is not enabled"
// @Router       /auth/google [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := rand.Text()
	authURL, err := h.authService.GoogleAuthURL(state)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.setStateCookie(c, state, oauthStateMaxAge)
	c.Redirect(http.StatusFound, authURL)
}

// GoogleCallback godoc
// @Summary      Finish Google sign in
// @Description  Exchanges the authorization code and redirects to the frontend with ?token=. Failures redirect to the frontend login page with ?error=.
// @Tags         auth
// @Param        code  query string true "Authorization code"
// @Param        state query string true "CSRF state"
// @Success      302
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo} "Google sign in is not enabled"
// @Router       /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	log := logger.GetGinLogger(c)

	expected, _ := c.Cookie(OAuthStateCookie)
	h.setStateCookie(c, "", -1)

	if reason := c.Query("error"); reason != "" {
		log.Info("Google consent declined", zap.String("reason", reason))
		h.redirectFailure(c, "access_denied")
		return
	}
	state := c.Query("state")
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		log.Warn("Google callback state mismatch")
		h.redirectFailure(c, "invalid_state")
		return
	}
	code := c.Query("code")
	if code == "" {
		h.redirectFailure(c, "missing_code")
		return
	}

	result, err := h.authService.CompleteGoogleLogin(c.Request.Context(), code)
	switch {
	case errors.Is(err, identity.ErrGoogleLoginDisabled):
		h.HandleError(c, err)
		return
	case err != nil:
		log.Warn("Google sign in failed", zap.Error(err))
		h.redirectFailure(c, failureReason(err))
		return
	}

	target := strings.TrimRight(h.frontend.URL, "/") + h.frontend.CallbackPath +
		"?" + url.Values{"token": {result.Token}}.Encode()
	c.Redirect(http.StatusFound, target)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=UserResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	info, err := h.authService.Profile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserResponse(*info))
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the presented token until it expires.
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=dto.MessageResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := claims.UserUUID()
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	err = h.authService.Logout(c.Request.Context(), appidentity.LogoutInput{
		UserID:   userID,
		TokenJTI: claims.ID,
		TTL:      claims.RemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, messageResponse("Logged out successfully"))
}

func (h *AuthHandler) setStateCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(OAuthStateCookie, value, maxAge, oauthCookiePath, h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) redirectFailure(c *gin.Context, reason string) {
	target := strings.TrimRight(h.frontend.URL, "/") + "/login?" + url.Values{"error": {reason}}.Encode()
	c.Redirect(http.StatusFound, target)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, identity.ErrGoogleLoginFailed):
		return "google_login_failed"
	case errors.Is(err, identity.ErrGoogleAccountMismatch), errors.Is(err, identity.ErrGoogleAccountTaken):
		return "account_conflict"
	default:
		return "server_error"
	}
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
