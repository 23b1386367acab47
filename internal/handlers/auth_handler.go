package handlers

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/inventoryhub/backend/internal/dto"
	"github.com/inventoryhub/backend/internal/middleware"
	"github.com/inventoryhub/backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	users       middleware.UserLookup
	frontendURL string
}

func NewAuthHandler(authService *services.AuthService, users middleware.UserLookup, frontendURL string) *AuthHandler {
	return &AuthHandler{authService: authService, users: users, frontendURL: frontendURL}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	user, delivery, err := h.authService.Register(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields), errors.Is(err, services.ErrEmailTaken):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{
		Success:   true,
		Message:   "Registration successful. Please verify your email.",
		User:      dto.UserResponse{ID: user.ID, Email: user.Email},
		EmailSent: delivery.EmailSent,
		Simulated: delivery.Simulated,
		OTP:       delivery.Code,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	token, user, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrEmailNotVerified):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
		}
	}

	return c.JSON(dto.LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    dto.UserResponse{ID: user.ID, Email: user.Email},
	})
}

func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req dto.SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}
	if req.Email == "" || req.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "email and otp required"})
	}

	delivery, err := h.authService.SendOTPEmail(c.Context(), req.Email, req.OTP)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
	}

	return c.JSON(dto.SendOTPResponse{
		Success:   true,
		Message:   "OTP sent",
		MessageID: delivery.MessageID,
		Simulated: delivery.Simulated,
		OTP:       delivery.Code,
	})
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	if err := h.authService.VerifyEmail(c.Context(), req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "User not found"})
		case errors.Is(err, services.ErrCodeInvalid):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
		}
	}

	return c.JSON(dto.SuccessResponse{Success: true, Message: "Email verified successfully"})
}

func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req dto.ResendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	delivery, err := h.authService.ResendVerification(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
	}

	return c.JSON(dto.SendOTPResponse{
		Success:   true,
		Message:   "Verification code resent",
		MessageID: delivery.MessageID,
		Simulated: delivery.Simulated,
		OTP:       delivery.Code,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.users.ByID(c.Context(), middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
	}

	return c.JSON(dto.MeResponse{
		Success: true,
		User: dto.MeUser{
			Email:    user.Email,
			Role:     user.Role,
			Verified: user.Verified,
		},
	})
}

// Logout always reports success; revoking a token that is already gone
// is not a failure the client can act on.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	tok := middleware.SessionToken(c)
	if tok == "" {
		tok = bearerFromHeader(c)
	}
	_ = h.authService.Logout(c.Context(), tok)
	return c.JSON(dto.SuccessResponse{Success: true, Message: "Logged out successfully"})
}

func (h *AuthHandler) GoogleAuthURL(c *fiber.Ctx) error {
	authURL, err := h.authService.GoogleAuthURL()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
	}
	return c.JSON(dto.GoogleURLResponse{URL: authURL})
}

// GoogleCallback lands the browser flow. Either way the user ends up on
// the frontend callback page, which reads the query string.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Redirect(h.callbackURL("error=google_auth_failed"), fiber.StatusFound)
	}

	token, user, err := h.authService.LoginWithGoogleCode(c.Context(), code)
	if err != nil {
		return c.Redirect(h.callbackURL("error=google_auth_failed"), fiber.StatusFound)
	}

	q := url.Values{}
	q.Set("token", token)
	q.Set("email", user.Email)
	return c.Redirect(h.callbackURL(q.Encode()), fiber.StatusFound)
}

func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}
	if req.IDToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "idToken required"})
	}

	token, user, err := h.authService.LoginWithGoogleIDToken(c.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, services.ErrGoogleAuth) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
	}

	return c.JSON(dto.GoogleLoginResponse{
		Success: true,
		Token:   token,
		User:    dto.UserResponse{ID: user.ID, Email: user.Email},
	})
}

// ForgotPassword answers identically for known and unknown addresses so
// it cannot be used to probe which emails are registered.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}
	if req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "email required"})
	}

	delivery, err := h.authService.ForgotPassword(c.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return c.JSON(dto.ForgotPasswordResponse{
				Success: true,
				Message: "If the email exists, a reset code has been sent",
			})
		case errors.Is(err, services.ErrEmailNotVerified):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
		}
	}

	return c.JSON(dto.ForgotPasswordResponse{
		Success:   true,
		Message:   "If the email exists, a reset code has been sent",
		Simulated: delivery.Simulated,
		OTP:       delivery.Code,
	})
}

func (h *AuthHandler) VerifyResetOTP(c *fiber.Ctx) error {
	var req dto.VerifyResetOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	resetToken, expiresAt, err := h.authService.VerifyResetCode(c.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "User not found"})
		case errors.Is(err, services.ErrCodeInvalid):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
		}
	}

	return c.JSON(dto.VerifyResetOTPResponse{
		Success:    true,
		ResetToken: resetToken,
		ExpiresAt:  expiresAt,
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	if err := h.authService.ResetPassword(c.Context(), req.ResetToken, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrResetTokenInvalid),
			errors.Is(err, services.ErrPasswordTooShort):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
		}
	}

	return c.JSON(dto.SuccessResponse{Success: true, Message: "Password reset successfully"})
}

// ResendResetOTP is forgot-password with a different name; it shares
// the same generic response.
func (h *AuthHandler) ResendResetOTP(c *fiber.Ctx) error {
	var req dto.ResendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	delivery, err := h.authService.ForgotPassword(c.Context(), req.Email)
	if err != nil {
		// Unknown and unverified accounts get the same generic answer.
		return c.JSON(dto.ForgotPasswordResponse{
			Success: true,
			Message: "If the email exists, a reset code has been sent",
		})
	}

	return c.JSON(dto.ForgotPasswordResponse{
		Success:   true,
		Message:   "If the email exists, a reset code has been sent",
		Simulated: delivery.Simulated,
		OTP:       delivery.Code,
	})
}

func (h *AuthHandler) callbackURL(query string) string {
	return h.frontendURL + "/auth/callback?" + query
}

func bearerFromHeader(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
