package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/fnf/internal/config"
	"github.com/example/fnf/internal/middleware"
	"github.com/example/fnf/internal/models"
	"github.com/example/fnf/internal/repository"
	"github.com/example/fnf/internal/services"
	"github.com/example/fnf/internal/services/sms"
	"github.com/example/fnf/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	verification *services.VerificationService
	customers    *services.CustomerService
	admins       repository.AdminRepository
	identity     sms.TokenVerifier
	cfg          *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(
	verification *services.VerificationService,
	customers *services.CustomerService,
	admins repository.AdminRepository,
	identity sms.TokenVerifier,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		verification: verification,
		customers:    customers,
		admins:       admins,
		identity:     identity,
		cfg:          cfg,
	}
}

type sendOTPRequest struct {
	Phone string `json:"phone"`
}

// SendOTP issues a fresh challenge for the phone and dispatches the code.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Phone number is required")
	}

	challenge, err := h.verification.RequestChallenge(c.Context(), req.Phone)
	if err != nil {
		return translate(err)
	}

	resp := fiber.Map{
		"success": true,
		"message": "OTP sent successfully",
	}
	if h.cfg.Development() {
		resp["dev_otp"] = challenge.Code
	}
	return c.JSON(resp)
}

type verifyOTPRequest struct {
	Phone     string `json:"phone"`
	OTP       string `json:"otp"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// VerifyOTP validates the submitted code and logs in or registers the customer.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Phone == "" || req.OTP == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Phone and OTP are required")
	}

	if err := h.verification.Verify(c.Context(), req.Phone, req.OTP); err != nil {
		return translate(err)
	}

	customer, err := h.customers.ResolveOrCreateByPhone(c.Context(), req.Phone, services.CustomerDefaults{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP verified successfully",
		"customer": fiber.Map{
			"id":         customer.ID,
			"first_name": customer.FirstName,
			"last_name":  customer.LastName,
			"phone":      customer.Phone,
			"email":      customer.Email,
		},
	})
}

type identitySyncRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// IdentitySync upserts a customer from an identity-provider ID token.
func (h *AuthHandler) IdentitySync(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
	}

	identity, err := h.identity.VerifyIDToken(c.Context(), token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid identity token")
	}

	var req identitySyncRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	phone := req.Phone
	if phone == "" {
		phone = strings.TrimPrefix(identity.Phone, "+91")
	}

	customer, err := h.customers.SyncByExternalID(c.Context(),
		identity.Subject, req.FirstName, req.LastName, phone, req.Email)
	if err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"customer": customer,
	})
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin authenticates a back-office account with email and password.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
	}

	admin, err := h.admins.FindByEmail(c.Context(), req.Email)
	if err != nil {
		return err
	}
	if admin == nil || !utils.CheckPassword(admin.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := utils.GenerateAdminToken(h.cfg.JWTSecret, admin.ID, admin.Email, admin.Role, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"admin":   adminResponse(admin),
	})
}

type adminRegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AdminRegister creates a new back-office account.
func (h *AuthHandler) AdminRegister(c *fiber.Ctx) error {
	var req adminRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Username, email, and password are required")
	}

	existing, err := h.admins.FindByUsernameOrEmail(c.Context(), req.Username, req.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Admin with this email or username already exists")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = "admin"
	}

	admin := &models.Admin{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := h.admins.Create(c.Context(), admin); err != nil {
		return err
	}

	token, err := utils.GenerateAdminToken(h.cfg.JWTSecret, admin.ID, admin.Email, admin.Role, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Admin registered successfully",
		"token":   token,
		"admin":   adminResponse(admin),
	})
}

// AdminMe returns the authenticated admin's account.
func (h *AuthHandler) AdminMe(c *fiber.Ctx) error {
	adminID, ok := middleware.GetCurrentAdminID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	admin, err := h.admins.FindByID(c.Context(), adminID)
	if err != nil {
		return err
	}
	if admin == nil {
		return fiber.NewError(fiber.StatusNotFound, "Admin not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"admin":   adminResponse(admin),
	})
}

func adminResponse(admin *models.Admin) fiber.Map {
	return fiber.Map{
		"id":       admin.ID,
		"username": admin.Username,
		"email":    admin.Email,
		"role":     admin.Role,
	}
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
