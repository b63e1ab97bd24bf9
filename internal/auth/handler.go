package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes register/login/logout endpoints.
type Handler struct {
	svc     *Service
	manager *Manager
}

// NewHandler builds the auth HTTP handler.
func NewHandler(svc *Service, manager *Manager) *Handler {
	return &Handler{svc: svc, manager: manager}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new credential row.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Register(c.UserContext(), req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			return fiber.NewError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrMalformedCredential):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, "registration failed")
		}
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "User registered: " + req.Username,
	})
}

// Login verifies credentials and issues a session token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	token, session, err := h.manager.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "login failed")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"token":    token,
		"username": session.Username(),
		"accounts": len(session.Accounts()),
	})
}

// Logout closes the session for the presented token.
func (h *Handler) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals(SessionTokenKey).(string)
	if !h.manager.Logout(token) {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "logged_out"})
}
