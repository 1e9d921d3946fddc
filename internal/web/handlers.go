package web

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/barber-dashboard/internal/apiclient"
	"github.com/spec-kit/barber-dashboard/internal/domain"
	"github.com/spec-kit/barber-dashboard/internal/observability"
	"github.com/spec-kit/barber-dashboard/pkg/validate"
)

var nowFunc = time.Now

// SessionHandler exposes the session lifecycle over HTTP.
type SessionHandler struct {
	sdk *SDK
	log *zap.Logger
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(sdk *SDK, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sdk: sdk, log: logger}
}

// Login handles POST /session.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if !validate.Email(req.Email) || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	rs, err := h.sdk.ForRequest(fiberCookies{ctx: c})
	if err != nil {
		return err
	}

	ctx := apiclient.WithRoute(c.UserContext(), "/login")
	if err := rs.Controller.SignIn(ctx, req.Email, req.Password, req.Remember); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user":     rs.Controller.User(),
		"redirect": rs.Redirect,
	})
}

// Register handles POST /users.
func (h *SessionHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if !validate.Name(req.Name) {
		return fiber.NewError(http.StatusBadRequest, "name must have at least 3 characters")
	}
	if !validate.Email(req.Email) || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	rs, err := h.sdk.ForRequest(fiberCookies{ctx: c})
	if err != nil {
		return err
	}

	ctx := apiclient.WithRoute(c.UserContext(), "/register")
	if err := rs.Controller.SignUp(ctx, req.Name, req.Email, req.Password); err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"redirect": rs.Redirect})
}

// Logout handles POST /logout. Sign-out never fails; the response always
// carries a login redirect.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	rs, err := h.sdk.ForRequest(fiberCookies{ctx: c})
	if err != nil {
		return err
	}

	rs.Controller.SignOut()
	return c.JSON(fiber.Map{"redirect": rs.Redirect})
}

// Me handles GET /me: the bootstrap probe for the current cookies.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	rs, err := h.sdk.ForRequest(fiberCookies{ctx: c})
	if err != nil {
		return err
	}

	logoutIndicated := c.Query("logout") == "true"
	if err := rs.Controller.Bootstrap(c.UserContext(), "/dashboard", logoutIndicated); err != nil {
		return err
	}
	if !rs.Controller.Authenticated() {
		return fiber.NewError(http.StatusUnauthorized, "not authenticated")
	}

	return c.JSON(fiber.Map{
		"user":        rs.Controller.User(),
		"premium":     rs.Controller.Premium(),
		"saved_email": rs.Controller.SavedEmail(),
	})
}

// AgendaHandler serves the scheduling dashboard data.
type AgendaHandler struct {
	sdk *SDK
	log *zap.Logger
}

// NewAgendaHandler constructs the handler.
func NewAgendaHandler(sdk *SDK, logger *zap.Logger) *AgendaHandler {
	return &AgendaHandler{sdk: sdk, log: logger}
}

// List handles GET /agenda with optional window and search filters.
func (h *AgendaHandler) List(c *fiber.Ctx) error {
	rs, err := h.sdk.ForRequest(fiberCookies{ctx: c})
	if err != nil {
		return err
	}

	ctx := apiclient.WithRoute(c.UserContext(), "/dashboard")
	appointments, err := rs.Client.Agenda(ctx)
	if err != nil {
		return err
	}

	window := domain.AgendaWindow(c.Query("window", string(domain.AgendaWindowAll)))
	filtered := domain.FilterAgenda(appointments, window, c.Query("search"), nowFunc())
	return c.JSON(fiber.Map{"schedule": filtered})
}

// HealthHandler reports gateway and upstream liveness.
type HealthHandler struct {
	probe   *apiclient.Probe
	metrics *observability.Metrics
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(probe *apiclient.Probe, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{probe: probe, metrics: metrics}
}

// Live handles GET /healthz, probing the upstream with the short timeout.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	upstream, detected := h.probe.DetectBest(c.UserContext())
	status := "ok"
	if !detected {
		status = "degraded"
	}
	return c.JSON(fiber.Map{
		"status":   status,
		"upstream": upstream,
	})
}

// Metrics handles GET /metrics with the in-memory counters.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	requests, errors := h.metrics.Snapshot()
	return c.JSON(fiber.Map{
		"requests": requests,
		"errors":   errors,
	})
}
