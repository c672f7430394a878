package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/chatshell-api/internal/dto"
	"github.com/noah-isme/chatshell-api/internal/service"
	"github.com/noah-isme/chatshell-api/internal/utils"
)

// VitalsHandler accepts web-vitals samples from browsers.
type VitalsHandler struct {
	service service.VitalsService
	logger  zerolog.Logger
}

// NewVitalsHandler constructs a vitals handler.
func NewVitalsHandler(service service.VitalsService, logger zerolog.Logger) *VitalsHandler {
	return &VitalsHandler{
		service: service,
		logger:  logger.With().Str("component", "vitals_handler").Logger(),
	}
}

// Register wires the ingest route behind the supplied middleware, typically a
// rate limiter.
func (h *VitalsHandler) Register(router fiber.Router, middlewares ...fiber.Handler) {
	handlers := append(append([]fiber.Handler{}, middlewares...), h.record)
	router.Post("/analytics/vitals", handlers...)
}

func (h *VitalsHandler) record(c *fiber.Ctx) error {
	var req dto.VitalRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Record(withRequestContext(c), req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to record vital")
	}

	requestLogger(h.logger, c).Debug().Str("name", resp.Name).Str("rating", resp.Rating).Msg("vital recorded")
	return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "vital recorded", resp)
}
