package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/chatshell-api/internal/service"
	"github.com/noah-isme/chatshell-api/internal/utils"
)

// InsightsHandler exposes the files and insights pages of a server.
type InsightsHandler struct {
	files    service.FileService
	insights service.InsightsService
	logger   zerolog.Logger
}

// NewInsightsHandler constructs an insights handler.
func NewInsightsHandler(files service.FileService, insights service.InsightsService, logger zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{
		files:    files,
		insights: insights,
		logger:   logger.With().Str("component", "insights_handler").Logger(),
	}
}

// Register wires file and insights routes.
func (h *InsightsHandler) Register(router fiber.Router) {
	router.Get("/servers/:serverId/files", h.listFiles)
	router.Get("/servers/:serverId/insights", h.getInsights)
}

func (h *InsightsHandler) listFiles(c *fiber.Ctx) error {
	files, err := h.files.ListAttachments(withRequestContext(c), c.Params("serverId"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch files")
	}
	return utils.OK(c, files, "files retrieved", fiber.Map{"count": len(files)})
}

func (h *InsightsHandler) getInsights(c *fiber.Ctx) error {
	insights, err := h.insights.GetInsights(withRequestContext(c), c.Params("serverId"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch insights")
	}
	return utils.OK(c, insights, "insights retrieved", fiber.Map{"cache_hit": insights.CacheHit})
}
