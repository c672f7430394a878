package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/chatshell-api/internal/dto"
	"github.com/noah-isme/chatshell-api/internal/service"
	"github.com/noah-isme/chatshell-api/internal/utils"
)

// WorkspaceHandler exposes the server rail, server shell and settings.
type WorkspaceHandler struct {
	service service.WorkspaceService
	logger  zerolog.Logger
}

// NewWorkspaceHandler constructs a workspace handler.
func NewWorkspaceHandler(service service.WorkspaceService, logger zerolog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		service: service,
		logger:  logger.With().Str("component", "workspace_handler").Logger(),
	}
}

// Register wires workspace routes.
func (h *WorkspaceHandler) Register(router fiber.Router) {
	router.Get("/servers", h.listServers)
	router.Get("/servers/:serverId", h.getLayout)
	router.Get("/servers/:serverId/settings", h.getSettings)
}

func (h *WorkspaceHandler) listServers(c *fiber.Ctx) error {
	servers, err := h.service.ListServers(withRequestContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch servers")
	}
	return utils.OK(c, servers, "servers retrieved", fiber.Map{"count": len(servers)})
}

// getLayout accepts ?channel= for the highlighted channel and ?path= for the
// page the shell is wrapped around.
func (h *WorkspaceHandler) getLayout(c *fiber.Ctx) error {
	req := dto.LayoutRequest{
		ServerID:        c.Params("serverId"),
		ActiveChannelID: c.Query("channel"),
		ActivePath:      c.Query("path"),
	}
	layout, err := h.service.GetLayout(withRequestContext(c), req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch server")
	}
	return utils.SendSuccess(c, "server retrieved", layout)
}

func (h *WorkspaceHandler) getSettings(c *fiber.Ctx) error {
	settings, err := h.service.GetSettings(withRequestContext(c), c.Params("serverId"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch settings")
	}
	return utils.SendSuccess(c, "settings retrieved", settings)
}
