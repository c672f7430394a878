package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/chatshell-api/internal/service"
	"github.com/noah-isme/chatshell-api/internal/utils"
)

// ChannelHandler exposes channel listings and message panes.
type ChannelHandler struct {
	service service.ChannelService
	logger  zerolog.Logger
}

// NewChannelHandler constructs a channel handler.
func NewChannelHandler(service service.ChannelService, logger zerolog.Logger) *ChannelHandler {
	return &ChannelHandler{
		service: service,
		logger:  logger.With().Str("component", "channel_handler").Logger(),
	}
}

// Register wires channel routes.
func (h *ChannelHandler) Register(router fiber.Router) {
	router.Get("/servers/:serverId/channels", h.listChannels)
	router.Get("/servers/:serverId/channels/:channelId", h.getChannel)
	router.Get("/servers/:serverId/channels/:channelId/messages", h.listMessages)
	router.Get("/servers/:serverId/channels/:channelId/pins", h.listPinned)
}

func (h *ChannelHandler) listChannels(c *fiber.Ctx) error {
	channels, err := h.service.ListChannels(withRequestContext(c), c.Params("serverId"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch channels")
	}
	return utils.OK(c, channels, "channels retrieved", fiber.Map{"count": len(channels)})
}

func (h *ChannelHandler) getChannel(c *fiber.Ctx) error {
	view, err := h.service.GetChannelView(withRequestContext(c), c.Params("serverId"), c.Params("channelId"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch channel")
	}
	return utils.SendSuccess(c, "channel retrieved", view)
}

func (h *ChannelHandler) listMessages(c *fiber.Ctx) error {
	messages, err := h.service.ListMessages(withRequestContext(c), c.Params("serverId"), c.Params("channelId"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch messages")
	}
	return utils.OK(c, messages, "messages retrieved", fiber.Map{"count": len(messages)})
}

func (h *ChannelHandler) listPinned(c *fiber.Ctx) error {
	pinned, err := h.service.ListPinnedMessages(withRequestContext(c), c.Params("serverId"), c.Params("channelId"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch pinned messages")
	}
	return utils.OK(c, pinned, "pinned messages retrieved", fiber.Map{"count": len(pinned)})
}
