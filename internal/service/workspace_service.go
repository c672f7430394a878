package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/chatshell-api/internal/dto"
	"github.com/noah-isme/chatshell-api/internal/models"
	"github.com/noah-isme/chatshell-api/internal/repository"
)

const privacyNotice = "This is a demo application with local mock data. No actual settings are persisted."

// WorkspaceService serves the server rail, the server shell and settings.
type WorkspaceService interface {
	ListServers(ctx context.Context) ([]dto.ServerResponse, error)
	GetLayout(ctx context.Context, req dto.LayoutRequest) (dto.LayoutResponse, error)
	GetSettings(ctx context.Context, serverID string) (dto.SettingsResponse, error)
}

type workspaceService struct {
	repo   repository.ChatRepository
	logger zerolog.Logger
}

// NewWorkspaceService constructs the workspace service.
func NewWorkspaceService(repo repository.ChatRepository, logger zerolog.Logger) WorkspaceService {
	return &workspaceService{
		repo:   repo,
		logger: logger.With().Str("component", "workspace_service").Logger(),
	}
}

func (s *workspaceService) ListServers(ctx context.Context) (result []dto.ServerResponse, err error) {
	ctx, q := startQuery(ctx, "workspace.list_servers")
	defer func() { q.end(err) }()

	servers, err := s.repo.ListServers(ctx)
	if err != nil {
		contextLogger(ctx, s.logger).Error().Err(err).Msg("failed to list servers")
		return nil, fmt.Errorf("list servers: %w", err)
	}

	result = make([]dto.ServerResponse, 0, len(servers))
	for _, server := range servers {
		result = append(result, toServerResponse(server))
	}
	return result, nil
}

func (s *workspaceService) GetLayout(ctx context.Context, req dto.LayoutRequest) (result dto.LayoutResponse, err error) {
	ctx, q := startQuery(ctx, "workspace.get_layout", attribute.String("chatshell.server_id", req.ServerID))
	defer func() { q.end(err) }()

	servers, err := s.repo.ListServers(ctx)
	if err != nil {
		return dto.LayoutResponse{}, fmt.Errorf("list servers: %w", err)
	}
	server, err := requireServer(ctx, s.repo, req.ServerID)
	if err != nil {
		return dto.LayoutResponse{}, err
	}
	channels, err := s.repo.ListChannels(ctx, server.ID)
	if err != nil {
		return dto.LayoutResponse{}, fmt.Errorf("list channels: %w", err)
	}

	result = dto.LayoutResponse{
		Servers:       make([]dto.RailServerResponse, 0, len(servers)),
		Server:        toServerResponse(server),
		TextChannels:  []dto.ChannelResponse{},
		VoiceChannels: []dto.ChannelResponse{},
		Tabs:          buildTabs(server.ID, req.ActivePath),
	}
	for _, candidate := range servers {
		result.Servers = append(result.Servers, dto.RailServerResponse{
			ServerResponse: toServerResponse(candidate),
			Active:         candidate.ID == server.ID,
		})
	}
	for _, channel := range channels {
		switch channel.Kind {
		case models.ChannelKindText:
			result.TextChannels = append(result.TextChannels, toChannelResponse(channel, req.ActiveChannelID))
		case models.ChannelKindVoice:
			result.VoiceChannels = append(result.VoiceChannels, toChannelResponse(channel, req.ActiveChannelID))
		}
	}
	return result, nil
}

func (s *workspaceService) GetSettings(ctx context.Context, serverID string) (result dto.SettingsResponse, err error) {
	ctx, q := startQuery(ctx, "workspace.get_settings", attribute.String("chatshell.server_id", serverID))
	defer func() { q.end(err) }()

	server, err := requireServer(ctx, s.repo, serverID)
	if err != nil {
		return dto.SettingsResponse{}, err
	}

	return dto.SettingsResponse{
		ServerID:   server.ID,
		ServerName: server.Name,
		Notifications: []dto.NotificationSetting{
			{Key: "all_messages", Label: "All messages", Enabled: true},
			{Key: "mentions_only", Label: "Only @mentions", Enabled: false},
		},
		PrivacyNotice: privacyNotice,
	}, nil
}

// buildTabs marks a tab active when the path lies inside the tab's section.
// The Channels tab links to the general channel but owns every channel path.
func buildTabs(serverID, activePath string) []dto.TabResponse {
	base := "/servers/" + serverID
	sections := []struct {
		label   string
		href    string
		section string
	}{
		{"Channels", base + "/channels/general", base + "/channels"},
		{"Threads", base + "/threads", base + "/threads"},
		{"Members", base + "/members", base + "/members"},
		{"Files", base + "/files", base + "/files"},
		{"Insights", base + "/insights", base + "/insights"},
		{"Settings", base + "/settings", base + "/settings"},
	}

	path := strings.TrimSpace(activePath)
	tabs := make([]dto.TabResponse, 0, len(sections))
	for _, section := range sections {
		tabs = append(tabs, dto.TabResponse{
			Label:  section.label,
			Href:   section.href,
			Active: path != "" && inSection(path, section.section),
		})
	}
	return tabs
}

func inSection(path, section string) bool {
	if !strings.HasPrefix(path, section) {
		return false
	}
	rest := path[len(section):]
	return rest == "" || rest[0] == '/' || rest[0] == '?'
}
