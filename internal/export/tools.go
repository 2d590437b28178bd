package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/matillion/mattermost-export/internal/mattermost"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListChannelsInput defines input for listing channels
type ListChannelsInput struct {
	TeamID string `json:"team_id,omitempty" jsonschema:"Team ID to list channels for. Defaults to the first team of the authenticated user"`
}

// ChannelInfo represents a labeled channel
type ChannelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Header      string `json:"header,omitempty"`
}

// ListChannelsOutput contains the labeled channels, sorted by display name
type ListChannelsOutput struct {
	File       FileRef       `json:"file"`
	TeamID     string        `json:"team_id"`
	TotalCount int           `json:"total_count"`
	Channels   []ChannelInfo `json:"channels"`
}

// ListChannels lists the channels the session user can export, with direct
// messages labeled by the other participant's username
func (e *Exporter) ListChannels(ctx context.Context, req *mcp.CallToolRequest, input ListChannelsInput) (*mcp.CallToolResult, ListChannelsOutput, error) {
	teamID := input.TeamID
	if teamID == "" {
		teams, err := e.api.GetTeamsForUser(ctx, e.res.Me())
		if err != nil {
			return nil, ListChannelsOutput{}, fmt.Errorf("list teams: %w", err)
		}
		if len(teams) == 0 {
			return nil, ListChannelsOutput{}, fmt.Errorf("the authenticated user belongs to no team")
		}
		teamID = teams[0].ID
	}

	channels, err := e.TeamChannels(ctx, teamID)
	if err != nil {
		return nil, ListChannelsOutput{}, fmt.Errorf("failed to list channels: %w", err)
	}

	infos := make([]ChannelInfo, 0, len(channels))
	for _, ch := range channels {
		infos = append(infos, ChannelInfo{
			ID:          ch.ID,
			Name:        ch.Name,
			DisplayName: ch.DisplayName,
			Type:        ch.Type,
			Header:      ch.Header,
		})
	}

	output := ListChannelsOutput{
		TeamID:     teamID,
		TotalCount: len(infos),
		Channels:   infos,
	}

	if e.sink != nil {
		ref, err := e.sink.WriteJSON("channels", infos)
		if err != nil {
			return nil, ListChannelsOutput{}, fmt.Errorf("failed to write response: %w", err)
		}
		output.File = ref
	}

	return nil, output, nil
}

// ExportChannelInput defines input for exporting one channel
type ExportChannelInput struct {
	Channel       string `json:"channel" jsonschema:"Channel ID or name to export"`
	Before        string `json:"before,omitempty" jsonschema:"Only include posts on or before this calendar date (YYYY-MM-DD, UTC)"`
	After         string `json:"after,omitempty" jsonschema:"Only include posts on or after this calendar date (YYYY-MM-DD, UTC)"`
	DownloadFiles bool   `json:"download_files,omitempty" jsonschema:"Also download file attachments next to the export document"`
}

// ExportChannelOutput contains a summary and the written document's file reference
type ExportChannelOutput struct {
	File        FileRef `json:"file"`
	ChannelID   string  `json:"channel_id"`
	DisplayName string  `json:"display_name"`
	Team        string  `json:"team,omitempty"`
	PostCount   int     `json:"post_count"`
}

// ExportChannel exports a channel's full history into a JSON document via
// the file sink and returns a summary
func (e *Exporter) ExportChannel(ctx context.Context, req *mcp.CallToolRequest, input ExportChannelInput) (*mcp.CallToolResult, ExportChannelOutput, error) {
	channelID, err := e.ResolveChannel(ctx, "", input.Channel)
	if err != nil {
		return nil, ExportChannelOutput{}, err
	}

	doc, err := e.ExportOne(ctx, channelID, Options{
		DownloadFiles: input.DownloadFiles,
		Before:        input.Before,
		After:         input.After,
	})
	if err != nil {
		return nil, ExportChannelOutput{}, fmt.Errorf("failed to export channel: %w", err)
	}

	ref, err := e.WriteDocument(doc)
	if err != nil {
		return nil, ExportChannelOutput{}, err
	}

	return nil, ExportChannelOutput{
		File:        ref,
		ChannelID:   doc.Channel.ID,
		DisplayName: doc.Channel.DisplayName,
		Team:        doc.Channel.Team,
		PostCount:   len(doc.Posts),
	}, nil
}

// ResolveChannel accepts either a channel ID or a channel name and returns
// the ID, scanning for a name match. A non-empty teamID restricts the scan
// to that team; otherwise every team of the session user is searched.
func (e *Exporter) ResolveChannel(ctx context.Context, teamID, channelOrName string) (string, error) {
	if isChannelID(channelOrName) {
		return channelOrName, nil
	}

	var teams []mattermost.Team
	if teamID != "" {
		teams = []mattermost.Team{{ID: teamID}}
	} else {
		var err error
		teams, err = e.api.GetTeamsForUser(ctx, e.res.Me())
		if err != nil {
			return "", fmt.Errorf("list teams: %w", err)
		}
	}

	for _, team := range teams {
		channels, err := e.TeamChannels(ctx, team.ID)
		if err != nil {
			return "", err
		}
		for _, ch := range channels {
			if strings.EqualFold(ch.Name, channelOrName) || strings.EqualFold(ch.DisplayName, channelOrName) {
				return ch.ID, nil
			}
		}
	}

	return "", fmt.Errorf("channel %q not found in any team: %w", channelOrName, mattermost.ErrNotFound)
}

// isChannelID checks if a string looks like a Mattermost channel ID:
// a 26-character lowercase alphanumeric string.
func isChannelID(s string) bool {
	if len(s) != 26 {
		return false
	}
	for _, ch := range s {
		if !((ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9')) {
			return false
		}
	}
	return true
}
