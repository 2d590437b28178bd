package export

import (
	"time"

	"github.com/matillion/mattermost-export/internal/mattermost"
)

// ChannelMeta is the metadata block of an export document.
type ChannelMeta struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Header      string `json:"header"`
	ID          string `json:"id"`
	Team        string `json:"team"`
	TeamID      string `json:"team_id"`
	ExportedAt  string `json:"exported_at"`
}

// Document is the self-contained export of one channel. Documents for
// different channels share nothing mutable.
type Document struct {
	Channel ChannelMeta      `json:"channel"`
	Posts   []SimplifiedPost `json:"posts"`
}

// assemble packages channel metadata, the team label, and the transformed
// post sequence. Pure aggregation; team may be nil for team-less direct
// and group channels.
func assemble(ch *mattermost.Channel, team *mattermost.Team, posts []SimplifiedPost, exportedAt time.Time) *Document {
	meta := ChannelMeta{
		Name:        ch.Name,
		DisplayName: ch.DisplayName,
		Header:      ch.Header,
		ID:          ch.ID,
		TeamID:      ch.TeamID,
		ExportedAt:  exportedAt.UTC().Format(timestampLayout),
	}
	if team != nil {
		meta.Team = team.Name
	}
	return &Document{Channel: meta, Posts: posts}
}
