package export

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/matillion/mattermost-export/internal/mattermost"
	"go.uber.org/zap"
)

// directNameSeparator joins the two participant IDs in a direct-message
// channel's raw name.
const directNameSeparator = "__"

// MalformedChannelNameError is returned when a direct-message channel name
// does not split into the caller's ID and exactly one other participant.
type MalformedChannelNameError struct {
	ChannelID string
	Name      string
}

func (e *MalformedChannelNameError) Error() string {
	return fmt.Sprintf("malformed direct channel name %q (channel %s)", e.Name, e.ChannelID)
}

// TeamChannels lists the channels visible to the session user within a
// team, labels each with a display name, and sorts the result by display
// name (case-insensitive). The ordering is a usability contract for
// callers presenting choices, not required by the export itself.
func (e *Exporter) TeamChannels(ctx context.Context, teamID string) ([]mattermost.Channel, error) {
	channels, err := e.api.GetChannelsForTeamForUser(ctx, teamID, e.res.Me())
	if err != nil {
		return nil, fmt.Errorf("list channels for team %s: %w", teamID, err)
	}

	for i := range channels {
		if err := e.labelChannel(ctx, &channels[i]); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(channels, func(i, j int) bool {
		return strings.ToLower(channels[i].DisplayName) < strings.ToLower(channels[j].DisplayName)
	})

	return channels, nil
}

// labelChannel derives the display name. Direct-message channels take the
// other participant's username; everything else falls back to the raw name
// when the server left the display name empty.
func (e *Exporter) labelChannel(ctx context.Context, ch *mattermost.Channel) error {
	if ch.Type != mattermost.ChannelTypeDirect {
		if ch.DisplayName == "" {
			ch.DisplayName = ch.Name
		}
		return nil
	}

	other, ok := otherParticipant(ch.Name, e.res.Me())
	if !ok {
		return &MalformedChannelNameError{ChannelID: ch.ID, Name: ch.Name}
	}

	name, err := e.res.Resolve(ctx, other)
	if err != nil {
		// A deleted counterpart should not hide the conversation; keep
		// the raw ID as the label.
		e.logger.Warn("could not resolve direct channel participant",
			zap.String("channel_id", ch.ID),
			zap.String("user_id", other),
			zap.Error(err))
		name = other
	}
	ch.DisplayName = name
	return nil
}

// otherParticipant splits a direct-channel name into its two participant
// IDs and returns the one that is not the caller.
func otherParticipant(rawName, me string) (string, bool) {
	parts := strings.Split(rawName, directNameSeparator)
	if len(parts) != 2 {
		return "", false
	}
	switch me {
	case parts[0]:
		return parts[1], true
	case parts[1]:
		return parts[0], true
	default:
		return "", false
	}
}
