package mattermost

import "context"

// API defines the Mattermost endpoints the export pipeline consumes.
// Paginated list calls signal the end of data with an empty page.
//
//go:generate go tool mockgen -source=$GOFILE -destination=api_mocks.go -package=mattermost
type API interface {
	GetMe(ctx context.Context) (*User, error)
	GetUsers(ctx context.Context, page, perPage int) ([]User, error)
	GetUser(ctx context.Context, userID string) (*User, error)
	GetTeamsForUser(ctx context.Context, userID string) ([]Team, error)
	GetChannelsForTeamForUser(ctx context.Context, teamID, userID string) ([]Channel, error)
	GetChannel(ctx context.Context, channelID string) (*Channel, error)
	GetTeam(ctx context.Context, teamID string) (*Team, error)
	GetPostsForChannel(ctx context.Context, channelID string, page, perPage int) (*PostList, error)
	GetFile(ctx context.Context, fileID string) ([]byte, error)
}
