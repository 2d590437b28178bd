package export

import (
	"context"
	"fmt"
	"sync"

	"github.com/matillion/mattermost-export/internal/mattermost"
)

// fakeAPI is an in-memory collaborator for pipeline tests. Pagination is
// computed from the stored slices so termination behavior matches a real
// server: the page after the last full one is empty.
type fakeAPI struct {
	mu sync.Mutex

	me           mattermost.User
	users        []mattermost.User
	teams        []mattermost.Team
	channels     map[string]*mattermost.Channel
	teamChannels map[string][]mattermost.Channel
	posts        map[string][]*mattermost.Post // newest first
	files        map[string][]byte

	// failPostsPage makes that history page fail; -1 disables.
	failPostsPage int
	// failFiles counts down remaining failures per file ID.
	failFiles map[string]int

	postPageCalls int
	userPageCalls int
	userLookups   int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		me:            mattermost.User{ID: "me0000000000000000000000me", Username: "me"},
		channels:      make(map[string]*mattermost.Channel),
		teamChannels:  make(map[string][]mattermost.Channel),
		posts:         make(map[string][]*mattermost.Post),
		files:         make(map[string][]byte),
		failPostsPage: -1,
		failFiles:     make(map[string]int),
	}
}

func (f *fakeAPI) GetMe(ctx context.Context) (*mattermost.User, error) {
	me := f.me
	return &me, nil
}

func (f *fakeAPI) GetUsers(ctx context.Context, page, perPage int) ([]mattermost.User, error) {
	f.mu.Lock()
	f.userPageCalls++
	f.mu.Unlock()

	start := page * perPage
	if start >= len(f.users) {
		return nil, nil
	}
	end := start + perPage
	if end > len(f.users) {
		end = len(f.users)
	}
	return f.users[start:end], nil
}

func (f *fakeAPI) GetUser(ctx context.Context, userID string) (*mattermost.User, error) {
	f.mu.Lock()
	f.userLookups++
	f.mu.Unlock()

	if userID == f.me.ID {
		me := f.me
		return &me, nil
	}
	for _, u := range f.users {
		if u.ID == userID {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", userID, mattermost.ErrNotFound)
}

func (f *fakeAPI) GetTeamsForUser(ctx context.Context, userID string) ([]mattermost.Team, error) {
	return f.teams, nil
}

func (f *fakeAPI) GetChannelsForTeamForUser(ctx context.Context, teamID, userID string) ([]mattermost.Channel, error) {
	return f.teamChannels[teamID], nil
}

func (f *fakeAPI) GetChannel(ctx context.Context, channelID string) (*mattermost.Channel, error) {
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("channel %s: %w", channelID, mattermost.ErrNotFound)
	}
	cp := *ch
	return &cp, nil
}

func (f *fakeAPI) GetTeam(ctx context.Context, teamID string) (*mattermost.Team, error) {
	for _, t := range f.teams {
		if t.ID == teamID {
			t := t
			return &t, nil
		}
	}
	return nil, fmt.Errorf("team %s: %w", teamID, mattermost.ErrNotFound)
}

func (f *fakeAPI) GetPostsForChannel(ctx context.Context, channelID string, page, perPage int) (*mattermost.PostList, error) {
	f.mu.Lock()
	f.postPageCalls++
	f.mu.Unlock()

	if page == f.failPostsPage {
		return nil, fmt.Errorf("page %d: %w", page, mattermost.ErrUnavailable)
	}

	all := f.posts[channelID]
	start := page * perPage
	pl := &mattermost.PostList{Posts: make(map[string]*mattermost.Post)}
	if start >= len(all) {
		return pl, nil
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	for _, p := range all[start:end] {
		pl.Order = append(pl.Order, p.ID)
		pl.Posts[p.ID] = p
	}
	return pl, nil
}

func (f *fakeAPI) GetFile(ctx context.Context, fileID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if n := f.failFiles[fileID]; n > 0 {
		f.failFiles[fileID] = n - 1
		return nil, fmt.Errorf("file %s: %w", fileID, mattermost.ErrUnavailable)
	}
	data, ok := f.files[fileID]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", fileID, mattermost.ErrNotFound)
	}
	return data, nil
}
