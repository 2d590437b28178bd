package mattermost

// Channel type identifiers as the server reports them.
const (
	ChannelTypeOpen    = "O"
	ChannelTypePrivate = "P"
	ChannelTypeGroup   = "G"
	ChannelTypeDirect  = "D"
)

// User is a Mattermost account. Only the fields the export pipeline reads
// are mapped.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	DeleteAt int64  `json:"delete_at"`
}

// Team labels a workspace; it is never mutated by the exporter.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Channel is an immutable snapshot of a conversation container.
//
// For direct-message channels the server leaves DisplayName empty and
// encodes both participant IDs in Name, joined by a double underscore.
type Channel struct {
	ID          string `json:"id"`
	TeamID      string `json:"team_id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Header      string `json:"header"`
}

// FileInfo describes one attachment on a post.
type FileInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PostMetadata carries the nested attachment metadata of a post.
type PostMetadata struct {
	Files []FileInfo `json:"files,omitempty"`
}

// Post is one raw message event. CreateAt is a millisecond epoch; the
// server assigns insertion order as the tie-break within equal instants.
type Post struct {
	ID       string        `json:"id"`
	UserID   string        `json:"user_id"`
	CreateAt int64         `json:"create_at"`
	Message  string        `json:"message"`
	Metadata *PostMetadata `json:"metadata,omitempty"`
}

// PostList is one page of channel history: an id-to-post mapping plus the
// explicit ordering array the server returns (newest first).
type PostList struct {
	Order []string         `json:"order"`
	Posts map[string]*Post `json:"posts"`
}

// OrderedPosts expands the ordering array against the post mapping,
// skipping ids the mapping does not contain.
func (pl *PostList) OrderedPosts() []*Post {
	posts := make([]*Post, 0, len(pl.Order))
	for _, id := range pl.Order {
		if p, ok := pl.Posts[id]; ok {
			posts = append(posts, p)
		}
	}
	return posts
}
