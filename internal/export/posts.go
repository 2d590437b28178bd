package export

import (
	"context"
	"fmt"

	"github.com/matillion/mattermost-export/internal/mattermost"
	"go.uber.org/zap"
)

// postPageSize is the fixed page size for channel history pagination.
const postPageSize = 200

// FetchError marks a failed history page retrieval. It aborts the whole
// aggregation for the channel; pages already fetched are discarded.
type FetchError struct {
	ChannelID string
	Page      int
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch posts for channel %s (page %d): %v", e.ChannelID, e.Page, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// fetchAllPosts pages through the full history of one channel, newest
// first. Each page's posts are expanded in the server-given order and
// concatenated in fetch order; pagination stops the instant a page holds
// zero posts. The server's per-page ordering is trusted, never re-sorted.
func (e *Exporter) fetchAllPosts(ctx context.Context, channelID string) ([]*mattermost.Post, error) {
	var all []*mattermost.Post

	for page := 0; ; page++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		e.logger.Debug("requesting channel page",
			zap.String("channel_id", channelID),
			zap.Int("page", page))

		pl, err := e.api.GetPostsForChannel(ctx, channelID, page, postPageSize)
		if err != nil {
			return nil, &FetchError{ChannelID: channelID, Page: page, Err: err}
		}

		if len(pl.Posts) == 0 {
			break
		}
		all = append(all, pl.OrderedPosts()...)
	}

	e.logger.Info("aggregated channel history",
		zap.String("channel_id", channelID),
		zap.Int("posts", len(all)))
	return all, nil
}
