package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matillion/mattermost-export/internal/mattermost"
	"go.uber.org/zap"
)

const (
	codeFence  = "```"
	dateLayout = "2006-01-02"

	// timestampLayout renders instants as ISO-8601 UTC.
	timestampLayout = "2006-01-02T15:04:05Z"
)

// Options bounds and shapes one export run.
type Options struct {
	// DownloadFiles fetches attachment content into the file sink.
	DownloadFiles bool

	// Before retains only posts on or before this calendar date (inclusive,
	// UTC midnight). Empty means unbounded.
	Before string

	// After retains only posts on or after this calendar date (inclusive,
	// UTC midnight). Empty means unbounded.
	After string

	// IndexAfterFilter numbers posts by their position in the filtered
	// sequence. The default numbers them by position in the full reversed
	// sequence, so filtered-out posts still consume index slots; that
	// matches what older exports contain.
	IndexAfterFilter bool
}

type dateBounds struct {
	before, after       int64
	hasBefore, hasAfter bool
}

func (o Options) bounds() (dateBounds, error) {
	var b dateBounds
	if o.Before != "" {
		t, err := time.Parse(dateLayout, o.Before)
		if err != nil {
			return b, fmt.Errorf("parse before date %q: %w", o.Before, err)
		}
		b.before, b.hasBefore = t.Unix(), true
	}
	if o.After != "" {
		t, err := time.Parse(dateLayout, o.After)
		if err != nil {
			return b, fmt.Errorf("parse after date %q: %w", o.After, err)
		}
		b.after, b.hasAfter = t.Unix(), true
	}
	return b, nil
}

// retains reports whether a post at the given creation instant (millisecond
// epoch) falls inside the bounds. Comparison happens at second resolution;
// both bounds are inclusive.
func (b dateBounds) retains(createAtMillis int64) bool {
	created := createAtMillis / 1000
	if b.hasBefore && created > b.before {
		return false
	}
	if b.hasAfter && created < b.after {
		return false
	}
	return true
}

// Attachment is one file reference on a simplified post. Error is set when
// a requested download stayed unavailable after bounded retries.
type Attachment struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
}

// SimplifiedPost is the exported form of one message, immutable once built.
type SimplifiedPost struct {
	Index    int          `json:"idx"`
	ID       string       `json:"id"`
	Created  string       `json:"created"`
	Username string       `json:"username"`
	Message  string       `json:"message"`
	Code     string       `json:"code,omitempty"`
	Files    []Attachment `json:"files,omitempty"`
}

// transformPosts converts the newest-first raw sequence into the exported
// oldest-first sequence: reverse, date-filter, resolve authors, normalize
// timestamps, extract code blocks, list attachments.
func (e *Exporter) transformPosts(ctx context.Context, raw []*mattermost.Post, opts Options) ([]SimplifiedPost, error) {
	bounds, err := opts.bounds()
	if err != nil {
		return nil, err
	}

	n := len(raw)
	posts := make([]SimplifiedPost, 0, n)

	for i := n - 1; i >= 0; i-- {
		p := raw[i]
		// Position within the reversed, not-yet-filtered enumeration.
		seq := n - 1 - i

		if !bounds.retains(p.CreateAt) {
			continue
		}

		index := seq
		if opts.IndexAfterFilter {
			index = len(posts)
		}

		sp := SimplifiedPost{
			Index:    index,
			ID:       p.ID,
			Created:  isoTimestamp(p.CreateAt),
			Username: e.username(ctx, p.UserID),
			Message:  p.Message,
		}

		if code, found := extractCodeBlock(p.Message); found {
			if code == "" {
				e.logger.Warn("code block is empty",
					zap.String("post_id", p.ID))
			} else {
				sp.Code = code
			}
		}

		sp.Files = e.attachments(ctx, p, index, opts.DownloadFiles)

		posts = append(posts, sp)
	}

	return posts, nil
}

// username resolves a post author through the shared cache. A failed lookup
// keeps the raw ID so a deleted account cannot make history unexportable.
func (e *Exporter) username(ctx context.Context, userID string) string {
	name, err := e.res.Resolve(ctx, userID)
	if err != nil {
		e.logger.Warn("could not resolve post author, keeping raw id",
			zap.String("user_id", userID),
			zap.Error(err))
		return userID
	}
	return name
}

// extractCodeBlock returns the substring strictly between the first fence's
// end and the last fence's start. found is true when the message carries at
// least two fence markers, even if the enclosed block is empty.
func extractCodeBlock(message string) (code string, found bool) {
	if strings.Count(message, codeFence) < 2 {
		return "", false
	}
	start := strings.Index(message, codeFence) + len(codeFence)
	end := strings.LastIndex(message, codeFence)
	return message[start:end], true
}

// attachments builds the filename list for a post. The list is attached
// whether or not downloads were requested or succeeded; download failures
// are marked on the entry after bounded retries.
func (e *Exporter) attachments(ctx context.Context, p *mattermost.Post, index int, download bool) []Attachment {
	if p.Metadata == nil || len(p.Metadata.Files) == 0 {
		return nil
	}

	atts := make([]Attachment, 0, len(p.Metadata.Files))
	for _, fi := range p.Metadata.Files {
		att := Attachment{Name: fi.Name}
		if download {
			if err := e.downloadFile(ctx, fi, index); err != nil {
				e.logger.Error("file download failed",
					zap.String("file_id", fi.ID),
					zap.String("name", fi.Name),
					zap.Error(err))
				att.Error = "unavailable"
			}
		}
		atts = append(atts, att)
	}
	return atts
}

// downloadFile fetches one attachment with bounded retries and hands the
// bytes to the sink, prefixed with the owning post's index.
func (e *Exporter) downloadFile(ctx context.Context, fi mattermost.FileInfo, index int) error {
	var data []byte
	err := mattermost.WithRetry(ctx, e.logger, func() error {
		var err error
		data, err = e.api.GetFile(ctx, fi.ID)
		return err
	})
	if err != nil {
		return err
	}

	if e.sink == nil {
		return nil
	}
	name := fmt.Sprintf("%03d_%s", index, sanitizeName(fi.Name))
	if _, err := e.sink.WriteFile(name, data); err != nil {
		return err
	}
	return nil
}

func isoTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(timestampLayout)
}

// sanitizeName strips path separators so a name stays a plain filename.
func sanitizeName(s string) string {
	return strings.NewReplacer("\\", "", "/", "").Replace(s)
}
