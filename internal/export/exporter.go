package export

import (
	"context"
	"fmt"
	"time"

	"github.com/matillion/mattermost-export/internal/mattermost"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// Exporter runs the export pipeline for one job. All state is job-scoped:
// the API session, the user cache, the sink and the options live and die
// with the job.
type Exporter struct {
	api     mattermost.API
	res     *Resolver
	sink    FileSink
	logger  *zap.Logger
	workers int

	// now is swapped in tests to pin the export timestamp.
	now func() time.Time
}

// NewExporter wires a pipeline over the given session. sink may be nil
// when nothing should be persisted. workers bounds how many channels of a
// multi-channel job run concurrently.
func NewExporter(api mattermost.API, sink FileSink, logger *zap.Logger, workers int) *Exporter {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Exporter{
		api:     api,
		res:     NewResolver(api, logger),
		sink:    sink,
		logger:  logger,
		workers: workers,
		now:     time.Now,
	}
}

// Prepare establishes the identity context for the job: who the session
// user is and the eager user directory. Must be called once before any
// export or listing.
func (e *Exporter) Prepare(ctx context.Context) error {
	return e.res.ResolveAll(ctx)
}

// Me returns the session user's ID. Valid after Prepare.
func (e *Exporter) Me() string {
	return e.res.Me()
}

// Result is the tagged per-channel outcome of a multi-channel job.
type Result struct {
	ChannelID string
	Document  *Document
	Err       error
}

// Export runs one export per requested channel under a bounded worker
// pool. Results come back in request order; one channel's failure never
// affects its siblings.
func (e *Exporter) Export(ctx context.Context, channelIDs []string, opts Options) []Result {
	results := make([]Result, len(channelIDs))

	var g errgroup.Group
	g.SetLimit(e.workers)

	for i, id := range channelIDs {
		g.Go(func() error {
			doc, err := e.ExportOne(ctx, id, opts)
			results[i] = Result{ChannelID: id, Document: doc, Err: err}
			return nil
		})
	}

	// Workers never return errors; failures live in the results.
	_ = g.Wait()

	return results
}

// ExportOne exports a single channel: resolve and label the channel,
// resolve its team, aggregate the full history, transform, assemble.
func (e *Exporter) ExportOne(ctx context.Context, channelID string, opts Options) (*Document, error) {
	ch, err := e.api.GetChannel(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("get channel %s: %w", channelID, err)
	}
	if err := e.labelChannel(ctx, ch); err != nil {
		return nil, err
	}

	var team *mattermost.Team
	if ch.TeamID != "" {
		team, err = e.api.GetTeam(ctx, ch.TeamID)
		if err != nil {
			return nil, fmt.Errorf("get team %s: %w", ch.TeamID, err)
		}
	}

	e.logger.Info("exporting channel",
		zap.String("channel", ch.DisplayName),
		zap.String("channel_id", ch.ID))

	raw, err := e.fetchAllPosts(ctx, channelID)
	if err != nil {
		return nil, err
	}

	posts, err := e.transformPosts(ctx, raw, opts)
	if err != nil {
		return nil, err
	}

	return assemble(ch, team, posts, e.now()), nil
}

// WriteDocument persists an assembled document through the sink and
// returns the file reference. A nil sink yields a zero ref.
func (e *Exporter) WriteDocument(doc *Document) (FileRef, error) {
	if e.sink == nil {
		return FileRef{}, nil
	}
	ref, err := e.sink.WriteJSON("export-"+sanitizeName(doc.Channel.DisplayName), doc)
	if err != nil {
		return FileRef{}, fmt.Errorf("write export document: %w", err)
	}
	e.logger.Info("export document written",
		zap.String("channel", doc.Channel.DisplayName),
		zap.String("path", ref.Path),
		zap.Int64("bytes", ref.Bytes))
	return ref, nil
}
