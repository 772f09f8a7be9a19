package cli

import (
	"context"
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/lookout/pkg/cli/config"
	"github.com/m-mizutani/lookout/pkg/domain/interfaces"
	"github.com/m-mizutani/lookout/pkg/domain/types"
	"github.com/m-mizutani/lookout/pkg/infra/firestore"
	"github.com/m-mizutani/lookout/pkg/infra/github"
	"github.com/m-mizutani/lookout/pkg/infra/jsonfile"
	"github.com/m-mizutani/lookout/pkg/infra/report"
	"github.com/m-mizutani/lookout/pkg/infra/slack"
	"github.com/m-mizutani/lookout/pkg/infra/watchfile"
	"github.com/m-mizutani/lookout/pkg/usecase"
)

// pipelineConfig aggregates the configuration of everything a polling run
// touches
type pipelineConfig struct {
	github config.GitHub
	openai config.OpenAI
	state  config.State
	report config.Report
	watch  config.Watch
}

func (c *pipelineConfig) flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, c.github.Flags()...)
	flags = append(flags, c.openai.Flags()...)
	flags = append(flags, c.state.Flags()...)
	flags = append(flags, c.report.Flags()...)
	flags = append(flags, c.watch.Flags()...)
	return flags
}

// pipeline holds the wired polling use case and report publisher
type pipeline struct {
	watch   interfaces.WatchUseCase
	publish *usecase.Publisher
	state   interfaces.StateStore
}

// newPipeline wires infra backends and use cases from CLI configuration
func newPipeline(ctx context.Context, cfg *pipelineConfig) (*pipeline, error) {
	ghOpts := []github.Option{
		github.WithPageSize(cfg.github.PageSize),
	}
	if cfg.github.APIURL != "" {
		ghOpts = append(ghOpts, github.WithBaseURL(cfg.github.APIURL))
	}
	gh := github.NewClient(cfg.github.Token, ghOpts...)

	// The watchlist file replaces the GitHub watched-repository list as the
	// enumeration source; releases are always fetched from the API.
	var lister interfaces.RepoLister = gh
	if cfg.watch.Watchlist != "" {
		lister = watchfile.New(cfg.watch.Watchlist)
	}

	var state interfaces.StateStore
	var err error
	if cfg.state.FirestoreProject != "" {
		state, err = firestore.New(ctx, cfg.state.FirestoreProject,
			firestore.WithCollection(cfg.state.FirestoreCollection),
		)
	} else {
		state, err = jsonfile.New(cfg.state.Path)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open state store")
	}

	llmClient, err := openai.New(ctx, cfg.openai.APIKey, openai.WithModel(cfg.openai.Model))
	if err != nil {
		_ = state.Close()
		return nil, goerr.Wrap(err, "failed to create OpenAI client")
	}

	summarizer, err := usecase.NewSummarizer(llmClient, cfg.openai.SummaryLang)
	if err != nil {
		_ = state.Close()
		return nil, goerr.Wrap(err, "failed to create summarizer")
	}

	watchUC := usecase.NewWatch(lister, gh, state, summarizer,
		usecase.WithConcurrency(cfg.watch.Concurrency),
	)

	writers := []interfaces.ReportWriter{
		report.NewLocalWriter(cfg.report.Dir),
	}
	if cfg.report.Bucket != "" {
		gcs, err := report.NewGCSWriter(ctx, cfg.report.Bucket, cfg.report.Prefix)
		if err != nil {
			_ = state.Close()
			return nil, goerr.Wrap(err, "failed to create GCS report writer")
		}
		writers = append(writers, gcs)
	}

	var pubOpts []usecase.PublishOption
	if cfg.report.SlackWebhook != "" {
		pubOpts = append(pubOpts, usecase.WithNotifier(slack.New(cfg.report.SlackWebhook)))
	}

	return &pipeline{
		watch:   watchUC,
		publish: usecase.NewPublisher(writers, pubOpts...),
		state:   state,
	}, nil
}

// Job runs one polling cycle and publishes its result. Shared by the
// scheduler and the HTTP trigger.
func (p *pipeline) Job(ctx context.Context) error {
	updates, err := p.watch.Run(ctx)
	if err != nil && !errors.Is(err, types.ErrRunInProgress) {
		sentry.CaptureException(err)
	}

	// Updates that survived a partly failed run are already recorded in the
	// state store; dropping them here would lose them for good.
	p.publish.Publish(ctx, updates)

	return err
}

// Close releases the state store backend
func (p *pipeline) Close() error {
	return p.state.Close()
}
