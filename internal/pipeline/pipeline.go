// Package pipeline sequences one full analysis run: parse the thread,
// enrich it with LLM judgments, and materialize the result as a graph.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/karry12138/public-opinion-graph/internal/analyzer"
	"github.com/karry12138/public-opinion-graph/internal/graph"
	"github.com/karry12138/public-opinion-graph/internal/ingest"
	"github.com/karry12138/public-opinion-graph/pkg/config"
	"github.com/karry12138/public-opinion-graph/pkg/logger"
)

// Options control one pipeline run.
type Options struct {
	ThreadPath string
	BuildGraph bool
	ClearDB    bool
	// Confirm gates the destructive database wipe. It must be supplied
	// when ClearDB is set; returning false skips the wipe and proceeds.
	Confirm func() bool
}

// Pipeline wires the parser, analyzer, and graph writer.
type Pipeline struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	writer   *graph.Writer
	logger   *zap.Logger
}

// New creates a pipeline from already-constructed components.
func New(cfg *config.Config, a *analyzer.Analyzer, w *graph.Writer) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		analyzer: a,
		writer:   w,
		logger:   logger.Get(),
	}
}

// Run executes parse, analysis, and (optionally) the graph build, and
// returns the assembled analysis bundle.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*analyzer.Result, error) {
	p.logger.Info("Pipeline started", zap.String("thread", opts.ThreadPath))

	thread, err := ingest.LoadThread(opts.ThreadPath)
	if err != nil {
		return nil, err
	}

	result := &analyzer.Result{
		EventInfo:         ingest.ExtractEventInfo(thread),
		Comments:          ingest.ExtractComments(thread, 0),
		Stats:             ingest.GetStatistics(thread),
		TimeSpan:          ingest.GetTimeSpan(thread),
		OfficialResponses: capOfficial(ingest.GetOfficialResponses(thread), p.cfg.MaxOfficialResponses),
	}
	p.logger.Info("Thread parsed",
		zap.String("author", result.EventInfo.Author),
		zap.Int("comment_groups", result.Stats.TotalCommentGroups),
		zap.Int("replies", result.Stats.TotalReplies),
		zap.Int("official_responses", len(result.OfficialResponses)),
	)

	if err := p.analyze(ctx, result); err != nil {
		return nil, err
	}

	if opts.BuildGraph {
		if opts.ClearDB && opts.Confirm != nil && opts.Confirm() {
			if err := p.writer.ClearDatabase(ctx); err != nil {
				return nil, err
			}
		}
		if err := p.writer.BuildCompleteGraph(ctx, result); err != nil {
			return nil, err
		}

		stats, err := p.writer.Stats(ctx)
		if err != nil {
			return nil, err
		}
		p.logger.Info("Graph statistics",
			zap.Int64("total_nodes", stats.TotalNodes),
			zap.Int64("relationships", stats.Relationships),
		)
	}

	p.logger.Info("Pipeline complete")
	return result, nil
}

func (p *Pipeline) analyze(ctx context.Context, result *analyzer.Result) error {
	topic, err := p.analyzer.AnalyzeTopic(ctx, result.EventInfo.TopicContent, result.EventInfo.Author)
	if err != nil {
		return err
	}
	result.TopicAnalysis = topic
	p.logger.Info("Topic analyzed", zap.String("event_type", topic.EventType))

	records, err := p.analyzer.AnalyzeSentimentBatch(ctx, result.Comments, p.cfg.MaxComments)
	if err != nil {
		return err
	}
	result.SentimentAnalysis = records
	result.SentimentDistribution = analyzer.SentimentDistribution(records)
	p.logger.Info("Sentiment analyzed",
		zap.Int("positive", result.SentimentDistribution[analyzer.SentimentPositive]),
		zap.Int("negative", result.SentimentDistribution[analyzer.SentimentNegative]),
		zap.Int("neutral", result.SentimentDistribution[analyzer.SentimentNeutral]),
	)

	demands, err := p.analyzer.ExtractKeyDemands(ctx, result.Comments)
	if err != nil {
		return err
	}
	result.Demands = demands

	phase, err := p.analyzer.JudgeOpinionPhase(ctx, result.EventInfo, result.Stats,
		result.TimeSpan, result.OfficialResponses, result.SentimentDistribution)
	if err != nil {
		return err
	}
	result.OpinionPhase = phase
	p.logger.Info("Opinion phase judged", zap.String("phase", phase.Phase))

	solutions, err := p.analyzer.ExtractSolutions(ctx, result.EventInfo, result.Comments, result.OfficialResponses)
	if err != nil {
		return err
	}
	result.Solutions = solutions
	p.logger.Info("Solutions extracted",
		zap.Int("taken_actions", len(solutions.TakenActions)),
		zap.Int("suggested", len(solutions.SuggestedSolutions)),
	)

	return nil
}

func capOfficial(responses []ingest.OfficialResponse, limit int) []ingest.OfficialResponse {
	if limit > 0 && len(responses) > limit {
		return responses[:limit]
	}
	return responses
}
