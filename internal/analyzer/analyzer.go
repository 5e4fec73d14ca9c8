package analyzer

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/karry12138/public-opinion-graph/internal/ingest"
	apperrors "github.com/karry12138/public-opinion-graph/pkg/errors"
	"github.com/karry12138/public-opinion-graph/pkg/logger"
)

// maxConcurrentCalls bounds parallel sentiment requests so a large
// thread does not hammer the API.
const maxConcurrentCalls = 4

// Analyzer enriches a parsed thread with LLM judgments via an
// OpenAI-compatible endpoint.
type Analyzer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// New creates an analyzer against the given endpoint.
func New(baseURL, apiKey, model string) *Analyzer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Analyzer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger.Get(),
	}
}

func (a *Analyzer) call(ctx context.Context, task, prompt string, temperature float32) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", apperrors.NewLLMRequestFailed(a.model, task, err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewLLMRequestFailed(a.model, task, nil)
	}
	return resp.Choices[0].Message.Content, nil
}

// AnalyzeTopic classifies the topic post.
func (a *Analyzer) AnalyzeTopic(ctx context.Context, topic, author string) (TopicAnalysis, error) {
	raw, err := a.call(ctx, "topic", topicPrompt(topic, author), 0.3)
	if err != nil {
		return TopicAnalysis{}, err
	}

	var result TopicAnalysis
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &result); err != nil {
		a.logger.Warn("Topic analysis returned non-JSON, keeping raw text as issue",
			zap.String("model", a.model))
		return TopicAnalysis{Issue: raw}, nil
	}
	return result, nil
}

// AnalyzeSentiment judges a single comment. A non-JSON model response
// falls back to the neutral default rather than failing.
func (a *Analyzer) AnalyzeSentiment(ctx context.Context, author, content string) (SentimentRecord, error) {
	raw, err := a.call(ctx, "sentiment", sentimentPrompt(content), 0.3)
	if err != nil {
		return SentimentRecord{}, err
	}

	record := SentimentRecord{Author: author, Content: content}
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &record); err != nil {
		record.Sentiment = SentimentNeutral
		record.Emotion = "unknown"
		record.Intensity = 5
		record.Reason = raw
		record.Demands = nil
	}
	record.Author = author
	record.Content = content
	normalizeSentiment(&record)
	return record, nil
}

// AnalyzeSentimentBatch judges the first limit comment groups, in
// input order, with bounded concurrency. Groups with empty content are
// skipped.
func (a *Analyzer) AnalyzeSentimentBatch(ctx context.Context, groups []ingest.CommentGroup, limit int) ([]SentimentRecord, error) {
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	results := make([]*SentimentRecord, len(groups))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCalls)

	for i, group := range groups {
		idx := i
		main := group.MainComment
		if main.Content == "" {
			continue
		}
		g.Go(func() error {
			record, err := a.AnalyzeSentiment(gctx, main.Author, main.Content)
			if err != nil {
				return err
			}
			mu.Lock()
			results[idx] = &record
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Preserve input order for the first-match author pairing downstream
	records := make([]SentimentRecord, 0, len(groups))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}
	return records, nil
}

// JudgeOpinionPhase places the event in its lifecycle phase.
func (a *Analyzer) JudgeOpinionPhase(ctx context.Context, event ingest.EventInfo, stats ingest.Statistics, span ingest.TimeSpan, official []ingest.OfficialResponse, sentimentDist map[string]int) (PhaseJudgment, error) {
	raw, err := a.call(ctx, "phase", phasePrompt(event, stats, span, len(official), sentimentDist), 0.5)
	if err != nil {
		return PhaseJudgment{}, err
	}

	var judgment PhaseJudgment
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &judgment); err != nil {
		judgment = PhaseJudgment{Confidence: 5, Reason: raw}
	}
	if judgment.Confidence < 1 || judgment.Confidence > 10 {
		judgment.Confidence = 5
	}
	return judgment, nil
}

// ExtractSolutions pulls taken actions and suggestions out of the thread.
func (a *Analyzer) ExtractSolutions(ctx context.Context, event ingest.EventInfo, comments []ingest.CommentGroup, official []ingest.OfficialResponse) (SolutionSet, error) {
	raw, err := a.call(ctx, "solutions", solutionsPrompt(event, comments, official), 0.7)
	if err != nil {
		return SolutionSet{}, err
	}

	var solutions SolutionSet
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &solutions); err != nil {
		solutions = SolutionSet{RiskAssessment: raw}
	}
	return solutions, nil
}

// ExtractKeyDemands summarizes what commenters are asking for.
func (a *Analyzer) ExtractKeyDemands(ctx context.Context, comments []ingest.CommentGroup) (DemandSummary, error) {
	raw, err := a.call(ctx, "demands", demandsPrompt(comments), 0.5)
	if err != nil {
		return DemandSummary{}, err
	}

	var summary DemandSummary
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &summary); err != nil {
		summary = DemandSummary{Summary: raw}
	}
	return summary, nil
}

// ExtractJSON strips Markdown code fences and surrounding prose from a
// model response, returning the outermost JSON object.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func normalizeSentiment(r *SentimentRecord) {
	switch r.Sentiment {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
	default:
		r.Sentiment = SentimentNeutral
	}
	if r.Intensity < 1 || r.Intensity > 10 {
		r.Intensity = 5
	}
}

// SentimentDistribution counts records per sentiment label.
func SentimentDistribution(records []SentimentRecord) map[string]int {
	dist := map[string]int{
		SentimentPositive: 0,
		SentimentNegative: 0,
		SentimentNeutral:  0,
	}
	for _, r := range records {
		dist[r.Sentiment]++
	}
	return dist
}
