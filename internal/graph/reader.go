package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "github.com/karry12138/public-opinion-graph/pkg/errors"
	"github.com/karry12138/public-opinion-graph/pkg/logger"
)

// ExportLimits bound the list-valued groups of an export.
type ExportLimits struct {
	Demands      int
	Interactions int
	Negative     int
}

// DefaultExportLimits match the machine-readable export document.
var DefaultExportLimits = ExportLimits{Demands: 10, Interactions: 20, Negative: 10}

// Reader runs read-only aggregations over the persisted graph.
type Reader struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewReader creates a graph reader on an existing driver. The caller
// owns the driver's lifetime.
func NewReader(driver neo4j.DriverWithContext) *Reader {
	return &Reader{
		driver: driver,
		logger: logger.Get(),
	}
}

func (r *Reader) readSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
}

// EventSummary joins the event with its optional phase and publishing
// organization. With more than one Event in the store the result is
// the first match, unordered.
func (r *Reader) EventSummary(ctx context.Context) (*EventSummary, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (e:Event)
		OPTIONAL MATCH (e)-[:IN_PHASE]->(p:OpinionPhase)
		OPTIONAL MATCH (o:Organization)-[:PUBLISHED]->(e)
		RETURN e.content AS content,
		       e.event_type AS event_type,
		       e.comment_count AS comment_count,
		       e.reply_count AS reply_count,
		       p.phase AS phase,
		       o.name AS organization
		LIMIT 1
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("event summary", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, apperrors.NewGraphQueryFailed("event summary", err)
		}
		return nil, nil
	}

	record := result.Record()
	return &EventSummary{
		Content:      getStringFromRecord(record, "content"),
		EventType:    getStringFromRecord(record, "event_type"),
		CommentCount: getInt64FromRecord(record, "comment_count"),
		ReplyCount:   getInt64FromRecord(record, "reply_count"),
		OpinionPhase: getStringFromRecord(record, "phase"),
		Organization: getStringFromRecord(record, "organization"),
	}, nil
}

// SentimentDistribution groups all Comment nodes by sentiment label,
// descending by count. Counts sum to the total number of Comment nodes.
func (r *Reader) SentimentDistribution(ctx context.Context) ([]SentimentCount, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (c:Comment)
		RETURN c.sentiment AS sentiment, count(*) AS count
		ORDER BY count DESC
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("sentiment distribution", err)
	}

	var distribution []SentimentCount
	for result.Next(ctx) {
		record := result.Record()
		distribution = append(distribution, SentimentCount{
			Sentiment: getStringFromRecord(record, "sentiment"),
			Count:     getInt64FromRecord(record, "count"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("sentiment distribution", err)
	}
	return distribution, nil
}

// TopDemands ranks demands by the number of distinct users raising
// them, descending, truncated to limit. Demands raised by no user are
// excluded.
func (r *Reader) TopDemands(ctx context.Context, limit int) ([]DemandCount, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (d:Demand)<-[:RAISED]-(u:User)
		RETURN d.content AS demand,
		       d.frequency AS frequency,
		       count(DISTINCT u) AS user_count
		ORDER BY user_count DESC
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]any{"limit": limit})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("top demands", err)
	}

	var demands []DemandCount
	for result.Next(ctx) {
		record := result.Record()
		demands = append(demands, DemandCount{
			Demand:    getStringFromRecord(record, "demand"),
			Frequency: getStringFromRecord(record, "frequency"),
			UserCount: getInt64FromRecord(record, "user_count"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("top demands", err)
	}
	return demands, nil
}

// Solutions partitions Solution nodes into the two known buckets.
// Unknown type values are dropped.
func (r *Reader) Solutions(ctx context.Context) (*SolutionBuckets, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (s:Solution)
		RETURN s.type AS type, s.content AS content
		ORDER BY s.type
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("solutions", err)
	}

	buckets := &SolutionBuckets{}
	for result.Next(ctx) {
		record := result.Record()
		content := getStringFromRecord(record, "content")
		switch getStringFromRecord(record, "type") {
		case SolutionActionTaken:
			buckets.ActionTaken = append(buckets.ActionTaken, content)
		case SolutionSuggested:
			buckets.Suggested = append(buckets.Suggested, content)
		}
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("solutions", err)
	}
	return buckets, nil
}

// UserInteractionNetwork counts who-replies-to-whom pairs, descending,
// truncated to limit.
func (r *Reader) UserInteractionNetwork(ctx context.Context, limit int) ([]Interaction, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u1:User)-[:POSTED]->(r:Reply)-[:REPLIES_TO]->(c:Comment)<-[:POSTED]-(u2:User)
		RETURN u1.name AS from_user,
		       u2.name AS to_user,
		       count(*) AS interaction_count
		ORDER BY interaction_count DESC
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]any{"limit": limit})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("user interaction network", err)
	}

	var interactions []Interaction
	for result.Next(ctx) {
		record := result.Record()
		interactions = append(interactions, Interaction{
			FromUser: getStringFromRecord(record, "from_user"),
			ToUser:   getStringFromRecord(record, "to_user"),
			Count:    getInt64FromRecord(record, "interaction_count"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("user interaction network", err)
	}
	return interactions, nil
}

// NegativeComments returns negative-sentiment comments ordered by
// intensity descending, truncated to limit.
func (r *Reader) NegativeComments(ctx context.Context, limit int) ([]NegativeComment, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User)-[:POSTED]->(c:Comment)
		WHERE c.sentiment = 'negative'
		RETURN u.name AS author,
		       c.content AS content,
		       c.emotion AS emotion,
		       c.intensity AS intensity,
		       c.time AS time
		ORDER BY c.intensity DESC
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]any{"limit": limit})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("negative comments", err)
	}

	var comments []NegativeComment
	for result.Next(ctx) {
		record := result.Record()
		comments = append(comments, NegativeComment{
			Author:    getStringFromRecord(record, "author"),
			Content:   getStringFromRecord(record, "content"),
			Emotion:   getStringFromRecord(record, "emotion"),
			Intensity: getInt64FromRecord(record, "intensity"),
			Time:      getStringFromRecord(record, "time"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("negative comments", err)
	}
	return comments, nil
}

// Export assembles the machine-readable snapshot of the graph: the
// same six data groups the text report is rendered from.
func (r *Reader) Export(ctx context.Context, limits ExportLimits) (*Export, error) {
	export := &Export{}

	summary, err := r.EventSummary(ctx)
	if err != nil {
		return nil, err
	}
	if summary != nil {
		export.EventSummary = *summary
	}

	if export.Sentiment, err = r.SentimentDistribution(ctx); err != nil {
		return nil, err
	}
	if export.TopDemands, err = r.TopDemands(ctx, limits.Demands); err != nil {
		return nil, err
	}

	solutions, err := r.Solutions(ctx)
	if err != nil {
		return nil, err
	}
	export.Solutions = *solutions

	if export.UserInteractions, err = r.UserInteractionNetwork(ctx, limits.Interactions); err != nil {
		return nil, err
	}
	if export.NegativeComments, err = r.NegativeComments(ctx, limits.Negative); err != nil {
		return nil, err
	}

	return export, nil
}
