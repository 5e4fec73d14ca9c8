package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/karry12138/public-opinion-graph/internal/analyzer"
	"github.com/karry12138/public-opinion-graph/internal/ingest"
	apperrors "github.com/karry12138/public-opinion-graph/pkg/errors"
	"github.com/karry12138/public-opinion-graph/pkg/logger"
)

// Connect opens a Neo4j driver and verifies connectivity.
func Connect(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, apperrors.NewGraphConnectionFailed(uri, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, apperrors.NewGraphConnectionFailed(uri, err)
	}
	return driver, nil
}

// Caps bound how much of a thread one build materializes.
type Caps struct {
	MaxComments          int
	MaxRepliesPerComment int
}

// DefaultCaps match the analyzer's processing limits.
var DefaultCaps = Caps{MaxComments: 20, MaxRepliesPerComment: 5}

// Writer materializes an analysis bundle as nodes and relationships.
//
// BuildCompleteGraph is deliberately not one transaction: every node
// and edge is its own auto-commit statement, so a failure aborts the
// remaining sequence and leaves a partial graph. Identity-bearing
// nodes (User, Organization, Demand) merge on their key and survive
// re-runs; utterance nodes (Event, Comment, Reply, OpinionPhase,
// Solution) are created fresh every run, so a retry without
// ClearDatabase duplicates them.
type Writer struct {
	driver neo4j.DriverWithContext
	caps   Caps
	logger *zap.Logger
}

// NewWriter creates a graph writer on an existing driver. The caller
// owns the driver's lifetime.
func NewWriter(driver neo4j.DriverWithContext, caps Caps) *Writer {
	if caps.MaxComments <= 0 {
		caps.MaxComments = DefaultCaps.MaxComments
	}
	if caps.MaxRepliesPerComment <= 0 {
		caps.MaxRepliesPerComment = DefaultCaps.MaxRepliesPerComment
	}
	return &Writer{
		driver: driver,
		caps:   caps,
		logger: logger.Get(),
	}
}

func (w *Writer) runSingle(ctx context.Context, operation, query string, params map[string]any) (*neo4j.Record, error) {
	session := w.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed(operation, err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed(operation, err)
	}
	return record, nil
}

// CreateEvent inserts a new Event node and returns its identifier.
// Events are never merged; calling twice yields two nodes.
func (w *Writer) CreateEvent(ctx context.Context, event ingest.EventInfo, topic analyzer.TopicAnalysis, runID string) (string, error) {
	query := `
		CREATE (e:Event {
			analysis_run_id: $runID,
			url: $url,
			author: $author,
			content: $content,
			event_type: $eventType,
			core_entity: $coreEntity,
			location: $location,
			issue: $issue,
			impact: $impact,
			comment_count: $commentCount,
			reply_count: $replyCount,
			created_at: datetime()
		})
		RETURN elementId(e) AS id
	`

	record, err := w.runSingle(ctx, "create event", query, map[string]any{
		"runID":        runID,
		"url":          event.URL,
		"author":       event.Author,
		"content":      event.TopicContent,
		"eventType":    topic.EventType,
		"coreEntity":   topic.CoreEntity,
		"location":     topic.Location,
		"issue":        topic.Issue,
		"impact":       topic.Impact,
		"commentCount": event.CommentCount,
		"replyCount":   event.ReplyCount,
	})
	if err != nil {
		return "", err
	}

	id := getStringFromRecord(record, "id")
	w.logger.Info("Event node created",
		zap.String("event_id", id),
		zap.String("event_type", topic.EventType),
	)
	return id, nil
}

// CreateOrganization merges an organization by name. Attributes are
// set only on first creation.
func (w *Writer) CreateOrganization(ctx context.Context, name string) (string, error) {
	query := `
		MERGE (o:Organization {name: $name})
		ON CREATE SET o.type = $orgType, o.platform = $platform, o.created_at = datetime()
		RETURN elementId(o) AS id
	`

	record, err := w.runSingle(ctx, "create organization", query, map[string]any{
		"name":     name,
		"orgType":  orgType,
		"platform": orgPlatform,
	})
	if err != nil {
		return "", err
	}
	return getStringFromRecord(record, "id"), nil
}

// CreateUser merges a user by name. Location and external id stick
// from the first call; later calls with different values do not
// overwrite them.
func (w *Writer) CreateUser(ctx context.Context, name, location, externalID string) (string, error) {
	query := `
		MERGE (u:User {name: $name})
		ON CREATE SET u.location = $location, u.user_id = $userID, u.created_at = datetime()
		RETURN elementId(u) AS id
	`

	record, err := w.runSingle(ctx, "create user", query, map[string]any{
		"name":     name,
		"location": location,
		"userID":   externalID,
	})
	if err != nil {
		return "", err
	}
	return getStringFromRecord(record, "id"), nil
}

// CreateComment inserts a new Comment node. A nil sentiment record
// falls back to the neutral default (sentiment=neutral, intensity=5).
func (w *Writer) CreateComment(ctx context.Context, group ingest.CommentGroup, sentiment *analyzer.SentimentRecord) (string, error) {
	main := group.MainComment

	sentimentLabel := analyzer.SentimentNeutral
	emotion := ""
	intensity := 5
	if sentiment != nil {
		sentimentLabel = sentiment.Sentiment
		emotion = sentiment.Emotion
		intensity = sentiment.Intensity
	}

	query := `
		CREATE (c:Comment {
			author: $author,
			content: $content,
			time: $time,
			source: $source,
			sentiment: $sentiment,
			emotion: $emotion,
			intensity: $intensity,
			created_at: datetime()
		})
		RETURN elementId(c) AS id
	`

	record, err := w.runSingle(ctx, "create comment", query, map[string]any{
		"author":    main.Author,
		"content":   main.Content,
		"time":      main.Time,
		"source":    main.Source,
		"sentiment": sentimentLabel,
		"emotion":   emotion,
		"intensity": intensity,
	})
	if err != nil {
		return "", err
	}
	return getStringFromRecord(record, "id"), nil
}

// CreateReply inserts a new Reply node.
func (w *Writer) CreateReply(ctx context.Context, reply ingest.Post) (string, error) {
	query := `
		CREATE (r:Reply {
			author: $author,
			content: $content,
			time: $time,
			source: $source,
			created_at: datetime()
		})
		RETURN elementId(r) AS id
	`

	record, err := w.runSingle(ctx, "create reply", query, map[string]any{
		"author":  reply.Author,
		"content": reply.Content,
		"time":    reply.Time,
		"source":  reply.Source,
	})
	if err != nil {
		return "", err
	}
	return getStringFromRecord(record, "id"), nil
}

// CreateOpinionPhase inserts the lifecycle-phase node for one run.
func (w *Writer) CreateOpinionPhase(ctx context.Context, phase analyzer.PhaseJudgment, runID string) (string, error) {
	query := `
		CREATE (p:OpinionPhase {
			analysis_run_id: $runID,
			phase: $phase,
			confidence: $confidence,
			reason: $reason,
			trend: $trend,
			created_at: datetime()
		})
		RETURN elementId(p) AS id
	`

	record, err := w.runSingle(ctx, "create opinion phase", query, map[string]any{
		"runID":      runID,
		"phase":      phase.Phase,
		"confidence": phase.Confidence,
		"reason":     phase.Reason,
		"trend":      phase.Trend,
	})
	if err != nil {
		return "", err
	}
	return getStringFromRecord(record, "id"), nil
}

// CreateDemand merges a demand by its content text. Status and
// frequency stick from the first call.
func (w *Writer) CreateDemand(ctx context.Context, content, status, frequency string) (string, error) {
	if status == "" {
		status = "unknown"
	}
	if frequency == "" {
		frequency = "unknown"
	}

	query := `
		MERGE (d:Demand {content: $content})
		ON CREATE SET d.status = $status, d.frequency = $frequency, d.created_at = datetime()
		RETURN elementId(d) AS id
	`

	record, err := w.runSingle(ctx, "create demand", query, map[string]any{
		"content":   content,
		"status":    status,
		"frequency": frequency,
	})
	if err != nil {
		return "", err
	}
	return getStringFromRecord(record, "id"), nil
}

// CreateSolution inserts a new Solution node of the given type.
func (w *Writer) CreateSolution(ctx context.Context, content, solutionType string) (string, error) {
	query := `
		CREATE (s:Solution {
			content: $content,
			type: $type,
			created_at: datetime()
		})
		RETURN elementId(s) AS id
	`

	record, err := w.runSingle(ctx, "create solution", query, map[string]any{
		"content": content,
		"type":    solutionType,
	})
	if err != nil {
		return "", err
	}
	return getStringFromRecord(record, "id"), nil
}

// CreateRelationship creates one directed edge between two previously
// returned identifiers. The relationship type and property keys are
// validated against the schema before any query text is built; an
// identifier that does not resolve to a node yields ErrNodeNotFound.
func (w *Writer) CreateRelationship(ctx context.Context, fromID, toID, relType string, props map[string]any) error {
	if err := CheckRelationship(relType, props); err != nil {
		return err
	}

	params := map[string]any{
		"fromID": fromID,
		"toID":   toID,
	}

	// Only schema-enumerated property names reach the SET clause.
	var setClauses []string
	for _, name := range allowedRelProps[relType] {
		if val, ok := props[name]; ok {
			setClauses = append(setClauses, fmt.Sprintf("r.%s = $prop_%s", name, name))
			params["prop_"+name] = val
		}
	}
	setClause := ""
	if len(setClauses) > 0 {
		setClause = "SET " + strings.Join(setClauses, ", ")
	}

	query := fmt.Sprintf(`
		MATCH (a), (b)
		WHERE elementId(a) = $fromID AND elementId(b) = $toID
		CREATE (a)-[r:%s]->(b)
		%s
		RETURN elementId(r) AS id
	`, relType, setClause)

	session := w.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return apperrors.NewGraphQueryFailed("create relationship "+relType, err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return apperrors.NewGraphQueryFailed("create relationship "+relType, err)
		}
		return apperrors.NewNodeNotFound(fromID + " -> " + toID)
	}
	return nil
}

// BuildCompleteGraph materializes one analysis bundle: the event, its
// organization and phase, then users, comments, demands, and replies
// up to the configured caps, and finally the solution nodes. Any
// failed statement aborts the remaining sequence.
func (w *Writer) BuildCompleteGraph(ctx context.Context, result *analyzer.Result) error {
	runID := uuid.New().String()
	w.logger.Info("Building knowledge graph", zap.String("run_id", runID))

	eventID, err := w.CreateEvent(ctx, result.EventInfo, result.TopicAnalysis, runID)
	if err != nil {
		return err
	}

	orgID, err := w.CreateOrganization(ctx, result.EventInfo.Author)
	if err != nil {
		return err
	}
	if err := w.CreateRelationship(ctx, orgID, eventID, RelPublished, nil); err != nil {
		return err
	}

	phaseID, err := w.CreateOpinionPhase(ctx, result.OpinionPhase, runID)
	if err != nil {
		return err
	}
	if err := w.CreateRelationship(ctx, eventID, phaseID, RelInPhase, nil); err != nil {
		return err
	}

	groups := result.Comments
	if len(groups) > w.caps.MaxComments {
		groups = groups[:w.caps.MaxComments]
	}

	for _, group := range groups {
		main := group.MainComment

		userID, err := w.CreateUser(ctx, main.Author, main.Source, main.UserID)
		if err != nil {
			return err
		}

		// First sentiment record in input order wins when author
		// names repeat; later records for the same name are ignored.
		var sentiment *analyzer.SentimentRecord
		for i := range result.SentimentAnalysis {
			if result.SentimentAnalysis[i].Author == main.Author {
				sentiment = &result.SentimentAnalysis[i]
				break
			}
		}

		commentID, err := w.CreateComment(ctx, group, sentiment)
		if err != nil {
			return err
		}
		if err := w.CreateRelationship(ctx, userID, commentID, RelPosted, postedProps(main.Time)); err != nil {
			return err
		}
		if err := w.CreateRelationship(ctx, commentID, eventID, RelCommentsOn, nil); err != nil {
			return err
		}

		if sentiment != nil {
			for _, demandText := range sentiment.Demands {
				demandID, err := w.CreateDemand(ctx, demandText, "", "")
				if err != nil {
					return err
				}
				if err := w.CreateRelationship(ctx, userID, demandID, RelRaised, nil); err != nil {
					return err
				}
				if err := w.CreateRelationship(ctx, commentID, demandID, RelContains, nil); err != nil {
					return err
				}
			}
		}

		replies := group.Replies
		if len(replies) > w.caps.MaxRepliesPerComment {
			replies = replies[:w.caps.MaxRepliesPerComment]
		}
		for _, reply := range replies {
			replyID, err := w.CreateReply(ctx, reply)
			if err != nil {
				return err
			}
			replyUserID, err := w.CreateUser(ctx, reply.Author, reply.Source, "")
			if err != nil {
				return err
			}
			if err := w.CreateRelationship(ctx, replyUserID, replyID, RelPosted, postedProps(reply.Time)); err != nil {
				return err
			}
			if err := w.CreateRelationship(ctx, replyID, commentID, RelRepliesTo, postedProps(reply.Time)); err != nil {
				return err
			}
		}
	}

	for _, action := range result.Solutions.TakenActions {
		solutionID, err := w.CreateSolution(ctx, action, SolutionActionTaken)
		if err != nil {
			return err
		}
		if err := w.CreateRelationship(ctx, orgID, solutionID, RelTookAction, nil); err != nil {
			return err
		}
		if err := w.CreateRelationship(ctx, solutionID, eventID, RelAddresses, nil); err != nil {
			return err
		}
	}

	for _, suggestion := range result.Solutions.SuggestedSolutions {
		solutionID, err := w.CreateSolution(ctx, suggestion, SolutionSuggested)
		if err != nil {
			return err
		}
		if err := w.CreateRelationship(ctx, solutionID, eventID, RelSuggestedFor, nil); err != nil {
			return err
		}
	}

	w.logger.Info("Knowledge graph build complete",
		zap.String("run_id", runID),
		zap.String("event_id", eventID),
	)
	return nil
}

// postedProps carries the post timestamp onto an edge, omitted when
// the crawler gave none.
func postedProps(postTime string) map[string]any {
	if postTime == "" {
		return nil
	}
	return map[string]any{"time": postTime}
}

// ClearDatabase irreversibly deletes every node and relationship. The
// confirmation gate belongs to the caller, not here.
func (w *Writer) ClearDatabase(ctx context.Context) error {
	session := w.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	if _, err := session.Run(ctx, "MATCH (n) DETACH DELETE n", nil); err != nil {
		return apperrors.NewGraphQueryFailed("clear database", err)
	}
	w.logger.Warn("Database cleared")
	return nil
}

// Stats counts nodes per label and the total relationship count.
func (w *Writer) Stats(ctx context.Context) (*Stats, error) {
	session := w.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	stats := &Stats{Nodes: make(map[string]int64, len(NodeLabels))}

	for _, label := range NodeLabels {
		// Labels come from the fixed NodeLabels set, never from input.
		result, err := session.Run(ctx, fmt.Sprintf("MATCH (n:%s) RETURN count(n) AS count", label), nil)
		if err != nil {
			return nil, apperrors.NewGraphQueryFailed("stats "+label, err)
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, apperrors.NewGraphQueryFailed("stats "+label, err)
		}
		count := getInt64FromRecord(record, "count")
		stats.Nodes[label] = count
		stats.TotalNodes += count
	}

	result, err := session.Run(ctx, "MATCH ()-[r]->() RETURN count(r) AS count", nil)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("stats relationships", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("stats relationships", err)
	}
	stats.Relationships = getInt64FromRecord(record, "count")

	return stats, nil
}
