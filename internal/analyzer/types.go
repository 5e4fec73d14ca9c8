package analyzer

import "github.com/karry12138/public-opinion-graph/internal/ingest"

// Sentiment labels
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Opinion lifecycle phases
const (
	PhaseLatent       = "latent"
	PhaseOutbreak     = "outbreak"
	PhaseFermentation = "fermentation"
	PhaseSubsiding    = "subsiding"
	PhaseDormant      = "dormant"
)

// TopicAnalysis is the model's reading of the topic post.
type TopicAnalysis struct {
	EventType  string   `json:"event_type"`
	CoreEntity string   `json:"core_entity"`
	Location   string   `json:"location"`
	Issue      string   `json:"issue"`
	Impact     string   `json:"impact"`
	Keywords   []string `json:"keywords"`
}

// SentimentRecord is the per-comment sentiment judgment.
type SentimentRecord struct {
	Author    string   `json:"author"`
	Content   string   `json:"content"`
	Sentiment string   `json:"sentiment"`
	Emotion   string   `json:"emotion"`
	Intensity int      `json:"intensity"`
	Reason    string   `json:"reason"`
	Demands   []string `json:"demands"`
}

// PhaseJudgment is the model's lifecycle-phase verdict for the event.
type PhaseJudgment struct {
	Phase           string   `json:"phase"`
	Confidence      int      `json:"confidence"`
	Reason          string   `json:"reason"`
	Characteristics []string `json:"characteristics"`
	Trend           string   `json:"trend"`
}

// DemandItem is one normalized public demand.
type DemandItem struct {
	Demand    string `json:"demand"`
	Frequency string `json:"frequency"`
	Urgency   int    `json:"urgency"`
}

// DemandSummary aggregates the extracted demands.
type DemandSummary struct {
	MainDemands []DemandItem `json:"main_demands"`
	Summary     string       `json:"demand_summary"`
}

// SolutionSet holds remedial actions extracted from the thread.
type SolutionSet struct {
	TakenActions       []string `json:"taken_actions"`
	UnmetDemands       []string `json:"unmet_demands"`
	SuggestedSolutions []string `json:"suggested_solutions"`
	RiskAssessment     string   `json:"risk_assessment"`
	PriorityActions    []string `json:"priority_actions"`
}

// Result is the complete analysis bundle for one event, consumed
// wholesale by the graph writer.
type Result struct {
	EventInfo         ingest.EventInfo          `json:"event_info"`
	Comments          []ingest.CommentGroup     `json:"comments"`
	Stats             ingest.Statistics         `json:"stats"`
	TimeSpan          ingest.TimeSpan           `json:"time_span"`
	OfficialResponses []ingest.OfficialResponse `json:"official_responses"`

	TopicAnalysis         TopicAnalysis     `json:"topic_analysis"`
	SentimentAnalysis     []SentimentRecord `json:"sentiment_analysis"`
	SentimentDistribution map[string]int    `json:"sentiment_distribution"`
	Demands               DemandSummary     `json:"demands"`
	OpinionPhase          PhaseJudgment     `json:"opinion_phase"`
	Solutions             SolutionSet       `json:"solutions"`
}
