package graph

// Stats summarizes the store contents by label.
type Stats struct {
	Nodes         map[string]int64 `json:"nodes"`
	Relationships int64            `json:"relationships"`
	TotalNodes    int64            `json:"total_nodes"`
}

// EventSummary is the joined event overview. Absent phase or
// organization relationships leave the corresponding fields empty.
type EventSummary struct {
	Content      string `json:"content"`
	EventType    string `json:"event_type"`
	CommentCount int64  `json:"comment_count"`
	ReplyCount   int64  `json:"reply_count"`
	OpinionPhase string `json:"opinion_phase"`
	Organization string `json:"organization"`
}

// SentimentCount is one sentiment bucket, ordered by count descending
// in query results.
type SentimentCount struct {
	Sentiment string `json:"sentiment"`
	Count     int64  `json:"count"`
}

// DemandCount is one demand with the number of distinct users raising it.
type DemandCount struct {
	Demand    string `json:"demand"`
	Frequency string `json:"frequency"`
	UserCount int64  `json:"user_count"`
}

// SolutionBuckets partitions solutions by type. Types outside the two
// known buckets are dropped.
type SolutionBuckets struct {
	ActionTaken []string `json:"action_taken"`
	Suggested   []string `json:"suggested"`
}

// Interaction is one replier-to-commenter edge in the who-replies-to-whom
// network.
type Interaction struct {
	FromUser string `json:"from"`
	ToUser   string `json:"to"`
	Count    int64  `json:"count"`
}

// NegativeComment is one negative comment, ranked by intensity.
type NegativeComment struct {
	Author    string `json:"author"`
	Content   string `json:"content"`
	Emotion   string `json:"emotion"`
	Intensity int64  `json:"intensity"`
	Time      string `json:"time"`
}

// Export is the machine-readable snapshot of the persisted graph,
// the same data the text report is rendered from.
type Export struct {
	EventSummary     EventSummary     `json:"event_summary"`
	Sentiment        []SentimentCount `json:"sentiment_distribution"`
	TopDemands       []DemandCount    `json:"top_demands"`
	Solutions        SolutionBuckets  `json:"solutions"`
	UserInteractions []Interaction    `json:"user_interactions"`
	NegativeComments []NegativeComment `json:"negative_comments"`
}
