package ingest

// Post is a single authored post: the main comment of a group or one
// of its replies.
type Post struct {
	Author  string `json:"author"`
	Content string `json:"content"`
	Time    string `json:"time"`
	Source  string `json:"source"`
	UserID  string `json:"user_id,omitempty"`
}

// CommentGroup is one top-level comment plus its nested replies.
type CommentGroup struct {
	Index       int    `json:"index"`
	MainComment Post   `json:"main_comment"`
	Replies     []Post `json:"replies"`
	HasReplies  bool   `json:"has_replies"`
	ReplyCount  int    `json:"reply_count"`
}

// Thread is a crawled discussion thread: one topic post plus comment
// groups. Field names follow the crawler's JSON output.
type Thread struct {
	URL               string         `json:"url"`
	Topic             string         `json:"topic"`
	TopicAuthor       string         `json:"topic_author"`
	CommentGroups     []CommentGroup `json:"comment_groups"`
	CommentGroupCount int            `json:"comment_groups_count"`
	TotalReplies      int            `json:"total_replies"`
	GroupsWithReplies int            `json:"groups_with_replies"`
}

// EventInfo is the event-level slice of a thread.
type EventInfo struct {
	URL          string         `json:"url"`
	Author       string         `json:"author"`
	TopicContent string         `json:"topic_content"`
	CommentCount int            `json:"comment_count"`
	ReplyCount   int            `json:"reply_count"`
	Extracted    StructuredInfo `json:"extracted_info"`
}

// StructuredInfo holds the structured fields extracted from the topic
// text. Empty fields mean the pattern did not match.
type StructuredInfo struct {
	Line       string `json:"line,omitempty"`
	Location   string `json:"location,omitempty"`
	Issue      string `json:"issue,omitempty"`
	ImpactTime string `json:"impact_time,omitempty"`
}

// TimeSpan is the observed comment time range of a thread.
type TimeSpan struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	SpanDays int    `json:"span_days"`
}

// OfficialResponse is a reply authored by the topic author.
type OfficialResponse struct {
	Content      string `json:"content"`
	Time         string `json:"time"`
	RespondingTo string `json:"responding_to"`
}

// Statistics summarizes thread volume.
type Statistics struct {
	TotalCommentGroups int     `json:"total_comment_groups"`
	TotalReplies       int     `json:"total_replies"`
	GroupsWithReplies  int     `json:"groups_with_replies"`
	AvgRepliesPerGroup float64 `json:"avg_replies_per_group"`
}
