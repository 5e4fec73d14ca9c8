package ingest

import (
	"encoding/json"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	apperrors "github.com/karry12138/public-opinion-graph/pkg/errors"
)

var (
	lineRe       = regexp.MustCompile(`(Line \d+|\d+号线)`)
	locationRe   = regexp.MustCompile(`([\p{Han}]+至[\p{Han}]+)`)
	impactTimeRe = regexp.MustCompile(`(\d+ ?(?:minutes|分钟))`)
)

var issueKeywords = []string{
	"车辆故障", "信号故障", "设备故障", "人员受伤",
	"train fault", "signal fault", "equipment fault", "injury",
}

// LoadThread reads and decodes a crawled thread JSON file.
func LoadThread(path string) (*Thread, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewThreadLoadFailed(path, err)
	}
	var thread Thread
	if err := json.Unmarshal(raw, &thread); err != nil {
		return nil, apperrors.NewThreadLoadFailed(path, err)
	}
	return &thread, nil
}

// ExtractEventInfo pulls the event-level fields out of a thread.
func ExtractEventInfo(t *Thread) EventInfo {
	return EventInfo{
		URL:          t.URL,
		Author:       t.TopicAuthor,
		TopicContent: t.Topic,
		CommentCount: t.CommentGroupCount,
		ReplyCount:   t.TotalReplies,
		Extracted:    ExtractStructuredInfo(t.Topic),
	}
}

// ExtractStructuredInfo scans the topic text for a transit line, a
// location span, a known issue keyword, and an impact duration.
func ExtractStructuredInfo(topic string) StructuredInfo {
	info := StructuredInfo{}

	if m := lineRe.FindString(topic); m != "" {
		info.Line = m
	}
	if m := locationRe.FindString(topic); m != "" {
		info.Location = m
	}
	for _, keyword := range issueKeywords {
		if strings.Contains(topic, keyword) {
			info.Issue = keyword
			break
		}
	}
	if m := impactTimeRe.FindString(topic); m != "" {
		info.ImpactTime = m
	}

	return info
}

// ExtractComments returns the thread's comment groups, truncated to
// limit when limit is positive.
func ExtractComments(t *Thread, limit int) []CommentGroup {
	groups := t.CommentGroups
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	out := make([]CommentGroup, 0, len(groups))
	for _, g := range groups {
		g.ReplyCount = len(g.Replies)
		g.HasReplies = len(g.Replies) > 0
		out = append(out, g)
	}
	return out
}

// GetTimeSpan computes the observed comment time range. Times are
// compared as strings, which is correct for the crawler's
// "yy-mm-dd hh:mm" format.
func GetTimeSpan(t *Thread) TimeSpan {
	var times []string
	for _, g := range t.CommentGroups {
		if g.MainComment.Time != "" {
			times = append(times, g.MainComment.Time)
		}
		for _, reply := range g.Replies {
			if reply.Time != "" {
				times = append(times, reply.Time)
			}
		}
	}

	if len(times) == 0 {
		return TimeSpan{}
	}

	sort.Strings(times)
	start, end := times[0], times[len(times)-1]
	return TimeSpan{
		Start:    start,
		End:      end,
		SpanDays: daySpan(start, end),
	}
}

func daySpan(start, end string) int {
	const layout = "06-01-02"
	startFields := strings.Fields(start)
	endFields := strings.Fields(end)
	if len(startFields) == 0 || len(endFields) == 0 {
		return 0
	}
	startDay, err := time.Parse(layout, startFields[0])
	if err != nil {
		return 0
	}
	endDay, err := time.Parse(layout, endFields[0])
	if err != nil {
		return 0
	}
	return int(endDay.Sub(startDay).Hours() / 24)
}

// GetOfficialResponses collects replies authored by the topic author.
func GetOfficialResponses(t *Thread) []OfficialResponse {
	var responses []OfficialResponse
	if t.TopicAuthor == "" {
		return responses
	}
	for _, g := range t.CommentGroups {
		for _, reply := range g.Replies {
			if reply.Author == t.TopicAuthor {
				responses = append(responses, OfficialResponse{
					Content:      reply.Content,
					Time:         reply.Time,
					RespondingTo: g.MainComment.Author,
				})
			}
		}
	}
	return responses
}

// GetStatistics summarizes thread volume.
func GetStatistics(t *Thread) Statistics {
	totalReplies := 0
	for _, g := range t.CommentGroups {
		totalReplies += len(g.Replies)
	}

	stats := Statistics{
		TotalCommentGroups: len(t.CommentGroups),
		TotalReplies:       totalReplies,
		GroupsWithReplies:  t.GroupsWithReplies,
	}
	if stats.TotalCommentGroups > 0 {
		stats.AvgRepliesPerGroup = float64(totalReplies) / float64(stats.TotalCommentGroups)
	}
	return stats
}
