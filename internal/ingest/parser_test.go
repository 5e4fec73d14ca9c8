package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/karry12138/public-opinion-graph/pkg/errors"
)

func sampleThread() *Thread {
	return &Thread{
		URL:         "https://example.com/thread/1",
		Topic:       "Line 5 suspended due to train fault, delays of 40 minutes expected.",
		TopicAuthor: "MetroAuthority",
		CommentGroups: []CommentGroup{
			{
				Index: 1,
				MainComment: Post{
					Author:  "Alice",
					Content: "Stuck for an hour with no announcement.",
					Time:    "25-11-13 08:10",
					Source:  "Shanghai",
				},
				Replies: []Post{
					{Author: "Bob", Content: "Same here.", Time: "25-11-13 08:25"},
					{Author: "MetroAuthority", Content: "Service is being restored, sorry for the delay.", Time: "25-11-13 08:40"},
				},
			},
			{
				Index: 2,
				MainComment: Post{
					Author:  "Dave",
					Content: "Finally moving again.",
					Time:    "25-11-14 09:40",
				},
			},
		},
		CommentGroupCount: 2,
		TotalReplies:      2,
		GroupsWithReplies: 1,
	}
}

func TestLoadThread(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thread.json")
	data := `{
		"url": "https://example.com/thread/1",
		"topic": "Line 5 suspended",
		"topic_author": "MetroAuthority",
		"comment_groups": [
			{"index": 1, "main_comment": {"author": "Alice", "content": "hi", "time": "25-11-13 08:10"}, "replies": []}
		],
		"comment_groups_count": 1,
		"total_replies": 0,
		"groups_with_replies": 0
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	thread, err := LoadThread(path)
	require.NoError(t, err)
	assert.Equal(t, "MetroAuthority", thread.TopicAuthor)
	assert.Len(t, thread.CommentGroups, 1)
	assert.Equal(t, "Alice", thread.CommentGroups[0].MainComment.Author)
}

func TestLoadThread_MissingFile(t *testing.T) {
	_, err := LoadThread(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	var loadErr *apperrors.ErrThreadLoadFailed
	assert.ErrorAs(t, err, &loadErr)
}

func TestLoadThread_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadThread(path)
	require.Error(t, err)
}

func TestExtractStructuredInfo(t *testing.T) {
	info := ExtractStructuredInfo("Line 5 suspended due to train fault, delays of 40 minutes expected.")
	assert.Equal(t, "Line 5", info.Line)
	assert.Equal(t, "train fault", info.Issue)
	assert.Equal(t, "40 minutes", info.ImpactTime)
	assert.Empty(t, info.Location)
}

func TestExtractStructuredInfo_ChinesePatterns(t *testing.T) {
	info := ExtractStructuredInfo("5号线因车辆故障在莘庄至北桥区间停运约30分钟")
	assert.Equal(t, "5号线", info.Line)
	assert.Equal(t, "莘庄至北桥", info.Location)
	assert.Equal(t, "车辆故障", info.Issue)
	assert.Equal(t, "30分钟", info.ImpactTime)
}

func TestExtractStructuredInfo_NoMatches(t *testing.T) {
	info := ExtractStructuredInfo("weather is nice today")
	assert.Equal(t, StructuredInfo{}, info)
}

func TestExtractEventInfo(t *testing.T) {
	event := ExtractEventInfo(sampleThread())
	assert.Equal(t, "MetroAuthority", event.Author)
	assert.Equal(t, 2, event.CommentCount)
	assert.Equal(t, 2, event.ReplyCount)
	assert.Equal(t, "Line 5", event.Extracted.Line)
}

func TestExtractComments_CapAndDerivedFields(t *testing.T) {
	thread := sampleThread()

	groups := ExtractComments(thread, 0)
	require.Len(t, groups, 2)
	assert.True(t, groups[0].HasReplies)
	assert.Equal(t, 2, groups[0].ReplyCount)
	assert.False(t, groups[1].HasReplies)
	assert.Equal(t, 0, groups[1].ReplyCount)

	capped := ExtractComments(thread, 1)
	require.Len(t, capped, 1)
	assert.Equal(t, "Alice", capped[0].MainComment.Author)
}

func TestGetTimeSpan(t *testing.T) {
	span := GetTimeSpan(sampleThread())
	assert.Equal(t, "25-11-13 08:10", span.Start)
	assert.Equal(t, "25-11-14 09:40", span.End)
	assert.Equal(t, 1, span.SpanDays)
}

func TestGetTimeSpan_WhitespaceTime(t *testing.T) {
	thread := &Thread{
		CommentGroups: []CommentGroup{
			{MainComment: Post{Author: "Alice", Content: "hi", Time: " "}},
		},
	}

	span := GetTimeSpan(thread)
	assert.Equal(t, 0, span.SpanDays)
}

func TestGetTimeSpan_UnparseableTime(t *testing.T) {
	thread := &Thread{
		CommentGroups: []CommentGroup{
			{MainComment: Post{Author: "Alice", Content: "hi", Time: "yesterday"}},
			{MainComment: Post{Author: "Bob", Content: "ok", Time: "25-11-14 09:40"}},
		},
	}

	span := GetTimeSpan(thread)
	assert.Equal(t, 0, span.SpanDays)
}

func TestGetTimeSpan_NoTimes(t *testing.T) {
	thread := &Thread{
		CommentGroups: []CommentGroup{
			{MainComment: Post{Author: "Alice", Content: "no timestamp"}},
		},
	}
	assert.Equal(t, TimeSpan{}, GetTimeSpan(thread))
}

func TestGetOfficialResponses(t *testing.T) {
	responses := GetOfficialResponses(sampleThread())
	require.Len(t, responses, 1)
	assert.Equal(t, "Service is being restored, sorry for the delay.", responses[0].Content)
	assert.Equal(t, "Alice", responses[0].RespondingTo)
}

func TestGetOfficialResponses_NoTopicAuthor(t *testing.T) {
	thread := sampleThread()
	thread.TopicAuthor = ""
	assert.Empty(t, GetOfficialResponses(thread))
}

func TestGetStatistics(t *testing.T) {
	stats := GetStatistics(sampleThread())
	assert.Equal(t, 2, stats.TotalCommentGroups)
	assert.Equal(t, 2, stats.TotalReplies)
	assert.Equal(t, 1, stats.GroupsWithReplies)
	assert.InDelta(t, 1.0, stats.AvgRepliesPerGroup, 0.001)
}

func TestGetStatistics_EmptyThread(t *testing.T) {
	stats := GetStatistics(&Thread{})
	assert.Equal(t, 0, stats.TotalCommentGroups)
	assert.Equal(t, 0.0, stats.AvgRepliesPerGroup)
}
