package ingest

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	apperrors "github.com/karry12138/public-opinion-graph/pkg/errors"
)

// ParseThreadHTML decodes a saved thread page snapshot. The crawler's
// snapshot markup wraps the topic in .topic-post and each comment
// group in .comment-group with a .main-comment and zero or more
// .reply children.
func ParseThreadHTML(r io.Reader) (*Thread, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, apperrors.NewThreadLoadFailed("html snapshot", err)
	}

	thread := &Thread{}

	topic := doc.Find(".topic-post").First()
	thread.TopicAuthor = text(topic.Find(".author"))
	thread.Topic = text(topic.Find(".content"))
	thread.URL, _ = topic.Attr("data-url")

	doc.Find(".comment-group").Each(func(i int, sel *goquery.Selection) {
		group := CommentGroup{
			Index:       i + 1,
			MainComment: parsePost(sel.Find(".main-comment").First()),
		}
		sel.Find(".reply").Each(func(_ int, rs *goquery.Selection) {
			group.Replies = append(group.Replies, parsePost(rs))
		})
		group.ReplyCount = len(group.Replies)
		group.HasReplies = group.ReplyCount > 0
		thread.CommentGroups = append(thread.CommentGroups, group)
		thread.TotalReplies += group.ReplyCount
		if group.HasReplies {
			thread.GroupsWithReplies++
		}
	})
	thread.CommentGroupCount = len(thread.CommentGroups)

	return thread, nil
}

func parsePost(sel *goquery.Selection) Post {
	return Post{
		Author:  text(sel.Find(".author")),
		Content: text(sel.Find(".content")),
		Time:    text(sel.Find(".time")),
		Source:  text(sel.Find(".source")),
		UserID:  sel.AttrOr("data-user-id", ""),
	}
}

func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.First().Text())
}
