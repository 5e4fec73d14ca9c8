package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/karry12138/public-opinion-graph/internal/ingest"
)

const systemPrompt = "You are a public-opinion analyst specializing in social media discussions. Answer with JSON only."

func topicPrompt(topic, author string) string {
	return fmt.Sprintf(`Analyze the following social media post and extract the key facts.

Publisher: %s
Content: %s

Return exactly this JSON structure (JSON only, no extra text):
{
    "event_type": "category of incident (e.g. public transport fault, service quality issue)",
    "core_entity": "the central entity (e.g. Metro Line 5)",
    "location": "where it happened",
    "issue": "the main problem",
    "impact": "description of the impact",
    "keywords": ["keyword1", "keyword2", "keyword3"]
}`, author, topic)
}

func sentimentPrompt(comment string) string {
	return fmt.Sprintf(`Analyze the sentiment and underlying demands of the following comment.

Comment: %s

Return exactly this JSON structure (JSON only):
{
    "sentiment": "positive/negative/neutral",
    "emotion": "the specific emotion (e.g. frustration, anger, understanding, sarcasm, inquiry)",
    "intensity": 5,
    "reason": "why you judged it this way",
    "demands": ["extracted demand 1", "extracted demand 2"]
}
The intensity field is an integer from 1 to 10.`, comment)
}

func phasePrompt(event ingest.EventInfo, stats ingest.Statistics, span ingest.TimeSpan, officialCount int, sentimentDist map[string]int) string {
	dist, _ := json.Marshal(sentimentDist)
	hasResponse := "no"
	if officialCount > 0 {
		hasResponse = "yes"
	}
	return fmt.Sprintf(`Judge which lifecycle phase this public-opinion event is currently in.

Event:
- Content: %s
- Comment groups: %d
- Replies: %d

Time span:
- Start: %s
- End: %s
- Days: %d

Official responses:
- Count: %d
- Any response: %s

Sentiment distribution:
%s

Phase definitions:
- latent: event just happened, information published
- outbreak: comments flooding in, emotions running high
- fermentation: topic spreading, discussion deepening
- subsiding: attention dropping after an official response
- dormant: the event has settled

Return exactly this JSON structure (JSON only):
{
    "phase": "latent/outbreak/fermentation/subsiding/dormant",
    "confidence": 5,
    "reason": "why you judged it this way",
    "characteristics": ["trait1", "trait2", "trait3"],
    "trend": "predicted development"
}
The confidence field is an integer from 1 to 10.`,
		event.TopicContent, stats.TotalCommentGroups, stats.TotalReplies,
		span.Start, span.End, span.SpanDays,
		officialCount, hasResponse, dist)
}

func solutionsPrompt(event ingest.EventInfo, comments []ingest.CommentGroup, official []ingest.OfficialResponse) string {
	var commentLines []string
	for _, g := range truncateGroups(comments, 10) {
		commentLines = append(commentLines, "- "+clip(g.MainComment.Content, 100))
	}
	var officialLines []string
	for i, r := range official {
		if i >= 5 {
			break
		}
		officialLines = append(officialLines, "- "+clip(r.Content, 100))
	}
	officialBlock := strings.Join(officialLines, "\n")
	if officialBlock == "" {
		officialBlock = "none so far"
	}

	return fmt.Sprintf(`Extract remedial actions and improvement suggestions from this public-opinion event.

Event content:
%s

Main public comments:
%s

Official responses:
%s

Return exactly this JSON structure (JSON only):
{
    "taken_actions": ["action already taken 1", "action already taken 2"],
    "unmet_demands": ["unmet demand 1", "unmet demand 2"],
    "suggested_solutions": ["suggestion 1", "suggestion 2", "suggestion 3"],
    "risk_assessment": "risk assessment",
    "priority_actions": ["priority item 1", "priority item 2"]
}`, event.TopicContent, strings.Join(commentLines, "\n"), officialBlock)
}

func demandsPrompt(comments []ingest.CommentGroup) string {
	var lines []string
	for i, g := range truncateGroups(comments, 30) {
		if g.MainComment.Content == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, g.MainComment.Content))
	}

	return fmt.Sprintf(`Analyze the following comments and summarize the main public demands.

Comments:
%s

Return exactly this JSON structure (JSON only):
{
    "main_demands": [
        {
            "demand": "what is being asked for",
            "frequency": "high/medium/low",
            "urgency": 5
        }
    ],
    "demand_summary": "overall summary of the demands"
}
The urgency field is an integer from 1 to 10.`, strings.Join(lines, "\n"))
}

func truncateGroups(groups []ingest.CommentGroup, n int) []ingest.CommentGroup {
	if len(groups) > n {
		return groups[:n]
	}
	return groups
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
