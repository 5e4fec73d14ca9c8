// Package report renders human-readable and machine-readable views of
// the persisted opinion graph. Both views are produced from the same
// aggregation results, so re-rendering an export through the section
// formatters reproduces the corresponding report sections.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/karry12138/public-opinion-graph/internal/graph"
)

const (
	divider = "======================================================================"

	// Display truncation budgets
	eventContentWidth   = 100
	commentContentWidth = 80

	// Text report limits
	reportDemandLimit   = 5
	reportNegativeLimit = 3
)

// Generate composes the full text report from live reader queries:
// event overview, sentiment distribution, top demands, taken actions,
// suggested solutions, and representative negative comments, in that
// order.
func Generate(ctx context.Context, r *graph.Reader) (string, error) {
	export, err := r.Export(ctx, graph.ExportLimits{
		Demands:      reportDemandLimit,
		Interactions: graph.DefaultExportLimits.Interactions,
		Negative:     reportNegativeLimit,
	})
	if err != nil {
		return "", err
	}
	return Render(export), nil
}

// Render formats an export document as the text report. The export's
// interaction group has no report section and is skipped.
func Render(export *graph.Export) string {
	var lines []string
	lines = append(lines, divider)
	lines = append(lines, "Public Opinion Analysis Report")
	lines = append(lines, divider)

	if export.EventSummary != (graph.EventSummary{}) {
		lines = append(lines, formatOverview(export.EventSummary)...)
	}
	if len(export.Sentiment) > 0 {
		lines = append(lines, formatSentiment(export.Sentiment)...)
	}
	if len(export.TopDemands) > 0 {
		lines = append(lines, formatDemands(export.TopDemands, reportDemandLimit)...)
	}
	lines = append(lines, formatSolutions(export.Solutions)...)
	if len(export.NegativeComments) > 0 {
		lines = append(lines, formatNegative(export.NegativeComments, reportNegativeLimit)...)
	}

	lines = append(lines, "")
	lines = append(lines, divider)
	return strings.Join(lines, "\n")
}

func formatOverview(event graph.EventSummary) []string {
	return []string{
		"",
		"[Event Overview]",
		"Publisher: " + orUnknown(event.Organization),
		"Event type: " + orUnknown(event.EventType),
		"Content: " + truncate(event.Content, eventContentWidth) + "...",
		fmt.Sprintf("Comments: %d", event.CommentCount),
		fmt.Sprintf("Replies: %d", event.ReplyCount),
		"Opinion phase: " + orUnknown(event.OpinionPhase),
	}
}

func formatSentiment(distribution []graph.SentimentCount) []string {
	lines := []string{"", "[Sentiment Distribution]"}

	var total int64
	for _, entry := range distribution {
		total += entry.Count
	}
	for _, entry := range distribution {
		percentage := 0.0
		if total > 0 {
			percentage = float64(entry.Count) / float64(total) * 100
		}
		lines = append(lines, fmt.Sprintf("  %s: %d (%.1f%%)", entry.Sentiment, entry.Count, percentage))
	}
	return lines
}

func formatDemands(demands []graph.DemandCount, limit int) []string {
	lines := []string{"", "[Top Demands]"}
	for i, demand := range demands {
		if i >= limit {
			break
		}
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, demand.Demand))
		lines = append(lines, fmt.Sprintf("     Users raising it: %d", demand.UserCount))
	}
	return lines
}

func formatSolutions(solutions graph.SolutionBuckets) []string {
	var lines []string
	if len(solutions.ActionTaken) > 0 {
		lines = append(lines, "", "[Actions Taken]")
		for i, action := range solutions.ActionTaken {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, action))
		}
	}
	if len(solutions.Suggested) > 0 {
		lines = append(lines, "", "[Suggested Solutions]")
		for i, suggestion := range solutions.Suggested {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, suggestion))
		}
	}
	return lines
}

func formatNegative(comments []graph.NegativeComment, limit int) []string {
	lines := []string{"", "[Representative Negative Comments]"}
	for i, comment := range comments {
		if i >= limit {
			break
		}
		lines = append(lines, fmt.Sprintf("  %d. Author: %s", i+1, comment.Author))
		lines = append(lines, fmt.Sprintf("     Emotion: %s (intensity: %d)", comment.Emotion, comment.Intensity))
		lines = append(lines, fmt.Sprintf("     Content: %s...", truncate(comment.Content, commentContentWidth)))
	}
	return lines
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// truncate clips to n runes so multi-byte text is not split mid-character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
