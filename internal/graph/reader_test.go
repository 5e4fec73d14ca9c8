package graph

import (
	"context"
	"testing"

	"github.com/karry12138/public-opinion-graph/internal/analyzer"
	"github.com/karry12138/public-opinion-graph/internal/ingest"
)

// seedScenario builds the MetroAuthority thread with three commenters:
// Alice (negative, intensity 8, raises a demand), Dave (positive) and
// Erin (neutral). Bob replies to Alice.
func seedScenario(t *testing.T, w *Writer) {
	t.Helper()

	bundle := testBundle()
	bundle.Comments = append(bundle.Comments,
		ingest.CommentGroup{
			Index: 2,
			MainComment: ingest.Post{
				Author:  "Dave",
				Content: "Finally moving again, staff handled it well.",
				Time:    "25-11-13 09:40",
				Source:  "Shanghai",
			},
		},
		ingest.CommentGroup{
			Index: 3,
			MainComment: ingest.Post{
				Author:  "Erin",
				Content: "Does anyone know if the morning trains are back?",
				Time:    "25-11-13 10:05",
				Source:  "Hangzhou",
			},
		},
	)
	bundle.SentimentAnalysis = append(bundle.SentimentAnalysis,
		analyzer.SentimentRecord{Author: "Dave", Sentiment: analyzer.SentimentPositive, Emotion: "relief", Intensity: 6},
		analyzer.SentimentRecord{Author: "Erin", Sentiment: analyzer.SentimentNeutral, Emotion: "curiosity", Intensity: 4},
	)
	bundle.Solutions.TakenActions = []string{"dispatched shuttle buses"}
	bundle.Solutions.SuggestedSolutions = []string{
		"publish realtime status updates",
		"add platform staff during rush hour",
	}

	if err := w.BuildCompleteGraph(context.Background(), bundle); err != nil {
		t.Fatalf("BuildCompleteGraph failed: %v", err)
	}
}

func TestReader_EventSummary(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	w := NewWriter(driver, DefaultCaps)
	wipeStore(t, w)
	seedScenario(t, w)

	r := NewReader(driver)
	summary, err := r.EventSummary(ctx)
	if err != nil {
		t.Fatalf("EventSummary failed: %v", err)
	}
	if summary == nil {
		t.Fatal("Expected an event summary, got nil")
	}
	if summary.EventType != "public transport fault" {
		t.Errorf("Expected event type 'public transport fault', got %q", summary.EventType)
	}
	if summary.OpinionPhase != analyzer.PhaseOutbreak {
		t.Errorf("Expected phase 'outbreak', got %q", summary.OpinionPhase)
	}
	if summary.Organization != "MetroAuthority" {
		t.Errorf("Expected organization 'MetroAuthority', got %q", summary.Organization)
	}
}

func TestReader_EventSummary_EmptyStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	w := NewWriter(driver, DefaultCaps)
	wipeStore(t, w)

	r := NewReader(driver)
	summary, err := r.EventSummary(ctx)
	if err != nil {
		t.Fatalf("EventSummary failed: %v", err)
	}
	if summary != nil {
		t.Errorf("Expected nil summary on empty store, got %+v", summary)
	}
}

func TestReader_SentimentDistribution_SumsToComments(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	w := NewWriter(driver, DefaultCaps)
	wipeStore(t, w)
	seedScenario(t, w)

	r := NewReader(driver)
	distribution, err := r.SentimentDistribution(ctx)
	if err != nil {
		t.Fatalf("SentimentDistribution failed: %v", err)
	}

	var total int64
	counts := make(map[string]int64)
	for _, entry := range distribution {
		total += entry.Count
		counts[entry.Sentiment] = entry.Count
	}
	if want := nodeCount(t, driver, LabelComment); total != want {
		t.Errorf("Expected distribution to sum to %d comments, got %d", want, total)
	}
	for _, sentiment := range []string{"negative", "positive", "neutral"} {
		if counts[sentiment] != 1 {
			t.Errorf("Expected 1 %s comment, got %d", sentiment, counts[sentiment])
		}
	}
	for i := 1; i < len(distribution); i++ {
		if distribution[i].Count > distribution[i-1].Count {
			t.Errorf("Distribution not sorted descending at index %d", i)
		}
	}
}

func TestReader_TopDemands(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	w := NewWriter(driver, DefaultCaps)
	wipeStore(t, w)
	seedScenario(t, w)

	// A demand nobody raised must not appear in the ranking.
	if _, err := w.CreateDemand(ctx, "orphan demand", "", ""); err != nil {
		t.Fatalf("CreateDemand failed: %v", err)
	}

	r := NewReader(driver)
	demands, err := r.TopDemands(ctx, 10)
	if err != nil {
		t.Fatalf("TopDemands failed: %v", err)
	}
	if len(demands) != 1 {
		t.Fatalf("Expected 1 ranked demand, got %d", len(demands))
	}
	if demands[0].Demand != "refund tickets" {
		t.Errorf("Expected demand 'refund tickets', got %q", demands[0].Demand)
	}
	if demands[0].UserCount != 1 {
		t.Errorf("Expected 1 distinct user, got %d", demands[0].UserCount)
	}
	if demands[0].Frequency != "unknown" {
		t.Errorf("Expected frequency default 'unknown', got %q", demands[0].Frequency)
	}
}

func TestReader_Solutions_UnknownTypeDropped(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	w := NewWriter(driver, DefaultCaps)
	wipeStore(t, w)
	seedScenario(t, w)

	if _, err := w.CreateSolution(ctx, "mystery entry", "unclassified"); err != nil {
		t.Fatalf("CreateSolution failed: %v", err)
	}

	r := NewReader(driver)
	buckets, err := r.Solutions(ctx)
	if err != nil {
		t.Fatalf("Solutions failed: %v", err)
	}
	if len(buckets.ActionTaken) != 1 {
		t.Errorf("Expected 1 action taken, got %d", len(buckets.ActionTaken))
	}
	if len(buckets.Suggested) != 2 {
		t.Errorf("Expected 2 suggestions, got %d", len(buckets.Suggested))
	}
	for _, content := range append(buckets.ActionTaken, buckets.Suggested...) {
		if content == "mystery entry" {
			t.Error("Unclassified solution leaked into a bucket")
		}
	}
}

func TestReader_UserInteractionNetwork(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	w := NewWriter(driver, DefaultCaps)
	wipeStore(t, w)
	seedScenario(t, w)

	r := NewReader(driver)
	interactions, err := r.UserInteractionNetwork(ctx, 20)
	if err != nil {
		t.Fatalf("UserInteractionNetwork failed: %v", err)
	}
	if len(interactions) != 1 {
		t.Fatalf("Expected 1 interaction pair, got %d", len(interactions))
	}
	if interactions[0].FromUser != "Bob" || interactions[0].ToUser != "Alice" {
		t.Errorf("Expected Bob -> Alice, got %s -> %s", interactions[0].FromUser, interactions[0].ToUser)
	}
	if interactions[0].Count != 1 {
		t.Errorf("Expected interaction count 1, got %d", interactions[0].Count)
	}
}

func TestReader_NegativeComments_OrderedByIntensity(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	w := NewWriter(driver, DefaultCaps)
	wipeStore(t, w)

	bundle := testBundle()
	bundle.Comments = append(bundle.Comments, ingest.CommentGroup{
		Index: 2,
		MainComment: ingest.Post{
			Author:  "Frank",
			Content: "Third breakdown this month on the same line.",
			Time:    "25-11-13 09:00",
			Source:  "Shanghai",
		},
	})
	bundle.SentimentAnalysis = append(bundle.SentimentAnalysis,
		analyzer.SentimentRecord{Author: "Frank", Sentiment: analyzer.SentimentNegative, Emotion: "anger", Intensity: 10},
	)
	if err := w.BuildCompleteGraph(ctx, bundle); err != nil {
		t.Fatalf("BuildCompleteGraph failed: %v", err)
	}

	r := NewReader(driver)
	comments, err := r.NegativeComments(ctx, 10)
	if err != nil {
		t.Fatalf("NegativeComments failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("Expected 2 negative comments, got %d", len(comments))
	}
	if comments[0].Author != "Frank" || comments[0].Intensity != 10 {
		t.Errorf("Expected Frank (intensity 10) first, got %s (intensity %d)", comments[0].Author, comments[0].Intensity)
	}
	if comments[1].Author != "Alice" || comments[1].Intensity != 8 {
		t.Errorf("Expected Alice (intensity 8) second, got %s (intensity %d)", comments[1].Author, comments[1].Intensity)
	}
}

func TestReader_Export_Complete(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	w := NewWriter(driver, DefaultCaps)
	wipeStore(t, w)
	seedScenario(t, w)

	r := NewReader(driver)
	export, err := r.Export(ctx, DefaultExportLimits)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if export.EventSummary.Organization != "MetroAuthority" {
		t.Errorf("Expected organization 'MetroAuthority', got %q", export.EventSummary.Organization)
	}
	if len(export.Sentiment) != 3 {
		t.Errorf("Expected 3 sentiment groups, got %d", len(export.Sentiment))
	}
	if len(export.TopDemands) != 1 {
		t.Errorf("Expected 1 top demand, got %d", len(export.TopDemands))
	}
	if len(export.Solutions.Suggested) != 2 {
		t.Errorf("Expected 2 suggested solutions, got %d", len(export.Solutions.Suggested))
	}
	if len(export.UserInteractions) != 1 {
		t.Errorf("Expected 1 user interaction, got %d", len(export.UserInteractions))
	}
	if len(export.NegativeComments) != 1 {
		t.Errorf("Expected 1 negative comment, got %d", len(export.NegativeComments))
	}
}
