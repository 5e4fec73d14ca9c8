package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/karry12138/public-opinion-graph/internal/analyzer"
	"github.com/karry12138/public-opinion-graph/internal/graph"
	"github.com/karry12138/public-opinion-graph/internal/pipeline"
	"github.com/karry12138/public-opinion-graph/internal/report"
	"github.com/karry12138/public-opinion-graph/pkg/config"
	"github.com/karry12138/public-opinion-graph/pkg/logger"
)

func main() {
	input := flag.String("input", "weibo_comments_full.json", "path to the crawled thread JSON file")
	clearDB := flag.Bool("clear", false, "wipe the graph store before building (asks for confirmation)")
	skipGraph := flag.Bool("skip-graph", false, "run analysis only, without building the graph")
	outputDir := flag.String("output", "output", "directory for the export document")
	showQueries := flag.Bool("queries", false, "print the Cypher query catalog after the report")
	flag.Parse()

	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting opinion analysis pipeline...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if err := cfg.RequireLLM(); err != nil {
		log.Fatal("LLM configuration incomplete", zap.Error(err))
	}

	ctx := context.Background()

	driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer driver.Close(ctx)

	writer := graph.NewWriter(driver, graph.Caps{
		MaxComments:          cfg.MaxComments,
		MaxRepliesPerComment: cfg.MaxRepliesPerComment,
	})
	llm := analyzer.New(cfg.DashScopeBaseURL, cfg.DashScopeAPIKey, cfg.ModelName)

	pipe := pipeline.New(cfg, llm, writer)
	result, err := pipe.Run(ctx, pipeline.Options{
		ThreadPath: *input,
		BuildGraph: !*skipGraph,
		ClearDB:    *clearDB,
		Confirm:    confirmWipe,
	})
	if err != nil {
		log.Fatal("Pipeline failed", zap.Error(err))
	}

	if err := saveResult(result, *outputDir); err != nil {
		log.Error("Failed to save analysis result", zap.Error(err))
	}

	if !*skipGraph {
		reader := graph.NewReader(driver)

		text, err := report.Generate(ctx, reader)
		if err != nil {
			log.Fatal("Failed to generate report", zap.Error(err))
		}
		fmt.Println(text)

		export, err := reader.Export(ctx, graph.DefaultExportLimits)
		if err != nil {
			log.Fatal("Failed to export graph data", zap.Error(err))
		}
		if err := saveExport(export, *outputDir); err != nil {
			log.Error("Failed to save export", zap.Error(err))
		}
	}

	if *showQueries {
		fmt.Println(report.FormatQueryCatalog())
	}
}

// confirmWipe is the boundary gate for the destructive store wipe.
func confirmWipe() bool {
	fmt.Print("This will delete every node and relationship in the store. Type 'yes' to confirm: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(scanner.Text()), "yes")
}

func saveResult(result *analyzer.Result, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("analysis_result_%s.json", uuid.New().String()[:8]))
	return os.WriteFile(path, data, 0o644)
}

func saveExport(export *graph.Export, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "graph_data.json"), data, 0o644)
}
