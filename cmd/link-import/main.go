package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/linkviz/link/pkg/algorithms"
	"github.com/linkviz/link/pkg/export"
	"github.com/linkviz/link/pkg/graph"
	"github.com/linkviz/link/pkg/ingest"
	"github.com/linkviz/link/pkg/layout"
)

func main() {
	input := flag.String("input", "", "Path to edge list CSV")
	sourceCol := flag.String("source", "", "Source column name")
	targetCol := flag.String("target", "", "Target column name")
	weightCol := flag.String("weight", "", "Optional weight column name")
	typeCol := flag.String("type", "", "Optional edge type column name")
	directed := flag.Bool("directed", false, "Treat edges as directed")
	skipRows := flag.Int("skip", 0, "Raw lines to skip before the header")
	layoutAlg := flag.String("layout", "", "Optional layout to precompute (force, circular, hierarchical)")
	out := flag.String("out", "", "Snapshot output path (.snap)")
	summary := flag.Bool("summary", true, "Print graph summary after import")
	flag.Parse()

	if *input == "" || *sourceCol == "" || *targetCol == "" || *out == "" {
		fmt.Println("Usage: link-import --input edges.csv --source src --target dst --out graph.snap")
		fmt.Println()
		fmt.Println("Builds a graph snapshot from an edge list CSV for use with link-tui")
		fmt.Println("or for restoring into a running linkd via the archive API.")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	raw, err := os.ReadFile(*input)
	if err != nil {
		logger.Error("failed to read input", "error", err)
		os.Exit(1)
	}
	logger.Info("input read", "file", *input, "bytes", len(raw))

	opts := ingest.DefaultOptions()
	opts.SkipRows = *skipRows

	start := time.Now()
	table, err := ingest.ReadTableBytes(raw, opts)
	if err != nil {
		logger.Error("failed to parse CSV", "error", err)
		os.Exit(1)
	}
	logger.Info("table parsed",
		"rows", len(table.Rows),
		"columns", strings.Join(table.Columns, ","),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	mapping := ingest.Mapping{
		SourceColumn:   *sourceCol,
		TargetColumn:   *targetCol,
		WeightColumn:   *weightCol,
		EdgeTypeColumn: *typeCol,
	}

	start = time.Now()
	g, report, err := ingest.Build(table, mapping, *directed)
	if err != nil {
		logger.Error("failed to build graph", "error", err)
		os.Exit(1)
	}
	logger.Info("graph built",
		"nodes", report.NodesCreated,
		"edges", report.EdgesCreated,
		"skipped_rows", report.SkippedRows,
		"bad_weights", report.BadWeights,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	for _, msg := range report.Errors {
		logger.Warn("build issue", "detail", msg)
	}

	var positions map[uint64]layout.Position
	if *layoutAlg != "" {
		engine, err := layout.New(*layoutAlg, layout.DefaultConfig())
		if err != nil {
			logger.Error("unknown layout", "error", err)
			os.Exit(1)
		}
		start = time.Now()
		positions, err = engine.ComputeLayout(g, g.NodeIDs())
		if err != nil {
			logger.Error("layout failed", "error", err)
			os.Exit(1)
		}
		logger.Info("layout computed",
			"algorithm", *layoutAlg,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	if err := export.SaveSnapshot(*out, g, positions); err != nil {
		logger.Error("failed to write snapshot", "error", err)
		os.Exit(1)
	}
	logger.Info("snapshot written", "path", *out)

	if *summary {
		printSummary(g, logger)
	}
}

func printSummary(g *graph.Graph, logger *slog.Logger) {
	stats := g.Stats()
	logger.Info("graph summary",
		"nodes", stats.NodeCount,
		"edges", stats.EdgeCount,
		"directed", stats.Directed,
		"density", stats.Density,
		"self_loops", stats.SelfLoops,
		"isolated_nodes", stats.IsolatedNodes,
	)

	if pr, err := algorithms.PageRank(g, algorithms.DefaultPageRankOptions()); err == nil {
		for i, ranked := range pr.TopNodes {
			if i >= 5 {
				break
			}
			logger.Info("top node", "rank", i+1, "key", ranked.Key, "score", ranked.Score)
		}
	}

	if cc, err := algorithms.ConnectedComponents(g); err == nil {
		logger.Info("components", "count", len(cc.Communities), "modularity", cc.Modularity)
	}
}
