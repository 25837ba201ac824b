// Package main is the Kaiseki CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kaiseki/internal/analyze"
	"github.com/hyperjump/kaiseki/internal/composer"
	"github.com/hyperjump/kaiseki/internal/config"
	"github.com/hyperjump/kaiseki/internal/embedding"
	"github.com/hyperjump/kaiseki/internal/extract"
	"github.com/hyperjump/kaiseki/internal/gate"
	"github.com/hyperjump/kaiseki/internal/generation"
	"github.com/hyperjump/kaiseki/internal/models"
	"github.com/hyperjump/kaiseki/internal/pipeline"
	"github.com/hyperjump/kaiseki/internal/retrieval"
	"github.com/hyperjump/kaiseki/internal/server"
	"github.com/hyperjump/kaiseki/internal/storage"
	"github.com/hyperjump/kaiseki/internal/watcher"
	"github.com/hyperjump/kaiseki/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kaiseki/config.yaml"

const defaultServerURL = "http://localhost:8080"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "analyze":
		runAnalyze()
	case "index":
		runIndex()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kaiseki version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	// Serve the persisted index if one exists; otherwise try a fresh build.
	// Either failing just means retrieval starts empty.
	startCtx := context.Background()
	if err := components.Engine.LoadFromStorage(startCtx); err != nil {
		logger.Info("no persisted index, building from corpus", zap.Error(err))
		if err := components.Engine.BuildIndex(startCtx); err != nil {
			logger.Warn("initial index build failed, retrieval disabled until reindex", zap.Error(err))
		}
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Corpus.Watch {
		w := watcher.NewWatcher(cfg.Corpus.Path, cfg.Corpus.Extensions, func() {
			if err := components.Engine.BuildIndex(context.Background()); err != nil {
				logger.Warn("watch rebuild failed", zap.Error(err))
			}
		}, logger)
		if err := w.Start(watchCtx); err != nil {
			logger.Warn("corpus watcher failed to start", zap.Error(err))
		} else {
			defer w.Stop()
		}
	}

	srv := server.NewServer(components.Service, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", defaultServerURL, `server URL; use --server "" for direct mode`)
	article := fs.String("article", "", "article text to classify")
	topK := fs.Int("top-k", 0, "number of document chunks to retrieve")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	req := &models.AnalyzeRequest{Question: question, Article: *article, TopK: *topK}

	var resp *models.AnalyzeResponse
	var err error
	if *serverURL != "" {
		resp, err = analyzeViaHTTP(*serverURL, req)
	} else {
		resp, err = analyzeDirect(*configPath, req)
	}
	if err != nil {
		fmt.Printf("Analyze failed: %v\n", err)
		os.Exit(1)
	}

	if *output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(resp)
		return
	}
	printAnalysis(resp)
}

func analyzeViaHTTP(serverURL string, req *models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpResp, err := http.Post(serverURL+"/api/v1/analyze", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", httpResp.StatusCode, strings.TrimSpace(string(data)))
	}
	var resp models.AnalyzeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func analyzeDirect(configPath string, req *models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := zap.NewNop()
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer components.Close()

	ctx := context.Background()
	if err := components.Engine.LoadFromStorage(ctx); err != nil {
		// Direct mode without a persisted index falls back to a fresh build.
		_ = components.Engine.BuildIndex(ctx)
	}
	return components.Service.Analyze(ctx, req)
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", defaultServerURL, `server URL; use --server "" for direct mode`)
	_ = fs.Parse(os.Args[2:])

	if *serverURL != "" {
		httpResp, err := http.Post(*serverURL+"/api/v1/reindex", "application/json", nil)
		if err != nil {
			fmt.Printf("Reindex failed: %v\n", err)
			os.Exit(1)
		}
		defer httpResp.Body.Close()
		data, _ := io.ReadAll(httpResp.Body)
		if httpResp.StatusCode != http.StatusOK {
			fmt.Printf("Reindex failed: server returned %d: %s\n", httpResp.StatusCode, strings.TrimSpace(string(data)))
			os.Exit(1)
		}
		fmt.Printf("Reindex complete: %s\n", strings.TrimSpace(string(data)))
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if err := components.Engine.BuildIndex(context.Background()); err != nil {
		fmt.Printf("Index build failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Indexed %d documents (%d chunks)\n",
		components.Engine.DocumentCount(), components.Engine.Size())
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	httpResp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Printf("Status failed: %v\n", err)
		os.Exit(1)
	}
	defer httpResp.Body.Close()
	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		fmt.Printf("Status failed: %v\n", err)
		os.Exit(1)
	}
	if httpResp.StatusCode != http.StatusOK {
		fmt.Printf("Status failed: server returned %d: %s\n", httpResp.StatusCode, strings.TrimSpace(string(data)))
		os.Exit(1)
	}

	if *output == "json" {
		fmt.Println(strings.TrimSpace(string(data)))
		return
	}
	var st analyze.Status
	if err := json.Unmarshal(data, &st); err != nil {
		fmt.Printf("Status failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Index ready:   %v\n", st.IndexReady)
	fmt.Printf("Documents:     %d (stored: %d)\n", st.Documents, st.StoredDocs)
	fmt.Printf("Chunks:        %d (stored: %d)\n", st.Chunks, st.StoredChunks)
	fmt.Printf("Domain terms:  %s\n", strings.Join(st.DomainKeywords, ", "))
}

func printAnalysis(resp *models.AnalyzeResponse) {
	a := resp.Analysis
	printList := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Printf("%s:\n", label)
		for _, it := range items {
			fmt.Printf("  - %s\n", it)
		}
	}
	printList("Facts", a.Facts)
	printList("Assumptions", a.Assumptions)
	printList("Unknowns", a.Unknowns)
	printList("Axioms", a.Axioms)
	printList("Risk flags", a.RiskFlags)
	printList("Ethical flags", a.EthicalFlags)
	printList("Hypotheses", a.Hypotheses)
	printList("Speculation", a.Speculation)
	printList("Questions", a.Questions)
	printList("Verified interpretation", a.VerifiedInterpretation)

	if resp.Answer != nil {
		fmt.Printf("\nAnswer [%s]:\n%s\n", resp.Answer.Confidence, resp.Answer.Text)
		for _, c := range resp.Answer.Citations {
			fmt.Printf("  source: %s (%.2f)\n", c.SourceFile, c.Score)
		}
	}
	for _, note := range resp.Notes {
		fmt.Printf("note: %s\n", note)
	}
	fmt.Printf("(%d ms, private domain: %v)\n", resp.QueryTimeMS, resp.PrivateDomain)
}

// Components holds the initialized service graph so commands can share
// setup and teardown.
type Components struct {
	Storage   storage.Storage
	Embedder  embedding.Embedder
	Generator generation.Generator
	Engine    *retrieval.Engine
	Service   *analyze.Service
}

// Close releases all component resources.
func (c *Components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Generator != nil {
		_ = c.Generator.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	embedder, err := embedding.NewFromConfig(cfg.Embedding)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	generator, err := generation.NewFromConfig(cfg.Generation)
	if err != nil {
		_ = embedder.Close()
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}

	engine := retrieval.NewEngine(store, embedder, extract.NewExtractor(),
		cfg.Corpus, cfg.Retrieval, logger)
	comp := composer.New(generator, cfg.Composer)
	svc := analyze.NewService(
		pipeline.New(&cfg.Pipeline),
		gate.New(&cfg.Gate),
		engine,
		comp,
		store,
		logger,
	)

	return &Components{
		Storage:   store,
		Embedder:  embedder,
		Generator: generator,
		Engine:    engine,
		Service:   svc,
	}, nil
}

func printUsage() {
	fmt.Println(`kaiseki - Cognitive text analysis with document-grounded answers

Usage:
  kaiseki server [flags]              Start the HTTP server
  kaiseki analyze [flags] <question>  Analyze a question (and/or --article text)
  kaiseki index [flags]               Rebuild the corpus index
  kaiseki status [flags]              Show index and corpus status
  kaiseki version                     Show version
  kaiseki help                        Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/kaiseki/config.yaml)
  --debug            Enable debug logging

Analyze Flags:
  --server string    Server URL (default: http://localhost:8080). Use --server "" for direct mode.
  --config string    Config file path (direct mode)
  --article string   Article text to run through the classification pipeline
  --top-k int        Number of document chunks to retrieve
  --output string    Output format: text or json (default: text)

Index Flags:
  --server string    Server URL (default: http://localhost:8080). Use --server "" for direct mode.
  --config string    Config file path (direct mode)

Status Flags:
  --server string    Server URL (default: http://localhost:8080)
  --output string    Output format: text or json (default: text)

Examples:
  kaiseki server
  kaiseki analyze "What alloy is used in the hull?"
  kaiseki analyze --article "The sky is blue. Maybe it will rain."
  kaiseki analyze --output json "reactor capacity?"
  kaiseki index
  kaiseki status`)
}
