package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/leasedesk/cli/config"
	"github.com/leasedesk/cli/internal/db"
	"github.com/leasedesk/cli/internal/documents"
	"github.com/leasedesk/cli/internal/openai"
	"github.com/leasedesk/cli/internal/rag"
	"github.com/leasedesk/cli/internal/tui"
	"github.com/leasedesk/cli/internal/vectorindex"
)

func main() {
	var (
		migrateFlag    = flag.Bool("migrate", false, "Create or update the database schema and exit")
		initConfigFlag = flag.Bool("init-config", false, "Write the active configuration to ~/.leasedesk/config.yaml and exit")
		ingestFlag     = flag.String("ingest", "", "Ingest a PDF at the given path and exit")
		unitFlag       = flag.String("unit", "", "Unit id for -ingest and -ask (defaults to the configured unit)")
		askFlag        = flag.String("ask", "", "Answer one question on stdout and exit")
	)
	flag.Parse()

	// .env is optional; real environment variables win either way
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *initConfigFlag {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Configuration written to ~/.leasedesk/config.yaml")
		return
	}

	ctx := context.Background()

	database, err := db.New(ctx, cfg.Database.ConnectionString)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if *migrateFlag {
		if err := database.Migrate(ctx, cfg.Models.EmbeddingDim); err != nil {
			fmt.Fprintf(os.Stderr, "Error running migrations: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations completed successfully")
		return
	}

	client := openai.NewClient(cfg.OpenAI.BaseURL, cfg.APIKey())
	embedder := client.Embedder(cfg.Models.Embedding)
	index := vectorindex.New(database)
	processor := documents.NewProcessor(database, embedder, index, cfg.Processing.ChunkSize, cfg.Processing.ChunkOverlap)
	retriever := rag.NewRetriever(embedder, index, cfg.Processing.TopK)
	answerer := rag.NewAnswerer(retriever, client, cfg.Models.Chat)

	unit := *unitFlag
	if unit == "" {
		unit = cfg.DefaultUnit
	}

	if *ingestFlag != "" {
		doc, fragments, err := processor.IngestFile(ctx, *ingestFlag, unit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error ingesting document: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Ingested %s v%d (%s): %d pages, %d fragments\n",
			doc.Name, doc.Version, doc.ID, doc.Pages, fragments)
		return
	}

	if *askFlag != "" {
		answer, err := answerer.Answer(ctx, *askFlag, unit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error answering question: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(answer)
		return
	}

	services := tui.Services{
		DB:        database,
		Processor: processor,
		Answerer:  answerer,
		Searcher:  retriever,
		LLM:       client,
		Cfg:       cfg,
	}
	if err := tui.Run(services); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
