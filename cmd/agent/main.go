package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/rudazy/warden-yield-agent/internal/classifier"
	"github.com/rudazy/warden-yield-agent/internal/config"
	"github.com/rudazy/warden-yield-agent/internal/defillama"
	"github.com/rudazy/warden-yield-agent/internal/pipeline"
)

func main() {
	// Flags
	queryFlag := flag.String("q", "", "Run a single yield query and exit")
	modelFlag := flag.String("model", "", "OpenRouter model name for intent classification")
	flag.Parse()

	// Logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.WarnLevel)

	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env")
	}

	// Config
	cfg := config.Load()
	if *modelFlag != "" {
		cfg.IntentModel = *modelFlag
	}

	// Context + signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down yield agent...")
		cancel()
	}()

	cls, err := classifier.New(classifier.Config{
		OpenRouterAPIKey: cfg.OpenRouterAPIKey,
		Model:            cfg.IntentModel,
		Logger:           logger,
	})
	if err != nil {
		logger.WithError(err).Warn("intent model tier unavailable, using rules only")
		cls, _ = classifier.New(classifier.Config{Logger: logger})
	}

	pipe := pipeline.New(pipeline.Config{
		Classifier: cls,
		Source:     pipeline.NewLlamaSource(defillama.NewClient(cfg.DefiLlamaBaseURL), nil, logger),
		Logger:     logger,
	})

	// Single-shot mode
	if *queryFlag != "" {
		runSingle(ctx, pipe, *queryFlag)
		return
	}

	// REPL mode
	runREPL(ctx, pipe)
}

func runSingle(ctx context.Context, pipe *pipeline.Pipeline, q string) {
	st := pipe.Run(ctx, pipeline.Input{Query: q})
	fmt.Println(st.FormattedResponse)
}

func runREPL(ctx context.Context, pipe *pipeline.Pipeline) {
	fmt.Println("Cross-Chain Yield Intelligence Agent")
	fmt.Println("Ask about yields, e.g. \"5k USDC on arbitrum, safe yield\". Empty line to exit.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		q, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("error reading input:", err)
			return
		}
		q = strings.TrimSpace(q)
		if q == "" {
			fmt.Println("bye")
			return
		}

		st := pipe.Run(ctx, pipeline.Input{Query: q})
		fmt.Println(st.FormattedResponse)
		fmt.Println()
	}
}
