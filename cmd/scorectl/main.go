// Command scorectl trains, scores, documents and packages factory models
// outside the running service.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"factory-scoring-service/internal/config"
	"factory-scoring-service/internal/logger"
)

var errUsage = errors.New("usage")

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logCloser := logger.Init(cfg.Logger)
	err = run(context.Background(), cfg, os.Args[1:], os.Stdout)
	logCloser.Close()

	if errors.Is(err, errUsage) {
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("scorectl: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return errUsage
	}

	switch args[0] {
	case "train":
		return runTrain(ctx, cfg, args[1:], out)
	case "schema":
		return runSchema(ctx, cfg, args[1:], out)
	case "package":
		return runPackage(ctx, cfg, args[1:], out)
	case "score":
		return runScore(ctx, cfg, args[1:], out)
	case "help", "-h", "--help":
		usage(out)
		return nil
	default:
		usage(out)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func usage(out io.Writer) {
	fmt.Fprint(out, `usage: scorectl <command> [flags]

commands:
  train    train a model from a CSV file and save the artifact
  schema   generate the service schema from a sample and optionally upload it
  package  assemble a deployment package and print the deploy command
  score    score a JSON payload with the configured model
`)
}
