package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"factory-scoring-service/internal/adapters/secondary/kserve"
	"factory-scoring-service/internal/app"
	"factory-scoring-service/internal/config"
	"factory-scoring-service/internal/core/domain"
	"factory-scoring-service/internal/core/services"
	"factory-scoring-service/internal/predictor"
)

const artifactContentType = "application/json"

// sampleFrame is the two-row factory sample the schema example is built from.
func sampleFrame() *domain.Frame {
	return &domain.Frame{
		Columns: []string{"temp", "volt", "rotate", "time", "id"},
		Rows: [][]float64{
			{45.9842594460449, 150.513223075022, 277.294013981084, 1.0, 1.0},
			{46.9842594460449, 152.513223075022, 277.294013981084, 2.0, 1.0},
		},
	}
}

func runTrain(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(out)
	data := fs.String("data", "", "training CSV with a header row")
	label := fs.String("label", "state", "label column")
	modelType := fs.String("type", predictor.TypeDecisionTree, "model type (decision_tree, random_forest)")
	name := fs.String("name", cfg.Model.Name, "model name")
	maxDepth := fs.Int("max-depth", 10, "max tree depth")
	trees := fs.Int("trees", 10, "number of trees for random_forest")
	seed := fs.Uint64("seed", 1, "bootstrap seed for random_forest")
	outPath := fs.String("out", cfg.Storage.ModelBlob, "model output path")
	upload := fs.Bool("upload", false, "upload the model to the configured model blob")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *data == "" {
		return fmt.Errorf("%w: -data is required", errUsage)
	}

	f, err := os.Open(*data)
	if err != nil {
		return fmt.Errorf("open training data: %w", err)
	}
	frame, labels, err := predictor.ReadCSV(f, *label)
	f.Close()
	if err != nil {
		return err
	}

	p, err := predictor.Train(frame, labels, predictor.TrainOptions{
		Type:      *modelType,
		Name:      *name,
		MaxDepth:  *maxDepth,
		TreeCount: *trees,
		Seed:      *seed,
	})
	if err != nil {
		return fmt.Errorf("train model: %w", err)
	}

	if pred, err := p.Predict(frame.Rows); err == nil {
		log.WithFields(log.Fields{
			"rows":     frame.Len(),
			"accuracy": accuracy(pred, labels),
		}).Info("model trained")
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	if err := predictor.Save(p, *outPath); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	fmt.Fprintf(out, "model saved to %s\n", *outPath)

	if !*upload {
		return nil
	}
	blobs, err := app.BlobStore(cfg.Storage)
	if err != nil {
		return err
	}
	if blobs == nil {
		return domain.ErrStorageNotConfigured
	}
	if err := blobs.Upload(ctx, cfg.Storage.Container, cfg.Storage.ModelBlob, *outPath, artifactContentType); err != nil {
		return fmt.Errorf("upload model: %w", err)
	}
	fmt.Fprintf(out, "model uploaded to %s/%s\n", cfg.Storage.Container, cfg.Storage.ModelBlob)
	return nil
}

func runSchema(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(out)
	model := fs.String("model", "", "local model file (default: the configured model source)")
	outPath := fs.String("out", "outputs/service_schema.json", "schema output path")
	title := fs.String("title", cfg.Model.Name, "schema title")
	upload := fs.Bool("upload", false, "upload the schema to the configured schema blob")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rt, err := bootstrap(ctx, cfg, *model)
	if err != nil {
		return err
	}
	defer rt.Close()

	blobs, err := app.BlobStore(cfg.Storage)
	if err != nil {
		return err
	}
	svc := services.NewSchemaService(services.SchemaConfig{
		Title:     *title,
		Container: cfg.Storage.Container,
		Blob:      cfg.Storage.SchemaBlob,
	}, blobs)

	doc, err := svc.Generate(ctx, rt.Scoring, sampleFrame())
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	if err := svc.WriteFile(doc, *outPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "schema written to %s\n", *outPath)

	if *upload {
		if err := svc.Upload(ctx, *outPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "schema uploaded to %s/%s\n", cfg.Storage.Container, cfg.Storage.SchemaBlob)
	}
	return nil
}

func runPackage(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("package", flag.ContinueOnError)
	fs.SetOutput(out)
	dir := fs.String("dir", cfg.Package.Dir, "package directory")
	serviceName := fs.String("service-name", cfg.Package.ServiceName, "model management service name")
	runtime := fs.String("runtime", cfg.Package.Runtime, "container runtime")
	manifest := fs.Bool("manifest", true, "also print an InferenceService manifest")
	isvcName := fs.String("isvc-name", cfg.Model.Name, "InferenceService name")
	framework := fs.String("framework", "", "model format name for the manifest")
	isvcRuntime := fs.String("isvc-runtime", "", "serving runtime for the manifest")
	modelVersion := fs.String("model-version", "", "model version label for the manifest")
	if err := fs.Parse(args); err != nil {
		return err
	}

	blobs, err := app.BlobStore(cfg.Storage)
	if err != nil {
		return err
	}
	svc := services.NewPackageService(services.PackageConfig{
		Dir:        *dir,
		Container:  cfg.Storage.Container,
		ModelBlob:  cfg.Storage.ModelBlob,
		SchemaBlob: cfg.Storage.SchemaBlob,
		ScoreFile:  cfg.Package.ScoreFile,
		ConfigFile: cfg.Package.ConfigFile,
	}, blobs)

	pkg, err := svc.Build(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, services.DeployCommand(pkg, *serviceName, *runtime))

	if !*manifest {
		return nil
	}
	doc, err := kserve.RenderInferenceService(manifestSpec(cfg, *isvcName, *framework, *isvcRuntime, *modelVersion))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "---\n%s", doc)
	return nil
}

func runScore(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	fs.SetOutput(out)
	model := fs.String("model", "", "local model file (default: the configured model source)")
	input := fs.String("input", "", "JSON payload file, - for stdin (default: the built-in sample)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	payload := []byte(fmt.Sprintf(`{%q:[{"id":1.0,"volt":241.0,"rotate":120.0,"temp":189.0,"time":3.0}]}`, inputKey(cfg)))
	switch *input {
	case "":
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		payload = data
	default:
		data, err := os.ReadFile(*input)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		payload = data
	}

	rt, err := bootstrap(ctx, cfg, *model)
	if err != nil {
		return err
	}
	defer rt.Close()

	res, err := rt.Scoring.Score(ctx, payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", res.JSON())
	return nil
}

// bootstrap loads the configured model, or the file at modelPath when set.
// Request validation and data collection are left off for offline runs.
func bootstrap(ctx context.Context, cfg *config.Config, modelPath string) (*app.Runtime, error) {
	local := *cfg
	if modelPath != "" {
		local.Model.Source = string(domain.ModelSourceLocal)
		local.Model.LocalPath = modelPath
	}
	local.Model.SchemaPath = ""
	local.Collector.Kind = "none"
	return app.Bootstrap(ctx, &local)
}

func inputKey(cfg *config.Config) string {
	if cfg.Model.InputKey == "" {
		return services.DefaultInputKey
	}
	return cfg.Model.InputKey
}

func blobURL(cfg config.StorageConfig, blob string) string {
	base := cfg.ServiceURL
	if base == "" {
		base = fmt.Sprintf("https://%s.blob.core.windows.net", cfg.AccountName)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), cfg.Container, blob)
}

func manifestSpec(cfg *config.Config, name, framework, runtime, version string) kserve.ManifestSpec {
	return kserve.ManifestSpec{
		Name:         name,
		Namespace:    cfg.Package.Namespace,
		StorageURI:   blobURL(cfg.Storage, cfg.Storage.ModelBlob),
		Framework:    framework,
		Runtime:      runtime,
		ModelName:    cfg.Model.Name,
		ModelVersion: version,
	}
}

func accuracy(pred, labels []int) float64 {
	if len(labels) == 0 || len(pred) != len(labels) {
		return 0
	}
	correct := 0
	for i := range pred {
		if pred[i] == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(labels))
}
