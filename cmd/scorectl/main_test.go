package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-scoring-service/internal/config"
	"factory-scoring-service/internal/core/domain"
	"factory-scoring-service/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Model: config.ModelConfig{
			Source:   "local",
			Name:     "factorymodel",
			InputKey: "input_df",
		},
		Storage: config.StorageConfig{
			Container:  "readydemo",
			ModelBlob:  "factory.model",
			SchemaBlob: "factory.schema",
		},
		Collector: config.CollectorConfig{Kind: "none"},
		Package: config.PackageConfig{
			ServiceName: "[your service name]",
			Runtime:     "spark-py",
		},
	}
}

func writeTrainingCSV(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("temp,volt,state\n")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "%d,%d,0\n", 100+i*5, 200+i*5)
		fmt.Fprintf(&b, "%d,%d,1\n", 200+i*5, 300+i*5)
	}
	path := filepath.Join(t.TempDir(), "telemetry.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorIs(t, run(context.Background(), testConfig(), nil, &out), errUsage)
	assert.Contains(t, out.String(), "usage: scorectl")

	out.Reset()
	assert.ErrorIs(t, run(context.Background(), testConfig(), []string{"deploy"}, &out), errUsage)

	assert.NoError(t, run(context.Background(), testConfig(), []string{"help"}, &out))
}

func TestRun_TrainThenScore(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	modelPath := filepath.Join(t.TempDir(), "models", "factory.model")

	var out bytes.Buffer
	err := run(ctx, cfg, []string{"train", "-data", writeTrainingCSV(t), "-out", modelPath}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "model saved to "+modelPath)

	input := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"input_df":[{"temp":230,"volt":330},{"temp":110,"volt":210}]}`), 0o644))

	out.Reset()
	require.NoError(t, run(ctx, cfg, []string{"score", "-model", modelPath, "-input", input}, &out))
	assert.Equal(t, "\"[1 0]\"\n", out.String())
}

func TestRun_TrainRandomForest(t *testing.T) {
	modelPath := filepath.Join(t.TempDir(), "forest.model")
	var out bytes.Buffer
	err := run(context.Background(), testConfig(), []string{
		"train", "-data", writeTrainingCSV(t), "-type", "random_forest", "-trees", "5", "-seed", "7", "-out", modelPath,
	}, &out)
	require.NoError(t, err)

	data, err := os.ReadFile(modelPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"random_forest"`)
}

func TestRun_TrainErrors(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorIs(t, run(context.Background(), testConfig(), []string{"train"}, &out), errUsage)

	err := run(context.Background(), testConfig(), []string{
		"train", "-data", writeTrainingCSV(t), "-out", filepath.Join(t.TempDir(), "m.model"), "-upload",
	}, &out)
	assert.ErrorIs(t, err, domain.ErrStorageNotConfigured)
}

func TestRun_ScoreSample(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), testConfig(), []string{"score", "-model", testutil.WriteFactoryModel(t)}, &out)
	require.NoError(t, err)
	assert.Equal(t, "\"[1]\"\n", out.String())
}

func TestRun_ScoreMalformed(t *testing.T) {
	input := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"input_df":[{"temp":"hot"}]}`), 0o644))

	var out bytes.Buffer
	err := run(context.Background(), testConfig(), []string{"score", "-model", testutil.WriteFactoryModel(t), "-input", input}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"INTERNAL error"`)
}

func TestRun_Schema(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "outputs", "service_schema.json")

	var out bytes.Buffer
	err := run(context.Background(), testConfig(), []string{"schema", "-model", testutil.WriteFactoryModel(t), "-out", outPath}, &out)
	require.NoError(t, err)

	doc, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"input_df"`)
	assert.Contains(t, string(doc), `"[1 1]"`)
}

func TestRun_PackageNeedsStorage(t *testing.T) {
	cfg := testConfig()
	cfg.Package.Dir = filepath.Join(t.TempDir(), "deploypackage")

	var out bytes.Buffer
	err := run(context.Background(), cfg, []string{"package"}, &out)
	assert.ErrorIs(t, err, domain.ErrStorageNotConfigured)
}

func TestBlobURL(t *testing.T) {
	cfg := config.StorageConfig{AccountName: "acct", Container: "readydemo"}
	assert.Equal(t, "https://acct.blob.core.windows.net/readydemo/factory.model", blobURL(cfg, "factory.model"))

	cfg.ServiceURL = "http://127.0.0.1:10000/devstoreaccount1/"
	assert.Equal(t, "http://127.0.0.1:10000/devstoreaccount1/readydemo/factory.model", blobURL(cfg, "factory.model"))
}

func TestManifestSpec(t *testing.T) {
	cfg := testConfig()
	cfg.Package.Namespace = "model-serving"
	cfg.Storage = config.StorageConfig{AccountName: "acct", Container: "readydemo", ModelBlob: "factory.model"}

	spec := manifestSpec(cfg, "factory-scoring", "decision_tree", "kserve-custom", "v2")
	assert.Equal(t, "factory-scoring", spec.Name)
	assert.Equal(t, "model-serving", spec.Namespace)
	assert.Equal(t, "https://acct.blob.core.windows.net/readydemo/factory.model", spec.StorageURI)
	assert.Equal(t, "decision_tree", spec.Framework)
	assert.Equal(t, "kserve-custom", spec.Runtime)
	assert.Equal(t, "factorymodel", spec.ModelName)
	assert.Equal(t, "v2", spec.ModelVersion)
}
