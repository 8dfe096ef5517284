package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"factory-scoring-service/internal/core/domain"
	"factory-scoring-service/internal/testutil"
)

func TestPackageService_Build(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deploypackage")
	cfgFile := writeFile(t, "conda_dependencies.yml", "name: project_environment\n")
	scoreFile := writeFile(t, "score.json", `{"input_df":[]}`)

	blobs := new(testutil.MockBlobStore)
	blobs.On("Download", mock.Anything, "readydemo", "factory.model", filepath.Join(dir, "factory.model")).
		Run(fakeDownload(t, testutil.FactoryTreeJSON)).
		Return(int64(1), nil)
	blobs.On("Download", mock.Anything, "readydemo", "factory.schema", filepath.Join(dir, "factory.schema")).
		Run(fakeDownload(t, `{}`)).
		Return(int64(1), nil)

	svc := NewPackageService(PackageConfig{
		Dir:        dir,
		Container:  "readydemo",
		ModelBlob:  "factory.model",
		SchemaBlob: "factory.schema",
		ScoreFile:  scoreFile,
		ConfigFile: cfgFile,
	}, blobs)

	pkg, err := svc.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "conda_dependencies.yml"), pkg.ConfigFile)

	// A rebuild replaces every file in place.
	pkg, err = svc.Build(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	copied, err := os.ReadFile(pkg.ConfigFile)
	require.NoError(t, err)
	assert.Equal(t, "name: project_environment\n", string(copied))
	blobs.AssertNumberOfCalls(t, "Download", 4)
}

func TestPackageService_BuildErrors(t *testing.T) {
	_, err := NewPackageService(PackageConfig{Dir: t.TempDir()}, nil).Build(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorageNotConfigured)

	blobs := new(testutil.MockBlobStore)
	blobs.On("Download", mock.Anything, mock.Anything, "factory.model", mock.Anything).Return(int64(0), nil)
	blobs.On("Download", mock.Anything, mock.Anything, "factory.schema", mock.Anything).Return(int64(0), errors.New("forbidden"))

	_, err = NewPackageService(PackageConfig{
		Dir:        t.TempDir(),
		Container:  "readydemo",
		ModelBlob:  "factory.model",
		SchemaBlob: "factory.schema",
	}, blobs).Build(context.Background())
	assert.ErrorContains(t, err, "download schema")
}

func TestDeployCommand(t *testing.T) {
	pkg := &DeployPackage{
		Dir:        "deploypackage",
		ModelFile:  "deploypackage/factory.model",
		SchemaFile: "deploypackage/factory.schema",
	}
	assert.Equal(t,
		"az ml service create realtime --model-file deploypackage/factory.model -n factory -s deploypackage/factory.schema -r spark-py",
		DeployCommand(pkg, "factory", "spark-py"))

	pkg.ConfigFile = "deploypackage/conda_dependencies.yml"
	pkg.ScoreFile = "deploypackage/score.json"
	assert.Equal(t,
		"az ml service create realtime --model-file deploypackage/factory.model -f deploypackage/score.json"+
			" -n factory -s deploypackage/factory.schema -r spark-py -c deploypackage/conda_dependencies.yml",
		DeployCommand(pkg, "factory", "spark-py"))
}
