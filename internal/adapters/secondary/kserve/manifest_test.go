package kserve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"
)

func TestRenderInferenceService(t *testing.T) {
	out, err := RenderInferenceService(ManifestSpec{
		Name:         "factory-scoring",
		Namespace:    "model-serving",
		StorageURI:   "https://acct.blob.core.windows.net/readydemo/factory.model",
		Framework:    "decision_tree",
		Runtime:      "spark-py",
		ModelName:    "factorymodel",
		ModelVersion: "v3",
	})
	require.NoError(t, err)

	var obj map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &obj))
	u := &unstructured.Unstructured{Object: obj}

	assert.Equal(t, "serving.kserve.io/v1beta1", u.GetAPIVersion())
	assert.Equal(t, "InferenceService", u.GetKind())
	assert.Equal(t, "factory-scoring", u.GetName())
	assert.Equal(t, "model-serving", u.GetNamespace())
	assert.Equal(t, map[string]string{
		"scoring.factory/model-name":    "factorymodel",
		"scoring.factory/model-version": "v3",
	}, u.GetLabels())

	uri, _, _ := unstructured.NestedString(obj, "spec", "predictor", "model", "storageUri")
	assert.Equal(t, "https://acct.blob.core.windows.net/readydemo/factory.model", uri)
	format, _, _ := unstructured.NestedString(obj, "spec", "predictor", "model", "modelFormat", "name")
	assert.Equal(t, "decision_tree", format)
	runtime, _, _ := unstructured.NestedString(obj, "spec", "predictor", "model", "runtime")
	assert.Equal(t, "spark-py", runtime)
}

func TestBuildInferenceService_Minimal(t *testing.T) {
	u, err := BuildInferenceService(ManifestSpec{Name: "svc", StorageURI: "azblob://c/m"})
	require.NoError(t, err)
	assert.Empty(t, u.GetNamespace())
	assert.Empty(t, u.GetLabels())

	_, found, _ := unstructured.NestedMap(u.Object, "spec", "predictor", "model", "modelFormat")
	assert.False(t, found)
}

func TestBuildInferenceService_Invalid(t *testing.T) {
	_, err := BuildInferenceService(ManifestSpec{StorageURI: "azblob://c/m"})
	assert.Error(t, err)

	_, err = BuildInferenceService(ManifestSpec{Name: "svc"})
	assert.Error(t, err)
}
