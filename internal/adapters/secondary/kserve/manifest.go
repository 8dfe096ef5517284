package kserve

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/yaml"
)

var inferenceServiceGVK = schema.GroupVersionKind{
	Group:   "serving.kserve.io",
	Version: "v1beta1",
	Kind:    "InferenceService",
}

const (
	labelModelName    = "scoring.factory/model-name"
	labelModelVersion = "scoring.factory/model-version"
)

// ManifestSpec describes the InferenceService rendered for a deploy package.
type ManifestSpec struct {
	Name         string
	Namespace    string
	StorageURI   string
	Framework    string
	Runtime      string
	ModelName    string
	ModelVersion string
}

// BuildInferenceService assembles the InferenceService object for spec.
func BuildInferenceService(spec ManifestSpec) (*unstructured.Unstructured, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("inference service name is required")
	}
	if spec.StorageURI == "" {
		return nil, fmt.Errorf("storage uri is required")
	}

	labels := map[string]string{}
	if spec.ModelName != "" {
		labels[labelModelName] = spec.ModelName
	}
	if spec.ModelVersion != "" {
		labels[labelModelVersion] = spec.ModelVersion
	}

	modelSpec := map[string]interface{}{
		"storageUri": spec.StorageURI,
	}
	if spec.Framework != "" {
		modelSpec["modelFormat"] = map[string]interface{}{
			"name": spec.Framework,
		}
	}
	if spec.Runtime != "" {
		modelSpec["runtime"] = spec.Runtime
	}

	obj := &unstructured.Unstructured{
		Object: map[string]interface{}{
			"spec": map[string]interface{}{
				"predictor": map[string]interface{}{
					"model": modelSpec,
				},
			},
		},
	}
	obj.SetGroupVersionKind(inferenceServiceGVK)
	obj.SetName(spec.Name)
	if spec.Namespace != "" {
		obj.SetNamespace(spec.Namespace)
	}
	if len(labels) > 0 {
		obj.SetLabels(labels)
	}
	return obj, nil
}

// RenderInferenceService renders spec as a YAML manifest ready for kubectl apply.
func RenderInferenceService(spec ManifestSpec) ([]byte, error) {
	obj, err := BuildInferenceService(spec)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(obj.Object)
	if err != nil {
		return nil, fmt.Errorf("marshal inference service: %w", err)
	}
	return out, nil
}
