// Package predictor holds the classifiers the scoring service can load and
// the JSON artifact format they are published in.
package predictor

import (
	"encoding/json"
	"fmt"
	"os"

	"factory-scoring-service/internal/core/domain"
	ports "factory-scoring-service/internal/core/ports/output"
)

// header is shared by every artifact document.
type header struct {
	Type     string   `json:"type"`
	Name     string   `json:"name,omitempty"`
	Features []string `json:"features"`
	Classes  []int    `json:"classes"`
}

type treeDocument struct {
	header
	Nodes []TreeNode `json:"nodes"`
}

type forestDocument struct {
	header
	Trees [][]TreeNode `json:"trees"`
}

// Deserializer builds a predictor from a full artifact document.
type Deserializer func(data []byte) (ports.Predictor, error)

// Deserializers is keyed by the artifact "type" field.
var Deserializers = map[string]Deserializer{
	TypeDecisionTree: decodeDecisionTree,
	TypeRandomForest: decodeRandomForest,
}

type decoder struct{}

func NewDecoder() ports.PredictorDecoder {
	return decoder{}
}

func (decoder) Decode(data []byte) (ports.Predictor, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err)
	}
	deserialize, ok := Deserializers[h.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedModelType, h.Type)
	}
	if len(h.Features) == 0 {
		return nil, fmt.Errorf("%w: no features", domain.ErrInvalidArtifact)
	}
	return deserialize(data)
}

func decodeDecisionTree(data []byte) (ports.Predictor, error) {
	var doc treeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err)
	}
	tree := &DecisionTree{name: doc.Name, features: doc.Features, classes: doc.Classes, nodes: doc.Nodes}
	if err := tree.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err)
	}
	return tree, nil
}

func decodeRandomForest(data []byte) (ports.Predictor, error) {
	var doc forestDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err)
	}
	if len(doc.Trees) == 0 {
		return nil, fmt.Errorf("%w: forest has no trees", domain.ErrInvalidArtifact)
	}
	forest := &RandomForest{name: doc.Name, features: doc.Features, classes: doc.Classes}
	for i, nodes := range doc.Trees {
		tree := &DecisionTree{name: doc.Name, features: doc.Features, classes: doc.Classes, nodes: nodes}
		if err := tree.validate(); err != nil {
			return nil, fmt.Errorf("%w: tree %d: %v", domain.ErrInvalidArtifact, i, err)
		}
		forest.trees = append(forest.trees, tree)
	}
	return forest, nil
}

// Encode serializes a trained predictor into its artifact document.
func Encode(p ports.Predictor) ([]byte, error) {
	h := header{Type: p.Type(), Name: p.Name(), Features: p.Features(), Classes: p.Classes()}
	switch m := p.(type) {
	case *DecisionTree:
		if len(m.nodes) == 0 {
			return nil, fmt.Errorf("encode %s: model not trained", h.Type)
		}
		return json.MarshalIndent(treeDocument{header: h, Nodes: m.nodes}, "", "  ")
	case *RandomForest:
		if len(m.trees) == 0 {
			return nil, fmt.Errorf("encode %s: model not trained", h.Type)
		}
		doc := forestDocument{header: h}
		for _, t := range m.trees {
			doc.Trees = append(doc.Trees, t.nodes)
		}
		return json.MarshalIndent(doc, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnsupportedModelType, p)
	}
}

// Save writes the artifact document to path.
func Save(p ports.Predictor, path string) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
