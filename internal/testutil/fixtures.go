package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// FactoryFeatures is the column order of the factory sample model.
var FactoryFeatures = []string{"id", "volt", "rotate", "temp", "time"}

// FactoryTreeJSON is a small factory classifier: temp above 150 predicts 1,
// otherwise rotate above 200 predicts 1, else 0.
const FactoryTreeJSON = `{
  "type": "decision_tree",
  "name": "factorymodel",
  "features": ["id", "volt", "rotate", "temp", "time"],
  "classes": [0, 1],
  "nodes": [
    {"feature_idx": 3, "threshold": 150, "left_child": 1, "right_child": 4, "class_label": 0, "is_leaf": false},
    {"feature_idx": 2, "threshold": 200, "left_child": 2, "right_child": 3, "class_label": 0, "is_leaf": false},
    {"feature_idx": -1, "threshold": 0, "left_child": -1, "right_child": -1, "class_label": 0, "is_leaf": true},
    {"feature_idx": -1, "threshold": 0, "left_child": -1, "right_child": -1, "class_label": 1, "is_leaf": true},
    {"feature_idx": -1, "threshold": 0, "left_child": -1, "right_child": -1, "class_label": 1, "is_leaf": true}
  ]
}`

// SamplePayload is the request used throughout the demo documentation.
const SamplePayload = `{"input_df":[{"id":1.0,"volt":241.0,"rotate":120.0,"temp":189.0,"time":3.0}]}`

// WriteFactoryModel writes FactoryTreeJSON into a temp dir and returns its path.
func WriteFactoryModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "factory.model")
	require.NoError(t, os.WriteFile(path, []byte(FactoryTreeJSON), 0o644))
	return path
}
