package predictor

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

const TypeRandomForest = "random_forest"

// RandomForest is a bag of decision trees voting by majority.
type RandomForest struct {
	name     string
	features []string
	classes  []int
	trees    []*DecisionTree
}

func NewRandomForest(name string, features []string) *RandomForest {
	return &RandomForest{name: name, features: features}
}

func (rf *RandomForest) Type() string       { return TypeRandomForest }
func (rf *RandomForest) Name() string       { return rf.name }
func (rf *RandomForest) Features() []string { return rf.features }
func (rf *RandomForest) Classes() []int     { return rf.classes }

// Train fits treeCount trees, each on a bootstrap sample drawn with the given
// seed so a run can be reproduced.
func (rf *RandomForest) Train(features [][]float64, labels []int, treeCount, maxDepth int, seed uint64) error {
	if len(features) == 0 || len(features) != len(labels) {
		return errors.New("features and labels must be non-empty and the same size")
	}
	if treeCount <= 0 {
		treeCount = 10
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	trees := make([]*DecisionTree, 0, treeCount)
	for t := 0; t < treeCount; t++ {
		sampleX := make([][]float64, len(features))
		sampleY := make([]int, len(labels))
		for i := range sampleX {
			j := rng.IntN(len(features))
			sampleX[i] = features[j]
			sampleY[i] = labels[j]
		}
		tree := NewDecisionTree(rf.name, rf.features)
		if err := tree.Train(sampleX, sampleY, maxDepth); err != nil {
			return fmt.Errorf("train tree %d: %w", t, err)
		}
		trees = append(trees, tree)
	}

	rf.trees = trees
	rf.classes = uniqueLabels(labels)
	return nil
}

func (rf *RandomForest) Predict(rows [][]float64) ([]int, error) {
	if len(rf.trees) == 0 {
		return nil, errors.New("model not trained")
	}

	votes := make([][]int, len(rows))
	for t, tree := range rf.trees {
		preds, err := tree.Predict(rows)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", t, err)
		}
		for i, p := range preds {
			votes[i] = append(votes[i], p)
		}
	}

	out := make([]int, len(rows))
	for i := range rows {
		out[i] = majorityLabel(votes[i])
	}
	return out, nil
}
