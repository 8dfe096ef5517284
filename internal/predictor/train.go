package predictor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"factory-scoring-service/internal/core/domain"
	ports "factory-scoring-service/internal/core/ports/output"
)

type TrainOptions struct {
	Type      string
	Name      string
	MaxDepth  int
	TreeCount int
	Seed      uint64
}

// Train fits a new predictor of opts.Type on the frame. The frame's columns
// become the predictor's feature order.
func Train(frame *domain.Frame, labels []int, opts TrainOptions) (ports.Predictor, error) {
	if frame.Len() == 0 {
		return nil, domain.ErrEmptyInput
	}
	switch opts.Type {
	case "", TypeDecisionTree:
		tree := NewDecisionTree(opts.Name, frame.Columns)
		if err := tree.Train(frame.Rows, labels, opts.MaxDepth); err != nil {
			return nil, err
		}
		return tree, nil
	case TypeRandomForest:
		forest := NewRandomForest(opts.Name, frame.Columns)
		if err := forest.Train(frame.Rows, labels, opts.TreeCount, opts.MaxDepth, opts.Seed); err != nil {
			return nil, err
		}
		return forest, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedModelType, opts.Type)
	}
}

// ReadCSV reads a headered CSV of numeric columns. The label column must hold
// integral class labels and is returned separately.
func ReadCSV(r io.Reader, labelColumn string) (*domain.Frame, []int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}

	labelIdx := -1
	columns := make([]string, 0, len(head))
	for i, h := range head {
		h = strings.TrimSpace(h)
		if h == labelColumn {
			labelIdx = i
			continue
		}
		columns = append(columns, h)
	}
	if labelIdx == -1 {
		return nil, nil, fmt.Errorf("label column %q not found", labelColumn)
	}

	var rows [][]float64
	var labels []int
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		row := make([]float64, 0, len(columns))
		for i, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d column %q: %w", line, head[i], err)
			}
			if i == labelIdx {
				if v != math.Trunc(v) {
					return nil, nil, fmt.Errorf("line %d: label %v is not a class", line, v)
				}
				labels = append(labels, int(v))
				continue
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}

	frame, err := domain.NewFrame(columns, rows)
	if err != nil {
		return nil, nil, err
	}
	return frame, labels, nil
}
