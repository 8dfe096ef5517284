package ports

// Predictor is a loaded, read-only classifier.
type Predictor interface {
	Type() string
	Name() string
	// Features is the column order Predict expects.
	Features() []string
	Classes() []int
	Predict(rows [][]float64) ([]int, error)
}

// PredictorDecoder turns serialized artifact bytes into a Predictor.
type PredictorDecoder interface {
	Decode(data []byte) (Predictor, error)
}
