package dto

import (
	"time"

	"factory-scoring-service/internal/core/domain"
)

type ModelInfoResponse struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Features []string  `json:"features"`
	Classes  []int     `json:"classes"`
	Source   string    `json:"source"`
	Path     string    `json:"path"`
	InputKey string    `json:"input_key"`
	LoadedAt time.Time `json:"loaded_at"`
}

func ToModelInfoResponse(info domain.ModelInfo, inputKey string) ModelInfoResponse {
	features := info.Features
	if features == nil {
		features = []string{}
	}
	classes := info.Classes
	if classes == nil {
		classes = []int{}
	}
	return ModelInfoResponse{
		Name:     info.Name,
		Type:     info.Type,
		Features: features,
		Classes:  classes,
		Source:   string(info.Source),
		Path:     info.Path,
		InputKey: inputKey,
		LoadedAt: info.LoadedAt,
	}
}
