package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BojarLab/GlycoGauntlet/pkg/types"
)

func WriteJSON(path string, s types.RunSummary) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// ReadJSON loads a summary previously written by WriteJSON.
func ReadJSON(path string) (types.RunSummary, error) {
	var s types.RunSummary
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read results %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("parse results %s: %w", path, err)
	}
	return s, nil
}
