// Package predictor evaluates the trained fair-price model over extracted
// bike records. The model is a random-forest regressor trained offline and
// exported to JSON together with the label-encoder tables for the categorical
// fields; this package only loads and traverses the artifacts, it does not
// train anything.
package predictor

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"bike-deal-monitor/models"
	"bike-deal-monitor/utils"
)

// node is one decision node in a regression tree, stored in a flat array.
// Feature -1 marks a leaf.
type node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

type tree struct {
	Nodes []node `json:"nodes"`
}

// forest is the exported random-forest artifact.
type forest struct {
	FeatureNames []string `json:"feature_names"`
	Trees        []tree   `json:"trees"`
}

// Predictor maps a BikeRecord to a predicted fair price using the exported
// model and encoder artifacts.
type Predictor struct {
	model    forest
	encoders map[string]map[string]int
	logger   *utils.Logger
}

// New loads both artifacts. A missing or malformed artifact is a startup
// error; the monitor must not enter its loop without a working predictor.
func New(modelPath, encodersPath string, logger *utils.Logger) (*Predictor, error) {
	p := &Predictor{logger: logger}

	if err := loadJSON(modelPath, &p.model); err != nil {
		return nil, fmt.Errorf("predictor: load model: %w", err)
	}
	if len(p.model.Trees) == 0 {
		return nil, fmt.Errorf("predictor: model %q contains no trees", modelPath)
	}
	if len(p.model.FeatureNames) == 0 {
		return nil, fmt.Errorf("predictor: model %q declares no features", modelPath)
	}

	if err := loadJSON(encodersPath, &p.encoders); err != nil {
		return nil, fmt.Errorf("predictor: load encoders: %w", err)
	}

	return p, nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %q: %w", path, err)
	}
	return nil
}

// Predict returns the predicted fair price for the record. Callers treat an
// error as "predicted price 0" per the monitor's failure policy.
func (p *Predictor) Predict(bike *models.BikeRecord) (float64, error) {
	features, err := p.featureVector(bike)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := range p.model.Trees {
		v, err := p.model.Trees[i].predict(features)
		if err != nil {
			return 0, fmt.Errorf("predictor: tree %d: %w", i, err)
		}
		sum += v
	}
	return sum / float64(len(p.model.Trees)), nil
}

// featureVector assembles the features in the order the model was trained on.
func (p *Predictor) featureVector(bike *models.BikeRecord) ([]float64, error) {
	features := make([]float64, len(p.model.FeatureNames))
	for i, name := range p.model.FeatureNames {
		switch name {
		case "Year":
			features[i] = float64(bike.Year)
		case "Kilometers":
			features[i] = float64(bike.Kilometers)
		case "CC":
			features[i] = float64(bike.CC)
		case "HP":
			features[i] = float64(bike.HP)
		case "Brand":
			features[i] = float64(p.encode("Brand", bike.Brand))
		case "Model":
			features[i] = float64(p.encode("Model", bike.Model))
		default:
			return nil, fmt.Errorf("predictor: model expects unknown feature %q", name)
		}
	}
	return features, nil
}

// encode maps a categorical value through its label-encoder table. A value
// the encoder never saw during training falls back to index 0; that index is
// not guaranteed to be neutral, so the fallback is logged rather than applied
// silently.
func (p *Predictor) encode(field, value string) int {
	table, ok := p.encoders[field]
	if !ok {
		p.logger.Warn("[predict] No encoder table for field %s — using 0", field)
		return 0
	}
	idx, ok := table[strings.TrimSpace(value)]
	if !ok {
		p.logger.Warn("[predict] Unseen %s category %q — falling back to index 0", field, value)
		return 0
	}
	return idx
}

// predict walks the flat node array from the root until a leaf.
func (t *tree) predict(features []float64) (float64, error) {
	idx := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, fmt.Errorf("node index %d out of range", idx)
		}
		n := t.Nodes[idx]
		if n.Feature < 0 {
			return n.Value, nil
		}
		if n.Feature >= len(features) {
			return 0, fmt.Errorf("node %d references feature %d of %d", idx, n.Feature, len(features))
		}
		if features[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
	return 0, fmt.Errorf("tree traversal did not terminate")
}
