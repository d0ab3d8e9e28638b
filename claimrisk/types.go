package claimrisk

import (
	"encoding/json"
	"math"
	"path/filepath"
	"time"
)

// DecisionThreshold separates HIGH_RISK from LOW_RISK. The comparison is strict.
const DecisionThreshold = 0.5

// RiskLabel is the binary verdict derived from the claim probability.
type RiskLabel string

const (
	// HighRisk means the classifier considers a claim likely.
	HighRisk RiskLabel = "HIGH_RISK"
	// LowRisk means the classifier considers a claim unlikely.
	LowRisk RiskLabel = "LOW_RISK"
)

// Classify maps a claim probability to a risk label.
func Classify(probability float64) RiskLabel {
	if probability > DecisionThreshold {
		return HighRisk
	}
	return LowRisk
}

// InputSet holds the five user controlled parameters after domain checks.
type InputSet struct {
	Tenure          float64 `json:"tenure"`
	VehicleAge      float64 `json:"vehicleAge"`
	HolderAge       int     `json:"holderAge"`
	HolderAgeScaled float64 `json:"holderAgeScaled"`
	AreaCluster     string  `json:"areaCluster"`
	FuelType        string  `json:"fuelType"`
}

// Result is the outcome of a single inference request.
type Result struct {
	RequestID   string        `json:"requestId"`
	Probability float64       `json:"probability"`
	Label       RiskLabel     `json:"label"`
	Inputs      InputSet      `json:"inputs"`
	ModelID     string        `json:"modelId"`
	Elapsed     time.Duration `json:"elapsed"`
}

// ModelKind selects the classifier implementation.
type ModelKind string

const (
	// ModelONNX scores an ONNX export through onnxruntime.
	ModelONNX ModelKind = "onnx"
	// ModelLogistic scores a logistic model described in YAML.
	ModelLogistic ModelKind = "logistic"
)

// ModelConfig wraps the configuration for the classifier artifact.
type ModelConfig struct {
	Kind              ModelKind `json:"kind"`
	Path              string    `json:"path"`
	OrtDLL            string    `json:"ortDll"`
	InputName         string    `json:"inputName"`
	ProbabilityOutput string    `json:"probabilityOutput"`
	ModelID           string    `json:"modelId"`
	DisplayName       string    `json:"displayName"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr"`
	// RateLimit is the predict rate in requests per second. Zero disables limiting.
	RateLimit float64 `json:"rateLimit"`
	Burst     int     `json:"burst"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	File string `json:"file"`
	JSON bool   `json:"json"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	DataPath   string         `json:"dataPath"`
	SchemaPath string         `json:"schemaPath"`
	Columns    ColumnBindings `json:"columns"`
	Model      ModelConfig    `json:"model"`
	Server     ServerConfig   `json:"server"`
	Log        LogConfig      `json:"log"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.DataPath == "" {
		c.DataPath = "./data/insurance_dashboard_final.csv"
	}
	c.Columns = c.Columns.withDefaults()
	if c.Model.Kind == "" {
		c.Model.Kind = ModelONNX
	}
	if c.Model.Path == "" {
		c.Model.Path = "./models/claim_model.onnx"
	}
	if c.Model.ModelID == "" {
		c.Model.ModelID = filepath.Base(c.Model.Path)
	}
	if c.Model.InputName == "" {
		c.Model.InputName = "input"
	}
	if c.Model.ProbabilityOutput == "" {
		c.Model.ProbabilityOutput = "probabilities"
	}
	if c.Model.DisplayName == "" {
		c.Model.DisplayName = "XGBoost"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RateLimit > 0 && c.Server.Burst <= 0 {
		c.Server.Burst = int(math.Ceil(c.Server.RateLimit))
	}
}
