package claimrisk

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// OrtClassifier scores rows with an ONNX export of the trained classifier.
// The model takes a float32 tensor of shape [1, n] and emits class
// probabilities of shape [1, 2].
type OrtClassifier struct {
	cfg     ModelConfig
	mu      sync.RWMutex
	session *ort.DynamicAdvancedSession
	width   int64
}

// NewOrtClassifier initializes onnxruntime and opens a session on the model.
func NewOrtClassifier(cfg ModelConfig) (*OrtClassifier, error) {
	if cfg.ModelID == "" {
		cfg.ModelID = filepath.Base(cfg.Path)
	}
	if cfg.OrtDLL != "" {
		ort.SetSharedLibraryPath(cfg.OrtDLL)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("init onnxruntime: %w", err)
		}
	}
	inputs, outputs, err := ort.GetInputOutputInfo(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("inspect model %s: %w", filepath.Base(cfg.Path), err)
	}
	width := int64(-1)
	found := false
	for _, in := range inputs {
		if in.Name != cfg.InputName {
			continue
		}
		if in.DataType != ort.TensorElementDataTypeFloat {
			return nil, fmt.Errorf("model input %q is %v, want float32", in.Name, in.DataType)
		}
		if n := len(in.Dimensions); n > 0 {
			width = in.Dimensions[n-1]
		}
		found = true
	}
	if !found {
		return nil, fmt.Errorf("model has no input named %q", cfg.InputName)
	}
	found = false
	for _, out := range outputs {
		if out.Name == cfg.ProbabilityOutput {
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("model has no output named %q", cfg.ProbabilityOutput)
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.Path,
		[]string{cfg.InputName}, []string{cfg.ProbabilityOutput}, nil)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return &OrtClassifier{cfg: cfg, session: session, width: width}, nil
}

// ModelID returns the identifier of the loaded artifact.
func (o *OrtClassifier) ModelID() string {
	return o.cfg.ModelID
}

// CheckSchema verifies the model's input width matches the declared schema.
// A dynamic width (-1) accepts any schema.
func (o *OrtClassifier) CheckSchema(schema *Schema) error {
	if o.width > 0 && o.width != int64(schema.Len()) {
		return fmt.Errorf("%w: model expects %d features, schema declares %d",
			ErrSchemaMismatch, o.width, schema.Len())
	}
	return nil
}

// PredictProba encodes the row and runs the session. Tensors are allocated per
// call so concurrent requests never share buffers.
func (o *OrtClassifier) PredictProba(ctx context.Context, row FeatureRow) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.session == nil {
		return nil, errors.New("classifier is closed")
	}
	vec, err := row.Encode()
	if err != nil {
		return nil, err
	}
	input, err := ort.NewTensor(ort.NewShape(1, int64(len(vec))), vec)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer input.Destroy()
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 2))
	if err != nil {
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	defer output.Destroy()
	if err := o.session.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}
	data := output.GetData()
	out := make([]float64, len(data))
	for i, p := range data {
		out[i] = float64(p)
	}
	return out, nil
}

// Close releases ORT resources.
func (o *OrtClassifier) Close() error {
	if o == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session == nil {
		return nil
	}
	err := o.session.Destroy()
	o.session = nil
	if envErr := ort.DestroyEnvironment(); envErr != nil && err == nil {
		err = envErr
	}
	return err
}
