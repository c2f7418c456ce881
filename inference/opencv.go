package inference

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/geoscan-ai/go-obb/detection"
	"github.com/geoscan-ai/go-obb/slicing"
)

// DNNEngine runs an oriented-box model through the OpenCV DNN backend. It is
// the fallback adapter for deployments without the ONNX Runtime shared
// library.
type DNNEngine struct {
	config Config
	mu     sync.Mutex
	net    gocv.Net
}

// NewDNNEngine loads the configured model via gocv.ReadNet().
func NewDNNEngine(config Config) (*DNNEngine, error) {
	if _, err := os.Stat(config.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", config.ModelPath)
	}

	net := gocv.ReadNet(config.ModelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model: %s (model may be incompatible with OpenCV DNN)", config.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendOpenCV)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	log.Printf("✅ DNN engine initialized with model: %s", config.ModelPath)
	log.Printf("📋 Input shape: %dx%d, %d classes", config.InputSize, config.InputSize, config.NumClasses)

	return &DNNEngine{config: config, net: net}, nil
}

// Infer runs one tile through the network and returns all anchor candidates.
// The net holds shared state, so calls are serialized.
func (e *DNNEngine) Infer(ctx context.Context, input *slicing.ModelInput) ([]detection.RawCandidate, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.config.InputSize
	if len(input.Data) != 3*s*s {
		return nil, fmt.Errorf("input buffer holds %d floats, model needs %d", len(input.Data), 3*s*s)
	}

	blob, err := gocv.NewMatWithSizesFromBytes([]int{1, 3, s, s}, gocv.MatTypeCV32F, floatsToBytes(input.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to build input blob: %w", err)
	}
	defer blob.Close()

	e.net.SetInput(blob, "")
	out := e.net.Forward("")
	defer out.Close()
	if out.Empty() {
		return nil, fmt.Errorf("inference returned empty output")
	}

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read output tensor: %w", err)
	}
	channels := e.config.OutputChannels()
	if len(data) == 0 || len(data)%channels != 0 {
		return nil, fmt.Errorf("malformed model output: %d floats is not a whole number of %d-channel anchors (check the model's class count)",
			len(data), channels)
	}

	return DecodeOBBOutput(data, e.config.NumClasses, len(data)/channels)
}

// Close releases the network.
func (e *DNNEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.net.Empty() {
		e.net.Close()
	}
	log.Printf("🔒 DNN engine closed")
	return nil
}

// floatsToBytes packs the planar buffer into the little-endian byte layout
// gocv expects for CV32F mats.
func floatsToBytes(data []float32) []byte {
	b := make([]byte, len(data)*4)
	for i, f := range data {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}
