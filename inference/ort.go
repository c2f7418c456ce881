package inference

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/geoscan-ai/go-obb/detection"
	"github.com/geoscan-ai/go-obb/slicing"
)

// ORTEngine runs an oriented-box model through ONNX Runtime with
// preallocated input and output tensors.
type ORTEngine struct {
	config  Config
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewORTEngine creates an ONNX Runtime session for the configured model.
//
// Arguments:
//   - config: Model path, input size and class count.
//
// Returns:
//   - *ORTEngine: The ready engine.
//   - error: An error if the runtime library or the model cannot be loaded.
func NewORTEngine(config Config) (*ORTEngine, error) {
	libPath := config.LibraryPath
	if libPath == "" {
		libPath = getSharedLibPath()
	}
	if _, err := os.Stat(libPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("ONNX Runtime library not found at %s: %w", libPath, err)
	}

	ort.SetSharedLibraryPath(libPath)
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("error initializing ORT environment: %w", err)
	}

	s := config.InputSize
	inputShape := ort.NewShape(1, 3, int64(s), int64(s))
	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("error creating input tensor: %w", err)
	}

	outputShape := ort.NewShape(1, int64(config.OutputChannels()), int64(config.AnchorCount()))
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("error creating output tensor: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("error creating ORT session options: %w", err)
	}
	defer options.Destroy()

	options.SetIntraOpNumThreads(4)
	options.SetInterOpNumThreads(2)
	options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended)

	session, err := ort.NewAdvancedSession(
		config.ModelPath,
		[]string{"images"},
		[]string{"output0"},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("error creating ORT session: %w", err)
	}

	log.Printf("✅ ORT engine initialized with model: %s", config.ModelPath)
	log.Printf("📋 Input shape: %dx%d, %d classes, %d anchors",
		s, s, config.NumClasses, config.AnchorCount())

	return &ORTEngine{
		config:  config,
		session: session,
		input:   inputTensor,
		output:  outputTensor,
	}, nil
}

// Infer runs one tile through the model and returns all anchor candidates.
func (e *ORTEngine) Infer(ctx context.Context, input *slicing.ModelInput) ([]detection.RawCandidate, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	dst := e.input.GetData()
	if len(input.Data) != len(dst) {
		return nil, fmt.Errorf("input buffer holds %d floats, tensor needs %d "+
			"(make sure the tile size matches the model)", len(input.Data), len(dst))
	}
	copy(dst, input.Data)

	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("failed to run inference: %w", err)
	}

	return DecodeOBBOutput(e.output.GetData(), e.config.NumClasses, e.config.AnchorCount())
}

// Close releases the session and its tensors.
func (e *ORTEngine) Close() error {
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	if e.input != nil {
		e.input.Destroy()
		e.input = nil
	}
	if e.output != nil {
		e.output.Destroy()
		e.output = nil
	}
	log.Printf("🔒 ORT engine closed")
	return nil
}

func getSharedLibPath() string {
	if runtime.GOOS == "windows" {
		if runtime.GOARCH == "amd64" {
			return "./third_party/onnxruntime.dll"
		}
	}
	if runtime.GOOS == "darwin" {
		if runtime.GOARCH == "arm64" {
			return "./third_party/onnxruntime_arm64.dylib"
		}
		if runtime.GOARCH == "amd64" {
			return "./third_party/onnxruntime_amd64.dylib"
		}
	}
	if runtime.GOOS == "linux" {
		if runtime.GOARCH == "arm64" {
			return "./third_party/onnxruntime_arm64.so"
		}
		return "./third_party/onnxruntime.so"
	}
	panic("Unable to find a version of the onnxruntime library supporting this system.")
}
