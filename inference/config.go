package inference

// Config holds model parameters shared by the engine adapters.
type Config struct {
	// ModelPath locates the ONNX model file.
	ModelPath string `json:"model_path"`
	// InputSize is the square model input size S.
	InputSize int `json:"input_size"`
	// NumClasses is the size of the model's label set.
	NumClasses int `json:"num_classes"`
	// LibraryPath optionally overrides the ONNX Runtime shared library
	// location. Ignored by the OpenCV adapter.
	LibraryPath string `json:"library_path,omitempty"`
}

// DefaultConfig returns parameters for a YOLOv8-OBB model on aerial classes.
func DefaultConfig() Config {
	return Config{
		InputSize:  1024,
		NumClasses: 15,
	}
}

// OutputChannels is the per-anchor record width of an oriented-box model:
// cx, cy, w, h, one score per class, and a trailing angle channel.
func (c Config) OutputChannels() int {
	return 4 + c.NumClasses + 1
}

// AnchorCount is the number of candidate anchors produced for input size S,
// summed over the model's three stride-8/16/32 feature levels.
func (c Config) AnchorCount() int {
	s := c.InputSize
	return (s/8)*(s/8) + (s/16)*(s/16) + (s/32)*(s/32)
}
