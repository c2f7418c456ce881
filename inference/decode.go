package inference

import (
	"fmt"

	"github.com/geoscan-ai/go-obb/detection"
)

// DecodeOBBOutput converts a raw oriented-box model output into fixed-width
// candidate records.
//
// The output tensor layout is channel-major over anchors:
//
//	[cx, cy, w, h, class_0 .. class_{n-1}, angle] x anchors
//
// Each anchor's confidence is the maximum class score, its class the argmax.
// Every anchor is emitted; the pipeline applies the confidence floor.
//
// A buffer whose length does not match the expected shape is a malformed
// engine result and fails rather than decoding to garbage or silently
// truncating: a model exported with a different class count must surface as
// an error, not as zero detections.
//
// Arguments:
//   - data: The flattened output tensor, channels*anchors floats.
//   - numClasses: The number of class-score channels.
//   - anchors: The number of anchors per channel.
//
// Returns:
//   - []detection.RawCandidate: One record per anchor.
//   - error: An error if the buffer length does not match the shape.
func DecodeOBBOutput(data []float32, numClasses, anchors int) ([]detection.RawCandidate, error) {
	channels := 4 + numClasses + 1
	if len(data) != channels*anchors {
		return nil, fmt.Errorf("malformed model output: %d floats, expected %d (%d channels x %d anchors)",
			len(data), channels*anchors, channels, anchors)
	}
	angleRow := channels - 1

	candidates := make([]detection.RawCandidate, 0, anchors)
	for i := 0; i < anchors; i++ {
		score := float32(0)
		classID := 0
		for c := 0; c < numClasses; c++ {
			if s := data[(4+c)*anchors+i]; s > score {
				score = s
				classID = c
			}
		}

		candidates = append(candidates, detection.RawCandidate{
			data[0*anchors+i],
			data[1*anchors+i],
			data[2*anchors+i],
			data[3*anchors+i],
			data[angleRow*anchors+i],
			score,
			float32(classID),
		})
	}
	return candidates, nil
}
