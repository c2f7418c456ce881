package detection

// RawCandidate is one fixed-width record produced by an inference engine, in
// model-input pixel space:
//
//	[cx, cy, width, height, angle, confidence, classID]
//
// Confidence is in [0, 1] and classID is a non-negative integer index.
type RawCandidate [7]float32

// Candidate field accessors.
func (c RawCandidate) CX() float32         { return c[0] }
func (c RawCandidate) CY() float32         { return c[1] }
func (c RawCandidate) Width() float32      { return c[2] }
func (c RawCandidate) Height() float32     { return c[3] }
func (c RawCandidate) Angle() float32      { return c[4] }
func (c RawCandidate) Confidence() float32 { return c[5] }
func (c RawCandidate) ClassID() int        { return int(c[6]) }

// FromRawCandidates filters raw engine candidates by a confidence floor and
// converts the survivors into Detection records. The coordinates stay in
// model-input space; mapping back to source-image space is the caller's job.
//
// An empty candidate slice is a valid input meaning "no detections", not an
// error.
//
// Arguments:
//   - candidates: Raw per-anchor records from the engine.
//   - confidenceFloor: Candidates scoring below this are dropped.
//
// Returns:
//   - []Detection: The surviving detections, in candidate order.
func FromRawCandidates(candidates []RawCandidate, confidenceFloor float32) []Detection {
	detections := make([]Detection, 0, len(candidates))
	for _, c := range candidates {
		if c.Confidence() < confidenceFloor {
			continue
		}
		detections = append(detections, Detection{
			ClassID:    c.ClassID(),
			ClassName:  ClassName(c.ClassID()),
			Confidence: c.Confidence(),
			CX:         c.CX(),
			CY:         c.CY(),
			W:          c.Width(),
			H:          c.Height(),
			Angle:      c.Angle(),
		})
	}
	return detections
}
