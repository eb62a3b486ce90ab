// Package images - Image geometry and decoding utilities.
package images

// Rect is a lightweight axis-aligned bounding box in corner format.
// Decoder output keeps coordinates normalized to [0, 1].
type Rect struct {
	X1, Y1, X2, Y2 float32
}

// Width returns the width of the box.
func (r Rect) Width() float32 { return r.X2 - r.X1 }

// Height returns the height of the box.
func (r Rect) Height() float32 { return r.Y2 - r.Y1 }

// Area returns the area of the box. Degenerate boxes (X2 < X1 or Y2 < Y1)
// yield a negative value, which CalculateIoU treats as zero-area.
func (r Rect) Area() float32 { return r.Width() * r.Height() }

// CalculateIoU computes the Intersection over Union of two boxes.
//
// The intersection corners are the max of the starting corners and the min of
// the ending corners. Non-overlapping boxes produce a non-positive
// intersection width or height and score 0. The union follows
// inclusion-exclusion: Area(r) + Area(o) - intersection.
//
// Arguments:
//   - r: The first box.
//   - o: The other box.
//
// Returns:
//   - float32: A value in [0.0, 1.0]. Degenerate unions (union <= 0) return 0
//     rather than dividing by zero.
func CalculateIoU(r, o Rect) float32 {
	ix1 := max(r.X1, o.X1)
	iy1 := max(r.Y1, o.Y1)
	ix2 := min(r.X2, o.X2)
	iy2 := min(r.Y2, o.Y2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0.0
	}
	interArea := interW * interH

	unionArea := r.Area() + o.Area() - interArea
	if unionArea <= 0 {
		return 0.0
	}

	return interArea / unionArea
}
