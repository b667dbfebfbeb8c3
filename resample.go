package btcfolio

// DefaultResample is the number of points a chart is usually given.
const DefaultResample = 50

// Resample thins points for display: it keeps every k-th element, with
// k = len(points)/target (at least 1), and always keeps the last element.
//
// Resampling is a presentation transform, it is never applied by the Engine.
func Resample[T any](points []T, target int) []T {
	if len(points) == 0 || target <= 0 {
		return points
	}
	k := max(1, len(points)/target)
	if k == 1 {
		return points
	}
	out := make([]T, 0, len(points)/k+1)
	for i := 0; i < len(points); i += k {
		out = append(out, points[i])
	}
	if (len(points)-1)%k != 0 {
		out = append(out, points[len(points)-1])
	}
	return out
}
