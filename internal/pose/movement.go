package pose

import "math"

type scoredJoint struct {
	joint  Joint
	weight float64
}

// Face and hip joints are left out: they are noisy and carry little signal
// for the exercises scored here.
var scoredJoints = []scoredJoint{
	{LeftWrist, 1.5}, {RightWrist, 1.5},
	{LeftElbow, 1.0}, {RightElbow, 1.0},
	{LeftShoulder, 1.0}, {RightShoulder, 1.0},
	{LeftKnee, 1.0}, {RightKnee, 1.0},
	{LeftAnkle, 1.3}, {RightAnkle, 1.3},
}

// ScoredJoints returns the joints Movement looks at, with their weights.
func ScoredJoints() map[Joint]float64 {
	out := make(map[Joint]float64, len(scoredJoints))
	for _, sj := range scoredJoints {
		out[sj.joint] = sj.weight
	}
	return out
}

// Movement sums the weighted pixel displacement of the scored joints between
// two consecutive detections. Subjects are paired by index. A joint counts
// only when it is visible in both frames. The result is not normalized.
func Movement(current, previous []Pose) float64 {
	if len(previous) == 0 {
		return 0
	}
	total := 0.0
	for i := range current {
		if i >= len(previous) {
			break
		}
		cur, prev := &current[i], &previous[i]
		for _, sj := range scoredJoints {
			c, p := cur.Keypoints[sj.joint], prev.Keypoints[sj.joint]
			if !c.Visible() || !p.Visible() {
				continue
			}
			total += math.Hypot(c.X-p.X, c.Y-p.Y) * sj.weight
		}
	}
	return total
}
