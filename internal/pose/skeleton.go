package pose

// Bone connects two anatomically adjacent joints.
type Bone struct {
	From, To Joint
}

var bones = []Bone{
	{Nose, LeftEye}, {Nose, RightEye}, {LeftEye, LeftEar}, {RightEye, RightEar},
	{LeftShoulder, RightShoulder}, {LeftShoulder, LeftElbow}, {RightShoulder, RightElbow},
	{LeftElbow, LeftWrist}, {RightElbow, RightWrist},
	{LeftShoulder, LeftHip}, {RightShoulder, RightHip}, {LeftHip, RightHip},
	{LeftHip, LeftKnee}, {RightHip, RightKnee}, {LeftKnee, LeftAnkle}, {RightKnee, RightAnkle},
}

func Bones() []Bone {
	out := make([]Bone, len(bones))
	copy(out, bones)
	return out
}

type Point struct {
	X, Y float64
}

type Segment struct {
	From, To Point
}

// Skeleton is the overlay geometry for one frame.
type Skeleton struct {
	Points   []Point
	Segments []Segment
}

// Overlay builds the skeleton to draw for the given poses: a point per visible
// keypoint and a segment per bone whose both ends are visible.
func Overlay(poses []Pose) Skeleton {
	var sk Skeleton
	for _, p := range poses {
		for _, k := range p.Keypoints {
			if k.Visible() {
				sk.Points = append(sk.Points, Point{k.X, k.Y})
			}
		}
		for _, b := range bones {
			a, z := p.Keypoints[b.From], p.Keypoints[b.To]
			if a.Visible() && z.Visible() {
				sk.Segments = append(sk.Segments, Segment{Point{a.X, a.Y}, Point{z.X, z.Y}})
			}
		}
	}
	return sk
}
