// Package pose holds body keypoint types and the frame-to-frame movement score.
package pose

// Joint indexes a keypoint in MoveNet order.
type Joint int

const (
	Nose Joint = iota
	LeftEye
	RightEye
	LeftEar
	RightEar
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
)

// NumJoints is the number of keypoints in a Pose.
const NumJoints = 17

// MinConfidence is the exclusive lower bound a keypoint must exceed to be
// drawn or scored.
const MinConfidence = 0.3

var jointNames = [NumJoints]string{
	"nose", "left_eye", "right_eye", "left_ear", "right_ear",
	"left_shoulder", "right_shoulder", "left_elbow", "right_elbow",
	"left_wrist", "right_wrist", "left_hip", "right_hip",
	"left_knee", "right_knee", "left_ankle", "right_ankle",
}

func (j Joint) String() string {
	if j < 0 || int(j) >= NumJoints {
		return "unknown"
	}
	return jointNames[j]
}

type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"score"`
}

// Visible reports whether the keypoint clears MinConfidence.
func (k Keypoint) Visible() bool {
	return k.Confidence > MinConfidence
}

// Pose is one tracked subject. Keypoints are indexed by Joint.
type Pose struct {
	Keypoints [NumJoints]Keypoint `json:"keypoints"`
}

func (p Pose) At(j Joint) Keypoint {
	return p.Keypoints[j]
}
