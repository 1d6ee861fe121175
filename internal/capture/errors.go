package capture

import (
	"errors"
	"fmt"
)

// Device error kinds. Each one halts the loop and is shown to the user.
var (
	ErrCameraUnsupported = errors.New("camera api not available")
	ErrPermissionDenied  = errors.New("camera permission denied")
	ErrDeviceNotFound    = errors.New("camera not found")
	ErrDeviceInUse       = errors.New("camera in use by another application")
	ErrModelLoad         = errors.New("pose model failed to load")
	ErrCameraFailure     = errors.New("camera failure")
)

// ErrStreamEnded is returned by Camera.Read once the stream is no longer live.
var ErrStreamEnded = errors.New("stream ended")

var deviceKinds = []error{
	ErrCameraUnsupported, ErrPermissionDenied, ErrDeviceNotFound,
	ErrDeviceInUse, ErrModelLoad, ErrCameraFailure,
}

var remedies = map[error]string{
	ErrCameraUnsupported: "This browser does not support camera access. Try a recent Chrome, Edge or Safari.",
	ErrPermissionDenied:  "Camera access was denied. Allow camera access in your browser settings and reload the page.",
	ErrDeviceNotFound:    "No camera was found. Connect a camera and reload the page.",
	ErrDeviceInUse:       "The camera is being used by another application. Close it and reload the page.",
	ErrModelLoad:         "The AI model could not be loaded. Reload the page.",
	ErrCameraFailure:     "The camera could not be started. Reload the page.",
}

// DeviceError is a fatal setup failure with user-facing remediation copy.
type DeviceError struct {
	Kind  error
	Cause error
}

func (e *DeviceError) Error() string {
	if e.Cause == nil || e.Cause == e.Kind {
		return "capture: " + e.Kind.Error()
	}
	return fmt.Sprintf("capture: %v: %v", e.Kind, e.Cause)
}

func (e *DeviceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Remedy returns the message to show the user.
func (e *DeviceError) Remedy() string {
	return remedies[e.Kind]
}

// classify maps a camera open error onto a device error kind. Errors that
// already carry a kind keep it; anything else is a generic camera failure.
func classify(err error) *DeviceError {
	var de *DeviceError
	if errors.As(err, &de) {
		return de
	}
	for _, k := range deviceKinds {
		if errors.Is(err, k) {
			return &DeviceError{Kind: k, Cause: err}
		}
	}
	return &DeviceError{Kind: ErrCameraFailure, Cause: err}
}
