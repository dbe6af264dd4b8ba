package models

import "github.com/golang/geo/r3"

// JointName identifies a tracked skeleton joint.
type JointName string

// Tracked joints. Coordinate convention: X lateral (subject's right positive),
// Y vertical (up positive), Z sagittal (forward positive), meters.
const (
	JointHead          JointName = "head"
	JointNeck          JointName = "neck"
	JointSpineShoulder JointName = "spine_shoulder"
	JointSpineMid      JointName = "spine_mid"
	JointSpineBase     JointName = "spine_base"
	JointShoulderLeft  JointName = "shoulder_left"
	JointShoulderRight JointName = "shoulder_right"
	JointElbowLeft     JointName = "elbow_left"
	JointElbowRight    JointName = "elbow_right"
	JointWristLeft     JointName = "wrist_left"
	JointWristRight    JointName = "wrist_right"
	JointHipLeft       JointName = "hip_left"
	JointHipRight      JointName = "hip_right"
	JointKneeLeft      JointName = "knee_left"
	JointKneeRight     JointName = "knee_right"
	JointAnkleLeft     JointName = "ankle_left"
	JointAnkleRight    JointName = "ankle_right"
	JointFootLeft      JointName = "foot_left"
	JointFootRight     JointName = "foot_right"
)

// JointFrame is one body-tracker snapshot: named 3D joint positions plus a
// monotonic timestamp in seconds. Joints may be a partial subset when the
// tracker loses sight of part of the body.
type JointFrame struct {
	Timestamp float64                 `json:"timestamp"`
	Joints    map[JointName]r3.Vector `json:"joints"`
}

// Joint returns the position of a joint and whether it is present in the frame.
func (f *JointFrame) Joint(name JointName) (r3.Vector, bool) {
	v, ok := f.Joints[name]
	return v, ok
}

// HasJoints reports whether every named joint is present.
func (f *JointFrame) HasJoints(names ...JointName) bool {
	for _, n := range names {
		if _, ok := f.Joints[n]; !ok {
			return false
		}
	}
	return true
}

// MidPoint returns the midpoint of two joints, or false if either is missing.
func (f *JointFrame) MidPoint(a, b JointName) (r3.Vector, bool) {
	va, okA := f.Joints[a]
	vb, okB := f.Joints[b]
	if !okA || !okB {
		return r3.Vector{}, false
	}
	return va.Add(vb).Mul(0.5), true
}
