// Package animation evaluates keyframed node properties.
//
// A Property is an ordered track of keyframes for one (node, property)
// pair. Evaluation clamps outside the keyed range and, between two
// keyframes, eases the normalized position with the curve of the earlier
// keyframe before blending the two values with value.Lerp.
package animation
