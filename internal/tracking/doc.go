// Package tracking estimates target position and velocity from
// bearing-only measurements with an unscented Kalman filter.
//
// Responsibilities: the constant-velocity motion model and bearing
// measurement function, Merwe scaled sigma points, and the UKF
// predict/update recursion with divergence detection.
// Key types: MotionModel, SigmaParams, SigmaPointSet, UKF, Params.
//
// State layout is [x, y, vx, vy]. A UKF is owned by one caller and is not
// safe for concurrent use.
package tracking
