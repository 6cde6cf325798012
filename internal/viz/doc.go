// Package viz is the interactive terminal host for the particle engine.
//
// [Model] is a Bubble Tea program that renders particles onto a braille
// [Canvas] and advances physics from a fixed-timestep [sim.Clock], so the
// simulated rate stays at 1/dt regardless of the frame rate.
//
// # Key Bindings
//
//	Space   - Pause/Resume (the clock keeps draining)
//	G / H   - Gravity on / off
//	C / V   - Collisions on / off
//	M       - Toggle the attractor
//	Mouse   - Hold the left button to attract toward the pointer
//	WASD    - Move the attractor target (arrows work too)
//	R       - Respawn all particles
//	T       - Cycle color themes
//	?       - Show help overlay
//	Q / Esc - Quit
//
// The attractor follows a spring-smoothed copy of the target so keyboard
// moves glide instead of jumping.
package viz
