// Package viz replays computed trajectories in the terminal.
//
//   - [Canvas]: braille dot canvas, two by four dots per cell
//   - [Replay]: Bubble Tea model stepping through a trajectory
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	R      - Restart from the first point
//	← / →  - Step back/forward while paused
//	+ / -  - Faster/slower playback
//	Q      - Quit
package viz
