// Package viz renders reaction networks and simulated trajectories in the
// terminal.
//
//   - [PlotTrajectory]: asciigraph line chart of selected species
//   - [RenderNetwork]: reaction listing with rate laws and diagnostics
//   - [RenderSummary]: per-species table from [analysis.Summarize]
//   - [Replay]: Bubble Tea viewer that steps through a stored trajectory
//   - [Canvas]: Braille pixel canvas used for phase portraits
//
// # Replay Key Bindings
//
//	Space - Pause/Resume playback
//	←/→   - Step one sample
//	+/-   - Change playback speed
//	Tab   - Cycle the phase portrait pair
//	T     - Cycle color themes
//	R     - Rewind
//	Q     - Quit
package viz
