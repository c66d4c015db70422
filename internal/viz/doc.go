// Package viz renders live scalar fields in the terminal.
//
// [Model] is a Bubble Tea program that acts as the consumer side of a
// coupling run: on every tick it asks a [frame.Builder] for a snapshot newer
// than the one on screen, and draws it as a colormapped [Heatmap] with the
// iso-contours overlaid as braille strokes on a [Canvas].
//
// # Key Bindings
//
//	Space - Pause/Resume pulling snapshots
//	C     - Toggle contour overlay
//	M     - Cycle colormap
//	[ ]   - Shrink/Grow clip range
//	A     - Toggle auto clip
//	Tab   - Cycle displayed field
//	T     - Cycle color themes
//	S     - Save a PNG screenshot
//	?     - Show help overlay
package viz
