// Package dashboard renders the live server status panel.
//
// A Collector takes one StatusRecord from a DataSource, isolating per-entity
// count failures. BuildPanel turns that record plus the current spinner
// frame into a ui.Panel, and a Session keeps the panel on screen: one full
// draw after the first snapshot, in-place redraws on every animation tick,
// and a full redraw whenever the terminal is resized.
//
// Sessions never refresh their snapshot. The panel shows the data store as
// it was when the session started.
package dashboard
