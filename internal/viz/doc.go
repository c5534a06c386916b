// Package viz draws an orbital session onto any 2D surface.
//
// [DrawScene] renders one frame: the red centre line, orbit outlines
// (planets purple, moons blue), every body with its glow halo, the centre
// dot, and in edit mode the add-orbit preview and a pulsing banner. The
// raylib window and the braille [Canvas] both implement [Surface].
//
// Colours come from a [Theme]; the lipgloss styles in this package dress the
// terminal status line and spectrum meter.
package viz
