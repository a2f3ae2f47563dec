// Package session holds the state of one map being annotated: the uploaded
// floor plan, the latest detected shelf set, the host's pins and pin mode.
//
// Detection runs are exclusive per session. An upload during a run does not
// wait for it; instead the run notices on completion that the image changed
// and discards its result with ErrSuperseded, so a shelf set is never paired
// with the wrong image.
package session
