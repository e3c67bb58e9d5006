package export

import "github.com/gridstats/nfl-export/internal/frame"

// Context carries every raw frame an export run fetched, one named slot per
// upstream data kind. It is built once per run, passed into each table
// builder, and discarded when the run finishes; builders never share hidden
// state.
type Context struct {
	PlayerStats   *frame.Frame
	Rosters       *frame.Frame
	WeeklyRosters *frame.Frame
	Injuries      *frame.Frame
	Contracts     *frame.Frame
	SnapCounts    *frame.Frame
	TeamStats     *frame.Frame
	Schedules     *frame.Frame
	Teams         *frame.Frame
	Players       *frame.Frame
	Trades        *frame.Frame

	// StartYear bounds the PlayerMapping last-season filter.
	StartYear int
}
