package game

import (
	"fmt"
	"io"

	"github.com/pthm-cable/coop/systems"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logWorldState logs the current flock state.
func (g *Game) logWorldState() {
	var idle, flocking, following int
	for _, u := range g.units {
		switch u.ctrl.State() {
		case systems.StateIdle:
			idle++
		case systems.StateFlocking:
			flocking++
		case systems.StateFollowing:
			following++
		}
	}

	k := g.keeper.pos
	Logf("=== Tick %d ===", g.tick)
	Logf("Flock: %d (idle: %d, flocking: %d, following: %d)",
		len(g.units), idle, flocking, following)
	Logf("Keeper: (%.1f, %.1f), registry: %d", k.X, k.Z, g.registry.Len())
	Logf("")
}
