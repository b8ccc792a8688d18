package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/coop/systems"
)

var (
	colorGrass    = rl.Color{R: 96, G: 128, B: 56, A: 255}
	colorFence    = rl.Color{R: 120, G: 84, B: 48, A: 255}
	colorRock     = rl.Color{R: 128, G: 128, B: 132, A: 255}
	colorTrough   = rl.Color{R: 70, G: 110, B: 160, A: 255}
	colorKeeper   = rl.Color{R: 230, G: 200, B: 60, A: 255}
	colorIdle     = rl.Color{R: 235, G: 235, B: 225, A: 255}
	colorFlock    = rl.Color{R: 250, G: 160, B: 80, A: 255}
	colorFollow   = rl.Color{R: 240, G: 90, B: 70, A: 255}
	colorDebug    = rl.Color{R: 255, G: 255, B: 255, A: 60}
	colorHUDPanel = rl.Color{R: 20, G: 25, B: 30, A: 200}
)

// Draw renders the game state.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 40, G: 44, B: 38, A: 255})

	g.drawYard()
	g.drawObstacles()
	if g.debugMode {
		g.drawDebugOverlay()
	}
	g.drawChickens()
	g.drawKeeper()
	g.drawUI()

	rl.EndDrawing()
}

// worldPixels maps a yard position (centered, world units) to pre-camera
// world pixels, the space the camera operates in.
func (g *Game) worldPixels(p r3.Vec) (float32, float32) {
	wx := float32((p.X + g.worldW/2) * g.ppu)
	wy := float32((p.Z + g.worldD/2) * g.ppu)
	return wx, wy
}

// worldToScreen maps a yard position (centered, world units) to screen pixels.
func (g *Game) worldToScreen(p r3.Vec) (float32, float32) {
	return g.cam.WorldToScreen(g.worldPixels(p))
}

// scale converts a length in world units to screen pixels at the current zoom.
func (g *Game) scale(d float64) float32 {
	return float32(d*g.ppu) * g.cam.Zoom
}

func (g *Game) drawYard() {
	x0, y0 := g.worldToScreen(r3.Vec{X: -g.worldW / 2, Z: -g.worldD / 2})
	x1, y1 := g.worldToScreen(r3.Vec{X: g.worldW / 2, Z: g.worldD / 2})
	rl.DrawRectangle(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0), colorGrass)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 3, colorFence)
}

func (g *Game) drawObstacles() {
	for _, o := range g.obstacles.Obstacles() {
		sx, sy := g.worldToScreen(o.Center)
		r := g.scale(o.Radius)
		c := colorRock
		switch {
		case o.Layers&systems.LayerTrough != 0:
			c = colorTrough
		case o.Layers&systems.LayerFence != 0:
			c = colorFence
		}
		rl.DrawCircle(int32(sx), int32(sy), r, c)
		rl.DrawCircleLines(int32(sx), int32(sy), r, rl.Color{R: 0, G: 0, B: 0, A: 80})
	}
}

// drawChickens draws each chicken as a triangle pointing along its heading,
// colored by behavior state.
func (g *Game) drawChickens() {
	bodyLen := g.scale(0.6)
	bodyHalf := g.scale(0.35)
	// Culling happens in world pixels, before the camera transform.
	cullRadius := float32(0.6 * g.ppu)

	for _, u := range g.units {
		wx, wy := g.worldPixels(u.pos)
		if !g.cam.IsVisible(wx, wy, cullRadius) {
			continue
		}
		sx, sy := g.cam.WorldToScreen(wx, wy)

		var c rl.Color
		switch u.ctrl.State() {
		case systems.StateFlocking:
			c = colorFlock
		case systems.StateFollowing:
			c = colorFollow
		default:
			c = colorIdle
		}

		// Heading in screen space; world Z maps to screen Y directly.
		fx := float32(u.fwd.X)
		fy := float32(u.fwd.Z)
		if fx == 0 && fy == 0 {
			fx = 1
		}
		// Perpendicular for the base corners
		px, py := -fy, fx

		tip := rl.Vector2{X: sx + fx*bodyLen, Y: sy + fy*bodyLen}
		left := rl.Vector2{X: sx - fx*bodyHalf + px*bodyHalf, Y: sy - fy*bodyHalf + py*bodyHalf}
		right := rl.Vector2{X: sx - fx*bodyHalf - px*bodyHalf, Y: sy - fy*bodyHalf - py*bodyHalf}

		rl.DrawTriangle(tip, left, right, c)
	}
}

func (g *Game) drawKeeper() {
	sx, sy := g.worldToScreen(g.keeper.pos)
	r := g.scale(0.5)
	rl.DrawCircle(int32(sx), int32(sy), r, colorKeeper)
	rl.DrawCircleLines(int32(sx), int32(sy), r, rl.Color{R: 0, G: 0, B: 0, A: 120})
}

// drawDebugOverlay draws neighbor radii and steering targets.
func (g *Game) drawDebugOverlay() {
	for _, u := range g.units {
		sx, sy := g.worldToScreen(u.pos)
		rl.DrawCircleLines(int32(sx), int32(sy), g.scale(g.tuning.NeighborRadius), colorDebug)

		tx, ty := g.worldToScreen(u.ctrl.TargetPoint())
		rl.DrawLine(int32(sx), int32(sy), int32(tx), int32(ty), colorDebug)
	}
}

// drawUI draws the HUD panel and controls.
func (g *Game) drawUI() {
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

	rl.DrawRectangle(10, 10, 250, 118, colorHUDPanel)
	rl.DrawText("Chicken Coop", 20, 18, 20, rl.RayWhite)
	rl.DrawText(fmt.Sprintf("Flock: %d  Tick: %d  FPS: %d", len(g.units), g.tick, rl.GetFPS()), 20, 44, 14, rl.LightGray)
	rl.DrawText(fmt.Sprintf("Idle: %d  Flock: %d  Follow: %d", idle, flocking, following), 20, 62, 14, rl.LightGray)

	label := "Pause"
	if g.paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: 20, Y: 82, Width: 70, Height: 22}, label) {
		g.paused = !g.paused
	}

	speed := gui.SliderBar(
		rl.Rectangle{X: 120, Y: 82, Width: 100, Height: 22},
		"1x", "10x",
		float32(g.speed), 1, 10,
	)
	g.speed = int(speed + 0.5)
	if g.speed < 1 {
		g.speed = 1
	}

	rl.DrawText("SPACE: Pause | < >: Speed | C/X: Add/Remove | D: Debug | Arrows: Pan | +/-: Zoom",
		20, int32(rl.GetScreenHeight())-24, 12, rl.LightGray)
}
