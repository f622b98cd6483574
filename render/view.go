package render

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/parameter"
	"github.com/Mefin-SR/FlowtrixGame/session"
	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

const (
	// hudRows are reserved at the top for the score line
	hudRows = 1
	// statusRows are reserved at the bottom for the status bar
	statusRows = 1
	// cellAspect widens the horizontal axis so lanes are not squashed by tall terminal cells
	cellAspect = 2.0
	// floorHalfWidth is half the drawn platform width in world units
	floorHalfWidth = (parameter.MaxLane - parameter.MinLane + 1) * parameter.LaneDistance / 2
)

// View draws a top-down window of the track around the runner, with the runner facing up
type View struct {
	screen tcell.Screen
	scale  float64
	behind int

	// score is pushed by the coin spawner as a ScoreSink
	score atomic.Int64

	width  int
	height int
}

// NewView creates a view drawing on screen
func NewView(screen tcell.Screen, cfg config.RenderConfig) *View {
	scale := cfg.Scale
	if scale <= 0 {
		scale = parameter.ViewScale
	}
	behind := cfg.Behind
	if behind < 0 {
		behind = 0
	}
	v := &View{
		screen: screen,
		scale:  scale,
		behind: behind,
	}
	v.UpdateDimensions()
	return v
}

// SetScore receives score updates from coin collection
func (v *View) SetScore(score int) {
	v.score.Store(int64(score))
}

// Score returns the score currently shown in the HUD
func (v *View) Score() int {
	return int(v.score.Load())
}

// UpdateDimensions re-reads the screen size after a resize
func (v *View) UpdateDimensions() {
	v.width, v.height = v.screen.Size()
}

// RunnerCell returns the fixed screen cell the runner is drawn at
func (v *View) RunnerCell() (int, int) {
	row := v.height - 1 - statusRows - v.behind
	if row < hudRows {
		row = hudRows
	}
	return v.width / 2, row
}

// Project maps a world point into screen cells relative to the runner frame
func (v *View) Project(frame vmath.Pose, world mgl64.Vec3) (int, int, bool) {
	local := frame.InverseTransformPoint(world)
	cx, cy := v.RunnerCell()
	x := cx + int(math.Round(local[0]*cellAspect/v.scale))
	y := cy - int(math.Round(local[2]/v.scale))
	if x < 0 || x >= v.width || y < hudRows || y >= v.height-statusRows {
		return x, y, false
	}
	return x, y, true
}

// Draw renders one frame of snap and shows it
func (v *View) Draw(snap session.Snapshot) {
	v.UpdateDimensions()
	base := tcell.StyleDefault.Background(RgbBackground)
	v.screen.Fill(' ', base)

	frame := vmath.NewPose(mgl64.Vec3{snap.Runner.X, 0, snap.Runner.Z}, snap.Runner.Yaw)

	for _, seg := range snap.Segments {
		v.drawSegment(frame, seg, base)
	}
	for _, c := range snap.Coins {
		v.plot(frame, c, 'o', base.Foreground(RgbCoin))
	}
	for _, o := range snap.Obstacles {
		glyph, color := obstacleLook(o.Kind)
		v.drawObstacle(frame, o, glyph, base.Foreground(color).Bold(true))
	}
	v.drawRunner(snap, base)
	v.drawHUD(snap, base)
	v.drawStatusBar(snap, base)

	v.screen.Show()
}

func (v *View) drawSegment(frame vmath.Pose, seg session.SegmentView, base tcell.Style) {
	pose := vmath.NewPose(mgl64.Vec3{seg.X, 0, seg.Z}, seg.Yaw)
	style := base.Foreground(RgbFloor)
	if seg.Kind != "straight" {
		style = base.Foreground(RgbFloorTurn)
	}
	along := v.scale / 2
	across := v.scale / (2 * cellAspect)
	for d := 0.0; d <= seg.Length; d += along {
		for l := -floorHalfWidth; l <= floorHalfWidth; l += across {
			x, y, ok := v.Project(frame, pose.TransformPoint(mgl64.Vec3{l, 0, d}))
			if !ok {
				continue
			}
			v.screen.SetContent(x, y, '.', nil, style)
		}
	}
}

func (v *View) drawObstacle(frame vmath.Pose, b session.Body, glyph rune, style tcell.Style) {
	pose := vmath.NewPose(mgl64.Vec3{b.X, 0, b.Z}, b.Yaw)
	if b.Width <= 0 {
		v.plot(frame, b, glyph, style)
		return
	}
	step := v.scale / (2 * cellAspect)
	for l := -b.Width; l <= b.Width; l += step {
		x, y, ok := v.Project(frame, pose.TransformPoint(mgl64.Vec3{l, 0, 0}))
		if ok {
			v.screen.SetContent(x, y, glyph, nil, style)
		}
	}
}

func (v *View) plot(frame vmath.Pose, b session.Body, glyph rune, style tcell.Style) {
	x, y, ok := v.Project(frame, mgl64.Vec3{b.X, 0, b.Z})
	if ok {
		v.screen.SetContent(x, y, glyph, nil, style)
	}
}

func (v *View) drawRunner(snap session.Snapshot, base tcell.Style) {
	x, y := v.RunnerCell()
	glyph := '@'
	style := base.Foreground(RgbRunner).Bold(true)
	switch {
	case snap.Over:
		glyph = 'X'
	case snap.Sliding:
		glyph = '_'
	case snap.Runner.Y > 0.05:
		glyph = '^'
		style = base.Foreground(RgbRunnerAir).Bold(true)
	}
	v.screen.SetContent(x, y, glyph, nil, style)
}

func (v *View) drawHUD(snap session.Snapshot, base tcell.Style) {
	score := fmt.Sprintf(" "+parameter.HUDScoreFormat+" ", v.Score())
	x := v.drawText(0, 0, score, base.Foreground(RgbStatusText).Background(RgbScoreBg))

	info := fmt.Sprintf(" %.0fm  %.1fu/s  %s x%d  seg %d", snap.Distance, snap.Speed, snap.Phase, snap.Ceiling, snap.SegmentIndex)
	v.drawText(x, 0, info, base.Foreground(RgbStatusBar))
}

func (v *View) drawStatusBar(snap session.Snapshot, base tcell.Style) {
	y := v.height - 1
	if y < hudRows {
		return
	}
	switch {
	case snap.Over:
		msg := " GAME OVER "
		if snap.Cause != "" {
			msg = fmt.Sprintf(" GAME OVER (%s) ", snap.Cause)
		}
		x := v.drawText(0, y, msg, base.Foreground(RgbStatusText).Background(RgbOverBg))
		v.drawText(x, y, " r restart  q quit", base.Foreground(RgbStatusBar))
	case snap.Paused:
		x := v.drawText(0, y, " PAUSED ", base.Foreground(RgbStatusText).Background(RgbPausedBg))
		v.drawText(x, y, " p resume  q quit", base.Foreground(RgbStatusBar))
	default:
		v.drawText(0, y, fmt.Sprintf(" lane %+d  arrows/wasd move  p pause", snap.Lane), base.Foreground(RgbStatusBar))
	}
}

// drawText writes s at (x, y) clipped to the screen and returns the column after it
func (v *View) drawText(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		if x >= v.width {
			break
		}
		v.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}
