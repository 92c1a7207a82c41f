package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"github.com/RaLLy08/orbital-motion/internal/sim"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	width    = 60
	height   = 24
	frameDur = time.Second / 60
	// trailPoints caps how much of the recorded trail is drawn each frame.
	trailPoints = 400
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameDur, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// LaunchFunc builds a fresh vehicle on the pad.
type LaunchFunc func() (*flight.Vehicle, error)

// FlightModel shows one vehicle of a scene in flight. Every rendered frame
// hands the elapsed wall time to the scene, whose clock turns it into
// simulation ticks.
type FlightModel struct {
	scene    *sim.Context
	launch   LaunchFunc
	target   *physics.GeoCoordinate
	vehicle  *flight.Vehicle
	recorder *sim.Recorder

	body   physics.Body
	globe  *Wireframe
	canvas *Canvas
	camera *Camera

	running  bool
	last     time.Time
	frame    sim.Frame
	showHelp bool
	err      error
}

// NewFlightModel launches the first vehicle into scene. target may be nil.
func NewFlightModel(scene *sim.Context, launch LaunchFunc, target *physics.GeoCoordinate) (FlightModel, error) {
	m := FlightModel{
		scene:   scene,
		launch:  launch,
		target:  target,
		canvas:  NewCanvas(width, height),
		running: true,
	}
	if err := m.relaunch(); err != nil {
		return FlightModel{}, err
	}
	m.body = m.vehicle.Body()
	m.globe = SphereWireframe(m.body.Radius, 12, 5, 12)
	m.camera = NewCamera(m.body.Radius)
	return m, nil
}

func (m *FlightModel) relaunch() error {
	v, err := m.launch()
	if err != nil {
		return err
	}
	if m.vehicle != nil {
		m.scene.Remove(m.vehicle.ID())
	}
	m.vehicle = v
	m.recorder = sim.NewRecorder(0)
	m.scene.Launch(v, m.recorder)
	m.scene.Clock.Reset()
	return nil
}

func (m FlightModel) Init() tea.Cmd { return tick() }

// Vehicle is the vehicle currently shown.
func (m FlightModel) Vehicle() *flight.Vehicle { return m.vehicle }

func (m FlightModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		now := time.Time(msg)
		if m.last.IsZero() {
			m.last = now
		}
		if m.running {
			m.frame = m.scene.Frame(now.Sub(m.last).Seconds())
		}
		m.last = now
		return m, tick()
	}
	return m, nil
}

func (m FlightModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	clock := m.scene.Clock
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "+", "=":
		clock.SetMultiplier(math.Max(clock.Multiplier*2, 1))
	case "-", "_":
		clock.SetMultiplier(clock.Multiplier / 2)
	case "left":
		m.camera.RotateY(-0.1)
	case "right":
		m.camera.RotateY(0.1)
	case "up":
		m.camera.RotateX(-0.1)
	case "down":
		m.camera.RotateX(0.1)
	case "Z":
		m.camera.ZoomIn()
	case "z":
		m.camera.ZoomOut()
	case "r":
		m.err = m.relaunch()
	case "t":
		NextTheme()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *FlightModel) draw() {
	m.canvas.Clear()
	Render3D(m.canvas, m.globe, m.camera, m.body.Radius)

	trail := m.recorder.Trail()
	if len(trail) > trailPoints {
		step := len(trail) / trailPoints
		sampled := make([]flight.Snapshot, 0, trailPoints+1)
		for i := 0; i < len(trail); i += step {
			sampled = append(sampled, trail[i])
		}
		trail = append(sampled, trail[len(trail)-1])
	}
	path := NewWireframe()
	points := make([]r3.Vec, len(trail))
	for i, s := range trail {
		points[i] = s.Position
	}
	path.AddPath(points)
	Render3D(m.canvas, path, m.camera, m.body.Radius)

	cw, ch := m.canvas.PixelSize()
	if m.target != nil {
		if x, y, _, ok := m.camera.Project(m.body.PositionAt(*m.target, 0), cw, ch); ok {
			m.canvas.DrawLine(x-2, y-2, x+2, y+2)
			m.canvas.DrawLine(x-2, y+2, x+2, y-2)
		}
	}
	snap := m.vehicle.Snapshot(m.frame.Alpha)
	if x, y, _, ok := m.camera.Project(snap.Position, cw, ch); ok {
		m.canvas.Dot(x, y, 1)
	}
}

func (m FlightModel) View() string {
	m.draw()
	canvasView := canvasStyle.Foreground(CurrentTheme.Scene).Render(m.canvas.String())

	state := m.vehicle.State()
	params := m.vehicle.Params()

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.body.Name)+" · "+m.vehicle.ID().String()) + "\n")
	s.WriteString(m.status(state) + "\n\n")

	if alts := m.recorder.Altitudes(); len(alts) > 1 {
		chart := asciigraph.Plot(alts, asciigraph.Height(6), asciigraph.Width(36), asciigraph.Caption("altitude (km)"))
		s.WriteString(themed(CurrentTheme.Plot).Padding(1, 0).Render(chart) + "\n\n")
	}

	s.WriteString(row("Flight time", fmt.Sprintf("%.0f s", state.FlightTime)))
	s.WriteString(row("Altitude", fmt.Sprintf("%.2f km", state.Altitude)))
	s.WriteString(row("Max altitude", fmt.Sprintf("%.2f km", state.MaxAltitude)))
	s.WriteString(row("Speed", fmt.Sprintf("%.3f km/s", state.Speed())))
	s.WriteString(row("Thrust", fmt.Sprintf("%.4f km/s²", r3.Norm(state.Thrust))))
	s.WriteString(row("Incline", fmt.Sprintf("%.1f°", state.InclineAngle*180/math.Pi)))
	s.WriteString(row("Over", m.body.GeoCoordinate(state.Position).String()))
	if m.target != nil {
		pos, _ := m.body.SurfacePosition(*m.target)
		s.WriteString(row("To target", fmt.Sprintf("%.1f km", m.body.SurfaceDistance(state.Position, pos))))
	}
	s.WriteString(row("Burn", fmt.Sprintf("%.0f s at %.4f km/s²", params.FuelDuration, params.MaxThrust)))
	s.WriteString(row("Time warp", fmt.Sprintf("%.0fx (dropped %d)", m.scene.Clock.Multiplier, m.scene.Clock.Dropped())))

	s.WriteString(helpStyle.Render("\n" + Separator(30) + "\nSP:Pause R:Relaunch Q:Quit\n+/-:Warp ←↑↓→:Rotate z/Z:Zoom\nT:Theme ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Relaunch                 ║
║  Q        - Quit                     ║
║  + / -    - Double/halve time warp   ║
║  Arrows   - Rotate the camera        ║
║  Z / z    - Zoom in/out              ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m FlightModel) status(state flight.State) string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("ERROR: " + m.err.Error())
	case state.Landed:
		return themed(CurrentTheme.Success).Bold(true).Render("LANDED")
	case state.Escaping(m.body, m.vehicle.Params()):
		return themed(CurrentTheme.Warning).Bold(true).Render("ESCAPING")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("IN FLIGHT")
}
