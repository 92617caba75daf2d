// raster3d - Terminal 3D Model Viewer
// Loads a glTF/GLB mesh, drives pkg/pipeline's software rasterizer, and
// previews the result in the terminal with half-block characters.
//
// Controls:
//
//	Mouse drag  - Orbit the camera
//	Scroll, +/- - Zoom in/out
//	W/S/A/D     - Orbit pitch/yaw by keyboard
//	Space       - Apply a random orbit impulse
//	R           - Reset the view
//	T           - Toggle texture on/off
//	X           - Toggle wireframe mode
//	L           - Light positioning mode (move mouse, click to set, Esc to cancel)
//	?           - Toggle HUD overlay
//	Esc         - Quit (or cancel light mode)
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/go3d/raster3d/pkg/decimate"
	"github.com/go3d/raster3d/pkg/pipeline"
	"github.com/go3d/raster3d/pkg/shader"
	"github.com/go3d/raster3d/pkg/subdiv"
	"github.com/go3d/raster3d/pkg/texture"
	"github.com/go3d/raster3d/pkg/vmath"
)

var (
	texturePath = flag.String("texture", "", "path to an override texture image (PNG/JPEG)")
	targetFPS   = flag.Int("fps", 60, "target frames per second")
	samples     = flag.Int("samples", 4, "MSAA sample count (1, 2, 4, 8 or 16)")
	subdivide   = flag.String("subdivide", "", "subdivide the loaded mesh once before display: loop or catmull-clark")
	decimateN   = flag.Int("decimate", 0, "collapse this many edges by quadric error before display")
	cullFlag    = flag.Bool("cull", true, "cull backfacing triangles")
	bgColor     = flag.String("bg", "30,30,40", "background color, R,G,B")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "raster3d - Terminal 3D Model Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: raster3d [options] <model.glb|model.gltf>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// orbitAxis tracks an angular position and velocity for one orbit axis,
// with the velocity sprung back to zero by a critically-damped harmonica
// spring between user inputs, giving mouse-drag rotation smooth inertia
// instead of snapping to a stop.
type orbitAxis struct {
	Position  float64
	Velocity  float64
	spring    harmonica.Spring
	springVel float64
}

func newOrbitAxis(fps int) orbitAxis {
	return orbitAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

func (a *orbitAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.springVel = a.spring.Update(a.Velocity, a.springVel, 0)
}

// orbitCamera is a trackball-style demo camera: the model sits at the
// origin and the camera orbits it at a fixed distance, pitch/yaw damped by
// orbitAxis. Camera interaction is explicitly outside pkg/pipeline's core
// scope, so it lives entirely in this command.
type orbitCamera struct {
	Pitch, Yaw orbitAxis
	Distance   float64
}

func newOrbitCamera(fps int) *orbitCamera {
	return &orbitCamera{
		Pitch:    newOrbitAxis(fps),
		Yaw:      newOrbitAxis(fps),
		Distance: 4,
	}
}

func (c *orbitCamera) Update() {
	c.Pitch.Update()
	c.Yaw.Update()
}

func (c *orbitCamera) Reset() {
	c.Pitch = newOrbitAxis(*targetFPS)
	c.Yaw = newOrbitAxis(*targetFPS)
	c.Distance = 4
}

// Eye returns the camera's world-space position on the orbit sphere.
func (c *orbitCamera) Eye() vmath.Vec3 {
	cp, sp := math.Cos(c.Pitch.Position), math.Sin(c.Pitch.Position)
	cy, sy := math.Cos(c.Yaw.Position), math.Sin(c.Yaw.Position)
	return vmath.Vec3{X: sy * cp, Y: sp, Z: cy * cp}.Scale(c.Distance)
}

func (c *orbitCamera) ViewMatrix() vmath.Mat4 {
	return vmath.LookAt(c.Eye(), vmath.Vec3{}, vmath.Vec3{Y: 1})
}

// renderMode selects how the mesh is drawn.
type renderMode int

const (
	modeTextured renderMode = iota
	modeWireframe
)

func run(modelPath string) error {
	var bgR, bgG, bgB uint8 = 30, 30, 40
	fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB)

	sampleCount := *samples

	vertices, indices, embeddedImg, err := loadGLTFMesh(modelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	vertices, indices, err = processMesh(vertices, indices)
	if err != nil {
		return fmt.Errorf("process mesh: %w", err)
	}
	centerAndScale(vertices)
	wireIndices := buildWireframeIndices(indices)

	tex, err := loadDemoTexture(embeddedImg)
	if err != nil {
		return fmt.Errorf("load texture: %w", err)
	}

	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	fmt.Fprint(os.Stdout, "\x1b[?1003h\x1b[?1006h") // any-event mouse tracking, SGR extended coords

	display := newTerminalDisplay(cols, rows)
	fbWidth, fbHeight := display.FramebufferSize()
	pipe := pipeline.New(fbWidth, fbHeight, sampleCount)
	pipe.CullBackfaces = *cullFlag
	pipe.SetVertexBuffer(vertices)
	pipe.SetIndexBuffer(indices)

	proj := vmath.PerspectiveFOV(math.Pi/3, float64(fbWidth)/float64(fbHeight), 0.1, 100)

	camera := newOrbitCamera(*targetFPS)
	mode := modeTextured
	textureOn := true
	showHUD := true
	lightMode := false
	lightDir := vmath.Vec3{X: 0.5, Y: 1, Z: 0.3}.Normalize()
	pendingLight := lightDir

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var dragging bool
	var lastX, lastY int
	var keyTorque struct{ pitch, yaw float64 }
	const torqueStrength = 3.0

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				cols, rows = ev.Width, ev.Height
				term.Erase()
				term.Resize(cols, rows)
				display = newTerminalDisplay(cols, rows)
				fbWidth, fbHeight = display.FramebufferSize()
				pipe = pipeline.New(fbWidth, fbHeight, sampleCount)
				pipe.CullBackfaces = *cullFlag
				pipe.SetVertexBuffer(vertices)
				pipe.SetIndexBuffer(indices)
				proj = vmath.PerspectiveFOV(math.Pi/3, float64(fbWidth)/float64(fbHeight), 0.1, 100)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"):
					if lightMode {
						lightMode = false
					} else {
						cancel()
						return
					}
				case ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("r"):
					camera.Reset()
				case ev.MatchString("w", "up"):
					keyTorque.pitch = -torqueStrength
				case ev.MatchString("s", "down"):
					keyTorque.pitch = torqueStrength
				case ev.MatchString("a", "left"):
					keyTorque.yaw = -torqueStrength
				case ev.MatchString("d", "right"):
					keyTorque.yaw = torqueStrength
				case ev.MatchString("space"):
					camera.Pitch.Velocity += (rand.Float64() - 0.5) * 1.5
					camera.Yaw.Velocity += (rand.Float64() - 0.5) * 1.5
				case ev.MatchString("+", "="):
					camera.Distance = math.Max(1, camera.Distance-0.5)
				case ev.MatchString("-", "_"):
					camera.Distance = math.Min(20, camera.Distance+0.5)
				case ev.MatchString("t"):
					textureOn = !textureOn
				case ev.MatchString("x"):
					if mode == modeWireframe {
						mode = modeTextured
					} else {
						mode = modeWireframe
					}
				case ev.MatchString("l"):
					lightMode = true
					pendingLight = lightDir
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					showHUD = !showHUD
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
					keyTorque.pitch = 0
				case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
					keyTorque.yaw = 0
				}

			case uv.MouseClickEvent:
				if lightMode {
					lightDir = pendingLight
					lightMode = false
				} else {
					dragging = true
					lastX, lastY = ev.X, ev.Y
				}

			case uv.MouseReleaseEvent:
				if !lightMode {
					dragging = false
				}

			case uv.MouseMotionEvent:
				if lightMode {
					pendingLight = screenToLightDir(ev.X, ev.Y, cols, rows)
				} else if dragging {
					dx, dy := ev.X-lastX, ev.Y-lastY
					camera.Yaw.Velocity += float64(dx) * 0.03
					camera.Pitch.Velocity += float64(dy) * 0.03
					lastX, lastY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					camera.Distance = math.Max(1, camera.Distance-0.5)
				case uv.MouseWheelDown:
					camera.Distance = math.Min(20, camera.Distance+0.5)
				}
			}
		}
	}()

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()
	var fpsFrames int
	var fps float64
	fpsTime := time.Now()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now
		if dt > 0.1 {
			dt = 0.1
		}

		camera.Pitch.Velocity += keyTorque.pitch * dt
		camera.Yaw.Velocity += keyTorque.yaw * dt
		camera.Update()

		world := vmath.Identity4()
		view := camera.ViewMatrix()

		activeLight := lightDir
		if lightMode {
			activeLight = pendingLight
		}

		uniforms := shader.Uniforms{
			World:        world,
			View:         view,
			Proj:         proj,
			NormalMatrix: vmath.NormalMatrix(world),
			EyePos:       camera.Eye(),
			Albedo:       tex,
			Sampler:      texture.NewSampler(),
			DiffAlbedo:   vmath.Vec4{X: 1, Y: 1, Z: 1, W: 1},
			Roughness:    0.6,
			R0:           0.04,
			Ambient:      vmath.Vec3{X: 0.15, Y: 0.15, Z: 0.18},
			Lights: []shader.Light{{
				Kind:      shader.LightDirectional,
				Direction: activeLight.Negate(),
				Color:     vmath.Vec3{X: 1, Y: 1, Z: 1},
			}},
		}
		if !textureOn {
			uniforms.Albedo = texture.Texture{Levels: []*texture.Image{whiteTexel()}}
		}

		pipe.SetShader(pipeline.Program{Uniforms: uniforms})
		pipe.Clear(pipeline.Color{R: float64(bgR) / 255, G: float64(bgG) / 255, B: float64(bgB) / 255, A: 1}, 1)

		switch mode {
		case modeWireframe:
			pipe.SetIndexBuffer(wireIndices)
			pipe.SetTopology(pipeline.TopologyLineList)
			pipe.DrawIndexed(0, 0, len(wireIndices))
			pipe.SetIndexBuffer(indices)
		default:
			pipe.SetTopology(pipeline.TopologyTriangleList)
			pipe.DrawIndexed(0, 0, len(indices))
		}

		display.Render(pipe.FB)
		if err := display.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		fpsFrames++
		if elapsed := time.Since(fpsTime); elapsed >= time.Second {
			fps = float64(fpsFrames) / elapsed.Seconds()
			fpsFrames = 0
			fpsTime = time.Now()
		}
		if showHUD {
			drawHUD(cols, len(indices)/3, fps, lightMode)
		}

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// processMesh optionally subdivides and/or decimates the loaded mesh
// through pkg/halfedge, exercising pkg/subdiv and pkg/decimate from the
// demo CLI rather than leaving them reachable only from their own tests.
func processMesh(vertices []pipeline.Vertex, indices []uint32) ([]pipeline.Vertex, []uint32, error) {
	if *subdivide == "" && *decimateN <= 0 {
		return vertices, indices, nil
	}

	mesh, err := toHalfEdge(vertices, indices)
	if err != nil {
		return nil, nil, err
	}

	switch *subdivide {
	case "":
	case "loop":
		mesh = subdiv.Loop(mesh)
	case "catmull-clark", "catmullclark":
		mesh = subdiv.CatmullClark(mesh)
	default:
		return nil, nil, fmt.Errorf("unknown -subdivide mode %q (want loop or catmull-clark)", *subdivide)
	}

	if *decimateN > 0 {
		mesh = decimate.Decimate(mesh, *decimateN)
	}

	newVerts, newIndices := fromHalfEdge(mesh)
	computeSmoothNormals(newVerts, newIndices)
	return newVerts, newIndices, nil
}

// buildWireframeIndices turns a triangle-list index buffer into a
// line-list index buffer covering each triangle's three edges.
func buildWireframeIndices(indices []uint32) []uint32 {
	var lines []uint32
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		lines = append(lines, a, b, b, c, c, a)
	}
	return lines
}

// centerAndScale recenters the mesh on its bounding-box center and scales
// it so its largest bounding-box dimension spans [-1,1], in place.
func centerAndScale(vertices []pipeline.Vertex) {
	if len(vertices) == 0 {
		return
	}
	positions := make([]vmath.Vec3, len(vertices))
	for i, v := range vertices {
		positions[i] = v.Position
	}
	box := vmath.BoundsOf(positions)
	center := box.Center()
	size := box.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	scale := 1.0
	if maxDim > 0 {
		scale = 2 / maxDim
	}
	for i := range vertices {
		vertices[i].Position = vertices[i].Position.Sub(center).Scale(scale)
	}
}

// loadDemoTexture picks a texture source in priority order: the -texture
// override flag, the glTF document's first embedded image, or a flat white
// fallback so unlit vertex color alone still shades correctly.
func loadDemoTexture(embedded image.Image) (texture.Texture, error) {
	if *texturePath != "" {
		f, err := os.Open(*texturePath)
		if err != nil {
			return texture.Texture{}, fmt.Errorf("open %s: %w", *texturePath, err)
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return texture.Texture{}, fmt.Errorf("decode %s: %w", *texturePath, err)
		}
		return buildTexture(img), nil
	}
	if embedded != nil {
		return buildTexture(embedded), nil
	}
	return texture.Texture{Levels: []*texture.Image{whiteTexel()}}, nil
}

// buildTexture converts a decoded image.Image into a mipped texture.Texture.
func buildTexture(src image.Image) texture.Texture {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	img := texture.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			img.SetAt(x, y, vmath.Vec4{
				X: float64(r) / 65535,
				Y: float64(g) / 65535,
				Z: float64(b) / 65535,
				W: float64(a) / 65535,
			})
		}
	}
	tex := texture.NewTexture(img)
	tex.BuildMips()
	return *tex
}

func whiteTexel() *texture.Image {
	img := texture.NewImage(1, 1)
	img.SetAt(0, 0, vmath.Vec4{X: 1, Y: 1, Z: 1, W: 1})
	return img
}

// screenToLightDir maps a screen position to a direction on the hemisphere
// above the model, for interactive light positioning.
func screenToLightDir(x, y, width, height int) vmath.Vec3 {
	nx := (float64(x)/float64(width))*2 - 1
	ny := (float64(y)/float64(height))*2 - 1
	lenSq := nx*nx + ny*ny
	if lenSq > 1 {
		l := math.Sqrt(lenSq)
		nx /= l
		ny /= l
		lenSq = 1
	}
	nz := math.Sqrt(1 - lenSq)
	return vmath.Vec3{X: nx, Y: -ny, Z: nz}.Normalize()
}

func drawHUD(width, triCount int, fps float64, lightMode bool) {
	const (
		reset   = "\x1b[0m"
		bgBlack = "\x1b[40m"
		fgWhite = "\x1b[97m"
		fgGreen = "\x1b[92m"
	)
	move := func(row, col int) string { return fmt.Sprintf("\x1b[%d;%dH", row, col) }

	fmt.Print(move(1, 1) + "\x1b[2K")
	if lightMode {
		fmt.Print(move(1, 1) + bgBlack + fgWhite + " LIGHT MODE: move mouse, click to set, Esc to cancel " + reset)
		return
	}
	fmt.Print(move(1, 1) + bgBlack + fgGreen + fmt.Sprintf(" %.0f FPS  %d tris ", fps, triCount) + reset)
	_ = width
}
