package tracking

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/rendar/internal/logger"
	"github.com/Faultbox/rendar/pkg/math"
)

// Settings configures a ReplayEngine.
type Settings struct {
	// Trajectory is a TUM-format file of camera-to-world poses, one per frame.
	Trajectory string
}

// Pose is one trajectory sample: the camera-to-world transform at Timestamp.
type Pose struct {
	Timestamp   float64
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
}

// CameraToWorld returns the pose as a matrix.
func (p Pose) CameraToWorld() mgl32.Mat4 {
	t := p.Translation
	return mgl32.Translate3D(t[0], t[1], t[2]).Mul4(p.Rotation.Normalize().Mat4())
}

// ReplayEngine is an Engine that replays a recorded trajectory instead of
// tracking: every processed frame advances one pose.
type ReplayEngine struct {
	calib     *Calibration
	rgbSize   image.Point
	depthSize image.Point

	poses     []Pose
	processed int
	current   math.Mat4
}

var _ Engine = (*ReplayEngine)(nil)

// NewReplayEngine builds the engine for a source with the given calibration
// and image sizes.
func NewReplayEngine(settings Settings, calib *Calibration, rgbSize, depthSize image.Point) (*ReplayEngine, error) {
	if err := calib.Validate(rgbSize, depthSize); err != nil {
		return nil, err
	}

	f, err := os.Open(settings.Trajectory)
	if err != nil {
		return nil, fmt.Errorf("opening trajectory: %w", err)
	}
	defer f.Close()

	poses, err := ReadTrajectory(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", settings.Trajectory, err)
	}

	logger.Info("trajectory loaded",
		zap.String("path", settings.Trajectory),
		zap.Int("poses", len(poses)),
	)
	return newReplayEngine(poses, calib, rgbSize, depthSize), nil
}

func newReplayEngine(poses []Pose, calib *Calibration, rgbSize, depthSize image.Point) *ReplayEngine {
	return &ReplayEngine{
		calib:     calib,
		rgbSize:   rgbSize,
		depthSize: depthSize,
		poses:     poses,
		current:   math.Identity(),
	}
}

// ProcessFrame advances to the next pose. Past the end of the trajectory the
// last pose is held.
func (e *ReplayEngine) ProcessFrame(rgb *image.RGBA, depth *image.Gray16) error {
	if err := checkBuffers(rgb, depth, e.rgbSize, e.depthSize); err != nil {
		return err
	}

	i := e.processed
	if i >= len(e.poses) {
		i = len(e.poses) - 1
		logger.WarnOnce("replay:clamped", "trajectory exhausted, holding last pose",
			zap.Int("poses", len(e.poses)),
		)
	}
	e.processed++
	e.current = math.Mat4(e.poses[i].CameraToWorld().Inv())
	return nil
}

// CurrentPose returns the world-to-camera matrix of the last processed frame,
// identity before the first.
func (e *ReplayEngine) CurrentPose() math.Mat4 {
	return e.current
}

// Processed returns the number of frames processed.
func (e *ReplayEngine) Processed() int {
	return e.processed
}

// Close implements Engine.
func (e *ReplayEngine) Close() error {
	e.poses = nil
	return nil
}

// ReadTrajectory parses TUM trajectory lines "timestamp tx ty tz qx qy qz qw".
// Blank lines and lines starting with '#' are skipped.
func ReadTrajectory(r io.Reader) ([]Pose, error) {
	var poses []Pose
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 8 {
			return nil, fmt.Errorf("line %d: want 8 fields, got %d", line, len(fields))
		}

		var v [8]float64
		for i, f := range fields {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			v[i] = x
		}

		q := mgl32.Quat{W: float32(v[7]), V: mgl32.Vec3{float32(v[4]), float32(v[5]), float32(v[6])}}
		if q.Len() < 1e-6 {
			return nil, fmt.Errorf("line %d: zero rotation quaternion", line)
		}
		poses = append(poses, Pose{
			Timestamp:   v[0],
			Translation: mgl32.Vec3{float32(v[1]), float32(v[2]), float32(v[3])},
			Rotation:    q.Normalize(),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(poses) == 0 {
		return nil, errors.New("trajectory has no poses")
	}
	return poses, nil
}
