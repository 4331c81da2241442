package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var spec T
	if err := LoadSpecInto(filename, &spec); err != nil {
		var zero T
		return zero, err
	}
	return spec, nil
}

// LoadSpecInto decodes filename over spec. Keys missing from the file keep
// the values spec already had.
func LoadSpecInto[T any](filename string, spec *T) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, spec); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

// Vec3 accepts either `[x, y, z]` or `{x: .., y: .., z: ..}`.
type Vec3 [3]float64

func (v Vec3) Vec() mgl64.Vec3 {
	return mgl64.Vec3(v)
}

func (v *Vec3) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var xs []float64
		if err := value.Decode(&xs); err != nil {
			return err
		}
		if len(xs) != 3 {
			return fmt.Errorf("vec3 needs 3 components, got %d", len(xs))
		}
		*v = Vec3{xs[0], xs[1], xs[2]}
		return nil
	case yaml.MappingNode:
		var m struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
			Z float64 `yaml:"z"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		*v = Vec3{m.X, m.Y, m.Z}
		return nil
	}
	return fmt.Errorf("vec3 must be a list or a mapping")
}

type MaterialSpec struct {
	Mass        float64 `yaml:"mass"`
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
}

type MovementSpec struct {
	WalkSpeed float64 `yaml:"walk_speed"`
	RunSpeed  float64 `yaml:"run_speed"`
	JumpForce float64 `yaml:"jump_force"`
	TurnRate  float64 `yaml:"turn_rate"`
}

type CapsuleSpec struct {
	Height float64 `yaml:"height"`
	Radius float64 `yaml:"radius"`
}

type HitboxSpec struct {
	Size          Vec3    `yaml:"size"`
	ForwardOffset float64 `yaml:"forward_offset"`
}

type GroundedSpec struct {
	RayLength         float64 `yaml:"ray_length"`
	Threshold         float64 `yaml:"threshold"`
	VelocityThreshold float64 `yaml:"velocity_threshold"`
}

type ClimbSpec struct {
	StickForce       float64 `yaml:"stick_force"`
	Speed            float64 `yaml:"speed"`
	JumpBackLateral  float64 `yaml:"jump_back_lateral"`
	JumpBackVertical float64 `yaml:"jump_back_vertical"`
	SpinFrames       int     `yaml:"spin_frames"`
	RayHeight        float64 `yaml:"ray_height"`
	RayLength        float64 `yaml:"ray_length"`
	Cooldown         float64 `yaml:"cooldown"`
	ClimbUpDuration  float64 `yaml:"climb_up_duration"`
	ClimbUpStep      Vec3    `yaml:"climb_up_step"`
}

type LedgeHangSpec struct {
	DetectionRange   float64 `yaml:"detection_range"`
	MinYDiff         float64 `yaml:"min_y_diff"`
	MaxYDiff         float64 `yaml:"max_y_diff"`
	ShimmySpeed      float64 `yaml:"shimmy_speed"`
	ForwardRayLength float64 `yaml:"forward_ray_length"`
	DropImpulseY     float64 `yaml:"drop_impulse_y"`
	LerpDropDistance float64 `yaml:"lerp_drop_distance"`
	Grace            float64 `yaml:"grace"`
	ReleaseDelay     float64 `yaml:"release_delay"`
}

type CarrySpec struct {
	Offset         Vec3    `yaml:"offset"`
	AnimationSpeed float64 `yaml:"animation_speed"`
	ThrowDelay     float64 `yaml:"throw_delay"`
	ThrowForce     float64 `yaml:"throw_force"`
	ThrowLift      float64 `yaml:"throw_lift"`
}

// PlayerSpec is the tuning in player.yaml.
type PlayerSpec struct {
	Name         string        `yaml:"name"`
	Movement     MovementSpec  `yaml:"movement"`
	Capsule      CapsuleSpec   `yaml:"capsule"`
	Hitbox       HitboxSpec    `yaml:"hitbox"`
	Grounded     GroundedSpec  `yaml:"grounded"`
	Body         MaterialSpec  `yaml:"body"`
	Climb        ClimbSpec     `yaml:"climb"`
	LedgeHang    LedgeHangSpec `yaml:"ledge_hang"`
	Carry        CarrySpec     `yaml:"carry"`
	BoundsMargin float64       `yaml:"bounds_margin"`
	// Animations maps clip names to their length in seconds.
	Animations map[string]float64 `yaml:"animations"`
	Color      *YAMLColor         `yaml:"color"`
}

type AgentSpec struct {
	Radius                float64 `yaml:"radius"`
	Height                float64 `yaml:"height"`
	MaxAcceleration       float64 `yaml:"max_acceleration"`
	MaxSpeed              float64 `yaml:"max_speed"`
	CollisionQueryRange   float64 `yaml:"collision_query_range"`
	PathOptimizationRange float64 `yaml:"path_optimization_range"`
	SeparationWeight      float64 `yaml:"separation_weight"`
}

// BoxMoverSpec is the tuning in box_mover.yaml.
type BoxMoverSpec struct {
	Name            string             `yaml:"name"`
	Agent           AgentSpec          `yaml:"agent"`
	HoldPoint       Vec3               `yaml:"hold_point"`
	CaptureRadius   float64            `yaml:"capture_radius"`
	DropRadius      float64            `yaml:"drop_radius"`
	ReturnRadius    float64            `yaml:"return_radius"`
	IdleDelay       float64            `yaml:"idle_delay"`
	SettleDelay     float64            `yaml:"settle_delay"`
	PollPeriod      float64            `yaml:"poll_period"`
	EyeHeight       float64            `yaml:"eye_height"`
	DropForward     float64            `yaml:"drop_forward"`
	DropLift        float64            `yaml:"drop_lift"`
	DropNudge       float64            `yaml:"drop_nudge"`
	CollisionGrace  float64            `yaml:"collision_grace"`
	DefaultDropMass float64            `yaml:"default_drop_mass"`
	AnimationSpeed  float64            `yaml:"animation_speed"`
	Animations      map[string]float64 `yaml:"animations"`
	Color           *YAMLColor         `yaml:"color"`
}

type BoundsSpec struct {
	Center Vec3    `yaml:"center"`
	Width  float64 `yaml:"width"`
	Depth  float64 `yaml:"depth"`
}

type BoxSpec struct {
	Min Vec3 `yaml:"min"`
	Max Vec3 `yaml:"max"`
}

type SolidSpec struct {
	Name   string     `yaml:"name"`
	Center Vec3       `yaml:"center"`
	Size   Vec3       `yaml:"size"`
	Color  *YAMLColor `yaml:"color"`
}

type CrateSpec struct {
	SolidSpec `yaml:",inline"`
	Climbable bool    `yaml:"climbable"`
	Mass      float64 `yaml:"mass"`
}

type PlateSpec struct {
	SolidSpec    `yaml:",inline"`
	TriggeredBy  []string `yaml:"triggered_by"`
	OnActivate   string   `yaml:"on_activate"`
	OnDeactivate string   `yaml:"on_deactivate"`
}

type PlatformSpec struct {
	SolidSpec      `yaml:",inline"`
	End            Vec3 `yaml:"end"`
	DurationFrames int  `yaml:"duration_frames"`
}

type SpawnSpec struct {
	Position Vec3 `yaml:"position"`
	// Yaw is the initial heading in degrees.
	Yaw float64 `yaml:"yaw"`
}

type BoxMoverPlacementSpec struct {
	SpawnSpec `yaml:",inline"`
	DropZone  *BoxSpec `yaml:"drop_zone"`
}

// LevelSpec is a level layout under levels/.
type LevelSpec struct {
	Name      string                  `yaml:"name"`
	Bounds    BoundsSpec              `yaml:"bounds"`
	GroundY   float64                 `yaml:"ground_y"`
	Player    SpawnSpec               `yaml:"player"`
	BoxMovers []BoxMoverPlacementSpec `yaml:"box_movers"`
	Walls     []SolidSpec             `yaml:"walls"`
	Crates    []CrateSpec             `yaml:"crates"`
	Doors     []SolidSpec             `yaml:"doors"`
	Plates    []PlateSpec             `yaml:"plates"`
	Platforms []PlatformSpec          `yaml:"platforms"`
}

func LoadLevel(name string) (LevelSpec, error) {
	name = strings.TrimSuffix(name, ".yaml")
	spec, err := LoadSpec[LevelSpec]("levels/" + name + ".yaml")
	if errors.Is(err, fs.ErrNotExist) {
		return spec, fmt.Errorf("unknown level %q (have %s): %w", name, strings.Join(Levels(), ", "), err)
	}
	return spec, err
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
