package actor

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actorconf/props"
)

var (
	ErrNoSpace            = errors.New("actor: physics space is nil")
	ErrPhysicsInitialized = errors.New("actor: physics already initialized")
	ErrInvalidPhysics     = errors.New("actor: invalid physics parameter")
)

// ShapeType is the collision shape of a physics actor.
type ShapeType string

const (
	ShapeBox    ShapeType = "box"
	ShapeCircle ShapeType = "circle"
)

// PhysicsActor is an Actor backed by a chipmunk body. Its physics
// parameters may only change before InitPhysics runs. A density of zero
// makes the body static.
type PhysicsActor struct {
	Actor

	Density       float64
	Friction      float64
	Restitution   float64
	ShapeType     ShapeType
	FixedRotation bool
	Sensor        bool

	body  *cp.Body
	shape *cp.Shape
	space *cp.Space
}

func NewPhysicsActor() *PhysicsActor {
	p := &PhysicsActor{
		Density:   1,
		Friction:  0.3,
		ShapeType: ShapeBox,
	}
	p.init()
	return p
}

// Body returns the chipmunk body, or nil before InitPhysics.
func (p *PhysicsActor) Body() *cp.Body {
	return p.body
}

// Initialized reports whether InitPhysics has completed.
func (p *PhysicsActor) Initialized() bool {
	return p.shape != nil
}

func (p *PhysicsActor) guard() error {
	if p.Initialized() {
		return ErrPhysicsInitialized
	}
	return nil
}

func (p *PhysicsActor) SetDensity(d float64) error {
	if err := p.guard(); err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("%w: density %v", ErrInvalidPhysics, d)
	}
	p.Density = d
	return nil
}

func (p *PhysicsActor) SetFriction(f float64) error {
	if err := p.guard(); err != nil {
		return err
	}
	if f < 0 {
		return fmt.Errorf("%w: friction %v", ErrInvalidPhysics, f)
	}
	p.Friction = f
	return nil
}

func (p *PhysicsActor) SetRestitution(r float64) error {
	if err := p.guard(); err != nil {
		return err
	}
	if r < 0 {
		return fmt.Errorf("%w: restitution %v", ErrInvalidPhysics, r)
	}
	p.Restitution = r
	return nil
}

func (p *PhysicsActor) SetShapeType(s string) error {
	if err := p.guard(); err != nil {
		return err
	}
	st := ShapeType(strings.ToLower(strings.TrimSpace(s)))
	if st != ShapeBox && st != ShapeCircle {
		return fmt.Errorf("%w: shape type %q", ErrInvalidPhysics, s)
	}
	p.ShapeType = st
	return nil
}

func (p *PhysicsActor) SetFixedRotation(fixed bool) error {
	if err := p.guard(); err != nil {
		return err
	}
	p.FixedRotation = fixed
	return nil
}

func (p *PhysicsActor) SetIsSensor(sensor bool) error {
	if err := p.guard(); err != nil {
		return err
	}
	p.Sensor = sensor
	return nil
}

// SetPosition moves the actor, and its body once physics is running.
func (p *PhysicsActor) SetPosition(x, y float64) error {
	p.X, p.Y = x, y
	if p.body != nil && p.body.GetType() != cp.BODY_STATIC {
		p.body.SetPosition(cp.Vector{X: x, Y: y})
	}
	return nil
}

// InitPhysics creates the body and shape in space.
func (p *PhysicsActor) InitPhysics(space *cp.Space) error {
	if space == nil {
		return ErrNoSpace
	}
	if err := p.guard(); err != nil {
		return err
	}

	w, h := p.Width, p.Height
	radius := math.Min(w, h) / 2

	if p.Density == 0 {
		var shape *cp.Shape
		if p.ShapeType == ShapeCircle {
			shape = cp.NewCircle(space.StaticBody, radius, cp.Vector{X: p.X, Y: p.Y})
		} else {
			bb := cp.BB{L: p.X - w/2, B: p.Y - h/2, R: p.X + w/2, T: p.Y + h/2}
			shape = cp.NewBox2(space.StaticBody, bb, 0)
		}
		p.configure(shape)
		space.AddShape(shape)
		p.body = space.StaticBody
		p.shape = shape
		p.space = space
		return nil
	}

	var mass, moment float64
	if p.ShapeType == ShapeCircle {
		mass = p.Density * math.Pi * radius * radius
		moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
	} else {
		mass = p.Density * w * h
		moment = cp.MomentForBox(mass, w, h)
	}
	if p.FixedRotation {
		moment = math.Inf(1)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(cp.Vector{X: p.X, Y: p.Y})
	body.SetAngle(p.Rotation * math.Pi / 180)

	var shape *cp.Shape
	if p.ShapeType == ShapeCircle {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, w, h, 0)
	}
	p.configure(shape)

	space.AddBody(body)
	space.AddShape(shape)
	p.body = body
	p.shape = shape
	p.space = space
	return nil
}

// ReleasePhysics removes the shape and body from space. The actor keeps its
// last simulated transform and can be initialized again.
func (p *PhysicsActor) ReleasePhysics(space *cp.Space) {
	if space == nil || p.shape == nil || space != p.space {
		return
	}
	space.RemoveShape(p.shape)
	if p.body != space.StaticBody {
		space.RemoveBody(p.body)
	}
	p.body, p.shape, p.space = nil, nil, nil
}

func (p *PhysicsActor) configure(shape *cp.Shape) {
	shape.SetFriction(p.Friction)
	shape.SetElasticity(p.Restitution)
	shape.SetSensor(p.Sensor)
}

// Update copies the simulated body transform back onto the actor.
func (p *PhysicsActor) Update(dt float64) {
	if p.body == nil || p.body.GetType() == cp.BODY_STATIC {
		return
	}
	pos := p.body.Position()
	p.X, p.Y = pos.X, pos.Y
	p.Rotation = p.body.Angle() * 180 / math.Pi
}

func physicsTable(base *props.Table) *props.Table {
	return props.Inherit(base, func(p *PhysicsActor) *Actor { return &p.Actor }).Add(
		props.Method2("SetPosition", (*PhysicsActor).SetPosition),
		props.Method("SetDensity", (*PhysicsActor).SetDensity),
		props.Method("SetFriction", (*PhysicsActor).SetFriction),
		props.Method("SetRestitution", (*PhysicsActor).SetRestitution),
		props.Method("SetShapeType", (*PhysicsActor).SetShapeType),
		props.Method("SetFixedRotation", (*PhysicsActor).SetFixedRotation),
		props.Method("SetIsSensor", (*PhysicsActor).SetIsSensor),
	)
}
