package project

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot holds every top-level block a project file may contain.
type fileRoot struct {
	Project     *projectBlock      `hcl:"project,block"`
	Nodes       []*nodeBlock       `hcl:"node,block"`
	Connections []*connectionBlock `hcl:"connection,block"`
	Animations  []*animationBlock  `hcl:"animation,block"`
	Remain      hcl.Body           `hcl:",remain"`
}

type projectBlock struct {
	Name        string   `hcl:"name,label"`
	FPS         *float64 `hcl:"fps,optional"`
	Duration    *float64 `hcl:"duration,optional"`
	Loop        *bool    `hcl:"loop,optional"`
	Speed       *float64 `hcl:"speed,optional"`
	CurrentTime *float64 `hcl:"current_time,optional"`
	Width       *int     `hcl:"width,optional"`
	Height      *int     `hcl:"height,optional"`
}

type nodeBlock struct {
	Type       string           `hcl:"type,label"`
	ID         string           `hcl:"id,label"`
	Name       *string          `hcl:"name,optional"`
	Position   []float64        `hcl:"position,optional"`
	Properties *propertiesBlock `hcl:"properties,block"`
}

// propertiesBlock is decoded attribute by attribute against the node's
// property schema.
type propertiesBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type connectionBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

type animationBlock struct {
	Node          string           `hcl:"node,label"`
	Property      string           `hcl:"property,label"`
	Kind          *string          `hcl:"kind,optional"`
	Interpolation *string          `hcl:"interpolation,optional"`
	Keyframes     []*keyframeBlock `hcl:"keyframe,block"`
}

type keyframeBlock struct {
	Time          float64   `hcl:"time"`
	Value         cty.Value `hcl:"value"`
	Interpolation *string   `hcl:"interpolation,optional"`
	InTangent     []float64 `hcl:"in_tangent,optional"`
	OutTangent    []float64 `hcl:"out_tangent,optional"`
}
