// Package project reads and writes compositor projects as HCL files.
//
// A project file holds one optional project block with the timeline
// settings and render size, a node block per node, a connection block per
// edge and an animation block per animated property:
//
//	project "demo" {
//	  fps      = 30
//	  duration = 10
//	  width    = 256
//	  height   = 256
//	}
//
//	node "gradient" "bg" {
//	  position = [0, 0]
//	  properties {
//	    angle   = 45
//	    color_a = "#000000ff"
//	  }
//	}
//
//	node "output" "out" {}
//
//	connection {
//	  from = "bg.out"
//	  to   = "out.texture"
//	}
//
//	animation "bg" "angle" {
//	  kind = "float"
//	  keyframe {
//	    time  = 0
//	    value = 0
//	  }
//	  keyframe {
//	    time          = 10
//	    value         = 360
//	    interpolation = "ease_in_out"
//	  }
//	}
package project

import (
	"github.com/specialistvlad/fxgraph/internal/graph"
	"github.com/specialistvlad/fxgraph/internal/render"
	"github.com/specialistvlad/fxgraph/internal/timeline"
)

// Extension is the file extension of project files.
const Extension = ".hcl"

// Project is a graph with its timeline and render size.
type Project struct {
	Name string
	// Path is the file the project was loaded from or last saved to.
	Path     string
	Width    int
	Height   int
	Graph    *graph.Graph
	Timeline *timeline.Timeline
}

// New creates an empty project with the default timeline and texture size.
func New(name string) *Project {
	tl, err := timeline.New(timeline.DefaultSettings())
	if err != nil {
		panic(err)
	}
	return &Project{
		Name:     name,
		Width:    render.DefaultTextureSize,
		Height:   render.DefaultTextureSize,
		Graph:    graph.New(name),
		Timeline: tl,
	}
}
