package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// InspectResponse describes what the primary ray through a pixel hits
type InspectResponse struct {
	Hit          bool                 `json:"hit"`
	X            int                  `json:"x"`
	Y            int                  `json:"y"`
	GeometryType string               `json:"geometryType,omitempty"`
	SurfaceIndex int                  `json:"surfaceIndex"`
	Point        core.Vec3            `json:"point"`
	Normal       core.Vec3            `json:"normal"`
	Distance     float32              `json:"distance"`
	Material     *material.Phong      `json:"material,omitempty"`
	Geometry     *scene.SurfaceConfig `json:"geometry,omitempty"`
	Shadowed     bool                 `json:"shadowed"`
	Color        core.Vec3            `json:"color"`
}

// handleInspect traces the center ray of a pixel and reports the nearest hit.
// x and y are image coordinates with y = 0 at the top.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	query := r.URL.Query()
	if query.Get("x") == "" || query.Get("y") == "" {
		writeError(w, http.StatusBadRequest, "x and y are required")
		return
	}
	x, err := parseIntParam(query, "x", 0, 0, req.Width-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	y, err := parseIntParam(query, "y", 0, 0, req.Height-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rt, err := s.createRaytracer(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sc := rt.Scene()

	// Rows are stored bottom-up
	row := req.Height - 1 - y
	ray := rt.Camera().RayThrough(float32(x)+0.5, float32(row)+0.5)

	response := InspectResponse{X: x, Y: y, SurfaceIndex: -1, Color: sc.Background}
	isect, ok := sc.TraceNearest(ray)
	if !ok {
		writeJSON(w, http.StatusOK, response)
		return
	}

	mat := isect.Surface.Material()
	response.Hit = true
	response.GeometryType = isect.Surface.Kind()
	response.SurfaceIndex = isect.Index
	response.Point = isect.Point
	response.Normal = isect.Normal
	response.Distance = isect.T
	response.Material = &mat
	response.Shadowed = sc.Shadowed(isect.Point)
	response.Color = sc.Shade(ray, isect)
	if desc, ok := scene.Describe(isect.Surface); ok {
		response.Geometry = &desc
	}

	core.Logger().DebugContext(r.Context(), "inspect",
		"pixel", fmt.Sprintf("%d,%d", x, y), "surface", isect.Index, "type", response.GeometryType)
	writeJSON(w, http.StatusOK, response)
}
