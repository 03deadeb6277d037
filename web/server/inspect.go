package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/raster"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	ShapeIndex   int                    `json:"shapeIndex"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	UV           [2]float64             `json:"uv"`
	Color        [3]float64             `json:"color"` // Traced pixel color
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func vec3Array(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// hexColor formats c with the same channel bytes the image encoders write
func hexColor(c core.Vec3) string {
	return fmt.Sprintf("#%02x%02x%02x", raster.ChannelByte(c.X), raster.ChannelByte(c.Y), raster.ChannelByte(c.Z))
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Phong:
		properties["ambient"] = vec3Array(m.Ambient)
		properties["diffuse"] = vec3Array(m.Diffuse)
		properties["specular"] = vec3Array(m.Specular)
		properties["shininess"] = m.Shininess
		properties["color"] = hexColor(m.Diffuse)
		if m.Texture != material.TextureNone {
			properties["texture"] = m.Texture.String()
		}
		return m.Mode().String(), properties

	case *material.Reflective:
		properties["reflectiveness"] = m.Reflectiveness
		return m.Mode().String(), properties

	case *material.Refractive:
		properties["refractiveness"] = m.Refractiveness
		properties["indexRatio"] = m.IndexRatio
		properties["color"] = "#ffffff" // Clear glass
		return m.Mode().String(), properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vec3Array(geom.Transform().PointToWorld(core.Vec3{}))
		return "sphere", properties

	case *geometry.Cone:
		t := geom.Transform()
		properties["apex"] = vec3Array(t.PointToWorld(core.Vec3{}))
		properties["capCenter"] = vec3Array(t.PointToWorld(core.NewVec3(0, 1, 0)))
		return "cone", properties

	case *geometry.Plane:
		properties["point"] = vec3Array(geom.Point)
		properties["normal"] = vec3Array(geom.Normal)
		return "plane", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts the primary ray through the center of pixel (x, y) and
// reports the closest hit along with the color the tracer produces for it
func inspectPixel(sceneObj *scene.Scene, whitted *integrator.Whitted, width, height, x, y int) InspectResponse {
	camera := geometry.NewCamera(sceneObj.CameraConfig, width, height)
	ray := camera.RayForPixel(x, y)

	hit, ok := whitted.Closest(ray)
	if !ok {
		return InspectResponse{Hit: false, ShapeIndex: -1}
	}

	index := -1
	for i, shape := range sceneObj.Shapes {
		if shape == hit.Shape {
			index = i
			break
		}
	}

	materialType, materialProps := extractMaterialInfo(hit.Shape.Material())
	geometryType, geometryProps := extractGeometryInfo(hit.Shape)

	return InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		ShapeIndex:   index,
		Point:        vec3Array(hit.Point),
		Normal:       vec3Array(hit.Normal),
		Distance:     hit.Distance,
		UV:           [2]float64{hit.UV.U, hit.UV.V},
		Color:        vec3Array(whitted.RayColor(ray)),
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	req, err := s.parseSceneRequest(values)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	pixelX, err := strconv.Atoi(values.Get("x"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid x coordinate %q", values.Get("x")))
		return
	}
	pixelY, err := strconv.Atoi(values.Get("y"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid y coordinate %q", values.Get("y")))
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("pixel (%d,%d) is outside the %dx%d image", pixelX, pixelY, req.Width, req.Height))
		return
	}

	sceneObj, ok := s.loadScene(w, req)
	if !ok {
		return
	}

	whitted := integrator.NewWhitted(sceneObj, integrator.WithMaxDepth(req.MaxDepth))
	writeJSON(w, http.StatusOK, inspectPixel(sceneObj, whitted, req.Width, req.Height, pixelX, pixelY))
}
