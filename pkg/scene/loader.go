package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Description is the file form of a scene. Vectors are written as three-element
// lists and shapes refer to materials by name.
type Description struct {
	Name      string                         `yaml:"name" toml:"name"`
	Ambient   *[3]float64                    `yaml:"ambient" toml:"ambient"`
	Camera    *CameraDescription             `yaml:"camera" toml:"camera"`
	Materials map[string]MaterialDescription `yaml:"materials" toml:"materials"`
	Shapes    []ShapeDescription             `yaml:"shapes" toml:"shapes"`
	Lights    []LightDescription             `yaml:"lights" toml:"lights"`
}

// CameraDescription describes the pinhole camera. Omitted fields use the default camera.
type CameraDescription struct {
	Position [3]float64 `yaml:"position" toml:"position"`
	LookAt   [3]float64 `yaml:"look_at" toml:"look_at"`
	Up       [3]float64 `yaml:"up" toml:"up"`
	FOV      float64    `yaml:"fov" toml:"fov"`
}

// MaterialDescription describes one named material. Type selects the shading mode:
// "phong" (default), "reflective" or "refractive".
type MaterialDescription struct {
	Type           string     `yaml:"type" toml:"type"`
	Ambient        [3]float64 `yaml:"ambient" toml:"ambient"`
	Diffuse        [3]float64 `yaml:"diffuse" toml:"diffuse"`
	Specular       [3]float64 `yaml:"specular" toml:"specular"`
	Shininess      float64    `yaml:"shininess" toml:"shininess"`
	Texture        string     `yaml:"texture" toml:"texture"`
	Reflectiveness float64    `yaml:"reflectiveness" toml:"reflectiveness"`
	Refractiveness float64    `yaml:"refractiveness" toml:"refractiveness"`
	IndexRatio     float64    `yaml:"index_ratio" toml:"index_ratio"`
}

// ShapeDescription describes a sphere, cone or plane. Spheres and cones are placed
// with Transform steps; planes use Point and Normal directly.
type ShapeDescription struct {
	Type      string          `yaml:"type" toml:"type"`
	Material  string          `yaml:"material" toml:"material"`
	Point     [3]float64      `yaml:"point" toml:"point"`
	Normal    [3]float64      `yaml:"normal" toml:"normal"`
	Transform []TransformStep `yaml:"transform" toml:"transform"`
}

// TransformStep is one factor of an object-to-world matrix. Exactly one field is
// set. Steps multiply left to right, so the last step is applied to the shape first.
type TransformStep struct {
	Translate *[3]float64 `yaml:"translate,omitempty" toml:"translate,omitempty"`
	Scale     *[3]float64 `yaml:"scale,omitempty" toml:"scale,omitempty"`
	Rotate    *RotateStep `yaml:"rotate,omitempty" toml:"rotate,omitempty"`
}

// RotateStep rotates about Axis. Radians, when non-zero, takes precedence over Degrees.
type RotateStep struct {
	Axis    [3]float64 `yaml:"axis" toml:"axis"`
	Degrees float64    `yaml:"degrees" toml:"degrees"`
	Radians float64    `yaml:"radians" toml:"radians"`
}

// LightDescription describes a point light
type LightDescription struct {
	Position [3]float64 `yaml:"position" toml:"position"`
	Color    [3]float64 `yaml:"color" toml:"color"`
}

// IsSceneFile reports whether path has a scene file extension
func IsSceneFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// LoadFile reads a YAML or TOML scene file and builds the scene
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	desc, err := Decode(bytes.NewReader(data), filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if desc.Name == "" {
		desc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	s, err := desc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scene from %s: %w", path, err)
	}
	return s, nil
}

// Decode reads a scene description in the format named by ext (".yaml", ".yml" or
// ".toml"). Unknown fields are rejected.
func Decode(r io.Reader, ext string) (*Description, error) {
	var desc Description
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(r)
		decoder.KnownFields(true)
		if err := decoder.Decode(&desc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("yaml: %w", err)
		}
	case ".toml":
		decoder := toml.NewDecoder(r)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&desc); err != nil {
			return nil, fmt.Errorf("toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported scene format %q", ext)
	}
	return &desc, nil
}

// Build constructs the scene, validating materials, transforms and references
func (d *Description) Build() (*Scene, error) {
	s := New(d.Name)
	if d.Ambient != nil {
		s.Ambient = vec(*d.Ambient)
	}
	if d.Camera != nil {
		s.CameraConfig = geometry.CameraConfig{
			Position: vec(d.Camera.Position),
			LookAt:   vec(d.Camera.LookAt),
			Up:       vec(d.Camera.Up),
			FOV:      d.Camera.FOV,
		}
		if err := s.CameraConfig.Validate(); err != nil {
			return nil, fmt.Errorf("%w: camera: %w", ErrInvalidScene, err)
		}
	}

	materials := make(map[string]material.Material, len(d.Materials))
	for name, md := range d.Materials {
		mat, err := md.build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}

	for i, sd := range d.Shapes {
		mat, ok := materials[sd.Material]
		if !ok {
			return nil, fmt.Errorf("%w: shape %d references unknown material %q", ErrInvalidScene, i, sd.Material)
		}
		shape, err := sd.build(mat)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		s.Add(shape)
	}

	for _, ld := range d.Lights {
		s.AddLight(vec(ld.Position), vec(ld.Color))
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (md MaterialDescription) build() (material.Material, error) {
	switch strings.ToLower(md.Type) {
	case "", "phong":
		texture, err := material.ParseTexture(md.Texture)
		if err != nil {
			return nil, err
		}
		phong, err := material.NewPhong(vec(md.Ambient), vec(md.Diffuse), vec(md.Specular), md.Shininess)
		if err != nil {
			return nil, err
		}
		phong.Texture = texture
		return phong, nil
	case "reflective", "mirror":
		return material.NewReflective(md.Reflectiveness)
	case "refractive", "glass":
		return material.NewRefractive(md.Refractiveness, md.IndexRatio)
	default:
		return nil, fmt.Errorf("%w: unknown material type %q", material.ErrInvalidMaterial, md.Type)
	}
}

func (sd ShapeDescription) build(mat material.Material) (geometry.Shape, error) {
	switch strings.ToLower(sd.Type) {
	case "sphere":
		m, err := buildTransform(sd.Transform)
		if err != nil {
			return nil, err
		}
		return geometry.NewSphere(mat, m)
	case "cone":
		m, err := buildTransform(sd.Transform)
		if err != nil {
			return nil, err
		}
		return geometry.NewCone(mat, m)
	case "plane":
		normal := vec(sd.Normal)
		if normal.LengthSquared() == 0 {
			return nil, fmt.Errorf("%w: plane normal must be non-zero", ErrInvalidScene)
		}
		return geometry.NewPlane(vec(sd.Point), normal, mat), nil
	default:
		return nil, fmt.Errorf("%w: unknown shape type %q", ErrInvalidScene, sd.Type)
	}
}

// buildTransform multiplies the steps left to right
func buildTransform(steps []TransformStep) (mgl64.Mat4, error) {
	matrices := make([]mgl64.Mat4, 0, len(steps))
	for i, step := range steps {
		switch {
		case step.Translate != nil:
			matrices = append(matrices, core.Translate(vec(*step.Translate)))
		case step.Scale != nil:
			matrices = append(matrices, core.Scale(vec(*step.Scale)))
		case step.Rotate != nil:
			axis := vec(step.Rotate.Axis)
			if axis.LengthSquared() == 0 {
				return mgl64.Mat4{}, fmt.Errorf("%w: transform step %d has a zero rotation axis", ErrInvalidScene, i)
			}
			degrees := step.Rotate.Degrees
			if step.Rotate.Radians != 0 {
				degrees = mgl64.RadToDeg(step.Rotate.Radians)
			}
			matrices = append(matrices, core.RotateDegrees(degrees, axis))
		default:
			return mgl64.Mat4{}, fmt.Errorf("%w: transform step %d is empty", ErrInvalidScene, i)
		}
	}
	return core.Compose(matrices...), nil
}

func vec(v [3]float64) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
