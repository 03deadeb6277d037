package scene

import (
	"fmt"
	"os"
	"strings"
)

type builtinScene struct {
	info  SceneInfo
	build func(Options) (*Scene, error)
}

var builtins = []builtinScene{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			DisplayName: "Default Scene",
			Description: "Room with mirror, glass and rainbow spheres, two cones and three lights",
		},
		build: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "mirrors",
			Name:        "Facing Mirrors",
			DisplayName: "Facing Mirrors",
			Description: "Corridor between two parallel mirrors",
		},
		build: NewMirrorsScene,
	},
	{
		info: SceneInfo{
			ID:          "textures",
			Name:        "Textures",
			DisplayName: "Textures",
			Description: "Checkerboard and rainbow textured spheres",
		},
		build: NewTexturesScene,
	},
}

// BuiltinScenes returns metadata for every built-in scene in registration order
func BuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, len(builtins))
	for i, b := range builtins {
		infos[i] = b.info
		infos[i].Group = builtinGroup
		infos[i].Type = "builtin"
	}
	return infos
}

// Builtin creates the built-in scene with the given ID
func Builtin(id string, opts Options) (*Scene, error) {
	for _, b := range builtins {
		if b.info.ID == id {
			s, err := b.build(opts)
			if err != nil {
				return nil, fmt.Errorf("failed to build scene %q: %w", id, err)
			}
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

// Load resolves name as a scene file when it has a scene extension and exists,
// and as a built-in scene ID otherwise
func Load(name string, opts Options) (*Scene, error) {
	if IsSceneFile(name) {
		if _, err := os.Stat(name); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownScene, err)
		}
		return LoadFile(name)
	}
	return Builtin(name, opts)
}

// Resolve loads a scene by the ID reported from ListScenes, falling back to
// Load so the command line can also name scene files by path.
func Resolve(id, dir string, opts Options) (*Scene, error) {
	if strings.HasPrefix(id, fileScenePrefix) {
		return ResolveID(id, dir, opts)
	}
	return Load(id, opts)
}

// ResolveID loads a built-in scene or a "file:<name>" scene listed by
// ListSceneFiles(dir). Paths are never opened directly, so only files in dir
// are reachable.
func ResolveID(id, dir string, opts Options) (*Scene, error) {
	if !strings.HasPrefix(id, fileScenePrefix) {
		return Builtin(id, opts)
	}

	info, err := FindSceneFile(id, dir)
	if err != nil {
		return nil, err
	}
	return LoadFile(info.FilePath)
}

// FindSceneFile returns the listing entry for a "file:<name>" ID in dir
func FindSceneFile(id, dir string) (SceneInfo, error) {
	files, err := ListSceneFiles(dir)
	if err != nil {
		return SceneInfo{}, err
	}
	for _, info := range files {
		if info.ID == id {
			return info, nil
		}
	}
	return SceneInfo{}, fmt.Errorf("%w: %q not found in %s", ErrUnknownScene, id, dir)
}
