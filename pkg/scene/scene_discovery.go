package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the scene file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const (
	builtinGroup    = "Built-in Scenes"
	fileScenePrefix = "file:"
)

// ListSceneFiles scans dir for YAML and TOML scene files. A missing directory
// yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if dir == "" {
		return []SceneInfo{}, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !IsSceneFile(entry.Name()) {
			continue
		}
		// unreadable files are left out of the listing
		if info, err := ParseSceneMetadata(filepath.Join(dir, entry.Name())); err == nil {
			scenes = append(scenes, info)
		}
	}
	sort.Slice(scenes, func(i, j int) bool { return scenes[i].DisplayName < scenes[j].DisplayName })

	return scenes, nil
}

// ParseSceneMetadata reads the leading "# Key: value" comment block of a scene
// file. Recognised keys are Scene, Description and Group; the file name fills
// in anything missing.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	title := titleCase(base)
	info := SceneInfo{
		ID:          fileScenePrefix + base,
		Name:        title,
		DisplayName: title,
		Group:       "Scene Files",
		Type:        "file",
		FilePath:    filePath,
	}

	f, err := os.Open(filePath)
	if err != nil {
		return info, err
	}
	defer f.Close()

	fields := map[string]*string{
		"scene":       &info.Name,
		"description": &info.Description,
		"group":       &info.Group,
	}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		comment, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), "#")
		if !ok {
			break
		}
		key, value, found := strings.Cut(comment, ":")
		if !found {
			continue
		}
		if dst, known := fields[strings.ToLower(strings.TrimSpace(key))]; known {
			*dst = strings.TrimSpace(value)
		}
	}
	info.DisplayName = info.Name

	return info, sc.Err()
}

// ListScenes returns every scene grouped by Group. The built-in group comes
// first and the remaining groups follow in alphabetical order.
func ListScenes(dir string) (ScenesResponse, error) {
	fileScenes, err := ListSceneFiles(dir)
	if err != nil {
		return ScenesResponse{}, fmt.Errorf("failed to list scene files: %w", err)
	}

	var groups []SceneGroup
	index := make(map[string]int)
	for _, info := range append(BuiltinScenes(), fileScenes...) {
		i, seen := index[info.Group]
		if !seen {
			i = len(groups)
			index[info.Group] = i
			groups = append(groups, SceneGroup{Name: info.Group})
		}
		groups[i].Scenes = append(groups[i].Scenes, info)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if (groups[i].Name == builtinGroup) != (groups[j].Name == builtinGroup) {
			return groups[i].Name == builtinGroup
		}
		return groups[i].Name < groups[j].Name
	})

	return ScenesResponse{Groups: groups}, nil
}

// titleCase turns "facing-mirrors" into "Facing Mirrors"
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
