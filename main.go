package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/logger"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run parses args, renders the selected scene and returns the exit code
func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	list := fs.Bool("list", false, "List available scenes and exit")
	watch := fs.Bool("watch", false, "Re-render whenever the scene file changes")
	writeConfig := fs.String("write-config", "", "Save the merged configuration to this YAML file and exit")
	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := flags.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(fs.Output(), "Error: %v\n", err)
		return 2
	}

	if *writeConfig != "" {
		if err := cfg.SaveTo(*writeConfig); err != nil {
			fmt.Fprintf(fs.Output(), "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote configuration to %s\n", *writeConfig)
		return 0
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(fs.Output(), "Error: %v\n", err)
		return 2
	}
	defer logger.Sync()

	if *list {
		if err := printScenes(stdout, cfg.Scene.Dir); err != nil {
			logger.Error("failed to list scenes", zap.Error(err))
			return 1
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := renderOnce(ctx, cfg, stdout); err != nil {
		logger.Error("render failed", zap.Error(err))
		return 1
	}

	if *watch {
		if err := watchScene(ctx, cfg, stdout); err != nil {
			logger.Error("watch failed", zap.Error(err))
			return 1
		}
	}
	return 0
}

// createScene resolves a built-in scene ID, a "file:" ID from the scene
// directory, or a path to a scene file
func createScene(cfg *config.Config) (*scene.Scene, error) {
	opts := scene.Options{LightX: cfg.Scene.LightX, LightZ: cfg.Scene.LightZ}
	return scene.Resolve(cfg.Scene.Name, cfg.Scene.Dir, opts)
}

// renderOnce renders the configured scene and writes the image
func renderOnce(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	s, err := createScene(cfg)
	if err != nil {
		return err
	}

	whitted := integrator.NewWhitted(s, integrator.WithMaxDepth(cfg.Render.MaxDepth))
	rt, err := renderer.NewRaytracer(s, whitted, cfg.Render.Width, cfg.Render.Height,
		renderer.Config{TileSize: cfg.Render.TileSize, Workers: cfg.Render.Workers},
		logger.Named("renderer"))
	if err != nil {
		return err
	}

	img, stats, err := rt.Render(ctx)
	if err != nil {
		return err
	}

	if err := img.Save(cfg.Output.Path); err != nil {
		return err
	}
	logger.Info("image saved", zap.String("path", cfg.Output.Path))

	if cfg.Output.Verbose {
		fmt.Fprintf(stdout, "Rendered %s in %.3f seconds (%.2f fps)\n", s.Name, stats.Duration.Seconds(), stats.FPS())
	}
	return nil
}

// watchPath returns the file behind the configured scene, which is either a
// path or a "file:" ID from the scene directory
func watchPath(cfg *config.Config) (string, error) {
	name := cfg.Scene.Name
	if strings.HasPrefix(name, "file:") {
		info, err := scene.FindSceneFile(name, cfg.Scene.Dir)
		if err != nil {
			return "", err
		}
		return info.FilePath, nil
	}
	if !scene.IsSceneFile(name) {
		return "", fmt.Errorf("-watch needs a scene file, got %q", name)
	}
	return name, nil
}

// watchScene re-renders each time the scene file is saved until ctx is done
func watchScene(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	path, err := watchPath(cfg)
	if err != nil {
		return err
	}

	logger.Info("watching scene file", zap.String("path", path))
	return scene.Watch(ctx, path, func() {
		if err := renderOnce(ctx, cfg, stdout); err != nil {
			logger.Warn("re-render failed", zap.Error(err))
		}
	})
}

// printScenes writes every scene ID grouped by category
func printScenes(w io.Writer, dir string) error {
	resp, err := scene.ListScenes(dir)
	if err != nil {
		return err
	}

	for _, group := range resp.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			if info.Description != "" {
				fmt.Fprintf(w, "  %-24s %s\n", info.ID, info.Description)
			} else {
				fmt.Fprintf(w, "  %s\n", info.ID)
			}
		}
	}
	return nil
}

func printUsage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "Whitted Raytracer")
	fmt.Fprintln(out, "Usage: raytracer [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	fs.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Built-in scenes:")
	for _, info := range scene.BuiltinScenes() {
		fmt.Fprintf(out, "  %-10s %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Scene files (.yaml, .yml, .toml) can be given by path or as file:<name>.")
	fmt.Fprintln(out, "Output is saved to out/result.ppm unless -output says otherwise.")
}
