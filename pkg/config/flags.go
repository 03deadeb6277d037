package config

import "flag"

// Flags holds command-line overrides. Only flags given on the command line
// replace file or default values.
type Flags struct {
	fs *flag.FlagSet

	ConfigPath string

	scene    string
	sceneDir string
	lightX   float64
	lightZ   float64
	output   string
	width    int
	height   int
	maxDepth int
	workers  int
	tileSize int
	verbose  bool
	logLevel string
	logFile  string
	addr     string
}

// RegisterFlags defines the configuration flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file (default ./"+DefaultPath+" if present)")
	fs.StringVar(&f.scene, "scene", "", "Built-in scene ID or path to a .yaml/.toml scene file")
	fs.StringVar(&f.sceneDir, "scene-dir", "", "Directory searched for scene files")
	fs.Float64Var(&f.lightX, "light-x", 0, "X position of the movable light")
	fs.Float64Var(&f.lightZ, "light-z", 0, "Z position of the movable light")
	fs.StringVar(&f.output, "output", "", "Output image path (.ppm, .png or .bmp)")
	fs.IntVar(&f.width, "width", 0, "Image width in pixels")
	fs.IntVar(&f.height, "height", 0, "Image height in pixels")
	fs.IntVar(&f.maxDepth, "max-depth", 0, "Reflection and refraction recursion limit")
	fs.IntVar(&f.workers, "workers", 0, "Number of render workers (0 = one per CPU)")
	fs.IntVar(&f.tileSize, "tile-size", 0, "Render tile edge length in pixels")
	fs.BoolVar(&f.verbose, "verbose", false, "Print render time and frames per second")
	fs.BoolVar(&f.verbose, "v", false, "Shorthand for -verbose")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	fs.StringVar(&f.logFile, "log-file", "", "Also write logs to this rotating file")
	fs.StringVar(&f.addr, "addr", "", "Listen address for the web server")
	return f
}

// Apply copies every flag that was set on the command line into cfg.
func (f *Flags) Apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "scene":
			cfg.Scene.Name = f.scene
		case "scene-dir":
			cfg.Scene.Dir = f.sceneDir
		case "light-x":
			cfg.Scene.LightX = f.lightX
		case "light-z":
			cfg.Scene.LightZ = f.lightZ
		case "output":
			cfg.Output.Path = f.output
		case "width":
			cfg.Render.Width = f.width
		case "height":
			cfg.Render.Height = f.height
		case "max-depth":
			cfg.Render.MaxDepth = f.maxDepth
		case "workers":
			cfg.Render.Workers = f.workers
		case "tile-size":
			cfg.Render.TileSize = f.tileSize
		case "verbose", "v":
			cfg.Output.Verbose = f.verbose
		case "log-level":
			cfg.Logging.Level = f.logLevel
		case "log-file":
			cfg.Logging.LogFile = f.logFile
		case "addr":
			cfg.Server.Addr = f.addr
		}
	})
}

// Load reads the config file named by -config and applies the flags on top.
func (f *Flags) Load() (*Config, error) {
	cfg, err := Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	f.Apply(cfg)
	return cfg, nil
}
