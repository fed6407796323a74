package orchestrator

import (
	"log/slog"

	"github.com/crobbins327/valis/features"
	"github.com/crobbins327/valis/micro"
	"github.com/crobbins327/valis/nonrigid"
	"github.com/crobbins327/valis/rigid"
	"github.com/crobbins327/valis/slide"
	"github.com/crobbins327/valis/warp"
)

// Option mutates a Config during NewConfig; later options override
// earlier ones. Option constructors never panic and ignore nil inputs.
type Option func(*Config)

// Config collects every tunable the distilled spec left as "a chosen
// policy"/"a configurable value" (§4.10), plus the pluggable external
// collaborators (§6) a caller must supply.
type Config struct {
	Detector     features.Detector
	Solver       nonrigid.Solver
	DetectorName string
	SolverName   string

	MaxProcessedImageDim int
	MaxImageDim          int
	ThumbnailDim         int
	MaxNonRigidDim       int

	NormMethod     slide.NormMethod
	TransformClass rigid.TransformClass
	MatchFilter    features.FilterMethod
	FilterTol      float64
	FilterIters    int

	CheckReflections bool
	CropMode         warp.CropMode
	ComposeNonRigid  bool
	OrderIsKnown     bool

	RunMicro          bool
	MicroOpts         micro.Options
	MemoryBudgetBytes int64

	MaskCloseRadius int
	DenoiseRadius   int

	NumWorkers        int
	MaxRegionsInFlight int64
	Seed              int64

	Logger *slog.Logger
}

// NewConfig applies every §4.10 default, then each opt in order.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		MaxProcessedImageDim: 850,
		MaxImageDim:          850,
		ThumbnailDim:         500,
		MaxNonRigidDim:       3000,

		NormMethod:     slide.NormImgStats,
		TransformClass: rigid.Similarity,
		MatchFilter:    features.FilterRANSAC,
		FilterTol:      5.0,
		FilterIters:    500,

		CheckReflections: true,
		CropMode:         warp.CropReference,
		ComposeNonRigid:  true,

		OrderIsKnown: true,

		RunMicro:  false,
		MicroOpts: micro.DefaultOptions(),

		MaskCloseRadius: 3,
		DenoiseRadius:   1,

		NumWorkers:         4,
		MaxRegionsInFlight: 4,
		Seed:               0,

		Logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func WithDetector(d features.Detector) Option {
	return func(c *Config) {
		if d != nil {
			c.Detector = d
		}
	}
}

func WithSolver(s nonrigid.Solver) Option {
	return func(c *Config) {
		if s != nil {
			c.Solver = s
		}
	}
}

// WithDetectorName/WithSolverName record the collaborator's display name
// for the persisted artifact (§6 "solver names"); the interfaces
// themselves carry no Name() method since concrete implementations are
// external collaborators.
func WithDetectorName(name string) Option {
	return func(c *Config) { c.DetectorName = name }
}

func WithSolverName(name string) Option {
	return func(c *Config) { c.SolverName = name }
}

func WithOrderIsKnown(known bool) Option {
	return func(c *Config) { c.OrderIsKnown = known }
}

func WithNumWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.NumWorkers = n
		}
	}
}

func WithSeed(seed int64) Option {
	return func(c *Config) { c.Seed = seed }
}

func WithTransformClass(class rigid.TransformClass) Option {
	return func(c *Config) { c.TransformClass = class }
}

func WithMatchFilter(method features.FilterMethod) Option {
	return func(c *Config) { c.MatchFilter = method }
}

func WithNormMethod(method slide.NormMethod) Option {
	return func(c *Config) { c.NormMethod = method }
}

func WithCropMode(mode warp.CropMode) Option {
	return func(c *Config) { c.CropMode = mode }
}

func WithMicro(run bool, opts micro.Options) Option {
	return func(c *Config) {
		c.RunMicro = run
		c.MicroOpts = opts
	}
}

func WithMemoryBudgetBytes(n int64) Option {
	return func(c *Config) {
		if n > 0 {
			c.MemoryBudgetBytes = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}
