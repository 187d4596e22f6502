package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/geometry"
	"github.com/san-kum/geodesim/internal/integrators"
	"github.com/san-kum/geodesim/internal/oracle"
	"github.com/san-kum/geodesim/internal/physics"
	"github.com/san-kum/geodesim/internal/sim"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix namespaces environment overrides, e.g. GEODESIM_SIMULATION_DT.
const EnvPrefix = "GEODESIM"

type Config struct {
	Logger     LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	Geometry   geometry.Epsilons `mapstructure:"geometry" yaml:"geometry"`
	Physics    PhysicsConfig     `mapstructure:"physics" yaml:"physics"`
	Simulation SimulationConfig  `mapstructure:"simulation" yaml:"simulation"`
	Oracle     OracleConfig      `mapstructure:"oracle" yaml:"oracle"`
	DataDir    string            `mapstructure:"data_dir" yaml:"data_dir"`
}

type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

type PhysicsConfig struct {
	GravityScale float64 `mapstructure:"gravity_scale" yaml:"gravity_scale"`
	RestSpeed    float64 `mapstructure:"rest_speed" yaml:"rest_speed"`
}

type SimulationConfig struct {
	Integrator    string     `mapstructure:"integrator" yaml:"integrator"`
	MaxSteps      int        `mapstructure:"max_steps" yaml:"max_steps"`
	Dt            float64    `mapstructure:"dt" yaml:"dt"`
	GoalRadius    float64    `mapstructure:"goal_radius" yaml:"goal_radius"`
	CaptureRadius float64    `mapstructure:"capture_radius" yaml:"capture_radius"`
	Bounds        sim.Bounds `mapstructure:"bounds" yaml:"bounds"`
}

type OracleConfig struct {
	Grid        oracle.Grid `mapstructure:"grid" yaml:"grid"`
	Concurrency int         `mapstructure:"concurrency" yaml:"concurrency"`
}

// SetDefaults registers every key so env overrides resolve even when no
// config file is present.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "geodesim")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	eps := geometry.DefaultEpsilons()
	v.SetDefault("geometry.gradient_eps", eps.Gradient)
	v.SetDefault("geometry.christoffel_eps", eps.Christoffel)
	v.SetDefault("geometry.curvature_eps", eps.Curvature)

	v.SetDefault("physics.gravity_scale", physics.DefaultGravityScale)
	v.SetDefault("physics.rest_speed", physics.DefaultRestSpeed)

	bounds := sim.DefaultBounds()
	v.SetDefault("simulation.integrator", "rk4")
	v.SetDefault("simulation.max_steps", sim.DefaultMaxSteps)
	v.SetDefault("simulation.dt", sim.DefaultDt)
	v.SetDefault("simulation.goal_radius", sim.DefaultGoalRadius)
	v.SetDefault("simulation.capture_radius", sim.DefaultCaptureRadius)
	v.SetDefault("simulation.bounds.min_x", bounds.MinX)
	v.SetDefault("simulation.bounds.max_x", bounds.MaxX)
	v.SetDefault("simulation.bounds.min_y", bounds.MinY)
	v.SetDefault("simulation.bounds.max_y", bounds.MaxY)

	grid := oracle.DefaultGrid()
	v.SetDefault("oracle.grid.angle_step_deg", grid.AngleStepDeg)
	v.SetDefault("oracle.grid.angle_max_deg", grid.AngleMaxDeg)
	v.SetDefault("oracle.grid.power_min", grid.PowerMin)
	v.SetDefault("oracle.grid.power_max", grid.PowerMax)
	v.SetDefault("oracle.grid.power_step", grid.PowerStep)
	v.SetDefault("oracle.concurrency", 0)

	v.SetDefault("data_dir", ".geodesim")
}

func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load reads path (if non-empty) over the defaults, then applies GEODESIM_*
// environment overrides, then validates.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return NewConfigFromViper(v)
}

func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Geometry.Validate(); err != nil {
		return fmt.Errorf("geometry: %w", err)
	}
	if !(c.Physics.GravityScale >= 0) {
		return fmt.Errorf("physics.gravity_scale must be non-negative: %w", dynamo.ErrInvalidConfiguration)
	}
	if !(c.Physics.RestSpeed >= 0) {
		return fmt.Errorf("physics.rest_speed must be non-negative: %w", dynamo.ErrInvalidConfiguration)
	}
	if _, err := integrators.ByName(c.Simulation.Integrator); err != nil {
		return fmt.Errorf("simulation.integrator: %w", err)
	}
	if err := c.SimOptions().Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if err := c.Oracle.Grid.Validate(); err != nil {
		return fmt.Errorf("oracle.grid: %w", err)
	}
	if c.Oracle.Concurrency < 0 {
		return fmt.Errorf("oracle.concurrency must be non-negative: %w", dynamo.ErrInvalidConfiguration)
	}
	if c.DataDir == "" {
		return errors.New("data_dir is required")
	}
	return nil
}

func (c *Config) SimOptions() sim.Options {
	return sim.Options{
		MaxSteps:      c.Simulation.MaxSteps,
		Dt:            c.Simulation.Dt,
		Bounds:        c.Simulation.Bounds,
		GoalRadius:    c.Simulation.GoalRadius,
		CaptureRadius: c.Simulation.CaptureRadius,
	}
}

// SimulatorOptions wires the geometry, physics and integrator settings
// into a simulator. The integrator name is assumed validated.
func (c *Config) SimulatorOptions(logger *zap.Logger) []sim.SimOption {
	opts := []sim.SimOption{
		sim.WithEngineOptions(geometry.WithEpsilons(c.Geometry)),
		sim.WithGeodesic(c.Physics.GravityScale, c.Physics.RestSpeed),
		sim.WithLogger(logger),
	}
	if integ, err := integrators.ByName(c.Simulation.Integrator); err == nil {
		opts = append(opts, sim.WithIntegrator(integ))
	}
	return opts
}

func (c *Config) NewOracle(logger *zap.Logger) *oracle.Oracle {
	return &oracle.Oracle{
		Grid:        c.Oracle.Grid,
		Options:     c.SimOptions(),
		Concurrency: c.Oracle.Concurrency,
		SimOptions:  c.SimulatorOptions(logger),
		Logger:      logger,
	}
}
