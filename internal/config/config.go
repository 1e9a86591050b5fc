package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"BanditLab/internal/arm"
	"BanditLab/internal/policy"
	"BanditLab/internal/stats"

	"gopkg.in/yaml.v3"
)

// Experiment is one named policy configuration evaluated over several runs.
type Experiment struct {
	Name        string      `yaml:"name"`
	Policy      policy.Type `yaml:"policy"`
	Epsilon     float64     `yaml:"epsilon"`
	Temperature float64     `yaml:"temperature"`
	Horizon     int         `yaml:"horizon"`
	Runs        int         `yaml:"runs"`
	Arms        []float64   `yaml:"arms"`

	horizonSet bool
}

// UnmarshalYAML records whether horizon was given, so an explicit 0 survives
// applyDefaults.
func (e *Experiment) UnmarshalYAML(value *yaml.Node) error {
	type plain Experiment
	if err := value.Decode((*plain)(e)); err != nil {
		return err
	}
	var keys struct {
		Horizon *int `yaml:"horizon"`
	}
	if err := value.Decode(&keys); err != nil {
		return err
	}
	e.horizonSet = keys.Horizon != nil
	return nil
}

// PolicyConfig returns the policy record for this experiment's arm set.
func (e Experiment) PolicyConfig() policy.Config {
	return policy.Config{
		Type:        e.Policy,
		N:           len(e.Arms),
		Epsilon:     e.Epsilon,
		Temperature: e.Temperature,
	}
}

// RandomArms describes an arm set drawn as U[0,1)*Scale.
type RandomArms struct {
	Count int     `yaml:"count"`
	Scale float64 `yaml:"scale"`
}

// Config holds all application configuration.
type Config struct {
	Seed     uint64 `yaml:"seed"`
	Workers  int    `yaml:"workers"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Output struct {
		ChartPath string `yaml:"chart_path"`
		JSONPath  string `yaml:"json_path"`
	} `yaml:"output"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Arms        []float64    `yaml:"arms"`
	RandomArms  *RandomArms  `yaml:"random_arms"`
	Experiments []Experiment `yaml:"experiments"`
}

// DefaultArms is the arm set used when neither arms nor random_arms is configured.
var DefaultArms = []float64{0.1, 0.1, 0.1, 0.1, 0.9}

// DefaultExperiments runs each policy once with textbook parameters.
func DefaultExperiments() []Experiment {
	return []Experiment{
		{Name: "epsilon-greedy-0.1", Policy: policy.TypeEpsilonGreedy, Epsilon: 0.1},
		{Name: "softmax-0.1", Policy: policy.TypeSoftmax, Temperature: 0.1},
		{Name: "annealing-softmax", Policy: policy.TypeAnnealingSoftmax},
		{Name: "ucb1", Policy: policy.TypeUCB1},
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BANDIT_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse BANDIT_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	if v := os.Getenv("BANDIT_WORKERS"); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse BANDIT_WORKERS: %w", err)
		}
		cfg.Workers = workers
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CHART_PATH"); v != "" {
		cfg.Output.ChartPath = v
	}
	if v := os.Getenv("JSON_PATH"); v != "" {
		cfg.Output.JSONPath = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Seed == 0 {
		c.Seed = 1
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/banditlab.db"
	}
	if c.Output.ChartPath == "" {
		c.Output.ChartPath = "data/report.html"
	}
	if c.Output.JSONPath == "" {
		c.Output.JSONPath = "data/summary.json"
	}
	if len(c.Arms) == 0 && c.RandomArms == nil {
		c.Arms = append([]float64(nil), DefaultArms...)
	}
	if len(c.Experiments) == 0 {
		c.Experiments = DefaultExperiments()
	}
	for i := range c.Experiments {
		e := &c.Experiments[i]
		if t, err := policy.ParseType(string(e.Policy)); err == nil {
			e.Policy = t
		}
		if e.Horizon == 0 && !e.horizonSet {
			e.Horizon = 1000
		}
		if e.Runs == 0 {
			e.Runs = 1
		}
		if e.Name == "" {
			e.Name = fmt.Sprintf("%s-%d", e.Policy, i)
		}
	}
}

// ResolveArms fills in every experiment's arm set. Experiments without their
// own arms take the global list; with random_arms configured, the global list
// is drawn once from src.
func (c *Config) ResolveArms(src stats.Source) error {
	if len(c.Arms) == 0 && c.RandomArms != nil {
		probs, err := arm.RandomProbabilities(c.RandomArms.Count, c.RandomArms.Scale, src)
		if err != nil {
			return fmt.Errorf("random_arms: %w", err)
		}
		c.Arms = probs
	}
	for i := range c.Experiments {
		if len(c.Experiments[i].Arms) == 0 {
			c.Experiments[i].Arms = append([]float64(nil), c.Arms...)
		}
	}
	return nil
}

// Validate checks global settings and every experiment. It must run after
// ResolveArms so each experiment's arm count is known.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.RandomArms != nil {
		if c.RandomArms.Count <= 0 {
			return fmt.Errorf("random_arms.count must be positive")
		}
		if math.IsNaN(c.RandomArms.Scale) || c.RandomArms.Scale <= 0 || c.RandomArms.Scale > 1 {
			return fmt.Errorf("random_arms.scale must be within (0, 1]")
		}
	}
	seen := make(map[string]bool, len(c.Experiments))
	for _, e := range c.Experiments {
		if seen[e.Name] {
			return fmt.Errorf("experiment %q: duplicate name", e.Name)
		}
		seen[e.Name] = true
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks one experiment.
func (e Experiment) Validate() error {
	if e.Horizon < 0 {
		return fmt.Errorf("experiment %q: horizon must not be negative", e.Name)
	}
	if e.Runs <= 0 {
		return fmt.Errorf("experiment %q: runs must be positive", e.Name)
	}
	for i, p := range e.Arms {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("experiment %q: arm %d probability %v outside [0, 1]", e.Name, i, p)
		}
	}
	if err := e.PolicyConfig().Validate(); err != nil {
		return fmt.Errorf("experiment %q: %w", e.Name, err)
	}
	return nil
}
