// Package config loads and persists the tvrename configuration. The
// on-disk format is TOML at ~/.config/tvrename/config.toml, read through
// viper so partial files overlay the defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Nomadcxx/tvrename/internal/finder"
	"github.com/Nomadcxx/tvrename/internal/logging"
	"github.com/Nomadcxx/tvrename/internal/paths"
	"github.com/Nomadcxx/tvrename/internal/renamer"
	"github.com/Nomadcxx/tvrename/internal/transform"
)

type ParseConfig struct {
	// GrammarOrder overrides the grammar priority. Must be a full
	// permutation of the known grammar names when set.
	GrammarOrder []string `mapstructure:"grammar_order"`
}

type ReplaceConfig struct {
	Replace []transform.Rule `mapstructure:"replace"`
}

type FormatConfig struct {
	Templates renamer.Templates `mapstructure:"templates"`

	EpisodeSingle    string `mapstructure:"episode_single"`
	EpisodeSeparator string `mapstructure:"episode_separator"`
	MultiEpJoin      string `mapstructure:"multiep_join"`

	Lowercase        bool   `mapstructure:"lowercase"`
	Titlecase        bool   `mapstructure:"titlecase"`
	NormalizeUnicode bool   `mapstructure:"normalize_unicode"`
	Blacklist        string `mapstructure:"character_blacklist"`
	ReplaceWith      string `mapstructure:"replace_invalid_with"`
	WindowsSafe      bool   `mapstructure:"windows_safe"`

	LowercaseDestination bool `mapstructure:"lowercase_destination"`
}

type MoveConfig struct {
	Enable   bool `mapstructure:"enable"`
	MoveOnly bool `mapstructure:"move_only"`

	Destination         string `mapstructure:"destination"`
	DestinationAlt      string `mapstructure:"destination_alt"`
	DestinationDated    string `mapstructure:"destination_date"`
	DestinationNoSeason string `mapstructure:"destination_no_season"`

	// DestinationIsFilepath means the destination template expands to a
	// full file path rather than a directory.
	DestinationIsFilepath bool `mapstructure:"destination_is_filepath"`

	AlwaysMove      bool `mapstructure:"always_move"`
	OverwriteOnMove bool `mapstructure:"overwrite_on_move"`
	LeaveSymlink    bool `mapstructure:"leave_symlink"`
}

type RenameConfig struct {
	OverwriteOnRename bool `mapstructure:"overwrite_on_rename"`
}

type ScanConfig struct {
	// ValidExtensions filters candidate files; empty accepts everything.
	ValidExtensions   []string               `mapstructure:"valid_extensions"`
	FilenameBlacklist []finder.BlacklistRule `mapstructure:"filename_blacklist"`
	Recursive         bool                   `mapstructure:"recursive"`
}

type BehaviorConfig struct {
	// Batch implies SelectFirst and AlwaysRename.
	Batch           bool   `mapstructure:"batch"`
	AlwaysRename    bool   `mapstructure:"always_rename"`
	SelectFirst     bool   `mapstructure:"select_first"`
	SkipFileOnError bool   `mapstructure:"skip_file_on_error"`
	SkipBehaviour   string `mapstructure:"skip_behaviour"` // skip or exit
	Order           string `mapstructure:"order"`          // aired or dvd
	ForceName       string `mapstructure:"force_name"`
	SeriesID        int    `mapstructure:"series_id"`
	DryRun          bool   `mapstructure:"dry_run"`
}

type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type Config struct {
	Parse    ParseConfig    `mapstructure:"parse"`
	Input    ReplaceConfig  `mapstructure:"input"`
	Output   ReplaceConfig  `mapstructure:"output"`
	Format   FormatConfig   `mapstructure:"format"`
	Move     MoveConfig     `mapstructure:"move"`
	Rename   RenameConfig   `mapstructure:"rename"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Behavior BehaviorConfig `mapstructure:"behavior"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  logging.Config `mapstructure:"logging"`
}

func DefaultConfig() *Config {
	return &Config{
		Format: FormatConfig{
			Templates:        renamer.DefaultTemplates(),
			EpisodeSingle:    "%02d",
			EpisodeSeparator: "-",
			MultiEpJoin:      ", ",
			ReplaceWith:      "",
		},
		Move: MoveConfig{
			Destination:         "%(seriesname)s/Season %(seasonnumber)d",
			DestinationDated:    "%(seriesname)s/%(year)s",
			DestinationNoSeason: "%(seriesname)s",
		},
		Scan: ScanConfig{
			ValidExtensions:   []string{},
			FilenameBlacklist: []finder.BlacklistRule{},
		},
		Behavior: BehaviorConfig{
			SkipFileOnError: true,
			SkipBehaviour:   "skip",
			Order:           "aired",
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Logging: logging.Config{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}

// Load reads the config file at path, or the default location when path
// is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = paths.ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("unable to get config path: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	cfg.applyImplications()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyImplications expands shorthand options.
func (c *Config) applyImplications() {
	if c.Behavior.Batch {
		c.Behavior.SelectFirst = true
		c.Behavior.AlwaysRename = true
	}
}

func (c *Config) Validate() error {
	switch c.Behavior.SkipBehaviour {
	case "skip", "exit":
	default:
		return fmt.Errorf("invalid skip_behaviour %q (want skip or exit)", c.Behavior.SkipBehaviour)
	}

	switch c.Behavior.Order {
	case "aired", "dvd":
	default:
		return fmt.Errorf("invalid order %q (want aired or dvd)", c.Behavior.Order)
	}

	if c.Move.MoveOnly && !c.Move.Enable {
		return fmt.Errorf("move_only requires move.enable")
	}
	if c.Move.Enable && c.Move.Destination == "" {
		return fmt.Errorf("move.destination cannot be empty when move is enabled")
	}
	return nil
}

// Save writes the config as TOML to path, or the default location when
// path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = paths.ConfigPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create config dir: %w", err)
	}
	return os.WriteFile(path, []byte(c.ToTOML()), 0644)
}

// ConfigExists reports whether a config file is present at the default
// location.
func ConfigExists() bool {
	path, err := paths.ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// ToTOML renders the config as an annotated TOML document.
func (c *Config) ToTOML() string {
	var b strings.Builder

	fmt.Fprintf(&b, `# tvrename configuration
# Generated by: tvrename config init

[parse]
# Grammar priority. Must list every grammar exactly once when set.
grammar_order = %s

[format]
episode_single = "%s"
episode_separator = "%s"
multiep_join = "%s"
lowercase = %v
titlecase = %v
normalize_unicode = %v
character_blacklist = %q
replace_invalid_with = %q
windows_safe = %v
lowercase_destination = %v

[format.templates]
with_episode_name = %q
without_episode_name = %q
no_season_with_name = %q
no_season_without_name = %q
dated_with_name = %q
dated_without_name = %q

[move]
enable = %v
move_only = %v
destination = %q
destination_alt = %q
destination_date = %q
destination_no_season = %q
destination_is_filepath = %v
always_move = %v
overwrite_on_move = %v
leave_symlink = %v

[rename]
overwrite_on_rename = %v

[scan]
# Empty list accepts every extension.
valid_extensions = %s
recursive = %v

[behavior]
batch = %v
always_rename = %v
select_first = %v
skip_file_on_error = %v
skip_behaviour = "%s"
order = "%s"
force_name = %q
series_id = %d
dry_run = %v

[cache]
enabled = %v
path = %q

[logging]
level = "%s"
file = %q
max_size_mb = %d
max_backups = %d
`,
		formatStringSlice(c.Parse.GrammarOrder),
		c.Format.EpisodeSingle,
		c.Format.EpisodeSeparator,
		c.Format.MultiEpJoin,
		c.Format.Lowercase,
		c.Format.Titlecase,
		c.Format.NormalizeUnicode,
		c.Format.Blacklist,
		c.Format.ReplaceWith,
		c.Format.WindowsSafe,
		c.Format.LowercaseDestination,
		c.Format.Templates.WithEpisodeName,
		c.Format.Templates.WithoutEpisodeName,
		c.Format.Templates.NoSeasonWithName,
		c.Format.Templates.NoSeasonWithoutName,
		c.Format.Templates.DatedWithName,
		c.Format.Templates.DatedWithoutName,
		c.Move.Enable,
		c.Move.MoveOnly,
		c.Move.Destination,
		c.Move.DestinationAlt,
		c.Move.DestinationDated,
		c.Move.DestinationNoSeason,
		c.Move.DestinationIsFilepath,
		c.Move.AlwaysMove,
		c.Move.OverwriteOnMove,
		c.Move.LeaveSymlink,
		c.Rename.OverwriteOnRename,
		formatStringSlice(c.Scan.ValidExtensions),
		c.Scan.Recursive,
		c.Behavior.Batch,
		c.Behavior.AlwaysRename,
		c.Behavior.SelectFirst,
		c.Behavior.SkipFileOnError,
		c.Behavior.SkipBehaviour,
		c.Behavior.Order,
		c.Behavior.ForceName,
		c.Behavior.SeriesID,
		c.Behavior.DryRun,
		c.Cache.Enabled,
		c.Cache.Path,
		c.Logging.Level,
		c.Logging.File,
		c.Logging.MaxSizeMB,
		c.Logging.MaxBackups,
	)

	for _, rule := range c.Input.Replace {
		fmt.Fprintf(&b, "\n[[input.replace]]\npattern = %q\nreplacement = %q\nis_regex = %v\n",
			rule.Pattern, rule.Replacement, rule.IsRegex)
	}
	for _, rule := range c.Output.Replace {
		fmt.Fprintf(&b, "\n[[output.replace]]\npattern = %q\nreplacement = %q\nis_regex = %v\n",
			rule.Pattern, rule.Replacement, rule.IsRegex)
	}
	for _, rule := range c.Scan.FilenameBlacklist {
		fmt.Fprintf(&b, "\n[[scan.filename_blacklist]]\npattern = %q\nis_regex = %v\nfull_path = %v\n",
			rule.Pattern, rule.IsRegex, rule.FullPath)
	}

	return b.String()
}

func formatStringSlice(s []string) string {
	if len(s) == 0 {
		return "[]"
	}
	quoted := make([]string, len(s))
	for i, v := range s {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// TransformOptions assembles the transform pipeline options from the
// config sections.
func (c *Config) TransformOptions() transform.Options {
	return transform.Options{
		InputRules:       c.Input.Replace,
		OutputRules:      c.Output.Replace,
		Lowercase:        c.Format.Lowercase,
		Titlecase:        c.Format.Titlecase,
		NormalizeUnicode: c.Format.NormalizeUnicode,
		Blacklist:        c.Format.Blacklist,
		WindowsSafe:      c.Format.WindowsSafe,
		ReplaceWith:      c.Format.ReplaceWith,
	}
}

// GeneratorOptions assembles the filename generator options.
func (c *Config) GeneratorOptions() renamer.Options {
	return renamer.Options{
		Templates:            c.Format.Templates,
		EpisodeSingle:        c.Format.EpisodeSingle,
		EpisodeSeparator:     c.Format.EpisodeSeparator,
		MultiEpJoin:          c.Format.MultiEpJoin,
		Destination:          c.Move.Destination,
		DestinationAlt:       c.Move.DestinationAlt,
		DestinationDated:     c.Move.DestinationDated,
		DestinationNoSeason:  c.Move.DestinationNoSeason,
		LowercaseDestination: c.Format.LowercaseDestination,
	}
}
