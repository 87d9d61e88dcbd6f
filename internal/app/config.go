package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/b11005/blink-idl-diff/internal/domain/record"
)

// Config is the effective configuration of a collection run. It is filled
// by viper from flags, IDLCOLLECT_* variables and idlcollect.yaml.
type Config struct {
	Suffix     string   `mapstructure:"suffix" yaml:"suffix" validate:"required,startswith=."`
	Exclude    []string `mapstructure:"exclude" yaml:"exclude" validate:"dive,required"`
	SkipDirs   []string `mapstructure:"skip_dirs" yaml:"skip_dirs" validate:"dive,required"`
	Sort       bool     `mapstructure:"sort" yaml:"sort"`
	RelativeTo string   `mapstructure:"relative_to" yaml:"relative_to"`
	Workers    int      `mapstructure:"workers" yaml:"workers" validate:"gte=0,lte=256"`
	Indent     int      `mapstructure:"indent" yaml:"indent" validate:"gte=0,lte=16"`
	Cache      string   `mapstructure:"cache" yaml:"cache"`
	Verbose    bool     `mapstructure:"verbose" yaml:"verbose"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Suffix:   DefaultSuffix,
		Exclude:  append([]string(nil), DefaultExclude...),
		SkipDirs: []string{},
		Sort:     true,
		Indent:   record.DefaultIndent,
	}
}

var validate = validator.New()

// Validate checks field constraints and reports every violation at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Discovery returns the discovery settings for root.
func (c Config) Discovery(root string) DiscoveryConfig {
	exclude := c.Exclude
	if exclude == nil {
		exclude = []string{}
	}
	return DiscoveryConfig{
		Root:     root,
		Suffix:   c.Suffix,
		Exclude:  exclude,
		SkipDirs: c.SkipDirs,
		Sort:     c.Sort,
	}
}
