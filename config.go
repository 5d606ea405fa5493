// SPDX-License-Identifier: MIT
package rowtree

import (
	"github.com/sirupsen/logrus"
)

type (
	// Config defines configuration options shared by the Tree operations.
	Config struct {
		// Logger for Tree messages.
		//
		// Preferring a public field to allow for sharing.
		Logger logrus.FieldLogger

		// OnWarning receives every recoverable condition (orphans, key collisions, comparator
		// fallbacks...) as an error wrapping one of the warning sentinels.
		OnWarning WarningHandler

		// Accessor resolves record fields; ReflectAccessor when nil.
		Accessor Accessor

		Debug bool

		// Strict promotes the first warning to a fatal error.
		Strict bool
	}

	// Fields names the record fields read by the build & combine operations.
	Fields struct {
		ID       string
		ParentID string
		Level    string
	}

	// Option defines the functional option type for the Build, Combine & NewComparator
	// operations.
	Option func(*options)

	options struct {
		cfg      *Config
		cfgOwned bool

		group       string
		parentGroup string
		rootKey     string
		fields      Fields
		sort        bool
	}
)

const (
	// DefaultRootKey is the key the synthetic root is registered under.
	DefaultRootKey = "root"
)

// DefaultFields holds the field names used when an operation is not given one.
var DefaultFields = Fields{
	ID:       "Id",
	ParentID: "ParentId",
	Level:    "Level",
}

var defConfig = DefConfig()

// DefConfig obtains the package's default Config.
func DefConfig() *Config {
	return &Config{
		Logger:   logrus.New(),
		Accessor: ReflectAccessor,
	}
}

// SetLogger configures the logger of the package's default Config.
func SetLogger(l logrus.FieldLogger) { defConfig.Logger = l }

// Validate populates missing Config entries with defaults.
func (c *Config) Validate() {
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
	if c.Accessor == nil {
		c.Accessor = ReflectAccessor
	}
}

func newOptions(base *Config, opts ...Option) *options {
	if base == nil {
		base = defConfig
	}

	o := &options{cfg: base}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg.Logger == nil || o.cfg.Accessor == nil {
		o.ownedConfig().Validate()
	}
	o.fields = o.fields.withDefaults()

	return o
}

// ownedConfig copies the shared Config before its first modification.
func (o *options) ownedConfig() *Config {
	if !o.cfgOwned {
		cfg := *o.cfg
		o.cfg, o.cfgOwned = &cfg, true
	}

	return o.cfg
}

func (f Fields) withDefaults() Fields {
	if f.ID == "" {
		f.ID = DefaultFields.ID
	}
	if f.ParentID == "" {
		f.ParentID = DefaultFields.ParentID
	}
	if f.Level == "" {
		f.Level = DefaultFields.Level
	}

	return f
}

// WithConfig configures the Config, shared until a later option modifies a copy.
func WithConfig(cfg *Config) Option {
	return func(o *options) { o.cfg, o.cfgOwned = cfg, false }
}

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) { o.ownedConfig().Logger = logger }
}

// WithDebug configures the debug option.
func WithDebug(debug bool) Option {
	return func(o *options) { o.ownedConfig().Debug = debug }
}

// WithStrict configures the strict option.
func WithStrict(strict bool) Option {
	return func(o *options) { o.ownedConfig().Strict = strict }
}

// WithWarningHandler configures the handler receiving warnings.
func WithWarningHandler(fn WarningHandler) Option {
	return func(o *options) { o.ownedConfig().OnWarning = fn }
}

// WithAccessor configures the field Accessor.
func WithAccessor(acc Accessor) Option {
	return func(o *options) { o.ownedConfig().Accessor = acc }
}

// WithNodeGroup configures the group prefixed to record identifiers.
//
// For Combine this is the group of the grafted records.
func WithNodeGroup(group string) Option { return func(o *options) { o.group = group } }

// WithParentNodeGroup configures the group of the parents looked up by Combine; defaults to the
// node group.
func WithParentNodeGroup(group string) Option {
	return func(o *options) { o.parentGroup = group }
}

// WithRootKey configures the key the root is registered under after a Build.
func WithRootKey(key string) Option { return func(o *options) { o.rootKey = key } }

// WithFields configures all field names, empty entries keep their defaults.
func WithFields(fields Fields) Option { return func(o *options) { o.fields = fields } }

// WithIDField configures the identifier field name.
func WithIDField(field string) Option { return func(o *options) { o.fields.ID = field } }

// WithParentIDField configures the parent identifier field name.
func WithParentIDField(field string) Option {
	return func(o *options) { o.fields.ParentID = field }
}

// WithLevelField configures the level field name.
func WithLevelField(field string) Option { return func(o *options) { o.fields.Level = field } }

// WithSort enables sorting the Build source by its level field.
//
// Sources are expected to be sorted by level; this is a fallback.
func WithSort(sort bool) Option { return func(o *options) { o.sort = sort } }
