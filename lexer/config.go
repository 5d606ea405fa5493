// SPDX-License-Identifier: MIT
package lexer

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type (
	// Config defines options for the Lexer's operations & the shape serialization.
	Config struct {
		Logger    logrus.FieldLogger
		Source    io.RuneReader
		EndMarker rune
		Splitter  rune
		Debug     bool
	}

	// Option defines the Config functional option type.
	Option func(*Config)
)

const (
	// DefaultEndMarker closes a node's children.
	DefaultEndMarker = ')'

	// DefaultSplitter separates sibling nodes.
	DefaultSplitter = ','

	emptyRune rune = 0
)

// NewConfig instantiates a Config with defaults for the unset options.
func NewConfig(opts ...Option) *Config {
	c := &Config{}
	for _, opt := range opts {
		opt(c)
	}
	c.Validate()

	return c
}

// Validate populates missing Config entries with defaults.
func (c *Config) Validate() {
	if c.EndMarker == emptyRune {
		c.EndMarker = DefaultEndMarker
	}
	if c.Splitter == emptyRune {
		c.Splitter = DefaultSplitter
	}
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
	if c.Source == nil {
		c.Source = strings.NewReader("")
	}
}

// IsMarker checks whether a rune is one of the configured structural runes.
func (c *Config) IsMarker(r rune) bool { return r == c.EndMarker || r == c.Splitter }

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(c *Config) { c.Debug = debug } }

// WithEndMarker configures the end marker option.
func WithEndMarker(r rune) Option { return func(c *Config) { c.EndMarker = r } }

// WithSplitter configures the splitter option.
func WithSplitter(r rune) Option { return func(c *Config) { c.Splitter = r } }

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option { return func(c *Config) { c.Logger = logger } }

// WithSource configures the source option.
func WithSource(source io.RuneReader) Option { return func(c *Config) { c.Source = source } }
