package bpx

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/bpx-format/bpx/internal/options"
	"github.com/bpx-format/bpx/section"
)

// Config holds the container settings assembled from options.
type Config struct {
	logger         logrus.FieldLogger
	checksum       bool
	verifyChecksum bool
	typeCode       byte
	typeExt        [section.TypeExtSize]byte
}

// Option configures a Container. See the With* functions.
type Option = options.Option[*Config]

func newConfig(opts []Option) (*Config, error) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &Config{
		logger:         logger,
		checksum:       true,
		verifyChecksum: true,
		typeCode:       section.DefaultContainerType,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithLogger sets the logger receiving debug events. By default nothing is logged.
func WithLogger(logger logrus.FieldLogger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithChecksum enables or disables writing checksums on save. It is enabled by default.
func WithChecksum(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.checksum = enabled
	})
}

// WithVerifyChecksum enables or disables checksum verification when a container
// is opened and when payloads are loaded. It is enabled by default.
func WithVerifyChecksum(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.verifyChecksum = enabled
	})
}

// WithContainerType sets the type code of a new container. Ignored by Open.
func WithContainerType(typeCode byte) Option {
	return options.NoError(func(c *Config) {
		c.typeCode = typeCode
	})
}

// WithTypeExt sets the type extension bytes of a new container. Ignored by Open.
func WithTypeExt(ext [section.TypeExtSize]byte) Option {
	return options.NoError(func(c *Config) {
		c.typeExt = ext
	})
}
