// Package config reads process configuration from environment variables.
// A Conf is a prefix view, so each component owns a namespace such as
// CORE_API_ or FISHDASH_CATALOG_
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"fishdash/internal/platform/logger"
	pstrings "fishdash/internal/platform/strings"
)

// Conf is a prefixed view over the environment
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix returns a child view; prefixes concatenate
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key is the full variable name for key
func (c Conf) Key(key string) string { return c.prefix + key }

// lookup returns the trimmed value; blank counts as unset
func (c Conf) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.Key(key)))
	return v, v != ""
}

// MustString returns the value or panics through the logger when it is unset
func (c Conf) MustString(key string) string {
	v, ok := c.lookup(key)
	if !ok {
		logger.Get().Panic().Str("key", c.Key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return def
}

// MayInt returns the value or def; unparsable values log a warning and give def
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

// MayBool accepts what strconv.ParseBool accepts
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration accepts Go durations such as 250ms or 30s
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MayCSV splits a comma separated value, dropping blanks. def when nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	return pstrings.IfEmpty(pstrings.SplitList(v, ","), def)
}

func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.Key(key)).Str("value", s).Msg("invalid env value, using default")
		return def
	}
	return v
}
