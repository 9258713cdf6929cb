package config

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variables that override file values.
// The key "mail.password" is overridden by NOTEKEEP_MAIL_PASSWORD.
const EnvPrefix = "NOTEKEEP"

var ErrConfigType = errors.New("config: config type is required")

// Viper is a Config backed by github.com/spf13/viper. Environment variables
// prefixed with EnvPrefix always take precedence over loaded values.
type Viper struct {
	v *viper.Viper
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewViper reads the file at pathFile, inferring its format from the
// extension, and reloads it whenever the file changes on disk.
func NewViper(pathFile string) (*Viper, error) {
	v := newViper()
	v.SetConfigFile(pathFile)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(ev fsnotify.Event) {
		slog.Info("config reloaded", "path", ev.Name, "op", ev.Op.String())
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes reads configuration of the given type ("yaml", "json",
// "toml", ...) from memory.
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, ErrConfigType
	}

	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func (vc *Viper) GetBool(key string) bool       { return vc.v.GetBool(key) }
func (vc *Viper) GetString(key string) string   { return vc.v.GetString(key) }
func (vc *Viper) GetInt(key string) int         { return vc.v.GetInt(key) }
func (vc *Viper) GetInt32(key string) int32     { return vc.v.GetInt32(key) }
func (vc *Viper) GetFloat64(key string) float64 { return vc.v.GetFloat64(key) }

func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

func (vc *Viper) GetMinute(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Minute
}

// GetArray accepts either a YAML sequence or a comma-separated string.
// Entries are trimmed and blanks dropped.
func (vc *Viper) GetArray(key string) []string {
	raw := vc.v.GetStringSlice(key)
	if _, isList := vc.v.Get(key).([]any); !isList {
		raw = strings.Split(vc.v.GetString(key), ",")
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Close is a no-op. The file watcher lives as long as the process.
func (vc *Viper) Close() error { return nil }
