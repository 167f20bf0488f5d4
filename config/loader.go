package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/kafkasample/logger"
)

// FileSystem abstracts the file operations the loader needs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem implements FileSystem on the real file system.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds the loader dependencies and explicit file paths.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	EnvPrefix  string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path. An empty path keeps the
// search behaviour.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix requires environment overrides to carry a prefix, for
// example PRODUCER_KAFKA_BROKERS.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// Files are the config and env files picked for a service.
type Files struct {
	ConfigFile string
	EnvFile    string
}

// Resolve picks the config and env files for a service. Explicit paths win;
// otherwise the first existing candidate is used.
func Resolve(serviceName string, lc LoaderConfig) Files {
	files := Files{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = firstExisting(lc.FileSystem, configCandidates(serviceName))
	}
	if files.EnvFile == "" {
		files.EnvFile = firstExisting(lc.FileSystem, envCandidates(serviceName))
	}
	return files
}

func configCandidates(serviceName string) []string {
	var paths []string
	for _, up := range []string{".", "..", "../.."} {
		paths = append(paths, filepath.Join(up, "cmd", serviceName, "config.yml"))
	}
	return append(paths, filepath.Join("config", serviceName+".yml"), "config.yml")
}

func envCandidates(serviceName string) []string {
	var paths []string
	for _, name := range []string{".env." + serviceName, ".env"} {
		for _, dir := range []string{filepath.Join("cmd", serviceName), ".", ".."} {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths
}

func firstExisting(fs FileSystem, paths []string) string {
	for _, p := range paths {
		if fs.Exists(p) {
			return p
		}
	}
	return ""
}

// keyDelimiter separates nested viper keys. Broker settings such as
// "message.max.bytes" contain dots, so the default "." cannot be used.
const keyDelimiter = "::"

// LoadConfig loads configuration for a service into cfg, which must be a
// pointer to a struct with mapstructure tags.
//
// Precedence, lowest first: config file, .env file, process environment.
// Environment keys are the upper-cased mapstructure path joined with
// underscores: kafka.brokers is read from KAFKA_BROKERS.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: OSFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}
	files := Resolve(serviceName, lc)
	log := logger.WithComponent("config")

	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", files.ConfigFile, err)
		}
		log.Debug("config file loaded", logger.Fields("path", files.ConfigFile))
	}

	// godotenv never overrides variables already set in the environment.
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("failed to load env file", logger.Fields("path", files.EnvFile, logger.FieldError, err))
		}
	}

	if lc.EnvPrefix != "" {
		v.SetEnvPrefix(lc.EnvPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()
	for _, key := range structKeys(reflect.TypeOf(cfg), "") {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

// structKeys lists the delimited mapstructure keys of every leaf field of t.
// Squashed embedded structs contribute their keys at the parent level.
func structKeys(t reflect.Type, prefix string) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, squash := parseTag(f)
		if name == "-" {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if squash {
			keys = append(keys, structKeys(ft, prefix)...)
			continue
		}
		key := name
		if prefix != "" {
			key = prefix + keyDelimiter + name
		}
		switch {
		case ft.Kind() == reflect.Struct && !isLeafStruct(ft):
			keys = append(keys, structKeys(ft, key)...)
		case ft.Kind() == reflect.Map:
			// free-form maps come from the config file only
		default:
			keys = append(keys, key)
		}
	}
	return keys
}

func parseTag(f reflect.StructField) (name string, squash bool) {
	tag := f.Tag.Get("mapstructure")
	parts := strings.Split(tag, ",")
	name = parts[0]
	for _, opt := range parts[1:] {
		if opt == "squash" {
			squash = true
		}
	}
	if name == "" && !squash {
		name = strings.ToLower(f.Name)
	}
	return name, squash
}

// isLeafStruct reports struct types decoded from a single scalar value.
func isLeafStruct(t reflect.Type) bool {
	return t.PkgPath() == "time"
}
