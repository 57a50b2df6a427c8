package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Storage backends selectable with the "storage" key.
const (
	StorageMemory  = "memory"
	StorageSurreal = "surreal"
	StoragePg      = "pg"
)

type Public struct {
	Addr      string `yaml:"addr" validate:"required"`
	LogLevel  string `yaml:"log_level"`
	LogJSON   bool   `yaml:"log_json"`
	Storage   string `yaml:"storage" validate:"required,oneof=memory surreal pg"`
	UploadDir string `yaml:"upload_dir" validate:"required"`

	JwtTTL        time.Duration `yaml:"jwt_ttl" validate:"required"`
	SecureCookies bool          `yaml:"secure_cookies"`
	CorsOrigins   []string      `yaml:"cors_origins"`

	PostsPerPage  int `yaml:"posts_per_page" validate:"required,min=1"`
	ExcerptLength int `yaml:"excerpt_length" validate:"required,min=1"`

	MaxUploadSize    int64    `yaml:"max_upload_size" validate:"required,min=1"`
	AllowedMimeTypes []string `yaml:"allowed_mime_types" validate:"required,min=1"`

	RoleCacheRefreshInterval time.Duration `yaml:"role_cache_refresh_interval"` // 0 disables periodic refresh

	Surreal SurrealPublic `yaml:"surreal"`
}

type SurrealPublic struct {
	Endpoint  string `yaml:"endpoint"` // ws://host:port
	Namespace string `yaml:"namespace"`
	Database  string `yaml:"database"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type SurrealCredentials struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// RootAdmin is the account created by the bootstrap endpoint.
type RootAdmin struct {
	StudentId string `yaml:"student_id" validate:"required"`
	Name      string `yaml:"name" validate:"required"`
	Password  string `yaml:"password" validate:"required"`
}

type Private struct {
	JwtKey    string             `yaml:"jwt_key" validate:"required"`
	Pg        Pg                 `yaml:"pg"`
	Surreal   SurrealCredentials `yaml:"surreal"`
	RootAdmin RootAdmin          `yaml:"root_admin"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic(fmt.Sprintf("can't read config file %s: %v", configPath, err))
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic(fmt.Sprintf("can't unmarshal config file %s: %v", configPath, err))
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{Public: public, Private: private}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		panic(fmt.Sprintf("invalid config: %v", err))
	}
	return cfg
}
