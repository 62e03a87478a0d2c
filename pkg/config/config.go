package config

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-ozzo/ozzo-validation/v4/is"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mitchellh/mapstructure"

	"github.com/spf13/viper"
)

const (
	defaultExtension = "yaml"
	defaultTagName   = "yaml"
)

type Binder interface {
	Bind(v *viper.Viper) error
}

type Loader interface {
	Load(name, path, envPrefix string, binder Binder) (Config, error)
}

type Config struct {
	Oauth     Oauth     `yaml:"oauth"`
	SQLServer SQLServer `yaml:"sqlserver"`
	Server    Server    `yaml:"server"`
	Pool      Pool      `yaml:"pool"`

	LogLevel string `yaml:"log_level"`

	// ManagedInstanceID is bound from WEBSITE_INSTANCE_ID. A non-empty
	// value means we run on a managed host and trusted identity headers
	// are enforced.
	ManagedInstanceID string `yaml:"managed_instance_id"`
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Oauth, validation.Required),
		validation.Field(&c.SQLServer, validation.Required),
		validation.Field(&c.Server, validation.Required),
		validation.Field(&c.Pool, validation.Required),
		validation.Field(&c.LogLevel, validation.Required),
	)
}

// IsManaged reports whether the process runs on a managed host where the
// ingress injects trusted principal headers.
func (c Config) IsManaged() bool {
	return c.ManagedInstanceID != ""
}

type Oauth struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	TenantID     string `yaml:"tenant_id"`
}

func (o Oauth) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.ClientID, validation.Required),
		validation.Field(&o.ClientSecret, validation.Required),
		validation.Field(&o.TenantID, validation.Required),
	)
}

type SQLServer struct {
	Host               string `yaml:"host"`
	Port               string `yaml:"port"`
	Database           string `yaml:"database"`
	Table              string `yaml:"table"`
	Encrypt            bool   `yaml:"encrypt"`
	DialTimeoutSeconds int    `yaml:"dial_timeout_seconds"`
}

func (s SQLServer) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Host, validation.Required, is.Host),
		validation.Field(&s.Port, validation.Required, is.Port),
		validation.Field(&s.Database, validation.Required),
		validation.Field(&s.Table, validation.Required),
		validation.Field(&s.DialTimeoutSeconds, validation.Required),
	)
}

// ConnectionString renders the go-mssqldb DSN. Credentials are not part of
// it; authentication rides on the access token attached to the connector.
func (s SQLServer) ConnectionString() string {
	query := url.Values{}
	query.Set("database", s.Database)
	query.Set("encrypt", strconv.FormatBool(s.Encrypt))
	query.Set("dial timeout", strconv.Itoa(s.DialTimeoutSeconds))

	u := url.URL{
		Scheme:   "sqlserver",
		Host:     net.JoinHostPort(s.Host, s.Port),
		RawQuery: query.Encode(),
	}

	return u.String()
}

type Server struct {
	Address string `yaml:"address"`
	Port    string `yaml:"port"`
}

func (s Server) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Address, validation.Required, is.IP),
		validation.Field(&s.Port, validation.Required, is.Port),
	)
}

type Pool struct {
	Workers int `yaml:"workers"`
}

func (p Pool) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Workers, validation.Required, validation.Min(1)),
	)
}

type FileParts struct {
	FileName string
	Path     string
}

func ProcessConfigPath(configFile string) (FileParts, error) {
	absolutePath, err := filepath.Abs(configFile)
	if err != nil {
		return FileParts{}, fmt.Errorf("convert to absolute path: %w", err)
	}

	fileName := filepath.Base(absolutePath)
	path := filepath.Dir(absolutePath)
	extension := filepath.Ext(fileName)

	if strings.ReplaceAll(strings.ToLower(extension), ".", "") != defaultExtension {
		return FileParts{}, fmt.Errorf("config file must have extension %s, got: %s", defaultExtension, extension)
	}

	return FileParts{
		FileName: fileName[:len(fileName)-len(extension)],
		Path:     path,
	}, nil
}

func NewFileSystemLoader() *FileSystemLoader {
	return &FileSystemLoader{}
}

type FileSystemLoader struct{}

func (fs *FileSystemLoader) Load(name, path, envPrefix string, b Binder) (Config, error) {
	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName(name)
	v.SetConfigType(defaultExtension)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // So that env vars are translated properly
	v.AutomaticEnv()

	if b != nil {
		err := b.Bind(v)
		if err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix(envPrefix)

	err := v.ReadInConfig()
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var config Config

	err = v.Unmarshal(&config, func(cfg *mapstructure.DecoderConfig) {
		cfg.TagName = defaultTagName // We use yaml tags in the config structs so we can marshal to yaml
	})
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return config, nil
}

type EnvBinder struct {
	binders map[string]string
}

func (e *EnvBinder) Bind(v *viper.Viper) error {
	for envVar, key := range e.binders {
		err := v.BindEnv(key, envVar)
		if err != nil {
			return fmt.Errorf("bind env var %s to key %s: %w", envVar, key, err)
		}
	}

	return nil
}

func NewEnvBinder(binders map[string]string) *EnvBinder {
	return &EnvBinder{
		binders: binders,
	}
}

// NewDefaultEnvBinder wires the environment surface we get from the Azure
// app settings into config keys.
func NewDefaultEnvBinder() *EnvBinder {
	return NewEnvBinder(map[string]string{
		"AZURE_CLIENT_ID":     "oauth.client_id",
		"AZURE_CLIENT_SECRET": "oauth.client_secret",
		"AZURE_TENANT_ID":     "oauth.tenant_id",
		"SQL_SERVER":          "sqlserver.host",
		"SQL_PORT":            "sqlserver.port",
		"SQL_DATABASE":        "sqlserver.database",
		"WEBSITE_INSTANCE_ID": "managed_instance_id",
	})
}
