package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/ini.v1"

	"github.com/Arnold-n/P1P2MQTT/internal/flash"
	"github.com/Arnold-n/P1P2MQTT/internal/transport"
)

const (
	DefaultProjectConf = "platformio.ini"

	platformIOSection = "platformio"
	commonEnvSection  = "env"
	envSectionPrefix  = "env:"
)

// platformio.ini option names.
const (
	OptionBinaryPath     = "external_binary_path"
	OptionBridgeIP       = "bridge_ip"
	OptionUploadProtocol = "upload_protocol"
	OptionUploadPort     = "upload_port"
	OptionUploadSpeed    = "upload_speed"
	OptionPlatform       = "platform"
	OptionDefaultEnvs    = "default_envs"
)

var (
	ErrNoEnvironment      = errors.New("no environment defined")
	ErrUnknownEnvironment = errors.New("unknown environment")
)

// Config is everything needed to flash one PlatformIO environment.
type Config struct {
	Environment    string
	Platform       string
	BinaryPath     string
	BridgeIP       string
	UploadProtocol string
	UploadPort     string
	UploadSpeed    string
	Python         string
	Uploader       string
	// Transport forces a transport instead of deriving it from
	// UploadProtocol and Platform.
	Transport      string
}

// Overrides come from the process environment, the same variables the
// PlatformIO build environment exposes.
type Overrides struct {
	BinaryPath     string `env:"EXTERNAL_BINARY_PATH"`
	BridgeIP       string `env:"BRIDGE_IP"`
	UploadProtocol string `env:"UPLOAD_PROTOCOL"`
	UploadPort     string `env:"UPLOAD_PORT"`
	UploadSpeed    string `env:"UPLOAD_SPEED"`
	Python         string `env:"PYTHONEXE"`
	Uploader       string `env:"UPLOADER"`
}

func load(path string) (*ini.File, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
		SpaceBeforeInlineComment:   true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("cannot load %v: %w", path, err)
	}
	return f, nil
}

// Environments lists the [env:NAME] sections of the project file in order.
func Environments(path string) ([]string, error) {
	f, err := load(path)
	if err != nil {
		return nil, err
	}
	return environments(f), nil
}

func environments(f *ini.File) []string {
	var names []string
	for _, name := range f.SectionStrings() {
		if strings.HasPrefix(name, envSectionPrefix) {
			names = append(names, strings.TrimPrefix(name, envSectionPrefix))
		}
	}
	return names
}

// DefaultEnvironments returns default_envs from [platformio], or the first
// environment when none is set.
func DefaultEnvironments(path string) ([]string, error) {
	f, err := load(path)
	if err != nil {
		return nil, err
	}
	if f.HasSection(platformIOSection) {
		if defaults := splitList(f.Section(platformIOSection).Key(OptionDefaultEnvs).String()); len(defaults) > 0 {
			return defaults, nil
		}
	}
	names := environments(f)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %v", ErrNoEnvironment, path)
	}
	return names[:1], nil
}

// Load reads environment envName from the project file. Options missing from
// the environment fall back to the shared [env] section.
func Load(path, envName string) (*Config, error) {
	f, err := load(path)
	if err != nil {
		return nil, err
	}
	sectionName := envSectionPrefix + envName
	if !f.HasSection(sectionName) {
		return nil, fmt.Errorf("%w %q in %v", ErrUnknownEnvironment, envName, path)
	}
	section := f.Section(sectionName)
	var common *ini.Section
	if f.HasSection(commonEnvSection) {
		common = f.Section(commonEnvSection)
	}
	option := func(name string) string {
		if section.HasKey(name) {
			return strings.TrimSpace(section.Key(name).String())
		}
		if common != nil && common.HasKey(name) {
			return strings.TrimSpace(common.Key(name).String())
		}
		return ""
	}

	return &Config{
		Environment:    envName,
		Platform:       option(OptionPlatform),
		BinaryPath:     option(OptionBinaryPath),
		BridgeIP:       option(OptionBridgeIP),
		UploadProtocol: option(OptionUploadProtocol),
		UploadPort:     option(OptionUploadPort),
		UploadSpeed:    option(OptionUploadSpeed),
	}, nil
}

// LoadOverrides parses the override variables from the process environment.
func LoadOverrides() (*Overrides, error) {
	o := &Overrides{}
	if err := env.Parse(o); err != nil {
		return nil, err
	}
	return o, nil
}

// Apply replaces every field of c for which o has a non-empty value.
func (c *Config) Apply(o *Overrides) {
	if o == nil {
		return
	}
	set := func(dst *string, value string) {
		if value = strings.TrimSpace(value); value != "" {
			*dst = value
		}
	}
	set(&c.BinaryPath, o.BinaryPath)
	set(&c.BridgeIP, o.BridgeIP)
	set(&c.UploadProtocol, o.UploadProtocol)
	set(&c.UploadPort, o.UploadPort)
	set(&c.UploadSpeed, o.UploadSpeed)
	set(&c.Python, o.Python)
	set(&c.Uploader, o.Uploader)
}

// ResolveTransport picks the transport, preferring an explicit Transport.
func (c *Config) ResolveTransport() (transport.Transport, error) {
	if c.Transport != "" {
		return transport.Parse(c.Transport)
	}
	return transport.FromProtocol(c.UploadProtocol, c.Platform)
}

// Request builds and validates the flash request for c.
func (c *Config) Request() (*flash.Request, error) {
	t, err := c.ResolveTransport()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", flash.ErrInvalidConfiguration, err)
	}
	req := &flash.Request{
		Environment: c.Environment,
		BinaryPath:  c.BinaryPath,
		Transport:   t,
		UploadPort:  c.UploadPort,
		UploadSpeed: c.UploadSpeed,
		BridgeIP:    c.BridgeIP,
	}
	return req, req.Validate()
}

func splitList(value string) []string {
	var out []string
	for _, field := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == '\n' || r == ' ' }) {
		if field = strings.TrimSpace(field); field != "" {
			out = append(out, field)
		}
	}
	return out
}
