package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	AuthBearer = "bearer"
	AuthCookie = "cookie"

	DefaultBackendURL = "http://localhost:8000"
	DefaultCookieName = "session"
	defaultTimeout    = 120
)

type Profile struct {
	BackendURL     string `json:"backend_url"`
	AuthMode       string `json:"auth_mode"`
	Token          string `json:"token"`
	CookieName     string `json:"cookie_name,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

type Config struct {
	Profiles       map[string]Profile `json:"profiles"`
	ActiveProfile  string             `json:"active_profile"`
	Debug          bool               `json:"debug,omitempty"`
	currentProfile *Profile
	path           string
}

func DefaultProfile() Profile {
	return Profile{
		BackendURL:     DefaultBackendURL,
		AuthMode:       AuthBearer,
		TimeoutSeconds: defaultTimeout,
	}
}

// LoadConfig reads the config file, creating a default one on first run.
func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadConfigFrom(configPath)
}

func LoadConfigFrom(configPath string) (*Config, error) {
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.path = configPath

	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

// IsValid reports whether the active profile can reach a backend.
func (c *Config) IsValid() bool {
	return c.currentProfile != nil &&
		c.currentProfile.BackendURL != "" &&
		c.currentProfile.Token != ""
}

func (c *Config) Current() Profile {
	if c.currentProfile == nil {
		return DefaultProfile()
	}
	return *c.currentProfile
}

func (c *Config) GetBackendURL() string {
	return c.Current().BackendURL
}

func (c *Config) GetAuthMode() string {
	if mode := strings.ToLower(c.Current().AuthMode); mode == AuthCookie {
		return AuthCookie
	}
	return AuthBearer
}

func (c *Config) GetToken() string {
	return c.Current().Token
}

func (c *Config) GetCookieName() string {
	if name := c.Current().CookieName; name != "" {
		return name
	}
	return DefaultCookieName
}

func (c *Config) GetTimeout() time.Duration {
	seconds := c.Current().TimeoutSeconds
	if seconds <= 0 {
		seconds = defaultTimeout
	}
	return time.Duration(seconds) * time.Second
}

// LogPath is where the chat client writes its log file.
func (c *Config) LogPath() string {
	dir := filepath.Dir(c.path)
	if c.path == "" {
		if p, err := getConfigPath(); err == nil {
			dir = filepath.Dir(p)
		}
	}
	return filepath.Join(dir, "logs", "docpilot.log")
}

// ProfileNames returns profile names in a stable order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks a profile before it is saved.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.BackendURL) == "" {
		return fmt.Errorf("backend URL is required")
	}
	if !strings.HasPrefix(p.BackendURL, "http://") && !strings.HasPrefix(p.BackendURL, "https://") {
		return fmt.Errorf("backend URL must start with http:// or https://")
	}
	switch strings.ToLower(p.AuthMode) {
	case "", AuthBearer, AuthCookie:
	default:
		return fmt.Errorf("unknown auth mode %q (want %s or %s)", p.AuthMode, AuthBearer, AuthCookie)
	}
	return nil
}

func getConfigPath() (string, error) {
	var configDir string

	// Use DOCPILOT_HOME if set, otherwise use user's home directory
	if home := os.Getenv("DOCPILOT_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".docpilot", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: map[string]Profile{
			"default": DefaultProfile(),
		},
		ActiveProfile: "default",
	}

	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

// saveConfig writes the file with 0600 since profiles hold credentials.
func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	configPath := c.path
	if configPath == "" {
		var err error
		configPath, err = getConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if err := saveConfig(c, configPath); err != nil {
		return err
	}
	return c.setCurrentProfile()
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// Fall back to the first profile by name
		name := c.ProfileNames()[0]
		c.ActiveProfile = name
		profile = c.Profiles[name]
	}

	c.currentProfile = &profile
	return nil
}
