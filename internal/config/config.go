package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultModel    = "gpt-4o-mini"
	DefaultListen   = "127.0.0.1:8787"
	DefaultEndpoint = "http://" + DefaultListen + "/chat"
)

// Profile holds both sides of a connection: the chat endpoint the client
// streams from, and the upstream model the gateway forwards to.
type Profile struct {
	Endpoint    string `json:"endpoint"`
	EndpointKey string `json:"endpoint_key,omitempty"` // bearer token for hosted endpoints
	APIKey      string `json:"api_key"`
	BaseURL     string `json:"base_url,omitempty"`
	Model       string `json:"model"`
	Listen      string `json:"listen,omitempty"`
}

type Config struct {
	Profiles       map[string]Profile `json:"profiles"`
	ActiveProfile  string             `json:"active_profile"`
	currentProfile *Profile
}

func DefaultProfile() Profile {
	return Profile{
		Endpoint: DefaultEndpoint,
		Model:    DefaultModel,
		Listen:   DefaultListen,
	}
}

// FromProfile builds an in-memory config with a single active profile.
func FromProfile(name string, p Profile) *Config {
	c := &Config{
		Profiles:      map[string]Profile{name: p},
		ActiveProfile: name,
	}
	c.currentProfile = &p
	return c
}

func LoadConfig() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

// IsValid reports whether the client can reach a chat endpoint.
func (c *Config) IsValid() bool {
	return c.currentProfile != nil && c.currentProfile.Endpoint != ""
}

// CanServe reports whether the gateway has an upstream key.
func (c *Config) CanServe() bool {
	return c.GetAPIKey() != ""
}

func (c *Config) GetEndpoint() string {
	if c.currentProfile == nil {
		return DefaultEndpoint
	}
	return c.currentProfile.Endpoint
}

func (c *Config) GetEndpointKey() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.EndpointKey
}

// GetAPIKey falls back to OPENAI_API_KEY when the profile has no key.
func (c *Config) GetAPIKey() string {
	if c.currentProfile != nil && c.currentProfile.APIKey != "" {
		return c.currentProfile.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

func (c *Config) GetModel() string {
	if c.currentProfile == nil || c.currentProfile.Model == "" {
		return DefaultModel
	}
	return c.currentProfile.Model
}

func (c *Config) GetBaseURL() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.BaseURL
}

func (c *Config) GetListen() string {
	if c.currentProfile == nil || c.currentProfile.Listen == "" {
		return DefaultListen
	}
	return c.currentProfile.Listen
}

// Dir returns the directory holding the config file and logs.
func Dir() (string, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(configPath), nil
}

// ConfigPath honors RORIFORGE_HOME before the user's home directory.
func ConfigPath() (string, error) {
	var configDir string

	if home := os.Getenv("RORIFORGE_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".roriforge", "config.json"), nil
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

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	configPath, err := ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	return saveConfig(c, configPath)
}

// Use makes name the active profile.
func (c *Config) Use(name string) error {
	profile, exists := c.Profiles[name]
	if !exists {
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	c.ActiveProfile = name
	c.currentProfile = &profile
	return nil
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// Fall back to any profile when the active one was removed by hand
		for name, p := range c.Profiles {
			c.ActiveProfile = name
			profile = p
			exists = true
			break
		}
	}

	if !exists {
		return fmt.Errorf("no valid profiles found")
	}

	c.currentProfile = &profile
	return nil
}
