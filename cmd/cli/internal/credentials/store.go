package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// Sentinel errors
var (
	// ErrProfileNotFound is returned when a profile doesn't exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrProfileExists is returned when trying to create a duplicate.
	ErrProfileExists = errors.New("profile already exists")

	// ErrNoDefaultProfile is returned when no default is set.
	ErrNoDefaultProfile = errors.New("no default profile set")

	// ErrInvalidName is returned for names that cannot be used as file names.
	ErrInvalidName = errors.New("invalid profile name")
)

// Profile is a named API endpoint and the identity used against it.
type Profile struct {
	Name        string    `json:"name"`
	APIURL      string    `json:"api_url"`
	Fingerprint string    `json:"fingerprint"`
	Subject     string    `json:"subject,omitempty"`
	Role        string    `json:"role,omitempty"`
	Email       string    `json:"email,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitzero"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Expired reports whether the stored token has expired at now.
func (p *Profile) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}

// Config represents the profiles file.
type Config struct {
	Version        int                `json:"version"`
	DefaultProfile string             `json:"default_profile,omitempty"`
	Profiles       map[string]Profile `json:"profiles"`
}

// Store manages profiles on the local filesystem. Metadata lives in
// profiles.json and each bearer token in <name>.token.
type Store struct {
	baseDir string
	now     func() time.Time
}

// NewStore creates a new profile store.
// If baseDir is empty, uses ~/.mentorhub/profiles/
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".mentorhub", "profiles")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create profiles directory: %w", err)
	}

	store := &Store{baseDir: baseDir, now: func() time.Time { return time.Now().UTC() }}

	if err := store.ensureConfig(); err != nil {
		return nil, err
	}

	log.Debug().Str("baseDir", baseDir).Msg("profile store initialized")

	return store, nil
}

// Create stores a new profile for apiURL authenticated by token. The first
// profile created becomes the default.
func (s *Store) Create(name, apiURL, token string) (*Profile, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if _, err := s.Get(name); err == nil {
		return nil, ErrProfileExists
	}

	info, err := Inspect(token)
	if err != nil {
		return nil, err
	}

	tokenPath := s.tokenPath(name)
	if err := os.WriteFile(tokenPath, []byte(token), 0600); err != nil {
		return nil, fmt.Errorf("failed to write token: %w", err)
	}

	now := s.now()
	profile := Profile{
		Name:      name,
		APIURL:    apiURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	info.apply(&profile)

	if err := s.addProfile(profile); err != nil {
		os.Remove(tokenPath)
		return nil, err
	}

	log.Info().
		Str("name", name).
		Str("apiURL", apiURL).
		Str("fingerprint", profile.Fingerprint).
		Msg("profile created")

	return &profile, nil
}

// SetToken replaces the token of an existing profile.
func (s *Store) SetToken(name, token string) (*Profile, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}

	profile, ok := cfg.Profiles[name]
	if !ok {
		return nil, ErrProfileNotFound
	}

	info, err := Inspect(token)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(s.tokenPath(name), []byte(token), 0600); err != nil {
		return nil, fmt.Errorf("failed to write token: %w", err)
	}

	info.apply(&profile)
	profile.UpdatedAt = s.now()
	cfg.Profiles[name] = profile

	if err := s.saveConfig(cfg); err != nil {
		return nil, err
	}

	log.Info().Str("name", name).Str("fingerprint", profile.Fingerprint).Msg("profile token updated")

	return &profile, nil
}

// Get retrieves profile metadata by name.
func (s *Store) Get(name string) (*Profile, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}

	profile, ok := cfg.Profiles[name]
	if !ok {
		return nil, ErrProfileNotFound
	}

	return &profile, nil
}

// GetDefault retrieves the default profile.
// Returns ErrNoDefaultProfile if none is set.
func (s *Store) GetDefault() (*Profile, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.DefaultProfile == "" {
		return nil, ErrNoDefaultProfile
	}

	return s.Get(cfg.DefaultProfile)
}

// Resolve returns the named profile, or the default when name is empty.
func (s *Store) Resolve(name string) (*Profile, error) {
	if name == "" {
		return s.GetDefault()
	}
	return s.Get(name)
}

// DefaultName returns the name of the default profile, or "".
func (s *Store) DefaultName() (string, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.DefaultProfile, nil
}

// List returns all stored profiles ordered by name.
func (s *Store) List() ([]Profile, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0, len(cfg.Profiles))
	for _, p := range cfg.Profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })

	return profiles, nil
}

// Delete removes a profile and its token file.
func (s *Store) Delete(name string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}

	if _, ok := cfg.Profiles[name]; !ok {
		return ErrProfileNotFound
	}

	if err := os.Remove(s.tokenPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	delete(cfg.Profiles, name)

	if cfg.DefaultProfile == name {
		cfg.DefaultProfile = ""
	}

	if err := s.saveConfig(cfg); err != nil {
		return err
	}

	log.Info().Str("name", name).Msg("profile deleted")

	return nil
}

// SetDefault sets the default profile.
func (s *Store) SetDefault(name string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}

	if _, ok := cfg.Profiles[name]; !ok {
		return ErrProfileNotFound
	}

	cfg.DefaultProfile = name

	if err := s.saveConfig(cfg); err != nil {
		return err
	}

	log.Info().Str("name", name).Msg("default profile set")

	return nil
}

// LoadToken returns the bearer token stored for a profile.
func (s *Store) LoadToken(name string) (string, error) {
	if _, err := s.Get(name); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.tokenPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrProfileNotFound
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	return string(data), nil
}

func (s *Store) tokenPath(name string) string {
	return filepath.Join(s.baseDir, name+".token")
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// ensureConfig creates an empty config if it doesn't exist.
func (s *Store) ensureConfig() error {
	if _, err := os.Stat(s.configPath()); err == nil {
		return nil
	}

	return s.saveConfig(&Config{
		Version:  1,
		Profiles: make(map[string]Profile),
	})
}

func (s *Store) configPath() string {
	return filepath.Join(s.baseDir, "profiles.json")
}

func (s *Store) loadConfig() (*Config, error) {
	data, err := os.ReadFile(s.configPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}

	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}

	return &cfg, nil
}

// saveConfig writes the config file atomically.
func (s *Store) saveConfig(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	configPath := s.configPath()
	tempPath := configPath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save profiles: %w", err)
	}

	return nil
}

// addProfile adds a profile, making it the default if it is the first.
func (s *Store) addProfile(p Profile) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}

	cfg.Profiles[p.Name] = p

	if len(cfg.Profiles) == 1 {
		cfg.DefaultProfile = p.Name
	}

	return s.saveConfig(cfg)
}
