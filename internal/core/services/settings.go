package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driven"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyBackendBaseURL = "backend.base_url"
	KeyBackendTimeout = "backend.timeout_seconds"
	KeyBackendRate    = "backend.rate_limit"
	KeyChatTopK       = "chat.top_k"
	KeyChatShowTrace  = "chat.show_trace"
	KeyChatMode       = "chat.mode"
	KeyChatMaxSteps   = "chat.max_steps"
	KeyTokenBackend   = "storage.token_backend"
	KeyLogFile        = "log.file"
)

var settingsKeys = []string{
	KeyBackendBaseURL,
	KeyBackendTimeout,
	KeyBackendRate,
	KeyChatTopK,
	KeyChatShowTrace,
	KeyChatMode,
	KeyChatMaxSteps,
	KeyTokenBackend,
	KeyLogFile,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings. Missing or invalid values
// fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	if s.configStore == nil {
		return &defaults, nil
	}

	settings := &domain.AppSettings{
		Backend: domain.BackendSettings{
			BaseURL:        s.getString(KeyBackendBaseURL, defaults.Backend.BaseURL),
			TimeoutSeconds: s.getInt(KeyBackendTimeout, defaults.Backend.TimeoutSeconds),
			RateLimit:      s.configStore.GetFloat(KeyBackendRate),
		},
		Chat: domain.ChatSettings{
			TopK:      domain.ClampTopK(s.getInt(KeyChatTopK, defaults.Chat.TopK)),
			ShowTrace: s.getBool(KeyChatShowTrace, defaults.Chat.ShowTrace),
			Mode:      s.getMode(defaults.Chat.Mode),
			MaxSteps:  s.getInt(KeyChatMaxSteps, defaults.Chat.MaxSteps),
		},
		Storage: domain.StorageSettings{
			TokenBackend: s.getTokenBackend(defaults.Storage.TokenBackend),
		},
		Log: domain.LogSettings{
			File: s.configStore.GetString(KeyLogFile),
		},
	}
	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyBackendBaseURL, settings.Backend.BaseURL},
		{KeyBackendTimeout, settings.Backend.TimeoutSeconds},
		{KeyBackendRate, settings.Backend.RateLimit},
		{KeyChatTopK, settings.Chat.TopK},
		{KeyChatShowTrace, settings.Chat.ShowTrace},
		{KeyChatMode, settings.Chat.Mode.String()},
		{KeyChatMaxSteps, settings.Chat.MaxSteps},
		{KeyTokenBackend, settings.Storage.TokenBackend.String()},
		{KeyLogFile, settings.Log.File},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	value = strings.TrimSpace(value)

	var parsed any
	switch key {
	case KeyBackendBaseURL:
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, key)
		}
		parsed = strings.TrimRight(value, "/")
	case KeyBackendTimeout, KeyChatMaxSteps:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case KeyChatTopK:
		n, err := strconv.Atoi(value)
		if err != nil || n < domain.MinTopK || n > domain.MaxTopK {
			return fmt.Errorf("%w: %s must be between %d and %d", domain.ErrInvalidInput, key, domain.MinTopK, domain.MaxTopK)
		}
		parsed = n
	case KeyBackendRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		parsed = f
	case KeyChatShowTrace:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case KeyChatMode:
		mode := domain.AgentMode(value)
		if !mode.IsValid() {
			return fmt.Errorf("%w: unknown agent mode %q", domain.ErrInvalidInput, value)
		}
		parsed = mode.String()
	case KeyTokenBackend:
		backend := domain.TokenBackend(value)
		if !backend.IsValid() {
			return fmt.Errorf("%w: unknown token backend %q", domain.ErrInvalidInput, value)
		}
		parsed = backend.String()
	case KeyLogFile:
		parsed = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the settable keys in display order.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingsKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getMode(defaultVal domain.AgentMode) domain.AgentMode {
	mode := domain.AgentMode(s.configStore.GetString(KeyChatMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getTokenBackend(defaultVal domain.TokenBackend) domain.TokenBackend {
	val := s.configStore.GetString(KeyTokenBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.TokenBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
