package domain

// Bounds and defaults for chat options.
const (
	DefaultTopK = 5
	MinTopK     = 1
	MaxTopK     = 50

	DefaultBaseURL = "http://localhost:8000"
)

// TokenBackend selects where the bearer token is persisted.
type TokenBackend string

// Available token backends.
const (
	// TokenBackendFile stores the token in credentials.toml.
	TokenBackendFile TokenBackend = "file"

	// TokenBackendSQLite stores the token in the local sqlite database.
	TokenBackendSQLite TokenBackend = "sqlite"
)

// IsValid returns true if the token backend is recognised.
func (b TokenBackend) IsValid() bool {
	return b == TokenBackendFile || b == TokenBackendSQLite
}

// String returns the string representation.
func (b TokenBackend) String() string {
	return string(b)
}

// BackendSettings configures the transport.
type BackendSettings struct {
	// BaseURL is the DocFoundry API base.
	BaseURL string `validate:"required,url"`

	// TimeoutSeconds bounds each request. Zero means no timeout.
	TimeoutSeconds int `validate:"gte=0"`

	// RateLimit caps requests per second. Zero disables throttling.
	RateLimit float64 `validate:"gte=0"`
}

// ChatSettings holds the defaults applied to every agent query.
type ChatSettings struct {
	TopK      int       `validate:"gte=1,lte=50"`
	Mode      AgentMode `validate:"omitempty,oneof=auto answer summarize extract"`
	MaxSteps  int       `validate:"gte=0"`
	ShowTrace bool
}

// Options converts chat settings into per-query options.
func (c ChatSettings) Options() ChatOptions {
	return ChatOptions{
		TopK:      c.TopK,
		ShowTrace: c.ShowTrace,
		Mode:      c.Mode,
		MaxSteps:  c.MaxSteps,
	}
}

// StorageSettings selects local persistence.
type StorageSettings struct {
	TokenBackend TokenBackend `validate:"oneof=file sqlite"`
}

// LogSettings configures the log file sink.
type LogSettings struct {
	// File is the rotated JSON log path. Empty disables file logging.
	File string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Backend BackendSettings
	Chat    ChatSettings
	Storage StorageSettings
	Log     LogSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Backend: BackendSettings{
			BaseURL: DefaultBaseURL,
		},
		Chat: ChatSettings{
			TopK: DefaultTopK,
		},
		Storage: StorageSettings{
			TokenBackend: TokenBackendFile,
		},
	}
}

// ClampTopK bounds k to the accepted range, substituting the default
// for zero.
func ClampTopK(k int) int {
	switch {
	case k == 0:
		return DefaultTopK
	case k < MinTopK:
		return MinTopK
	case k > MaxTopK:
		return MaxTopK
	default:
		return k
	}
}

// AllAgentModes returns all selectable agent modes.
func AllAgentModes() []AgentMode {
	return []AgentMode{
		AgentModeAuto,
		AgentModeAnswer,
		AgentModeSummarize,
		AgentModeExtract,
	}
}
