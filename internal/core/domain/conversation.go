package domain

// Role identifies who authored a turn.
type Role string

// Transcript roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Fixed assistant texts used by the conversation controller.
const (
	// GreetingText opens a fresh session.
	GreetingText = "Ask me about your documents. Select a knowledge base or document to scope retrieval."

	// NewChatText replaces the transcript on reset.
	NewChatText = "New chat started. Ask away."

	// NotLoggedInText is appended when a message is sent without a token.
	NotLoggedInText = "You're not logged in. Run 'docfoundry auth login' to get a token, then retry."

	// RequestFailedPrefix prefixes the assistant turn narrating a failure.
	RequestFailedPrefix = "Request failed: "
)

// Turn is one message in the transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Citations are the sources backing an assistant answer.
	Citations []Citation `json:"citations,omitempty"`

	// RunID identifies the backend agent run that produced the answer.
	RunID string `json:"run_id,omitempty"`

	// Steps is the agent trace, present only when trace display was on
	// and the backend returned it.
	Steps []AgentStep `json:"steps,omitempty"`
}

// Citation is a backend pointer to a chunk supporting an answer.
type Citation struct {
	ChunkID     string         `json:"chunk_id,omitempty"`
	DocumentID  string         `json:"document_id,omitempty"`
	Score       *float64       `json:"score,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	TextPreview string         `json:"text_preview,omitempty"`
}

// Document returns the cited document id, looking at the top-level field
// first and then at metadata.document_id. Empty when neither is set.
func (c Citation) Document() string {
	if c.DocumentID != "" {
		return c.DocumentID
	}
	if id, ok := c.Metadata["document_id"].(string); ok {
		return id
	}
	return ""
}

// AgentStep is one entry of the backend agent trace.
type AgentStep struct {
	Index     int            `json:"index"`
	Kind      string         `json:"kind"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
}

// RequestState guards the conversation controller.
type RequestState struct {
	Busy      bool
	LastError string
}

// AgentMode selects the backend agent behaviour.
type AgentMode string

// Agent modes accepted by the backend.
const (
	AgentModeAuto      AgentMode = "auto"
	AgentModeAnswer    AgentMode = "answer"
	AgentModeSummarize AgentMode = "summarize"
	AgentModeExtract   AgentMode = "extract"
)

// IsValid returns true if the mode is recognised. The empty mode is valid
// and leaves the choice to the backend.
func (m AgentMode) IsValid() bool {
	switch m {
	case "", AgentModeAuto, AgentModeAnswer, AgentModeSummarize, AgentModeExtract:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m AgentMode) String() string {
	return string(m)
}

// AgentQuery is the body of POST /agent/query.
// Unset scope levels serialise as JSON null.
type AgentQuery struct {
	Message     string    `json:"message"`
	ProjectID   *string   `json:"project_id"`
	KBID        *string   `json:"kb_id"`
	DocumentID  *string   `json:"document_id"`
	TopK        int       `json:"top_k"`
	ReturnSteps bool      `json:"return_steps"`
	Mode        AgentMode `json:"mode,omitempty"`
	MaxSteps    int       `json:"max_steps,omitempty"`
}

// NewAgentQuery builds a query for message scoped by sel.
func NewAgentQuery(message string, sel ScopeSelection, opts ChatOptions) AgentQuery {
	return AgentQuery{
		Message:     message,
		ProjectID:   nullable(sel.ProjectID),
		KBID:        nullable(sel.KBID),
		DocumentID:  nullable(sel.DocID),
		TopK:        opts.TopK,
		ReturnSteps: opts.ShowTrace,
		Mode:        opts.Mode,
		MaxSteps:    opts.MaxSteps,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// AgentAnswer is the response of POST /agent/query.
type AgentAnswer struct {
	RunID     string      `json:"run_id"`
	Answer    string      `json:"answer"`
	Provider  string      `json:"provider,omitempty"`
	Model     string      `json:"model,omitempty"`
	Citations []Citation  `json:"citations,omitempty"`
	Steps     []AgentStep `json:"steps,omitempty"`
}

// AgentRun is a stored backend run, as returned by GET /agent/runs/{id}.
type AgentRun struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id,omitempty"`
	Message     string         `json:"message"`
	Scope       map[string]any `json:"scope,omitempty"`
	Mode        string         `json:"mode"`
	Status      string         `json:"status"`
	FinalAnswer string         `json:"final_answer,omitempty"`
	Provider    string         `json:"provider,omitempty"`
	Model       string         `json:"model,omitempty"`
	Citations   []Citation     `json:"citations,omitempty"`
	CreatedAt   string         `json:"created_at,omitempty"`
	Steps       []AgentStep    `json:"steps,omitempty"`
}

// AgentRetry is the body of POST /agent/runs/{id}/retry.
type AgentRetry struct {
	Message     string    `json:"message,omitempty"`
	TopK        int       `json:"top_k"`
	ReturnSteps bool      `json:"return_steps"`
	Mode        AgentMode `json:"mode,omitempty"`
	MaxSteps    int       `json:"max_steps,omitempty"`
}

// ChatOptions tunes each agent query.
type ChatOptions struct {
	// TopK is the number of chunks retrieved (1..50).
	TopK int

	// ShowTrace requests and keeps the agent trace.
	ShowTrace bool

	// Mode selects the agent behaviour. Empty lets the backend decide.
	Mode AgentMode

	// MaxSteps bounds the agent loop. Zero lets the backend decide.
	MaxSteps int
}

// RunRecord is one locally logged successful query.
type RunRecord struct {
	RunID     string
	Message   string
	Answer    string
	Scope     ScopeSelection
	Citations int
	CreatedAt int64
}
