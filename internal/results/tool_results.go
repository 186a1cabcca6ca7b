package results

// CursorToolArgs are the arguments shared by the cursor-based tools
type CursorToolArgs struct {
	FilePath  string `json:"file_path"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
}

// ExtractContextToolResult represents the result of the extract_context tool
type ExtractContextToolResult struct {
	Arguments CursorToolArgs   `json:"arguments"`
	Message   string           `json:"message"`
	Context   ExtractedSnippet `json:"context"`
}

// SendSnippetToolResult represents the result of the send_snippet tool
type SendSnippetToolResult struct {
	Arguments CursorToolArgs    `json:"arguments"`
	Message   string            `json:"message"`
	Endpoint  string            `json:"endpoint"`
	Queued    bool              `json:"queued"`
	Context   *ExtractedSnippet `json:"context,omitempty"`
}
