package apimodel

// DisplayStatus reports the controller state without triggering any
// rendering.
type DisplayStatus struct {
	Mode            string `json:"mode"`
	Message         string `json:"message,omitempty"`
	LastRenderAt    string `json:"last_render_at,omitempty"`
	LastCommitError string `json:"last_commit_error,omitempty"`
	Dirty           bool   `json:"dirty,omitempty"`
}

// ActionReply acknowledges a display command.
type ActionReply struct {
	Message string `json:"message"`
	Mode    string `json:"mode,omitempty"`
}
