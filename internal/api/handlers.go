package api

// User-facing messages.
const (
	msgCodeNotFound   = "Chat code not found."
	msgJoined         = "Session joined successfully."
	msgUploaded       = "File uploaded successfully."
	msgNoFile         = "No file uploaded for this session."
	msgNoFileProvided = "No file provided."
)

// Handler serves the relay endpoints.
type Handler struct {
	relay   Relay
	version string
}

// NewHandler creates a new API handler.
func NewHandler(relay Relay, version string) *Handler {
	return &Handler{
		relay:   relay,
		version: version,
	}
}
