package providers

import "context"

// ImagePart is an image attachment handed to a multimodal model,
// base64-encoded with its MIME type.
type ImagePart struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Request is a single prompt-in/text-out generation request. Persona and
// tool instructions are already part of Prompt; providers add nothing.
type Request struct {
	Prompt string
	Images []ImagePart
}

// Provider abstracts the hosted LLM API. Generate returns the model's raw
// text output; transport and API failures surface as errors and are the
// caller's problem.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}
