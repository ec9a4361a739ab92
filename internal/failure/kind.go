// Package failure defines the closed error taxonomy of the resume pipeline
// and the classifier that decides whether a failed upload may fall back to
// client-side extraction.
package failure

// Kind is one member of the pipeline error taxonomy.
type Kind string

const (
	// Pre-flight rejections; never reach the network.
	KindUnsupportedType Kind = "unsupported_type"
	KindTooLarge        Kind = "too_large"

	// Input rejected by the extraction service.
	KindValidation           Kind = "validation_error"
	KindPayloadTooLarge      Kind = "payload_too_large"
	KindUnsupportedMediaType Kind = "unsupported_media_type"

	// Transport level.
	KindNetwork Kind = "network_error"
	KindUnknown Kind = "unknown_error"

	// Service side; fallback-eligible.
	KindModelUnavailable Kind = "model_unavailable"
	KindServerProcessing Kind = "server_processing_error"

	// Fallback path.
	KindPdfRead            Kind = "pdf_read_error"
	KindModelResponseParse Kind = "model_response_parse_error"
	KindSdkUnavailable     Kind = "sdk_unavailable"
)

var defaultMessages = map[Kind]string{
	KindUnsupportedType:      "Only PDF files are supported.",
	KindTooLarge:             "The file is larger than the allowed upload size.",
	KindValidation:           "The resume could not be processed. Please check the file and try again.",
	KindPayloadTooLarge:      "The server rejected the file because it is too large.",
	KindUnsupportedMediaType: "The server does not accept this file type. Please upload a PDF.",
	KindNetwork:              "Could not reach the resume service. Check your connection and try again.",
	KindUnknown:              "Something went wrong while uploading the resume.",
	KindModelUnavailable:     "The AI parsing service is temporarily unavailable.",
	KindServerProcessing:     "The server failed while processing the resume.",
	KindPdfRead:              "The PDF could not be read.",
	KindModelResponseParse:   "The AI response could not be understood.",
	KindSdkUnavailable:       "Local AI parsing is not available on this machine.",
}

// DefaultMessage returns the user-facing message for k.
func (k Kind) DefaultMessage() string {
	if msg, ok := defaultMessages[k]; ok {
		return msg
	}
	return defaultMessages[KindUnknown]
}

// Retryable reports whether re-running the pipeline with the same file can succeed.
func (k Kind) Retryable() bool {
	switch k {
	case KindNetwork, KindUnknown, KindModelUnavailable, KindServerProcessing, KindModelResponseParse:
		return true
	default:
		return false
	}
}

// FallbackEligible reports whether switching to client-side extraction can remedy k.
func (k Kind) FallbackEligible() bool {
	return k == KindModelUnavailable || k == KindServerProcessing
}
