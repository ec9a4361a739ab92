package failure

import "net/http"

// Classification is the classifier's verdict on a failed upload.
type Classification struct {
	Kind             Kind
	UserMessage      string
	FallbackEligible bool
}

// Classify maps a transport failure onto the taxonomy. Kind and eligibility
// depend only on the status code; the server's detail text, when present,
// becomes the user message.
func Classify(te *TransportError) Classification {
	if te == nil {
		return Classification{Kind: KindUnknown, UserMessage: KindUnknown.DefaultMessage()}
	}

	kind := kindForStatus(te.StatusCode)
	msg := kind.DefaultMessage()
	if te.Detail != "" && te.StatusCode != 0 {
		msg = te.Detail
	}
	return Classification{
		Kind:             kind,
		UserMessage:      msg,
		FallbackEligible: kind.FallbackEligible(),
	}
}

func kindForStatus(status int) Kind {
	switch status {
	case 0:
		return KindNetwork
	case http.StatusServiceUnavailable:
		return KindModelUnavailable
	case http.StatusInternalServerError:
		return KindServerProcessing
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusRequestEntityTooLarge:
		return KindPayloadTooLarge
	case http.StatusUnsupportedMediaType:
		return KindUnsupportedMediaType
	default:
		return KindUnknown
	}
}

// Err converts the classification into an *Error carrying the original cause.
func (c Classification) Err(te *TransportError) *Error {
	e := New(c.Kind, nil)
	e.Message = c.UserMessage
	if te != nil {
		e.Cause = te
		e.Status = te.StatusCode
	}
	return e
}
