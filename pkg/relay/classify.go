package relay

import (
	"encoding/json"
	"errors"
	"net/http"

	igerrors "igrelay/pkg/errors"

	"github.com/tidwall/gjson"
)

const (
	// FailureLabel is the fixed error label for relay failures
	FailureLabel = "Failed to fetch data"

	// ProxyFailureLabel is the fixed error label for proxy failures with a response
	ProxyFailureLabel = "Proxy request failed"
)

// Failure is the client-facing body for a failed relay operation
type Failure struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Classify maps an upstream or mapping error to a client-facing failure.
// An upstream status is passed through; everything else becomes a 500.
func Classify(err error) *Failure {
	if errors.Is(err, ErrContractViolation) {
		return &Failure{Status: http.StatusInternalServerError, Error: FailureLabel, Message: err.Error()}
	}

	igErr, ok := igerrors.As(err)
	if !ok {
		return &Failure{Status: http.StatusInternalServerError, Error: FailureLabel, Message: err.Error()}
	}

	if igErr.Type == igerrors.ErrorTypeParsing || !igErr.HasResponse() {
		return &Failure{Status: http.StatusInternalServerError, Error: FailureLabel, Message: igErr.Message}
	}

	return &Failure{
		Status:  igErr.Code,
		Error:   FailureLabel,
		Message: upstreamMessage(igErr),
	}
}

// upstreamMessage prefers the body's "message" field over the transport text
func upstreamMessage(igErr *igerrors.Error) string {
	if len(igErr.Body) > 0 && gjson.ValidBytes(igErr.Body) {
		if msg := gjson.GetBytes(igErr.Body, "message"); msg.Exists() && msg.String() != "" {
			return msg.String()
		}
	}
	return igErr.Message
}

// RecoverStories turns an upstream 404 into an empty story list.
// Any other error is returned unchanged.
func RecoverStories(userID string, err error) (*StoryList, error) {
	if igerrors.IsNotFound(err) {
		return EmptyStories(userID), nil
	}
	return nil, err
}

// ProxyFailure is the client-facing body for a failed proxy request.
// Status and Data are only set when the upstream answered.
type ProxyFailure struct {
	Error  string          `json:"error"`
	Status int             `json:"status,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`

	code int
}

// StatusCode is the HTTP status to answer the caller with
func (p *ProxyFailure) StatusCode() int {
	return p.code
}

// ClassifyProxy maps a proxy fetch error to a client-facing failure.
// An upstream body is embedded verbatim when it is JSON and as a string otherwise.
func ClassifyProxy(err error) *ProxyFailure {
	igErr, ok := igerrors.As(err)
	if !ok || !igErr.HasResponse() {
		msg := err.Error()
		if ok {
			msg = igErr.Message
		}
		return &ProxyFailure{Error: msg, code: http.StatusInternalServerError}
	}

	return &ProxyFailure{
		Error:  ProxyFailureLabel,
		Status: igErr.Code,
		Data:   EncodeBody(igErr.Body),
		code:   igErr.Code,
	}
}

// EncodeBody returns body unchanged when it is JSON, otherwise as a JSON string
func EncodeBody(body []byte) json.RawMessage {
	if len(body) > 0 && gjson.ValidBytes(body) {
		return json.RawMessage(body)
	}
	encoded, _ := json.Marshal(string(body))
	return encoded
}
