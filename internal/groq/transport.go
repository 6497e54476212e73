package groq

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ErrMissingChoices is returned when a successful completion body has no
// "choices" field or carries null. An empty array is a valid, ambiguous
// answer and is not an error.
var ErrMissingChoices = errors.New("completion response has no choices field")

// choicesTransport checks successful completion bodies before go-openai
// decodes them, which it does without telling an absent field from [].
type choicesTransport struct {
	base http.RoundTripper
}

func (t *choicesTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Choices json.RawMessage `json:"choices"`
	}
	// undecodable bodies are left to go-openai, which reports them
	if json.Unmarshal(body, &envelope) == nil && (len(envelope.Choices) == 0 || string(envelope.Choices) == "null") {
		return nil, ErrMissingChoices
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
