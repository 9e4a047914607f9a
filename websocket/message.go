package websocket

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// DecodeMessage parses a text frame into a Message. Anything that is not a
// JSON object is a decode error. A non-string type member is kept verbatim
// so it falls through to the unrecognized branch.
func DecodeMessage(data []byte) (*Message, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, NewDecodeError(err)
	}

	msg := &Message{
		Fields: fields,
		Raw:    append(json.RawMessage(nil), data...),
	}

	if raw, ok := fields["type"]; ok {
		if err := json.Unmarshal(raw, &msg.Type); err != nil {
			msg.Type = string(raw)
		}
	}
	msg.Result = fields["result"]
	msg.Error = fields["error"]

	return msg, nil
}

// Progress decodes the record as a progress update.
func (m *Message) Progress() (ProgressUpdate, error) {
	var update ProgressUpdate
	if err := json.Unmarshal(m.Raw, &update); err != nil {
		return ProgressUpdate{}, NewDecodeError(err)
	}
	return update, nil
}

// Field decodes a single top-level member into v.
func (m *Message) Field(name string, v any) error {
	raw, ok := m.Fields[name]
	if !ok {
		return fmt.Errorf("field %q not present", name)
	}
	return json.Unmarshal(raw, v)
}

func (m *Message) IsProgress() bool {
	return m.Type == MESSAGE_TYPE_PROGRESS
}

func (m *Message) IsCompleted() bool {
	return m.Type == MESSAGE_TYPE_COMPLETED
}

// ServiceURL derives the progress channel address from the page origin. A
// secure origin selects wss.
func ServiceURL(origin string, serviceID string) (string, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid origin %q: missing host", origin)
	}

	scheme := "ws"
	if u.Scheme == "https" || u.Scheme == "wss" {
		scheme = "wss"
	}

	return fmt.Sprintf("%s://%s"+SERVICE_PATH_TEMPLATE, scheme, u.Host, url.PathEscape(serviceID)), nil
}
