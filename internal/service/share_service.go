package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"todo-tracker/internal/model"
)

// ShareParam is the query parameter carrying a share token on the app URL.
const ShareParam = "share"

// ErrMalformedToken is reported (possibly wrapped) for any token that cannot
// be decoded into a complete snapshot. Callers treat it as "nothing to show".
var ErrMalformedToken = errors.New("malformed share token")

// SharedTask is the shareable snapshot of a task. Priority is deliberately
// not part of it.
type SharedTask struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	Category  string `json:"category"`
	Completed bool   `json:"completed"`
	DateAdded int64  `json:"dateAdded"`
}

// sharedFields are the keys a token must carry to decode.
var sharedFields = []string{"id", "text", "category", "completed", "dateAdded"}

// EncodeShare serializes the shareable subset of a task to JSON and
// percent-encodes it for use as a URL query value.
func EncodeShare(t model.Task) string {
	snapshot := SharedTask{
		ID:        t.ID,
		Text:      t.Text,
		Category:  t.Category,
		Completed: t.Completed,
		DateAdded: t.DateAdded,
	}
	// A struct of plain scalars cannot fail to marshal.
	payload, _ := json.Marshal(snapshot)
	return url.QueryEscape(string(payload))
}

// DecodeShare reverses EncodeShare. Percent-decode failures, malformed JSON
// and missing required fields all yield an error wrapping ErrMalformedToken;
// nothing ever panics past this boundary.
func DecodeShare(token string) (*SharedTask, error) {
	raw, err := url.QueryUnescape(token)
	if err != nil {
		return nil, fmt.Errorf("%w: percent decoding: %v", ErrMalformedToken, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	for _, key := range sharedFields {
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("%w: missing field %q", ErrMalformedToken, key)
		}
	}

	var snapshot SharedTask
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return &snapshot, nil
}

// BuildLink appends the share token for t to base as the single query
// parameter.
func BuildLink(base string, t model.Task) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	u.RawQuery = ShareParam + "=" + EncodeShare(t)
	u.Fragment = ""
	return u.String(), nil
}

// ExtractToken pulls the raw (still percent-encoded) share token out of a
// URL. It deliberately avoids url.Values, which would decode the value once
// and break the round trip through DecodeShare.
func ExtractToken(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if value, ok := strings.CutPrefix(pair, ShareParam+"="); ok {
			return value, true
		}
	}
	return "", false
}

// PlainLink strips query and fragment, leaving origin and path only — the
// "back to the app" destination on a shared view.
func PlainLink(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
