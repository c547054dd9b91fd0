package restapi

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"tasker/internal/service"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// taskBody is the representation sent by create and update.
type taskBody struct {
	Title        string `json:"title"`
	Desc         string `json:"desc"`
	MarkedAsDone bool   `json:"marked_as_done"`
}

func bodyOf(t service.Task) taskBody {
	return taskBody{Title: t.Title, Desc: t.Desc, MarkedAsDone: t.MarkedAsDone}
}

// taskJSON is a task as returned by the backend.
type taskJSON struct {
	ID           apiID   `json:"id"`
	Title        string  `json:"title"`
	Desc         string  `json:"desc"`
	MarkedAsDone bool    `json:"marked_as_done"`
	CreatedAt    apiTime `json:"created_at"`
	UpdatedAt    apiTime `json:"updated_at"`
}

func (t taskJSON) toTask() service.Task {
	return service.Task{
		ID:           string(t.ID),
		Title:        t.Title,
		Desc:         t.Desc,
		MarkedAsDone: t.MarkedAsDone,
		CreatedAt:    time.Time(t.CreatedAt),
		UpdatedAt:    time.Time(t.UpdatedAt),
	}
}

// apiID accepts an ID encoded as a JSON number or string.
type apiID string

func (id *apiID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = apiID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = apiID(n.String())
	return nil
}

// apiTime accepts the timestamp layouts the backend is known to use.
// Unparseable values decode to the zero time.
type apiTime time.Time

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = apiTime{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = apiTime(parsed)
			return nil
		}
	}
	*t = apiTime{}
	return nil
}

// serverMessage extracts the human-readable message from an error response.
// The backend answers either {"message": "..."} or a validation array
// [{"field": "...", "message": "..."}].
func serverMessage(err *googleapi.Error) string {
	if err.Message != "" {
		return err.Message
	}
	body := strings.TrimSpace(err.Body)
	if body == "" {
		return ""
	}

	type fieldError struct {
		Message string `json:"message"`
	}
	switch body[0] {
	case '{':
		var fe fieldError
		if json.Unmarshal([]byte(body), &fe) == nil {
			return fe.Message
		}
	case '[':
		var fes []fieldError
		if json.Unmarshal([]byte(body), &fes) == nil {
			for _, fe := range fes {
				if fe.Message != "" {
					return fe.Message
				}
			}
		}
	}
	return ""
}
