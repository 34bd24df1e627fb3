package ankiconnect

import "encoding/json"

// Action names used by this client.
const (
	ActionFindNotes = "findNotes"
	ActionNotesInfo = "notesInfo"
	ActionVersion   = "version"
)

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
	Key     string `json:"key,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

type findNotesParams struct {
	Query string `json:"query"`
}

type notesInfoParams struct {
	Notes []int64 `json:"notes"`
}

// NoteField is one field of a note as stored by Anki.
type NoteField struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// NoteInfo is one record returned by notesInfo.
type NoteInfo struct {
	NoteID    int64                `json:"noteId"`
	ModelName string               `json:"modelName"`
	Tags      []string             `json:"tags"`
	Fields    map[string]NoteField `json:"fields"`
}
