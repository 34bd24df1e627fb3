// Package ankiconnect reads flashcards from a running Anki instance through
// the AnkiConnect add-on.
//
// AnkiConnect is a JSON-over-HTTP endpoint: every call is a POST of
// {"action", "version", "params", "key"} answered by {"result", "error"}.
// This package is the only place that knows that wire format.
//
// Key components:
//
// 1. Client:
//   - Sends actions to the configured endpoint
//   - Retries transport failures and 5xx responses with exponential backoff
//   - Reports AnkiConnect's error field as an *APIError
//
// 2. Deck reading:
//   - FindNotes and NotesInfo map one-to-one onto AnkiConnect actions
//   - DeckCards combines them and renders field HTML to Markdown
//
// Every failure returned by the client wraps domain.ErrRemoteUnavailable.
package ankiconnect
