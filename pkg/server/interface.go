/*
Package server implements msgpack IPC for the composition session.

The server is the surface the key-capture/GUI layer talks to: binary
msgpack messages over stdin/stdout, one request one response, processed
synchronously. Every mutating operation maps to one session transition.

A composition round trip looks like:

	{"id": "k1", "op": "append", "ch": "n"}
	{"id": "k1", "status": "ok", "w": ["你", "尼"], "pg": 0, "tp": 2, "st": "composing", "ep": 1}

Selection resolves against the visible page and returns the committed
text when it lands:

	{"id": "k2", "op": "select", "i": 0}
	{"id": "k2", "status": "ok", "cm": "你", "st": "idle", "ep": 2}

Suggestion mode is asynchronous: "suggest" fires a provider request and
returns immediately; "poll" applies the pending result when it arrives,
unless the session epoch moved on in the meantime, in which case the
result is discarded as stale.
*/
package server

// Request is an incoming operation from the client.
type Request struct {
	ID    string   `msgpack:"id"`
	Op    string   `msgpack:"op"`
	Ch    string   `msgpack:"ch,omitempty"`
	Index int      `msgpack:"i,omitempty"`
	List  []string `msgpack:"list,omitempty"`
}

// Response reports the session view after an operation.
type Response struct {
	ID         string   `msgpack:"id"`
	Status     string   `msgpack:"status"`
	Words      []string `msgpack:"w,omitempty"`
	Page       int      `msgpack:"pg"`
	TotalPages int      `msgpack:"tp"`
	Cursor     int      `msgpack:"cur,omitempty"`
	State      string   `msgpack:"st"`
	Epoch      uint64   `msgpack:"ep"`
	Committed  string   `msgpack:"cm,omitempty"`
	Buffer     string   `msgpack:"buf,omitempty"`
}

// ErrorResponse reports a rejected request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
