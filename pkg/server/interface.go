/*
Package server implements msgpack IPC for query autocomplete.

The protocol is a synchronous request/response stream over stdin and
stdout: clients write msgpack-encoded Request values and read one
Response per request. Every message carries a client-supplied ID that is
echoed back.

A guess request carries one keystroke and its zero-based position in
the query being typed; position 0 starts a new query:

	{"id": "g1", "cmd": "guess", "ch": "c", "i": 0}

The response always holds exactly five suggestion slots, best first,
empty strings for unused slots, plus timing in microseconds:

	{"id": "g1", "s": ["cat", "car", "care", "", ""], "c": 3, "t": 42}

Feedback reports the query the user finally ran and whether a
suggestion was accepted; it has side effects only:

	{"id": "f1", "cmd": "feedback", "ok": true, "q": "cat pictures"}

"stats" returns engine counters and "health" answers liveness probes.
*/
package server

// Request is one incoming IPC message. Cmd selects the operation:
// "guess", "feedback", "stats" or "health".
type Request struct {
	ID      string `msgpack:"id"`
	Cmd     string `msgpack:"cmd"`
	Char    string `msgpack:"ch,omitempty"`
	Index   int    `msgpack:"i,omitempty"`
	Correct bool   `msgpack:"ok,omitempty"`
	Query   string `msgpack:"q,omitempty"`
}

// Response answers a guess request. Suggestions always has exactly five
// entries; Count is how many are non-empty.
type Response struct {
	ID          string   `msgpack:"id"`
	Suggestions []string `msgpack:"s"`
	Count       int      `msgpack:"c"`
	TimeTaken   int64    `msgpack:"t"`
}

// StatusResponse answers feedback, stats and health requests.
type StatusResponse struct {
	ID     string         `msgpack:"id"`
	Status string         `msgpack:"status"`
	Stats  map[string]int `msgpack:"stats,omitempty"`
}

// ErrorResponse reports a rejected request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
