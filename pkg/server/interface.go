/*
Package server implements msgpack IPC for query analysis services.

The server reads a stream of msgpack encoded requests from stdin and writes one msgpack
encoded response per request to stdout. Logging goes to stderr so it never mixes with the stream.

# IPC

Each request carries an ID echoed back in the response, and an action:

	{"id": "q1", "action": "analyze", "t": "北京大学", "f": "title"}

The response lists the lexemes found and the expression built from them:

	{"id": "q1", "lexemes": [{"b": 0, "e": 2, "w": "北京"}, ...], "expr": "title:北京大学 (+title:北京 +title:大学)", "t": 85}

Other actions:

	{"id": "m1", "action": "match", "t": "北京大学", "b": 0, "l": 2}
	{"id": "x1", "action": "expand", "t": "北京", "limit": 10}
	{"id": "s1", "action": "stats"}

A failed request gets an ErrorResponse with the same ID. The first message the server
writes is a StatusResponse with status "ready".

Timing in responses is in microseconds.
*/
package server

// Actions understood by the server. An empty action is treated as analyze.
const (
	ActionMatch   = "match"
	ActionAnalyze = "analyze"
	ActionExpand  = "expand"
	ActionStats   = "stats"
	ActionHealth  = "health"
)

// Request is the single request shape; fields apply per action.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action"`
	Text   string `msgpack:"t"`
	Field  string `msgpack:"f,omitempty"`
	Begin  int    `msgpack:"b,omitempty"`
	Length int    `msgpack:"l,omitempty"`
	Limit  int    `msgpack:"limit,omitempty"`
}

// MatchResponse reports how text[b:b+l] relates to the dictionary.
type MatchResponse struct {
	ID      string `msgpack:"id" json:"id,omitempty"`
	Match   bool   `msgpack:"m" json:"match"`
	Prefix  bool   `msgpack:"p" json:"prefix"`
	Unmatch bool   `msgpack:"u" json:"unmatch"`
	Begin   int    `msgpack:"b" json:"begin"`
	End     int    `msgpack:"e" json:"end"`
}

// Lexeme is a term found in the analyzed text, offsets in characters.
type Lexeme struct {
	Begin int    `msgpack:"b" json:"begin"`
	End   int    `msgpack:"e" json:"end"`
	Text  string `msgpack:"w" json:"text"`
}

// AnalyzeResponse holds the lexemes and the expression built from them.
type AnalyzeResponse struct {
	ID        string   `msgpack:"id" json:"id,omitempty"`
	Field     string   `msgpack:"f" json:"field"`
	Lexemes   []Lexeme `msgpack:"lexemes" json:"lexemes"`
	Expr      string   `msgpack:"expr" json:"expr"`
	TimeTaken int64    `msgpack:"t" json:"time_us"`
}

// ExpandResponse lists dictionary words under a prefix.
type ExpandResponse struct {
	ID    string   `msgpack:"id" json:"id,omitempty"`
	Words []string `msgpack:"words" json:"words"`
	Count int      `msgpack:"c" json:"count"`
}

// StatsResponse describes the loaded dictionary.
type StatsResponse struct {
	ID           string `msgpack:"id" json:"id,omitempty"`
	Words        int    `msgpack:"words" json:"words"`
	Nodes        int    `msgpack:"nodes" json:"nodes"`
	ArrayNodes   int    `msgpack:"array_nodes" json:"array_nodes"`
	MapNodes     int    `msgpack:"map_nodes" json:"map_nodes"`
	MaxDepth     int    `msgpack:"max_depth" json:"max_depth"`
	Chars        int    `msgpack:"chars" json:"chars"`
	LoadedChunks int    `msgpack:"loaded_chunks,omitempty" json:"loaded_chunks,omitempty"`
	Loading      bool   `msgpack:"loading,omitempty" json:"loading,omitempty"`
}

// StatusResponse is sent on startup and for health checks.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty" json:"id,omitempty"`
	Status string `msgpack:"status" json:"status"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id" json:"id,omitempty"`
	Error string `msgpack:"e" json:"error"`
	Code  int    `msgpack:"c" json:"code"`
}
