package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/agbru/numfront/internal/api"
	"github.com/agbru/numfront/internal/logging"
	"github.com/agbru/numfront/internal/server"
)

// Handlers serves the number endpoints.
type Handlers struct {
	logger logging.Logger
}

// NewHandlers returns handlers that log to logger.
func NewHandlers(logger logging.Logger) *Handlers {
	return &Handlers{logger: logger}
}

// Register mounts the endpoints and the liveness root on s.
func (h *Handlers) Register(s *server.Server) {
	s.Handle(api.Reverser.Path, http.HandlerFunc(h.Reverser))
	s.Handle(api.Summation.Path, http.HandlerFunc(h.Summation))
	s.HandleRoot(http.HandlerFunc(h.Root))
}

// Root answers liveness checks.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "Hello world")
}

// Reverser answers {"num": <reversed integer>}.
func (h *Handlers) Reverser(w http.ResponseWriter, r *http.Request) {
	if !h.allowPost(w, r) {
		return
	}
	raw, err := readNum(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	text, err := scalarText(raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := Reverse(text)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.reply(w, map[string]json.Number{"num": json.Number(out)})
}

// Summation answers {"sum": <total>}. A string or number sums its digits;
// an array sums its elements.
func (h *Handlers) Summation(w http.ResponseWriter, r *http.Request) {
	if !h.allowPost(w, r) {
		return
	}
	raw, err := readNum(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var total fmt.Stringer
	if bytes.HasPrefix(raw, []byte("[")) {
		values, err := arrayText(raw)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if total, err = SumValues(values); err != nil {
			h.fail(w, r, err)
			return
		}
	} else {
		text, err := scalarText(raw)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if total, err = SumDigits(text); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	h.reply(w, map[string]json.Number{"sum": json.Number(total.String())})
}

var errMissingNum = errors.New(`request body must be an object with a "num" field`)

// readNum returns the raw JSON of the request's num field.
func readNum(r *http.Request) (json.RawMessage, error) {
	var body struct {
		Num json.RawMessage `json:"num"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	raw := bytes.TrimSpace(body.Num)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errMissingNum
	}
	return raw, nil
}

// scalarText returns a JSON string's contents or a JSON number's literal.
func scalarText(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("invalid num: %w", err)
	}
	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("num must be a string or a number, got %T", v)
	}
}

func arrayText(raw json.RawMessage) ([]string, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("invalid num array: %w", err)
	}
	out := make([]string, len(elems))
	for i, e := range elems {
		text, err := scalarText(e)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = text
	}
	return out, nil
}

func (h *Handlers) allowPost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodPost {
		return true
	}
	w.Header().Set("Allow", http.MethodPost)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	return false
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
	}
	h.logger.Debug("rejected request",
		logging.String("path", r.URL.Path),
		logging.Err(err))
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *Handlers) reply(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
