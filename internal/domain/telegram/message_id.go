package telegram

import (
	"bytes"
	"encoding/json"
	"strconv"
)

const messageIDKey = "message_id"

// JSON container states while walking the token stream.
const (
	inArray byte = iota
	objectWantsKey
	objectWantsValue
)

// ExtractMessageID returns the first "message_id" found in the response,
// in document order, whose value is an integer that fits int32.
// ok is false when there is none; the caller then keeps its previous id.
func ExtractMessageID(body []byte) (id int32, ok bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var stack []byte
	matched := false

	valueDone := func() {
		if n := len(stack); n > 0 && stack[n-1] == objectWantsValue {
			stack[n-1] = objectWantsKey
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return 0, false // EOF or malformed, either way nothing more to find
		}

		n := len(stack)
		if n > 0 && stack[n-1] == objectWantsKey {
			if tok == json.Delim('}') {
				stack = stack[:n-1]
				valueDone()
				continue
			}
			stack[n-1] = objectWantsValue
			matched = tok == messageIDKey
			continue
		}

		if matched {
			matched = false
			if num, isNum := tok.(json.Number); isNum {
				if v, err := strconv.ParseInt(num.String(), 10, 32); err == nil {
					return int32(v), true
				}
			}
		}

		switch tok {
		case json.Delim('{'):
			stack = append(stack, objectWantsKey)
		case json.Delim('['):
			stack = append(stack, inArray)
		case json.Delim(']'):
			stack = stack[:n-1]
			valueDone()
		default:
			valueDone()
		}
	}
}
