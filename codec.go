package socketio

import (
	"bytes"
	"errors"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
)

var (
	errUnknownReason = errors.New("socketio: reason has no entry in the reason table")
	errUnknownAdvice = errors.New("socketio: advice has no entry in the advice table")
	errUnknownType   = errors.New("socketio: unknown packet type")
)

// Decode parses a single wire frame into a Packet (spec.md §4.1).
//
// Grammar: type ":" [id] [ack_marker] ":" [endpoint] [":" data]
//
// The header is matched greedily up to the second colon; everything after
// an optional third colon is opaque payload, newlines included.
func Decode(raw []byte) (*Packet, error) {
	if len(raw) == 0 {
		return nil, newDecodeError("malformed packet", raw)
	}

	// type
	i := bytes.IndexByte(raw, ':')
	if i <= 0 {
		return nil, newDecodeError("malformed packet", raw)
	}
	typeDigits := raw[:i]
	if !allDigits(typeDigits) {
		return nil, newDecodeError("malformed packet", raw)
	}
	typeNum, err := strconv.Atoi(string(typeDigits))
	if err != nil || typeNum < 0 || typeNum > 8 {
		return nil, newDecodeError("malformed packet", raw)
	}

	rest := raw[i+1:]

	// id + ack_marker, up to the second colon
	j := bytes.IndexByte(rest, ':')
	if j < 0 {
		return nil, newDecodeError("malformed packet", raw)
	}
	idAck := rest[:j]
	rest = rest[j+1:]

	id := ""
	ackMarker := false
	if len(idAck) > 0 && idAck[len(idAck)-1] == '+' {
		ackMarker = true
		idAck = idAck[:len(idAck)-1]
	}
	if len(idAck) > 0 {
		if !allDigits(idAck) {
			return nil, newDecodeError("malformed packet", raw)
		}
		id = string(idAck)
	} else if ackMarker {
		// a '+' with no id digits is not a valid ack marker position.
		return nil, newDecodeError("malformed packet", raw)
	}

	// endpoint + optional data, separated by the third colon if data is present.
	endpoint := ""
	var data []byte
	hasData := false
	if k := bytes.IndexByte(rest, ':'); k >= 0 {
		endpoint = string(rest[:k])
		data = rest[k+1:]
		hasData = true
	} else {
		endpoint = string(rest)
	}

	ack := AckNone
	if id != "" {
		if ackMarker {
			ack = AckData
		} else {
			ack = AckSimple
		}
	}

	p := &Packet{Type: PacketType(typeNum), Id: id, Ack: ack, Endpoint: endpoint}

	switch p.Type {
	case TypeDisconnect, TypeHeartbeat, TypeNoop:
		// data must be absent or empty; ignored either way.

	case TypeConnect:
		qs := map[string][]string{}
		if hasData && len(data) > 0 {
			if data[0] != '?' {
				return nil, newDecodeError("malformed connect query", raw)
			}
			values, err := url.ParseQuery(string(data[1:]))
			if err != nil {
				return nil, newDecodeError("malformed connect query", raw)
			}
			qs = map[string][]string(values)
		}
		p.Query = qs

	case TypeMessage:
		if hasData {
			p.Data = append([]byte(nil), data...)
		} else {
			p.Data = []byte{}
		}

	case TypeJSON:
		var value json.RawMessage
		if hasData {
			value = data
		} else {
			value = []byte("null")
		}
		if !json.Valid(value) {
			return nil, newDecodeError("malformed JSON", raw)
		}
		p.JSON = append(json.RawMessage(nil), value...)

	case TypeEvent:
		var payload struct {
			Name string            `json:"name"`
			Args []json.RawMessage `json:"args"`
		}
		var rawPayload []byte
		if hasData {
			rawPayload = data
		}
		if err := json.Unmarshal(rawPayload, &payload); err != nil || payload.Name == "" {
			return nil, newDecodeError("malformed event", raw)
		}
		p.Name = payload.Name
		p.Args = payload.Args
		if p.Args == nil {
			p.Args = []json.RawMessage{}
		}

	case TypeAck:
		if !hasData {
			return nil, newDecodeError("malformed ack", raw)
		}
		ackId, argsRaw := splitPlus(data)
		if !allDigits(ackId) {
			return nil, newDecodeError("malformed ack", raw)
		}
		p.AckId = string(ackId)
		if len(argsRaw) > 0 {
			var args []json.RawMessage
			if err := json.Unmarshal(argsRaw, &args); err != nil {
				return nil, newDecodeError("malformed JSON", raw)
			}
			p.AckArgs = args
		} else {
			p.AckArgs = []json.RawMessage{}
		}

	case TypeError:
		reason, advice := "", ""
		if hasData && len(data) > 0 {
			reasonCode, adviceCode := splitPlus(data)
			if len(reasonCode) > 0 {
				idx, err := strconv.Atoi(string(reasonCode))
				if err != nil || idx < 0 || idx >= len(Reasons) {
					return nil, newDecodeError("invalid reason code", raw)
				}
				reason = Reasons[idx].Description
			}
			if len(adviceCode) > 0 {
				idx, err := strconv.Atoi(string(adviceCode))
				if err != nil || idx < 0 || idx >= len(Advices) {
					return nil, newDecodeError("invalid advice code", raw)
				}
				advice = Advices[idx].Description
			}
		}
		p.Reason = reason
		p.Advice = advice
	}

	return p, nil
}

// Encode renders a Packet back to its exact wire bytes (spec.md §4.1). It is
// the inverse of Decode: Decode(Encode(p)) == p for every well-formed p.
func Encode(p *Packet) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(strconv.Itoa(int(p.Type)))
	buf.WriteByte(':')
	if p.Id != "" {
		buf.WriteString(p.Id)
		if p.Ack == AckData {
			buf.WriteByte('+')
		}
	}
	buf.WriteByte(':')
	buf.WriteString(p.Endpoint)

	switch p.Type {
	case TypeDisconnect, TypeHeartbeat, TypeNoop:
		return buf.Bytes(), nil

	case TypeConnect:
		if len(p.Query) > 0 {
			buf.WriteString(":?")
			buf.WriteString(encodeQuery(p.Query))
		}
		return buf.Bytes(), nil

	case TypeMessage:
		// Absent and empty data are wire-equivalent (decode never tells them
		// apart), so an empty Message omits the third colon entirely rather
		// than emitting a trailing one, matching the observed samples.
		if len(p.Data) == 0 {
			return buf.Bytes(), nil
		}
		buf.WriteByte(':')
		buf.Write(p.Data)
		return buf.Bytes(), nil

	case TypeJSON:
		buf.WriteByte(':')
		value := p.JSON
		if len(value) == 0 {
			value = json.RawMessage("null")
		}
		buf.Write(value)
		return buf.Bytes(), nil

	case TypeEvent:
		buf.WriteByte(':')
		args := p.Args
		if args == nil {
			args = []json.RawMessage{}
		}
		payload := struct {
			Name string            `json:"name"`
			Args []json.RawMessage `json:"args"`
		}{Name: p.Name, Args: args}
		encoded, err := json.Marshal(&payload)
		if err != nil {
			return nil, &EncodeError{Value: p, Cause: err}
		}
		buf.Write(encoded)
		return buf.Bytes(), nil

	case TypeAck:
		buf.WriteByte(':')
		buf.WriteString(p.AckId)
		if len(p.AckArgs) > 0 {
			buf.WriteByte('+')
			encoded, err := json.Marshal(p.AckArgs)
			if err != nil {
				return nil, &EncodeError{Value: p, Cause: err}
			}
			buf.Write(encoded)
		}
		return buf.Bytes(), nil

	case TypeError:
		if p.Reason == "" && p.Advice == "" {
			return buf.Bytes(), nil
		}
		buf.WriteByte(':')
		if p.Reason != "" {
			code, ok := reasonByDescription(p.Reason)
			if !ok {
				return nil, &EncodeError{Value: p, Cause: errUnknownReason}
			}
			buf.WriteString(strconv.Itoa(code))
		}
		if p.Advice != "" {
			code, ok := adviceByDescription(p.Advice)
			if !ok {
				return nil, &EncodeError{Value: p, Cause: errUnknownAdvice}
			}
			buf.WriteByte('+')
			buf.WriteString(strconv.Itoa(code))
		}
		return buf.Bytes(), nil

	default:
		return nil, &EncodeError{Value: p, Cause: errUnknownType}
	}
}

func allDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func splitPlus(data []byte) ([]byte, []byte) {
	i := bytes.IndexByte(data, '+')
	if i < 0 {
		return data, nil
	}
	return data[:i], data[i+1:]
}

// encodeQuery renders qs as application/x-www-form-urlencoded via
// url.Values.Encode: keys come out sorted (the grammar does not require a
// particular key order) and the values of a repeated key keep their order.
func encodeQuery(qs map[string][]string) string {
	return url.Values(qs).Encode()
}
