package socketio

import "github.com/goccy/go-json"

// Packet is the tagged sum of the nine wire variants (spec.md §3), with the
// common header fields (Id, Ack, Endpoint) factored out. Only the fields
// relevant to Type are populated; the rest are left zero-valued. Encode and
// Decode are free functions operating on Packet, never methods, per the
// re-architecture guidance in spec.md §9.
type Packet struct {
	Type     PacketType
	Id       string // digit string; "" means absent
	Ack      AckMode
	Endpoint string

	// Connect
	Query map[string][]string

	// Message
	Data []byte

	// JSON
	JSON json.RawMessage

	// Event
	Name string
	Args []json.RawMessage

	// Ack
	AckId string
	AckArgs []json.RawMessage

	// Error
	Reason string
	Advice string
}

// HasId reports whether the id header is present.
func (p *Packet) HasId() bool { return p.Id != "" }

// Disconnect builds a Disconnect packet, optionally scoped to endpoint.
func Disconnect(endpoint string) *Packet {
	return &Packet{Type: TypeDisconnect, Endpoint: endpoint}
}

// Connect builds a Connect packet.
func Connect(endpoint string, qs map[string][]string) *Packet {
	return &Packet{Type: TypeConnect, Endpoint: endpoint, Query: qs}
}

// Heartbeat builds a Heartbeat packet.
func Heartbeat() *Packet {
	return &Packet{Type: TypeHeartbeat}
}

// Noop builds a Noop packet.
func Noop() *Packet {
	return &Packet{Type: TypeNoop}
}

// Message builds a Message packet carrying raw bytes.
func Message(data string) *Packet {
	return &Packet{Type: TypeMessage, Data: []byte(data)}
}

// JSONPacket builds a JSON packet from an already-encoded JSON value.
func JSONPacket(value json.RawMessage) *Packet {
	return &Packet{Type: TypeJSON, JSON: value}
}

// Event builds an Event packet.
func Event(name string, args []json.RawMessage) *Packet {
	return &Packet{Type: TypeEvent, Name: name, Args: args}
}

// Ack builds an Ack packet.
func Ack(ackId string, args []json.RawMessage) *Packet {
	return &Packet{Type: TypeAck, AckId: ackId, AckArgs: args}
}

// ErrorPacket builds an Error packet. reason/advice may be "" for absent.
func ErrorPacket(reason, advice string) *Packet {
	return &Packet{Type: TypeError, Reason: reason, Advice: advice}
}
