package socketio

// Version identifies the wire protocol implemented by this module.
const Version = "0.7"

// PacketType is the one-digit type code carried by every frame.
type PacketType int

const (
	TypeDisconnect PacketType = iota
	TypeConnect
	TypeHeartbeat
	TypeMessage
	TypeJSON
	TypeEvent
	TypeAck
	TypeError
	TypeNoop
)

func (t PacketType) String() string {
	switch t {
	case TypeDisconnect:
		return "disconnect"
	case TypeConnect:
		return "connect"
	case TypeHeartbeat:
		return "heartbeat"
	case TypeMessage:
		return "message"
	case TypeJSON:
		return "json"
	case TypeEvent:
		return "event"
	case TypeAck:
		return "ack"
	case TypeError:
		return "error"
	case TypeNoop:
		return "noop"
	default:
		return "unknown"
	}
}

// AckMode models the three-state `ack` header: absent, a bare ack, or an
// ack that carries reply arguments ("data"). Go has no built-in tri-state
// for absent/true/"data", so this is an explicit enum rather than a
// *bool/*string pair.
type AckMode int

const (
	AckNone AckMode = iota
	AckSimple
	AckData
)

// NamedCode is a stable integer-to-description pair. Equality between a
// NamedCode and its description is what the wire grammar actually tests,
// so Description is exported for that comparison.
type NamedCode struct {
	Code        int
	Description string
}

// Reasons is the Error packet's reason table (spec.md §3).
var Reasons = []NamedCode{
	{0, "transport not supported"},
	{1, "client not handshaken"},
	{2, "unauthorized"},
}

// Advices is the Error packet's advice table (spec.md §3).
var Advices = []NamedCode{
	{0, "reconnect"},
}

func reasonByDescription(s string) (int, bool) {
	for _, r := range Reasons {
		if r.Description == s {
			return r.Code, true
		}
	}
	return 0, false
}

func adviceByDescription(s string) (int, bool) {
	for _, a := range Advices {
		if a.Description == s {
			return a.Code, true
		}
	}
	return 0, false
}

// Default tunables, overridable via Config.
const (
	DefaultHeartbeatInterval = 5  // seconds
	DefaultSessionExpire     = 10 // seconds
	DefaultNamespace         = "socket.io"
)

// SupportedTransports lists the transport names advertised by the
// handshake response, in the order spec.md §6 documents.
var SupportedTransports = []string{
	"websocket",
	"xhr-polling",
	"xhr-multipart",
	"jsonp-polling",
	"htmlfile",
}
