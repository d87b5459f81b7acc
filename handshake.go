package socketio

import "strings"

// HandshakeResponse builds the newline-free ASCII handshake body spec.md §6
// specifies: "{session_id}:{heartbeat_timeout}:{close_timeout}:{supported_transports_csv}".
// The handshake HTTP endpoint itself (routing, method, auth) is an external
// collaborator; only the protocol-specific body format lives here.
func HandshakeResponse(cfg Config, sessionID string) string {
	heartbeat := int(cfg.HeartbeatInterval.Seconds())
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeatInterval
	}
	expire := int(cfg.SessionExpire.Seconds())
	if expire <= 0 {
		expire = DefaultSessionExpire
	}
	return strings.Join([]string{
		sessionID,
		itoaInt(heartbeat),
		itoaInt(expire),
		strings.Join(SupportedTransports, ","),
	}, ":")
}

func itoaInt(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
