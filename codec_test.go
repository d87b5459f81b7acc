package socketio

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	testCases := []struct {
		name  string
		frame string
		check func(t *testing.T, p *Packet)
	}{
		{
			name:  "bare error",
			frame: "7:::",
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeError, p.Type)
				assert.Equal(t, "", p.Reason)
				assert.Equal(t, "", p.Advice)
			},
		},
		{
			name:  "error with reason",
			frame: "7:::0",
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeError, p.Type)
				assert.Equal(t, "transport not supported", p.Reason)
			},
		},
		{
			name:  "error with reason and advice",
			frame: "7:::2+0",
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeError, p.Type)
				assert.Equal(t, "unauthorized", p.Reason)
				assert.Equal(t, "reconnect", p.Advice)
			},
		},
		{
			name:  "error with endpoint only",
			frame: "7::/woot",
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeError, p.Type)
				assert.Equal(t, "/woot", p.Endpoint)
				assert.Equal(t, "", p.Reason)
				assert.Equal(t, "", p.Advice)
			},
		},
		{
			name:  "ack with no args",
			frame: "6:::140",
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeAck, p.Type)
				assert.Equal(t, "140", p.AckId)
				assert.Empty(t, p.AckArgs)
			},
		},
		{
			name:  "ack with args",
			frame: `6:::12+["woot","wa"]`,
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeAck, p.Type)
				assert.Equal(t, "12", p.AckId)
				require.Len(t, p.AckArgs, 2)
				assert.JSONEq(t, `"woot"`, string(p.AckArgs[0]))
				assert.JSONEq(t, `"wa"`, string(p.AckArgs[1]))
			},
		},
		{
			name:  "bare json string",
			frame: `4:::"2"`,
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeJSON, p.Type)
				assert.JSONEq(t, `"2"`, string(p.JSON))
			},
		},
		{
			name:  "json with id and data ack marker",
			frame: `4:1+::{"a":"b"}`,
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeJSON, p.Type)
				assert.Equal(t, "1", p.Id)
				assert.Equal(t, AckData, p.Ack)
				assert.JSONEq(t, `{"a":"b"}`, string(p.JSON))
			},
		},
		{
			name:  "event with no args",
			frame: `5:::{"name":"woot"}`,
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeEvent, p.Type)
				assert.Equal(t, "woot", p.Name)
				assert.Empty(t, p.Args)
			},
		},
		{
			name:  "event with args",
			frame: `5:::{"name":"edwald","args":[{"a":"b"},2,"3"]}`,
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeEvent, p.Type)
				assert.Equal(t, "edwald", p.Name)
				require.Len(t, p.Args, 3)
				assert.JSONEq(t, `{"a":"b"}`, string(p.Args[0]))
				assert.JSONEq(t, `2`, string(p.Args[1]))
				assert.JSONEq(t, `"3"`, string(p.Args[2]))
			},
		},
		{
			name:  "plain message",
			frame: "3:::woot",
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeMessage, p.Type)
				assert.Equal(t, "woot", string(p.Data))
			},
		},
		{
			name:  "message with id ack and endpoint, no data",
			frame: "3:5:/tobi",
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeMessage, p.Type)
				assert.Equal(t, "5", p.Id)
				assert.Equal(t, AckSimple, p.Ack)
				assert.Equal(t, "/tobi", p.Endpoint)
				assert.Equal(t, "", string(p.Data))
			},
		},
		{
			name:  "heartbeat",
			frame: "2:::",
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeHeartbeat, p.Type)
			},
		},
		{
			name:  "connect with endpoint only",
			frame: "1::/tobi",
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeConnect, p.Type)
				assert.Equal(t, "/tobi", p.Endpoint)
				assert.Empty(t, p.Query)
			},
		},
		{
			name:  "connect with endpoint and query",
			frame: "1::/test:?test=1",
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeConnect, p.Type)
				assert.Equal(t, "/test", p.Endpoint)
				assert.Equal(t, []string{"1"}, p.Query["test"])
			},
		},
		{
			name:  "disconnect with endpoint",
			frame: "0::/woot",
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeDisconnect, p.Type)
				assert.Equal(t, "/woot", p.Endpoint)
			},
		},
		{
			name:  "message data is a bare newline",
			frame: "3:::\n",
			check: func(t *testing.T, p *Packet) {
				assert.Equal(t, TypeMessage, p.Type)
				assert.Equal(t, "\n", string(p.Data))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Decode([]byte(tc.frame))
			require.NoError(t, err)
			tc.check(t, p)
		})
	}
}

func TestDecode_MalformedAckArgsIsDecodeError(t *testing.T) {
	_, err := Decode([]byte(`6:::1+{"++]`))
	require.Error(t, err)
	assert.True(t, IsDecodeError(err))
}

func TestDecode_Errors(t *testing.T) {
	testCases := []string{
		"",
		"x:::",
		"9:::",
		"3",
		"1::/test:?%zz",
	}
	for _, frame := range testCases {
		t.Run(frame, func(t *testing.T) {
			_, err := Decode([]byte(frame))
			assert.Error(t, err)
		})
	}
}

func TestEncode(t *testing.T) {
	testCases := []struct {
		name   string
		packet *Packet
		want   string
	}{
		{"bare error", ErrorPacket("", ""), "7::"},
		{"error with reason", ErrorPacket("transport not supported", ""), "7:::0"},
		{"error with reason and advice", ErrorPacket("unauthorized", "reconnect"), "7:::2+0"},
		{"error with endpoint", &Packet{Type: TypeError, Endpoint: "/woot"}, "7::/woot"},
		{"ack with no args", Ack("140", nil), "6:::140"},
		{"plain message", Message("woot"), "3:::woot"},
		{"message with id ack endpoint no data", &Packet{Type: TypeMessage, Id: "5", Ack: AckSimple, Endpoint: "/tobi"}, "3:5:/tobi"},
		{"heartbeat", Heartbeat(), "2::"},
		{"connect with endpoint", Connect("/tobi", nil), "1::/tobi"},
		{"disconnect with endpoint", Disconnect("/woot"), "0::/woot"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Encode(tc.packet)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	packets := []*Packet{
		Disconnect("/woot"),
		Connect("/tobi", nil),
		Heartbeat(),
		Message("woot"),
		JSONPacket(json.RawMessage(`{"a":"b"}`)),
		Event("edwald", []json.RawMessage{json.RawMessage(`{"a":"b"}`), json.RawMessage(`2`)}),
		Ack("12", []json.RawMessage{json.RawMessage(`"woot"`), json.RawMessage(`"wa"`)}),
		ErrorPacket("unauthorized", "reconnect"),
		Noop(),
	}
	for _, p := range packets {
		encoded, err := Encode(p)
		require.NoError(t, err)
		decoded, err := Decode(encoded)
		require.NoError(t, err)
		reencoded, err := Encode(decoded)
		require.NoError(t, err)
		assert.Equal(t, string(encoded), string(reencoded))
	}
}
