// Command socketio-server runs the reference embedding of every transport
// this module implements behind a single net/http server.
package main

import (
	"github.com/coresio/socketio/cmd/socketio-server/cmd"
)

func main() {
	cmd.Execute()
}
