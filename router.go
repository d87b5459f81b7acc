package socketio

// SupportedTransportName reports whether name is one of the transports this
// module implements (spec.md §4.3 / SupportedTransports). transport.Mux does
// not call it; it rejects unknown transport segments by looking them up in
// its own handler map.
func SupportedTransportName(name string) bool {
	for _, t := range SupportedTransports {
		if t == name {
			return true
		}
	}
	return false
}
