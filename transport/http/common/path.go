package common

import "strings"

// ParsePath splits the transport-selection path spec.md §6 documents:
// "/{namespace}/1/{transport}/{session_id}[/...]". It returns ok=false if
// path does not start with "/"+namespace+"/1/".
func ParsePath(path, namespace string) (transportName, sessionID string, ok bool) {
	prefix := "/" + namespace + "/1/"
	if !strings.HasPrefix(path, prefix) {
		return "", "", false
	}
	rest := path[len(prefix):]
	parts := strings.SplitN(rest, "/", 2)
	transportName = parts[0]
	if len(parts) > 1 {
		sessionID = strings.SplitN(parts[1], "/", 2)[0]
	}
	return transportName, sessionID, transportName != ""
}
