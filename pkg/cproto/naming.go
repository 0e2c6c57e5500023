package cproto

import "strings"

// Prefix is prepended to the stringified ID to form the runtime-visible name of every
// container the supervisor creates.
const Prefix = "mesos-"

// Name returns the runtime name for id: PREFIX + stringify(id).
func Name(id ID) string {
	return Prefix + id.String()
}

// ParseID parses a runtime-reported container name back into an ID. A leading slash,
// which some runtimes prepend, is tolerated. ok is false if name does not carry the
// reserved prefix.
func ParseID(name string) (id ID, ok bool) {
	name = strings.TrimPrefix(name, "/")
	if !strings.HasPrefix(name, Prefix) {
		return "", false
	}
	return ID(strings.TrimPrefix(name, Prefix)), true
}
