package model

// LocalIdentity is the sentinel identity used when no remote backend is
// configured. The local path never fails to resolve.
const LocalIdentity = "local"

// Identity is the opaque user handle that namespaces all persisted data.
// It is resolved once at startup and only changes on an explicit logout.
type Identity string

// IsLocal reports whether this identity runs against on-device storage
func (i Identity) IsLocal() bool {
	return i == LocalIdentity
}

// Resolved reports whether an identity has been established
func (i Identity) Resolved() bool {
	return i != ""
}
