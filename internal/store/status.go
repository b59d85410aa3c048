package store

// Collection names as they appear in user-facing status messages.
const (
	CollectionSegment = "segment"
	CollectionBrand   = "brand"
	CollectionVehicle = "vehicle"
)

// Transient status messages surfaced by callers. They are informational
// only and never part of persisted state.
const (
	StatusGetError      = "Get error!"
	StatusLoginOK       = "Successfully logged in!"
	StatusLoginError    = "Login error!"
	StatusRegisterError = "Registration error!"
)

func StatusUpdated(collection string) string {
	return "Updated in " + collection + "!"
}

func StatusDeleted(collection string) string {
	return "Deleted in " + collection + "!"
}
