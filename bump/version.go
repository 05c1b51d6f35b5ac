package bump

// Version information for the bumplocal allocator.
const (
	// Version is the current version of the allocator.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about the allocator.
type Info struct {
	// Version is the version string.
	Version string

	// Engine is the allocation strategy backing each goroutine slot.
	Engine string
}

// GetInfo returns information about the allocator runtime.
//
// Example:
//
//	info := bump.GetInfo()
//	fmt.Printf("bumplocal %s (%s)\n", info.Version, info.Engine)
func GetInfo() Info {
	return Info{
		Version: Version,
		Engine:  "chunked bump pointer, goroutine-local",
	}
}
