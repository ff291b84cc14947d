package host

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Pointer is an opaque address of a host-owned object. Zero means null.
type Pointer uintptr

// IsNull reports whether p is the null pointer.
func (p Pointer) IsNull() bool {
	return p == 0
}

func (p Pointer) String() string {
	return fmt.Sprintf("0x%x", uintptr(p))
}

// Kind names the type of object a pointer is expected to denote, using the
// host's own type strings.
type Kind string

const (
	KindProject Kind = "ReaProject*"
	KindTrack   Kind = "MediaTrack*"
	KindSource  Kind = "PCM_source*"
)

// Guid is the host-assigned stable identity of an object. It survives
// reordering, unlike positional indexes.
type Guid [16]byte

// IsZero reports whether g is the all-zero GUID the host uses for "none".
func (g Guid) IsZero() bool {
	return g == Guid{}
}

// String formats g the way the host does: upper case, wrapped in braces.
func (g Guid) String() string {
	return "{" + strings.ToUpper(uuid.UUID(g).String()) + "}"
}

// ParseGuid parses a GUID with or without surrounding braces.
func ParseGuid(s string) (Guid, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "{"), "}")
	u, err := uuid.Parse(trimmed)
	if err != nil {
		return Guid{}, fmt.Errorf("invalid guid %q: %w", s, err)
	}
	return Guid(u), nil
}

// Version is the host application version.
type Version struct {
	Raw   string
	Major int
	Minor int
}

// ParseVersion parses strings such as "7.22/linux-x86_64" or "6.83+dev0815".
func ParseVersion(raw string) Version {
	v := Version{Raw: raw}
	s := raw
	if i := strings.IndexAny(s, "/+ "); i >= 0 {
		s = s[:i]
	}
	major, minor, _ := strings.Cut(s, ".")
	v.Major, _ = strconv.Atoi(major)
	digits := minor
	for i, r := range minor {
		if r < '0' || r > '9' {
			digits = minor[:i]
			break
		}
	}
	v.Minor, _ = strconv.Atoi(digits)
	return v
}

// AtLeast reports whether v is major.minor or newer.
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

func (v Version) String() string {
	return v.Raw
}
