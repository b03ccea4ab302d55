package scene

type LightFlags uint8

const (
	DeltaPositionLight LightFlags = 1 << iota
	DeltaDirectionLight
	AreaLight
	InfiniteLight
)

// A light source. Light sampling is handled by the integrator; the scene
// only tracks which lights exist and which of them are infinite.
type Light interface {
	Flags() LightFlags
}

// Lights that need access to the finished scene (e.g. to size themselves
// using the scene bounds) implement Preprocessor.
type Preprocessor interface {
	Preprocess(s *Scene)
}

// A light with a fixed set of flags. Mostly useful for tests and tools that
// only need the scene bookkeeping.
type FlaggedLight LightFlags

// Flags implements Light.
func (l FlaggedLight) Flags() LightFlags {
	return LightFlags(l)
}
