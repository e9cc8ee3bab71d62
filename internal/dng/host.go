package dng

// Save version written by default. This package never writes files; the
// setting is kept so a Host reads the same as the reference SDK's.
var VersionSaveDefault = Version{1, 7, 1, 0}

// Host holds the parsing context shared by one load.
type Host struct {
	preferredSize  uint32
	minimumSize    uint32
	maximumSize    uint32
	saveDNGVersion Version
	ignoreEnhanced bool
	forPreview     bool
}

func NewHost() *Host {
	return &Host{saveDNGVersion: VersionSaveDefault}
}

func (h *Host) SetPreferredSize(size uint32) { h.preferredSize = size }
func (h *Host) SetMinimumSize(size uint32)   { h.minimumSize = size }
func (h *Host) SetMaximumSize(size uint32)   { h.maximumSize = size }
func (h *Host) SetSaveDNGVersion(v Version)  { h.saveDNGVersion = v }
func (h *Host) SetIgnoreEnhanced(b bool)     { h.ignoreEnhanced = b }
func (h *Host) SetForPreview(b bool)         { h.forPreview = b }

func (h *Host) PreferredSize() uint32   { return h.preferredSize }
func (h *Host) MinimumSize() uint32     { return h.minimumSize }
func (h *Host) MaximumSize() uint32     { return h.maximumSize }
func (h *Host) SaveDNGVersion() Version { return h.saveDNGVersion }
func (h *Host) IgnoreEnhanced() bool    { return h.ignoreEnhanced }
func (h *Host) ForPreview() bool        { return h.forPreview }

// ValidateSizes makes the size limits consistent: maximum is never below
// minimum, and a preferred size is clamped into [minimum, maximum]. Zero
// means unconstrained.
func (h *Host) ValidateSizes() {
	if h.maximumSize != 0 && h.maximumSize < h.minimumSize {
		h.maximumSize = h.minimumSize
	}
	if h.preferredSize == 0 {
		h.preferredSize = h.minimumSize
		return
	}
	if h.preferredSize < h.minimumSize {
		h.preferredSize = h.minimumSize
	}
	if h.maximumSize != 0 && h.preferredSize > h.maximumSize {
		h.preferredSize = h.maximumSize
	}
}

// MakeNegative returns an empty negative bound to this host.
func (h *Host) MakeNegative() *Negative {
	return newNegative(h)
}
