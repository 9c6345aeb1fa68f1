package mansion

// A JunctionResult is sent in json mode once a junction has been
// created or removed
//
// For commands `pin`, `unpin`
type JunctionResult struct {
	Type   string `json:"type"`
	Path   string `json:"path"`
	Target string `json:"target,omitempty"`
}

// A ProbeResult describes what a path currently is
//
// For command `probe`
type ProbeResult struct {
	Type     string `json:"type"`
	Path     string `json:"path"`
	Junction bool   `json:"junction"`
	Target   string `json:"target,omitempty"`
}

// A WalkResult is sent for each junction found under the walked root
//
// For command `walk`
type WalkResult struct {
	Type   string `json:"type"`
	Path   string `json:"path"`
	Target string `json:"target"`
}

// An AppliedResult sums up a manifest run
//
// For command `apply`
type AppliedResult struct {
	Type    string `json:"type"`
	Applied int    `json:"applied"`
	DryRun  bool   `json:"dryRun,omitempty"`
}
