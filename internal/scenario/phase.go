package scenario

// Phase is a stage of a scenario. Phases only move forward; a journey may
// skip phases it has no use for.
type Phase int

const (
	NotStarted Phase = iota
	Navigated
	Authenticated
	OnTargetView
	FormFilled
	Submitted
	Verified
)

var phaseNames = [...]string{
	NotStarted:    "not-started",
	Navigated:     "navigated",
	Authenticated: "authenticated",
	OnTargetView:  "on-target-view",
	FormFilled:    "form-filled",
	Submitted:     "submitted",
	Verified:      "verified",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}
