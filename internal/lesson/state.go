package lesson

// Phase is the coarse state of the lesson controller.
type Phase int

const (
	// PhaseLoadingPlan indicates no slide plan is available yet. No slide
	// index is valid and no per-slide asset loads may be triggered.
	PhaseLoadingPlan Phase = iota

	// PhaseReady indicates a slide plan is loaded and navigable.
	PhaseReady
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseLoadingPlan:
		return "loading_plan"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Snapshot is the view-facing state of the controller at one instant. The
// presentation layer polls it and renders; it never mutates controller
// state directly.
type Snapshot struct {
	Phase      Phase
	TopicTitle string

	// Index and Total are valid only in PhaseReady.
	Index int
	Total int

	// Script is the narration text of the current slide.
	Script string

	// Image is the displayable handle for the current slide, empty while
	// loading or unavailable.
	Image string

	PlanLoading  bool
	ImageLoading bool
	Speaking     bool
	Gain         float64
}
