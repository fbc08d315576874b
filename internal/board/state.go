package board

import "activityboard/internal/domain/activity"

type ListStatus int

const (
	ListLoading ListStatus = iota
	ListReady
	ListFailed
)

func (s ListStatus) String() string {
	switch s {
	case ListReady:
		return "ready"
	case ListFailed:
		return "failed"
	default:
		return "loading"
	}
}

type FeedbackKind string

const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
)

type Feedback struct {
	Text    string
	Kind    FeedbackKind
	Visible bool
}

// Form mirrors the values in the signup form.
type Form struct {
	Email    string
	Activity string
}

// RemovalKey identifies one participant's removal control.
type RemovalKey struct {
	Activity string
	Email    string
}

// ViewState is everything the rendered board is derived from.
type ViewState struct {
	List           ListStatus
	Catalog        activity.Catalog
	Form           Form
	SubmitDisabled bool
	// Removing counts in-flight removals per control.
	Removing map[RemovalKey]int
	Feedback Feedback
}

func (s ViewState) IsRemoving(activityName, email string) bool {
	return s.Removing[RemovalKey{Activity: activityName, Email: email}] > 0
}

func (s ViewState) clone() ViewState {
	out := s
	out.Catalog = s.Catalog.Clone()
	out.Removing = make(map[RemovalKey]int, len(s.Removing))
	for k, v := range s.Removing {
		out.Removing[k] = v
	}
	return out
}
