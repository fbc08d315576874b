package activity

// Activity is a signup-able event with a capacity and an ordered roster of
// participant emails.
type Activity struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int
	Participants    []string
}

// SpotsLeft is not clamped: inconsistent backend data yields a negative count.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

func (a Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// Catalog is the full set of activities at a point in time, in backend order.
type Catalog struct {
	Activities []Activity
}

func (c Catalog) Len() int { return len(c.Activities) }

func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.Activities))
	for _, a := range c.Activities {
		names = append(names, a.Name)
	}
	return names
}

func (c Catalog) Get(name string) (Activity, bool) {
	for _, a := range c.Activities {
		if a.Name == name {
			return a, true
		}
	}
	return Activity{}, false
}

// Clone returns a deep copy so view state never shares rosters with callers.
func (c Catalog) Clone() Catalog {
	out := Catalog{Activities: make([]Activity, 0, len(c.Activities))}
	for _, a := range c.Activities {
		a.Participants = append([]string(nil), a.Participants...)
		out.Activities = append(out.Activities, a)
	}
	return out
}
