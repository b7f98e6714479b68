package skill

// Kind is the kind of platform request carried by an Envelope.
type Kind int

const (
	KindLaunch Kind = iota + 1
	KindIntent
	KindSessionStarted
	KindSessionEnded
)

func (k Kind) String() string {
	switch k {
	case KindLaunch:
		return "launch"
	case KindIntent:
		return "intent"
	case KindSessionStarted:
		return "session_started"
	case KindSessionEnded:
		return "session_ended"
	default:
		return "unknown"
	}
}

// SlotCharacter names the slot holding the character a user asked about.
const SlotCharacter = "character"

// Envelope is one decoded platform request.
type Envelope struct {
	RequestID  string
	SessionID  string
	Kind       Kind
	IntentName string
	Slots      map[string]string
}

// Slot returns the trimmed value of a slot and whether it holds anything.
func (e Envelope) Slot(name string) (string, bool) {
	v, ok := e.Slots[name]
	if !ok {
		return "", false
	}
	return v, trimmed(v) != ""
}
