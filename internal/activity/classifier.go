package activity

// Transition classifies a voice-state change from a previous/next channel
// pair. An empty channel id means the user is in no voice channel.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionJoin
	TransitionLeave
	TransitionMove
)

func (tr Transition) String() string {
	switch tr {
	case TransitionJoin:
		return "join"
	case TransitionLeave:
		return "leave"
	case TransitionMove:
		return "move"
	default:
		return "none"
	}
}

// ClassifyTransition maps a previous/next channel pair to a transition.
// Staying in the same channel (mute, deafen, stream toggles) and updates
// with no channel on either side classify as TransitionNone.
func ClassifyTransition(prevChannelID, nextChannelID string) Transition {
	switch {
	case prevChannelID == "" && nextChannelID != "":
		return TransitionJoin
	case prevChannelID != "" && nextChannelID == "":
		return TransitionLeave
	case prevChannelID != "" && prevChannelID != nextChannelID:
		return TransitionMove
	default:
		return TransitionNone
	}
}
