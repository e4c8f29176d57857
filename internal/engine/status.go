package engine

// Status is the result of a player request. Expected rejections are reported
// here instead of as errors.
type Status int

const (
	Completed Status = iota
	FailUnspecified
	FailWrongPlayer
	FailNoResources
	FailQueueFull
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "Completed"
	case FailUnspecified:
		return "FailUnspecified"
	case FailWrongPlayer:
		return "FailWrongPlayer"
	case FailNoResources:
		return "FailNoResources"
	case FailQueueFull:
		return "FailQueueFull"
	}
	return "Unknown"
}

// OK reports whether the request was accepted
func (s Status) OK() bool { return s == Completed }
