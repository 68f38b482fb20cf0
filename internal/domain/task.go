package domain

import "fmt"

// Priority is the urgency level of a task.
type Priority uint8

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// DefaultPriority is used when the caller does not specify one.
const DefaultPriority = PriorityMedium

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return fmt.Sprintf("priority(%d)", uint8(p))
}

// ParsePriority converts the wire form ("low", "medium", "high") back to a Priority.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return 0, fmt.Errorf("unknown priority %q", s)
}

// Domain entity: the record stored per task.
// Does not depend on Gin, SQLite or Redis.
type Task struct {
	ID          uint32
	Description string
	IsCompleted bool
	Priority    Priority
	Tags        []string
}

// NewTask creates a task that is not completed and has no tags.
func NewTask(id uint32, description string, priority Priority) Task {
	return Task{
		ID:          id,
		Description: description,
		Priority:    priority,
	}
}

// AddTag appends tag unconditionally. Duplicates are allowed and
// insertion order is preserved.
func (t *Task) AddTag(tag string) {
	t.Tags = append(t.Tags, tag)
}

// RemoveTag removes every occurrence of tag. Removing an absent tag is a no-op.
func (t *Task) RemoveTag(tag string) {
	kept := t.Tags[:0]
	for _, v := range t.Tags {
		if v != tag {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		t.Tags = nil
		return
	}
	t.Tags = kept
}

// Clone returns a copy whose tag slice does not alias the receiver's.
func (t Task) Clone() Task {
	out := t
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	return out
}
