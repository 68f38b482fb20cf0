package dto

// CreateTaskRequest is the JSON body for POST /tasks. Priority is optional;
// the service substitutes the default. Any description is accepted here —
// only updates reject empty text.
type CreateTaskRequest struct {
	Description string  `json:"description"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// UpdateTaskRequest is the JSON body for PATCH /tasks/:id.
type UpdateTaskRequest struct {
	Description string `json:"description"`
}

// SetPriorityRequest is the JSON body for PUT /tasks/:id/priority.
type SetPriorityRequest struct {
	Priority string `json:"priority" binding:"required,oneof=low medium high"`
}

// AddTagRequest is the JSON body for POST /tasks/:id/tags.
type AddTagRequest struct {
	Tag string `json:"tag"`
}

type TaskResponse struct {
	ID          uint32   `json:"id"`
	Description string   `json:"description"`
	IsCompleted bool     `json:"is_completed"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
}

type ListTasksResponse struct {
	Items []TaskResponse `json:"items"`
}
