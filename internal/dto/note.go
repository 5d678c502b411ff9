package dto

type NoteCreateRequest struct {
	Content    string `json:"content"`
	TargetKind string `json:"targetKind"`
	TargetID   string `json:"targetId"`
}

type NoteResolveResponse struct {
	NoteID       uint `json:"noteId"`
	TargetExists bool `json:"targetExists"`
}

type NoteResponse struct {
	ID         uint   `json:"id"`
	Content    string `json:"content"`
	TargetKind string `json:"targetKind"`
	TargetID   string `json:"targetId"`
}
