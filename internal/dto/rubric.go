package dto

type RubricCreateRequest struct {
	Name     string `json:"name"`
	Order    int    `json:"order"`
	ParentID *uint  `json:"parentId,omitempty"`
}

type RubricResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Order    int    `json:"order"`
	ParentID *uint  `json:"parentId,omitempty"`
	Chain    string `json:"chain"`
}
