package common

// PaginationResponse represents pagination metadata
type PaginationResponse struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Count    int `json:"count"`
}

// ListResponse represents a paginated list response
type ListResponse struct {
	Data       interface{}         `json:"data"`
	Pagination *PaginationResponse `json:"pagination,omitempty"`
}

// StatusResponse is returned by endpoints with no other payload
type StatusResponse struct {
	Status string `json:"status"`
}
