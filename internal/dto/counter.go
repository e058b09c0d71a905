package dto

type CounterRequest struct {
	Name string `json:"name" binding:"omitempty,max=64,alphanum"`
}

type CounterResponse struct {
	Name  string `json:"name"`
	Day   string `json:"day"`
	Today int64  `json:"today"`
	Total int64  `json:"total"`
}
