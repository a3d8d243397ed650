package dto

type AckOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type FollowerIDsOutput struct {
	Followers []string `json:"followers"`
}
