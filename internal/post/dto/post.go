package dto

type CreatePostInput struct {
	Caption  string `json:"caption"`
	MediaURL string `json:"mediaUrl"`
}
