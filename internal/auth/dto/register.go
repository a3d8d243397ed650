package dto

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterOutput struct {
	User   UserOutput `json:"user"`
	Tokens TokenPair  `json:"tokens"`
}
