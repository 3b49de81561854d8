package model

// GenerateRequest represents a password generation request.
// Pointer fields distinguish a missing value (nil -> default) from an explicit one.
type GenerateRequest struct {
	Length      *int  `json:"length"`
	Symbols     *bool `json:"symbols"`
	Numbers     *bool `json:"numbers"`
	OnlyLetters bool  `json:"only_letters"`
	Hash        bool  `json:"hash"`
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
	PoolSize int    `json:"pool_size"`
	Hash     string `json:"hash,omitempty"`
}
