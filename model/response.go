package model

type AuthSuccessResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type AuthFailedResponse struct {
	ErrorMessages []string `json:"errorMessages"`
}
