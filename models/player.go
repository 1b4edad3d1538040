package models

type Player struct {
	ID             int     `json:"id"`
	RegistrationID int     `json:"registration_id"`
	Category       string  `json:"category"`
	FullName       string  `json:"full_name"`
	NickName       *string `json:"nick_name"`
	PhoneNumber    string  `json:"phone_number"`
	Gender         *string `json:"gender"`
	DateOfBirth    *string `json:"date_of_birth"`
	AvatarPath     *string `json:"avatar_path"`
}
