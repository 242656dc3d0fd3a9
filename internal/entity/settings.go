package entity

const DefaultAvatar = "default-avatar.png"

type Settings struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (s Settings) HasCustomAvatar() bool {
	return s.Avatar != "" && s.Avatar != DefaultAvatar
}
