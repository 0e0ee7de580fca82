package upload

type Kind string

const (
	KindLogPhoto Kind = "log-photo"
	KindCover    Kind = "cover"
	KindAvatar   Kind = "avatar"
)

type PresignRequest struct {
	Kind        Kind   `json:"kind"`
	ContentType string `json:"contentType"`
}
