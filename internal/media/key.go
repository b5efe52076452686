package media

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultContentType é assumido quando o cliente não declara um tipo.
const DefaultContentType = "image/jpeg"

const defaultExtension = "jpg"

var extensionByContentType = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// ObjectKey deriva a chave isolada por namespace do dono:
// {userId}/{postId}/{uuid}.{ext}. O uuid vem de fonte criptográfica,
// o que torna a chave impraticável de adivinhar ou colidir.
func ObjectKey(userID, postID, contentType string) string {
	return fmt.Sprintf("%s/%s/%s.%s", userID, postID, uuid.NewString(), extensionFor(contentType))
}

// Tipos desconhecidos caem no default em vez de falhar.
func extensionFor(contentType string) string {
	if ext, ok := extensionByContentType[contentType]; ok {
		return ext
	}
	return defaultExtension
}
