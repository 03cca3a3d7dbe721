package objectstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	BucketPhotos  = "photos"
	BucketRecords = "records"
)

// Store abstrae el almacenamiento de blobs (fotos, PDFs).
// La integración S3 real queda fuera de este servicio; este puerto es el
// límite con ese colaborador.
type Store interface {
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	Delete(ctx context.Context, bucket, key string) error
	URLFor(bucket, key string) string
}

// KeyFor genera la key de un blob: timestamp de subida, un sufijo único
// (dos subidas en el mismo milisegundo no colisionan) y la extensión
// derivada del content type.
func KeyFor(t time.Time, contentType string) string {
	return fmt.Sprintf("%d-%s%s", t.UnixMilli(), uuid.NewString(), extFor(contentType))
}

func extFor(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
