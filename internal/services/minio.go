package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"time"

	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"

	"greenbag_back_end/internal/database"
)

// UploadProductImage pousse l'image d'un produit dans le bucket MinIO et
// retourne la clé d'objet à persister sur le produit.
func UploadProductImage(ctx context.Context, productID gocql.UUID, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := fmt.Sprintf("products/%s/%s", productID, file.Filename)
	_, err = database.MinIO.PutObject(ctx, bucket(), key, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}
	return key, nil
}

// SignedImageURL génère une URL signée à durée limitée pour une clé d'objet —
// l'application mobile ne parle jamais directement à MinIO sans signature.
func SignedImageURL(ctx context.Context, key string, duration time.Duration) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket(), key, duration, url.Values{})
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

// RemoveProductImage supprime l'image d'un produit supprimé du catalogue.
func RemoveProductImage(ctx context.Context, key string) error {
	if database.MinIO == nil || key == "" {
		return nil
	}
	return database.MinIO.RemoveObject(ctx, bucket(), key, minio.RemoveObjectOptions{})
}

func bucket() string {
	return os.Getenv("MINIO_BUCKET")
}
