package minio

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/DRSN-tech/basket-backend/internal/cfg"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageRepo_PresignedURL(t *testing.T) {
	mc, err := minio.New("minio.local:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)

	repo := NewImageRepo(mc, &cfg.MinIOCfg{BucketName: "product-images", PresignTTL: 10 * time.Minute})

	raw, err := repo.PresignedURL(context.Background(), "products/1/milk.png")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "minio.local:9000", u.Host)
	assert.Equal(t, "/product-images/products/1/milk.png", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
}
