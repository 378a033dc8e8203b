package upload

import (
	"context"

	"github.com/riskibarqy/athlete-imagery/external/cloudinary"
	"github.com/riskibarqy/athlete-imagery/internal/infrastructure/storage/local"
)

type localProvider struct {
	storage *local.Storage
}

// NewLocalProvider hosts images on the local media directory.
func NewLocalProvider(storage *local.Storage) HostingProvider {
	return &localProvider{storage: storage}
}

func (p *localProvider) Name() string { return "local" }

func (p *localProvider) Store(ctx context.Context, input StoreInput) (string, error) {
	return p.storage.Save(ctx, input.Namespace, input.Name+input.Extension, input.Data)
}

type cloudinaryProvider struct {
	client *cloudinary.Client
}

// NewCloudinaryProvider hosts images through Cloudinary signed uploads.
func NewCloudinaryProvider(client *cloudinary.Client) HostingProvider {
	return &cloudinaryProvider{client: client}
}

func (p *cloudinaryProvider) Name() string { return "cloudinary" }

func (p *cloudinaryProvider) Store(ctx context.Context, input StoreInput) (string, error) {
	return p.client.Upload(ctx, cloudinary.UploadInput{
		Folder:      input.Namespace,
		PublicID:    input.Name,
		Filename:    input.Name + input.Extension,
		ContentType: input.ContentType,
		Data:        input.Data,
	})
}
