package storage

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"go-image-similarity/internal/raster"
)

// azureFetcher resolves refs of the form
// https://host/<container>?blob=<name> against Azure Blob Storage.
type azureFetcher struct {
	client *azblob.Client
}

// NewAzureFetcher creates a blob-backed image fetcher.
func NewAzureFetcher(accountName, accountKey string) (ImageFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureFetcher{client: client}, nil
}

func (s *azureFetcher) FetchImage(ctx context.Context, ref string) (*raster.Image, error) {
	parsedURL, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid blob URL: %w", err)
	}

	containerName := parsedURL.Path[1:]
	blobName := parsedURL.Query().Get("blob")

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	return raster.Decode(retryReader)
}
