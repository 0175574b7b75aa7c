package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// Blob stores artifacts in an Azure Blob Storage container. Used when a
// project mirrors its generated notebooks to a remote archive store. Blob
// commits are atomic on the service side, so the Write contract holds
// without a local temp-file dance.
type Blob struct {
	client    *azblob.Client
	container string
}

// NewBlob connects to the given storage account using the default Azure
// credential chain (environment, workload identity, managed identity, CLI).
func NewBlob(accountURL, container string) (*Blob, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("resolving Azure credential: %w", err)
	}
	return NewBlobWithCredential(accountURL, container, cred)
}

// NewBlobWithCredential connects with an explicit credential. Split out so
// tests and callers with their own credential flow can inject one.
func NewBlobWithCredential(accountURL, container string, cred azcore.TokenCredential) (*Blob, error) {
	client, err := azblob.NewClient(accountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client for %q: %w", accountURL, err)
	}
	return &Blob{client: client, container: container}, nil
}

// Exists reports whether a blob is present under name.
func (b *Blob) Exists(ctx context.Context, name string) (bool, error) {
	blobClient := b.client.ServiceClient().NewContainerClient(b.container).NewBlobClient(name)
	_, err := blobClient.GetProperties(ctx, nil)
	if err == nil {
		return true, nil
	}
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("checking blob %q: %w", name, err)
}

// Read downloads the full content of the blob under name.
func (b *Blob) Read(ctx context.Context, name string) ([]byte, error) {
	resp, err := b.client.DownloadStream(ctx, b.container, name, nil)
	if err != nil {
		return nil, fmt.Errorf("downloading blob %q: %w", name, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading blob %q: %w", name, err)
	}
	return data, nil
}

// Write uploads data to the blob under name, replacing any existing blob.
func (b *Blob) Write(ctx context.Context, name string, data []byte) error {
	if _, err := b.client.UploadBuffer(ctx, b.container, name, data, nil); err != nil {
		return fmt.Errorf("uploading blob %q: %w", name, err)
	}
	return nil
}
