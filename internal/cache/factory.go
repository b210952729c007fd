package cache

import (
	"log/slog"
	"os"
)

// MakeCache picks the cache backend for this deployment: Azure Blob Storage
// when a storage account is configured, a local directory otherwise.
func MakeCache() (ListCache, error) {
	if _, ok := os.LookupEnv("AZURE_STORAGE_ACCOUNT_NAME"); ok {
		slog.Info("using Azure Blob Storage for cache")
		return NewBlobCache("storefront")
	}

	return NewFileCache("cache"), nil
}
