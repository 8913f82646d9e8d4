package stores

import (
	"os"

	"cardcraft/core"
	"cardcraft/kv"
	"cardcraft/stores/aws"
	"cardcraft/stores/cookie"
	"cardcraft/stores/memory"
	"cardcraft/stores/sqlite"

	"github.com/sirupsen/logrus"
)

// GetStore picks the collection store from the environment. The
// default is the cookie-style store over a file-backed key-value
// connection, matching the original tool's cookie persistence; sqlite
// and s3 are the higher-capacity swap-ins behind the same interface.
func GetStore() core.CollectionStore {
	storageType := os.Getenv("STORAGE_TYPE")
	var store core.CollectionStore

	storageField := logrus.Fields{
		"storageType": storageType,
	}

	switch storageType {
	case "sqlite":
		dataSourceName := os.Getenv("DATA_SOURCE_NAME")
		if dataSourceName == "" {
			dataSourceName = "cardcraft.db" // Default filename
		}
		storageField["dataSourceName"] = dataSourceName
		store = sqlite.NewStore(dataSourceName)
	case "s3":
		bucketName := os.Getenv("S3_BUCKET_NAME")
		if bucketName == "" {
			logrus.Fatal("S3_BUCKET_NAME environment variable must be set for s3 storage type")
		}
		storageField["bucketName"] = bucketName
		store = aws.NewStore(bucketName)
	case "memory":
		store = memory.NewStore()
		storageField["storageType"] = "in-memory"
	default:
		basePath := os.Getenv("LOCAL_STORAGE_PATH")
		if basePath == "" {
			basePath = "./data" // Default path
		}
		storageField["storageType"] = "cookie"
		storageField["basePath"] = basePath
		store = cookie.NewStore(kv.NewFileConn(basePath))
	}
	logrus.WithFields(storageField).Info("Use storage")
	return store
}
