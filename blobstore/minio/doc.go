// Package minio publishes run artifacts to MinIO and other S3-compatible
// servers through minio-go, without the AWS SDK.
//
//	store, err := minio.Dial("localhost:9000", "artifacts", "runs", false)
//	n, err := store.Put(ctx, "r1/components.bin", f)
package minio
