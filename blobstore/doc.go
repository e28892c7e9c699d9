// Package blobstore defines where finished run artifacts are published.
//
// A Store takes whole artifacts as streams and hands them back for
// verification:
//
//	n, err := store.Put(ctx, "r1/components.bin", f)
//	rc, size, err := store.Get(ctx, "r1/components.bin")
//
// LocalStore writes into a directory and MemoryStore serves tests. The minio
// and s3 subpackages publish to object storage.
package blobstore
