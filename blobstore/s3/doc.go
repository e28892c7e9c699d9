// Package s3 publishes run artifacts to Amazon S3 or an S3-compatible server
// through the AWS SDK.
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("runs/"),
//	    s3.WithRegion("eu-west-1"),
//	)
//	n, err := store.Put(ctx, "r1/components.bin", f)
//
// Large artifacts go up as multipart uploads with CRC32C part checksums.
// PublishGuard claims a publish target in DynamoDB so two runs never write
// under the same prefix at once.
package s3
