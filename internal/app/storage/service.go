/*
Package storage persists canvas snapshots to an S3-compatible bucket, best
effort. It backs the coordinator's catch-up path for rooms that emptied out and
were later re-joined; a failed write or read only costs catch-up data, never
correctness of the live session.
*/
package storage

import "collabboard/internal/app/board"

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// NewSnapshotArchive is the factory function for the snapshot archive.
// It initializes and returns a concrete implementation based on the provided configuration.
func NewSnapshotArchive(cfg ServiceConfig) (board.SnapshotArchive, error) {
	// Currently, only S3 compatible implementations are supported.
	return newS3Client(cfg)
}
