// Package rendezvouspb defines the rendezvous.v1.Rendezvous gRPC service.
//
// Messages are protobuf well-known types; the channel key is carried in the
// KeyHeader metadata entry of every call. There is no .proto file: the
// service descriptor is written by hand in the layout protoc-gen-go-grpc
// produces.
package rendezvouspb

import (
	"context"

	"google.golang.org/grpc/metadata"
)

const (
	// KeyHeader is the metadata entry holding the channel key.
	KeyHeader = "rendezvous-key"

	// StatsPendingWriters and StatsPendingReaders are the fields of a Stats reply.
	StatsPendingWriters = "pending_writers"
	StatsPendingReaders = "pending_readers"
)

// WithKey returns a context that addresses the channel named key.
func WithKey(ctx context.Context, key string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, KeyHeader, key)
}

// KeyFromContext extracts the channel key from incoming call metadata.
func KeyFromContext(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	vals := md.Get(KeyHeader)
	if len(vals) != 1 {
		return "", false
	}
	return vals[0], true
}
