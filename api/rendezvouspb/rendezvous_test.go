package rendezvouspb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestServiceDescMethodNames(t *testing.T) {
	full := map[string]string{
		"Write": Rendezvous_Write_FullMethodName,
		"Read":  Rendezvous_Read_FullMethodName,
		"Stats": Rendezvous_Stats_FullMethodName,
	}

	assert.Len(t, Rendezvous_ServiceDesc.Methods, len(full))
	for _, m := range Rendezvous_ServiceDesc.Methods {
		assert.Equal(t, "/"+Rendezvous_ServiceDesc.ServiceName+"/"+m.MethodName, full[m.MethodName])
		assert.NotNil(t, m.Handler, m.MethodName)
	}
	assert.Empty(t, Rendezvous_ServiceDesc.Metadata, "no .proto file backs this service")
}

func TestKeyFromContext(t *testing.T) {
	tests := []struct {
		name string
		md   metadata.MD
		key  string
		ok   bool
	}{
		{name: "single", md: metadata.Pairs(KeyHeader, "orders"), key: "orders", ok: true},
		{name: "missing", md: metadata.MD{}},
		{name: "ambiguous", md: metadata.Pairs(KeyHeader, "a", KeyHeader, "b")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := KeyFromContext(metadata.NewIncomingContext(context.Background(), tt.md))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
		})
	}

	_, ok := KeyFromContext(context.Background())
	assert.False(t, ok, "no metadata")
}
