package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	pb "github.com/artem-burashnikov/grpc-rendezvous/api/rendezvouspb"
)

var (
	addr    string
	timeout time.Duration
)

var cmdRoot = &cobra.Command{
	Use:           "rendezvous",
	Short:         "Client for the gRPC rendezvous server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cmdRoot.PersistentFlags().StringVar(&addr, "addr", "localhost:50051", "Server address")
	cmdRoot.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 waits forever)")

	cmdRoot.AddCommand(&cobra.Command{
		Use:   "write KEY DATA",
		Short: "Send DATA on the channel KEY",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), args[0], func(ctx context.Context, c pb.RendezvousClient) error {
				_, err := c.Write(ctx, wrapperspb.Bytes([]byte(args[1])))
				return err
			})
		},
	})

	cmdRoot.AddCommand(&cobra.Command{
		Use:   "read KEY",
		Short: "Wait for a value on the channel KEY and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), args[0], func(ctx context.Context, c pb.RendezvousClient) error {
				v, err := c.Read(ctx, &emptypb.Empty{})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(v.GetValue()))
				return nil
			})
		},
	})

	cmdRoot.AddCommand(&cobra.Command{
		Use:   "stats KEY",
		Short: "Print the queue depths of the channel KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), args[0], func(ctx context.Context, c pb.RendezvousClient) error {
				st, err := c.Stats(ctx, &emptypb.Empty{})
				if err != nil {
					return err
				}
				fields := st.GetFields()
				fmt.Fprintf(cmd.OutOrStdout(), "pending writers: %d\npending readers: %d\n",
					int(fields[pb.StatsPendingWriters].GetNumberValue()),
					int(fields[pb.StatsPendingReaders].GetNumberValue()),
				)
				return nil
			})
		},
	})
}

func withClient(ctx context.Context, key string, fn func(context.Context, pb.RendezvousClient) error) error {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer conn.Close()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return fn(pb.WithKey(ctx, key), pb.NewRendezvousClient(conn))
}

func main() {
	if err := cmdRoot.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
